/*
 * @module service/access/key_service
 * @description 接入密钥服务：密钥签发、bcrypt哈希存储与校验、作用域检查
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 签发（明文只返回一次）-> 哈希落库 -> 请求时前缀定位 + bcrypt比对
 * @rules 明文密钥从不落库；前缀用于索引定位，比对只走 bcrypt
 * @dependencies gorm.io/gorm, golang.org/x/crypto/bcrypt
 * @refs service/models/catalog.go, api/middleware/access_key_auth.go
 */

package access

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"opendata-compliance-service/service/models"
)

// 密钥格式：odc_<8位前缀><40位秘密部分>
const (
	keyPrefixLen = 8
	keySecretLen = 40
	keyScheme    = "odc_"
)

// KeyService 接入密钥服务
type KeyService struct {
	db *gorm.DB
}

// NewKeyService 创建接入密钥服务
func NewKeyService(db *gorm.DB) *KeyService {
	return &KeyService{db: db}
}

// IssuedKey 签发结果，PlainKey 只在签发时返回一次
type IssuedKey struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	PlainKey string    `json:"plain_key"`
	Scopes   []string  `json:"scopes"`
	IssuedAt time.Time `json:"issued_at"`
}

// Issue 签发新密钥
func (s *KeyService) Issue(name string, scopes []string) (*IssuedKey, error) {
	raw := make([]byte, (keyPrefixLen+keySecretLen)/2)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("生成密钥随机数失败: %w", err)
	}
	encoded := hex.EncodeToString(raw)
	prefix := encoded[:keyPrefixLen]
	plain := keyScheme + encoded

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密钥哈希失败: %w", err)
	}

	key := &models.AccessKey{
		Name:      name,
		Prefix:    prefix,
		KeyHash:   string(hash),
		Scopes:    scopes,
		IsEnabled: true,
	}
	if err := s.db.Create(key).Error; err != nil {
		return nil, fmt.Errorf("保存接入密钥失败: %w", err)
	}

	return &IssuedKey{
		ID:       key.ID,
		Name:     key.Name,
		PlainKey: plain,
		Scopes:   scopes,
		IssuedAt: key.CreatedAt,
	}, nil
}

// Verify 校验明文密钥，返回命中的密钥记录
func (s *KeyService) Verify(plain string) (*models.AccessKey, error) {
	if !strings.HasPrefix(plain, keyScheme) || len(plain) < len(keyScheme)+keyPrefixLen {
		return nil, fmt.Errorf("密钥格式不合法")
	}
	prefix := plain[len(keyScheme) : len(keyScheme)+keyPrefixLen]

	var key models.AccessKey
	if err := s.db.Where("prefix = ? AND is_enabled = ?", prefix, true).First(&key).Error; err != nil {
		return nil, fmt.Errorf("密钥不存在或已禁用")
	}
	if key.ExpiresAt != nil && time.Now().After(*key.ExpiresAt) {
		return nil, fmt.Errorf("密钥已过期")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(plain)); err != nil {
		return nil, fmt.Errorf("密钥校验失败")
	}
	return &key, nil
}

// HasScope 密钥是否具备指定作用域，通配 * 表示全部
func HasScope(key *models.AccessKey, scope string) bool {
	for _, s := range key.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}

// Revoke 吊销密钥
func (s *KeyService) Revoke(id string) error {
	result := s.db.Model(&models.AccessKey{}).Where("id = ?", id).Update("is_enabled", false)
	if result.Error != nil {
		return fmt.Errorf("吊销密钥失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("密钥不存在: %s", id)
	}
	return nil
}

// List 列出全部密钥（不含哈希）
func (s *KeyService) List() ([]models.AccessKey, error) {
	var keys []models.AccessKey
	if err := s.db.Order("created_at desc").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("查询接入密钥失败: %w", err)
	}
	for i := range keys {
		keys[i].KeyHash = ""
	}
	return keys, nil
}
