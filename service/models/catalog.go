/*
 * @module service/models/catalog
 * @description 数据集目录持久化模型，存储受监测数据集及其最新评估摘要
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 数据集登记 -> 定时评估 -> 最新摘要覆盖写入
 * @rules 只保留最新一次评估摘要，不保留历史，不计算合规漂移
 * @dependencies gorm.io/gorm, github.com/lib/pq, github.com/google/uuid
 * @refs service/catalog/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DatasetEntry 登记在目录中的数据集
type DatasetEntry struct {
	ID   string `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name string `gorm:"type:varchar(200);not null" json:"name"`
	// SourceType 数据来源类型
	SourceType string `gorm:"type:varchar(20);not null" json:"source_type" enums:"inline,portal,url"`
	// PortalID 国家开放数据门户上的数据集标识（SourceType=portal 时有效）
	PortalID string `gorm:"type:varchar(100)" json:"portal_id,omitempty"`
	// DataURL 原始数据下载地址（SourceType=url 时有效）
	DataURL string `gorm:"type:varchar(500)" json:"data_url,omitempty"`
	// DataFormat 原始数据格式标识，csv 或 json
	DataFormat string `gorm:"type:varchar(20)" json:"data_format,omitempty"`
	// Keywords 检索关键词
	Keywords pq.StringArray `gorm:"type:text[]" json:"keywords,omitempty" swaggertype:"array,string"`
	// Metadata 规范元数据记录的JSON形态
	Metadata JSONB `gorm:"type:jsonb" json:"metadata"`
	// LatestScore / LatestStatus 最新一次评估摘要，覆盖写入
	LatestScore    float64    `json:"latest_score"`
	LatestStatus   string     `gorm:"type:varchar(20)" json:"latest_status"`
	LastAssessedAt *time.Time `json:"last_assessed_at,omitempty"`
	// ScheduleEnabled 是否纳入周期性重评
	ScheduleEnabled bool      `gorm:"default:true" json:"schedule_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatedBy       string    `gorm:"type:varchar(50)" json:"created_by"`
}

// TableName 指定表名
func (DatasetEntry) TableName() string {
	return "dataset_entries"
}

// BeforeCreate 创建前钩子
func (d *DatasetEntry) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// AccessKey API访问密钥模型，密钥本体仅保存bcrypt哈希
type AccessKey struct {
	ID      string `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Prefix  string `gorm:"type:varchar(12);not null;index" json:"prefix"`
	KeyHash string `gorm:"type:varchar(100);not null" json:"-"`
	// Scopes 授权范围
	Scopes    pq.StringArray `gorm:"type:text[]" json:"scopes" swaggertype:"array,string"`
	IsEnabled bool           `gorm:"default:true" json:"is_enabled"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (AccessKey) TableName() string {
	return "access_keys"
}

// BeforeCreate 创建前钩子
func (k *AccessKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}
