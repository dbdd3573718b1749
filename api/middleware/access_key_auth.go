/*
 * @module api/middleware/access_key_auth
 * @description 接入密钥鉴权中间件，验证 Bearer 密钥并注入密钥信息到请求上下文
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 密钥提取 -> 缓存查找/bcrypt校验 -> 上下文注入 -> 下一个处理器
 * @rules 白名单路径跳过鉴权；校验结果短时缓存，避免每个请求都做bcrypt比对
 * @dependencies net/http, service/access
 * @refs api/routes.go, service/access/key_service.go
 */

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"

	"opendata-compliance-service/service/access"
	"opendata-compliance-service/service/models"
)

// ContextKey 上下文键类型
type ContextKey string

// AccessKeyCtxKey 密钥信息在上下文中的键
const AccessKeyCtxKey ContextKey = "access_key"

// AccessKeyAuthMiddleware 接入密钥鉴权中间件
type AccessKeyAuthMiddleware struct {
	keys *access.KeyService
	// 校验结果缓存，避免每个请求重复bcrypt比对
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
	cacheTTL   time.Duration
	// 白名单路径（不需要鉴权）
	whitelistPaths []string
}

// cacheEntry 缓存条目
type cacheEntry struct {
	key       *models.AccessKey
	expiresAt time.Time
}

// NewAccessKeyAuthMiddleware 创建接入密钥鉴权中间件实例
func NewAccessKeyAuthMiddleware(keys *access.KeyService) *AccessKeyAuthMiddleware {
	return &AccessKeyAuthMiddleware{
		keys:     keys,
		cache:    make(map[string]*cacheEntry),
		cacheTTL: 5 * time.Minute,
		whitelistPaths: []string{
			"/health",
			"/ready",
			"/swagger",
			"/metrics",
		},
	}
}

// AddWhitelistPath 添加白名单路径
func (m *AccessKeyAuthMiddleware) AddWhitelistPath(path string) {
	m.whitelistPaths = append(m.whitelistPaths, path)
}

// IsWhitelistPath 检查路径是否在白名单中（前缀匹配）
func (m *AccessKeyAuthMiddleware) IsWhitelistPath(path string) bool {
	for _, whitelistPath := range m.whitelistPaths {
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// Middleware 鉴权中间件处理函数
func (m *AccessKeyAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.IsWhitelistPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, r, "缺少Authorization头")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.respondUnauthorized(w, r, "无效的Authorization格式，需要Bearer密钥")
			return
		}
		plain := strings.TrimPrefix(authHeader, "Bearer ")
		if plain == "" {
			m.respondUnauthorized(w, r, "密钥为空")
			return
		}

		if key := m.getFromCache(plain); key != nil {
			next.ServeHTTP(w, r.WithContext(withAccessKey(r.Context(), key)))
			return
		}

		key, err := m.keys.Verify(plain)
		if err != nil {
			m.respondUnauthorized(w, r, fmt.Sprintf("密钥验证失败: %v", err))
			return
		}
		m.saveToCache(plain, key)

		next.ServeHTTP(w, r.WithContext(withAccessKey(r.Context(), key)))
	})
}

// RequireScope 创建一个需要特定作用域的中间件
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := AccessKeyFromContext(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "未找到密钥信息",
					"error":   "Unauthorized",
				})
				return
			}
			if !access.HasScope(key, scope) {
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, map[string]interface{}{
					"status":  http.StatusForbidden,
					"message": fmt.Sprintf("缺少所需作用域: %s", scope),
					"error":   "Forbidden",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessKeyFromContext 从上下文中获取密钥信息
func AccessKeyFromContext(ctx context.Context) (*models.AccessKey, bool) {
	key, ok := ctx.Value(AccessKeyCtxKey).(*models.AccessKey)
	return key, ok
}

func withAccessKey(ctx context.Context, key *models.AccessKey) context.Context {
	return context.WithValue(ctx, AccessKeyCtxKey, key)
}

func (m *AccessKeyAuthMiddleware) getFromCache(plain string) *models.AccessKey {
	m.cacheMutex.RLock()
	defer m.cacheMutex.RUnlock()

	entry, exists := m.cache[plain]
	if !exists {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		go m.removeFromCache(plain)
		return nil
	}
	return entry.key
}

func (m *AccessKeyAuthMiddleware) saveToCache(plain string, key *models.AccessKey) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	expiry := time.Now().Add(m.cacheTTL)
	if key.ExpiresAt != nil && key.ExpiresAt.Before(expiry) {
		expiry = *key.ExpiresAt
	}
	m.cache[plain] = &cacheEntry{key: key, expiresAt: expiry}
}

func (m *AccessKeyAuthMiddleware) removeFromCache(plain string) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()
	delete(m.cache, plain)
}

// ClearExpiredCache 清理过期缓存
func (m *AccessKeyAuthMiddleware) ClearExpiredCache() int {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	now := time.Now()
	cleared := 0
	for plain, entry := range m.cache {
		if now.After(entry.expiresAt) {
			delete(m.cache, plain)
			cleared++
		}
	}
	return cleared
}

func (m *AccessKeyAuthMiddleware) respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"error":   "Unauthorized",
	})
}
