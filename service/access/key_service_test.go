/*
 * @module service/access/key_service_test
 * @description 接入密钥服务测试：签发、校验、吊销、作用域与列表脱敏
 * @architecture 测试层 - 服务层单元测试，sqlite内存库
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 签发 -> 校验 -> 吊销 -> 再校验
 * @rules 明文密钥只在签发时出现一次，落库的只有 bcrypt 哈希
 * @dependencies testing, testify, testutil
 * @refs key_service.go
 */

package access

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/testutil"
)

func newTestKeyService(t *testing.T) *KeyService {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewKeyService(tdb.DB)
}

func TestKeyService_IssueAndVerify(t *testing.T) {
	s := newTestKeyService(t)

	issued, err := s.Issue("portal-sync", []string{"assess:read"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.True(t, strings.HasPrefix(issued.PlainKey, "odc_"))
	assert.Len(t, issued.PlainKey, len("odc_")+48)

	key, err := s.Verify(issued.PlainKey)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, key.ID)
	assert.Equal(t, "portal-sync", key.Name)
	// 落库的是哈希而非明文
	assert.NotEqual(t, issued.PlainKey, key.KeyHash)
	assert.True(t, strings.HasPrefix(key.KeyHash, "$2"))
}

func TestKeyService_VerifyRejectsBadKeys(t *testing.T) {
	s := newTestKeyService(t)

	issued, err := s.Issue("portal-sync", nil)
	require.NoError(t, err)

	testCases := []struct {
		name string
		key  string
	}{
		{
			name: "格式不合法",
			key:  "not-a-key",
		},
		{
			name: "前缀未命中",
			key:  "odc_ffffffff0000000000000000000000000000000000000000",
		},
		{
			name: "前缀命中但秘密部分错误",
			key:  issued.PlainKey[:len(issued.PlainKey)-4] + "0000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Verify(tc.key)
			assert.Error(t, err)
		})
	}
}

func TestKeyService_VerifyExpired(t *testing.T) {
	s := newTestKeyService(t)

	issued, err := s.Issue("short-lived", nil)
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, s.db.Model(&models.AccessKey{}).
		Where("id = ?", issued.ID).
		Update("expires_at", expired).Error)

	_, err = s.Verify(issued.PlainKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "密钥已过期")
}

func TestKeyService_Revoke(t *testing.T) {
	s := newTestKeyService(t)

	issued, err := s.Issue("to-revoke", nil)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(issued.ID))

	_, err = s.Verify(issued.PlainKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "密钥不存在或已禁用")

	// 吊销不存在的密钥报错
	err = s.Revoke("missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "密钥不存在")
}

func TestHasScope(t *testing.T) {
	testCases := []struct {
		name     string
		scopes   []string
		scope    string
		expected bool
	}{
		{
			name:     "精确匹配",
			scopes:   []string{"assess:read", "assess:write"},
			scope:    "assess:write",
			expected: true,
		},
		{
			name:     "通配符匹配全部",
			scopes:   []string{"*"},
			scope:    "catalog:admin",
			expected: true,
		},
		{
			name:     "未授权作用域",
			scopes:   []string{"assess:read"},
			scope:    "assess:write",
			expected: false,
		},
		{
			name:     "空作用域",
			scopes:   nil,
			scope:    "assess:read",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := &models.AccessKey{Scopes: tc.scopes}
			assert.Equal(t, tc.expected, HasScope(key, tc.scope))
		})
	}
}

func TestKeyService_ListBlanksHashes(t *testing.T) {
	s := newTestKeyService(t)

	_, err := s.Issue("first", []string{"*"})
	require.NoError(t, err)
	_, err = s.Issue("second", nil)
	require.NoError(t, err)

	keys, err := s.List()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	for _, key := range keys {
		assert.Empty(t, key.KeyHash)
		assert.NotEmpty(t, key.Prefix)
	}
}
