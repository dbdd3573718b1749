/*
 * @module service/validators/patterns
 * @description 校验器共用的字段形态模式：邮箱、电话与个人数据扫描
 * @architecture 服务层 - 纯函数工具
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 无状态
 * @rules 个人数据检测只做模式匹配，不做超出形态检查的统计推断
 * @dependencies regexp, service/reader
 * @refs legal.go, metadata_standards.go, accessibility.go
 */

package validators

import (
	"regexp"
	"sort"
	"strings"

	"opendata-compliance-service/service/reader"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// phonePattern 塞尔维亚电话写法：+381 或 0 前缀，允许空格、斜杠、连字符分组
	phonePattern = regexp.MustCompile(`^(\+381|0)[\d\s/\-]{6,12}$`)
	urlPattern   = regexp.MustCompile(`^https?://\S+$`)
)

// isValidEmail 邮箱形态检查
func isValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// looksLikePhone 电话号码形态检查
func looksLikePhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// isAccessibleURL 可访问地址形态检查，仅接受 http/https
func isAccessibleURL(s string) bool {
	return urlPattern.MatchString(strings.TrimSpace(s))
}

// personalDataHit 个人数据命中详情
type personalDataHit struct {
	// Kind 命中类型：jmbg / phone / email
	Kind  string
	Field string
	Count int
}

// scanPersonalData 对记录集做正则扫描，检测疑似个人数据
// 检测三类形态：13位身份号码（JMBG）、电话号码、邮箱地址
func scanPersonalData(records []reader.Record) []personalDataHit {
	counts := map[string]*personalDataHit{}
	for _, record := range records {
		for field, value := range record {
			s, ok := value.(string)
			if !ok {
				continue
			}
			var kind string
			switch {
			case reader.LooksLikeJMBG(s):
				kind = "jmbg"
			case isValidEmail(s):
				kind = "email"
			case looksLikePhone(s):
				kind = "phone"
			default:
				continue
			}
			key := kind + "/" + field
			if hit, exists := counts[key]; exists {
				hit.Count++
			} else {
				counts[key] = &personalDataHit{Kind: kind, Field: field, Count: 1}
			}
		}
	}

	hits := make([]personalDataHit, 0, len(counts))
	for _, key := range sortedHitKeys(counts) {
		hits = append(hits, *counts[key])
	}
	return hits
}

func sortedHitKeys(m map[string]*personalDataHit) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
