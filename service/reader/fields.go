/*
 * @module service/reader/fields
 * @description 字段级本地化校验：语言环境数值解析与 JMBG 校验位检查
 * @architecture 服务层 - 无状态工具函数
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 单元格文本 -> 类型推断 / 格式校验 -> 类型化值或告警
 * @rules JMBG 校验失败产生告警而不是错误；数值解析遵循语言环境的十进制符号
 * @dependencies regexp, strconv, strings
 * @refs csv_reader.go
 */

package reader

import (
	"regexp"
	"strconv"
	"strings"

	"opendata-compliance-service/service/models"
)

var (
	jmbgPattern = regexp.MustCompile(`^\d{13}$`)
	// serbianNumberPattern 塞尔维亚写法：千位点 + 十进制逗号
	serbianNumberPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*(,\d+)?$|^-?\d+(,\d+)?$`)
)

// ParseLocalizedNumber 按语言环境解析数值文本
// sr 语言环境使用十进制逗号与千位点，其余按英文写法处理
func ParseLocalizedNumber(s, locale string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if locale == models.LocaleSerbian || locale == models.LocaleSerbianLatin {
		if !serbianNumberPattern.MatchString(s) {
			return 0, false
		}
		normalized := strings.ReplaceAll(s, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		v, err := strconv.ParseFloat(normalized, 64)
		return v, err == nil
	}

	normalized := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(normalized, 64)
	return v, err == nil
}

// LooksLikeJMBG 判断文本是否形似13位个人识别号
func LooksLikeJMBG(s string) bool {
	return jmbgPattern.MatchString(strings.TrimSpace(s))
}

// ValidateJMBG 校验13位识别号的 mod-11 校验位
// 校验位规则：m = 11 - ((7(a+g) + 6(b+h) + 5(c+i) + 4(d+j) + 3(e+k) + 2(f+l)) mod 11)，
// m 为 10 或 11 时校验位取 0
func ValidateJMBG(s string) bool {
	s = strings.TrimSpace(s)
	if !jmbgPattern.MatchString(s) {
		return false
	}
	d := make([]int, 13)
	for i, r := range s {
		d[i] = int(r - '0')
	}

	sum := 7*(d[0]+d[6]) + 6*(d[1]+d[7]) + 5*(d[2]+d[8]) + 4*(d[3]+d[9]) + 3*(d[4]+d[10]) + 2*(d[5]+d[11])
	m := 11 - sum%11
	if m > 9 {
		m = 0
	}
	return d[12] == m
}

// inferValue 单元格文本的类型推断
// 推断顺序：空 -> nil，布尔，数值（按语言环境），其余保留字符串
func inferValue(cell, locale string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}

	// 13位数字串不做数值转换，保留字符串以免丢失前导零
	if LooksLikeJMBG(trimmed) {
		return trimmed
	}

	if v, ok := ParseLocalizedNumber(trimmed, locale); ok {
		return v
	}
	return trimmed
}

// checkIdentifierField 对形似个人识别号的单元格做校验位检查，失败产生告警
func checkIdentifierField(row int, field, cell string, warnings []models.ParseWarning) []models.ParseWarning {
	if !LooksLikeJMBG(cell) {
		return warnings
	}
	if !ValidateJMBG(cell) {
		warnings = append(warnings, models.ParseWarning{
			Row:     row,
			Field:   field,
			Message: "13位识别号校验位不合法: " + cell,
		})
	}
	return warnings
}
