/*
 * @module service/reader/options
 * @description 结构化读取器的选项与结果类型定义
 * @architecture 服务层 - 类型定义
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 原始字节输入 -> 解析选项 -> 记录序列 + 错误/告警/统计
 * @rules 畸形行从不中断解析：每个坏行变成一条 ParseError 并继续；返回数据只含成功解析的行（宽松模式下含补全行）
 * @dependencies service/models
 * @refs csv_reader.go, json_reader.go
 */

package reader

import "opendata-compliance-service/service/models"

// 解析严格程度
const (
	// StrictnessStrict 快速失败：遇到第一个坏行即停止
	StrictnessStrict = "strict"
	// StrictnessCollect 收集全部错误，坏行跳过（默认）
	StrictnessCollect = "collect"
	// StrictnessLenient 宽松：列数不符的行补空/截断后保留，并产生告警
	StrictnessLenient = "lenient"
)

// 支持的输入编码
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1250 = "windows-1250"
	EncodingISO88592    = "iso-8859-2"
)

// Record 一行解析后的记录，列名到类型化值的映射
type Record = map[string]interface{}

// Options 读取器选项
type Options struct {
	// Delimiter 列分隔符，0 表示从首行嗅探
	Delimiter rune `json:"-"`
	// Encoding 输入编码，空值按 UTF-8 处理
	Encoding string `json:"encoding,omitempty" enums:"utf-8,windows-1250,iso-8859-2"`
	// Locale 数值解析语言环境，sr 使用十进制逗号
	Locale string `json:"locale,omitempty" example:"sr"`
	// Strictness 严格程度
	Strictness string `json:"strictness,omitempty" enums:"strict,collect,lenient"`
	// NoHeader CSV 输入没有表头行，列名按 col_1..col_n 生成
	NoHeader bool `json:"no_header,omitempty"`
}

// Result 解析结果
type Result struct {
	Data     []Record              `json:"data"`
	Errors   []models.ParseError   `json:"errors"`
	Warnings []models.ParseWarning `json:"warnings"`
	Stats    models.ParseStats     `json:"stats"`
}

// strictnessOrDefault 空严格程度取默认值
func strictnessOrDefault(s string) string {
	if s == "" {
		return StrictnessCollect
	}
	return s
}
