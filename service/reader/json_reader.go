/*
 * @module service/reader/json_reader
 * @description JSON 结构化读取器，支持对象数组与 NDJSON 两种形态，逐元素错误收集
 * @architecture 服务层 - 无状态解析器
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 原始字节 -> 形态识别 -> 逐元素解析 -> 记录 + 错误/统计
 * @rules 非对象元素与畸形行变成带索引的 ParseError，解析继续；Stringify 与 Parse 互逆
 * @dependencies encoding/json
 * @refs options.go
 */

package reader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"opendata-compliance-service/service/models"
)

// JSONReader JSON 读取器
type JSONReader struct{}

// NewJSONReader 创建 JSON 读取器
func NewJSONReader() *JSONReader {
	return &JSONReader{}
}

// Parse 解析 JSON 输入，自动识别对象数组与 NDJSON
func (r *JSONReader) Parse(input []byte, opts Options) *Result {
	result := &Result{
		Data:     make([]Record, 0),
		Errors:   make([]models.ParseError, 0),
		Warnings: make([]models.ParseWarning, 0),
	}
	strictness := strictnessOrDefault(opts.Strictness)

	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return result
	}

	if trimmed[0] == '[' {
		r.parseArray(trimmed, strictness, result)
	} else {
		r.parseNDJSON(trimmed, strictness, result)
	}

	columns := map[string]bool{}
	for _, record := range result.Data {
		for col, v := range record {
			columns[col] = true
			if v == nil {
				result.Stats.EmptyValues++
			}
		}
	}
	result.Stats.ColumnCount = len(columns)
	return result
}

// parseArray 对象数组形态
func (r *JSONReader) parseArray(input []byte, strictness string, result *Result) {
	var elements []json.RawMessage
	if err := json.Unmarshal(input, &elements); err != nil {
		result.Errors = append(result.Errors, models.ParseError{
			Row:    0,
			Reason: fmt.Sprintf("JSON 数组解析失败: %v", err),
		})
		return
	}

	for i, raw := range elements {
		result.Stats.TotalRows++
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			result.Errors = append(result.Errors, models.ParseError{
				Row:    i,
				Reason: fmt.Sprintf("元素不是 JSON 对象: %v", err),
			})
			result.Stats.FailedRows++
			if strictness == StrictnessStrict {
				return
			}
			continue
		}
		result.Data = append(result.Data, record)
		result.Stats.ParsedRows++
	}
}

// parseNDJSON 每行一个对象的形态
func (r *JSONReader) parseNDJSON(input []byte, strictness string, result *Result) {
	scanner := bufio.NewScanner(bytes.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	row := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			row++
			continue
		}
		result.Stats.TotalRows++
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			result.Errors = append(result.Errors, models.ParseError{
				Row:    row,
				Reason: fmt.Sprintf("NDJSON 行解析失败: %v", err),
			})
			result.Stats.FailedRows++
			row++
			if strictness == StrictnessStrict {
				return
			}
			continue
		}
		result.Data = append(result.Data, record)
		result.Stats.ParsedRows++
		row++
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, models.ParseError{
			Row:    row,
			Reason: fmt.Sprintf("输入读取失败: %v", err),
		})
	}
}

// Stringify 将记录序列写回 JSON 对象数组
func (r *JSONReader) Stringify(data []Record, _ Options) ([]byte, error) {
	if data == nil {
		data = []Record{}
	}
	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("JSON 输出失败: %w", err)
	}
	return out, nil
}
