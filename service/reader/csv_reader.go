/*
 * @module service/reader/csv_reader
 * @description CSV 结构化读取器，支持分隔符嗅探、遗留编码转换、语言环境数值解析与逐行错误收集
 * @architecture 服务层 - 无状态解析器
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 原始字节 -> 编码转换 -> 分隔符嗅探 -> 逐行解析 -> 记录 + 错误/告警/统计
 * @rules 畸形行变成一条带行号的 ParseError 并继续解析；Stringify 与 Parse 互逆，
 *        数值的语言环境格式化不保证比特级一致（文档化限制，不是缺陷）
 * @dependencies encoding/csv, golang.org/x/text/encoding/charmap, github.com/spf13/cast
 * @refs options.go, fields.go
 */

package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"opendata-compliance-service/service/models"
)

// CSVReader CSV 读取器
type CSVReader struct{}

// NewCSVReader 创建 CSV 读取器
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Parse 解析 CSV 输入
func (r *CSVReader) Parse(input []byte, opts Options) *Result {
	result := &Result{
		Data:     make([]Record, 0),
		Errors:   make([]models.ParseError, 0),
		Warnings: make([]models.ParseWarning, 0),
	}
	strictness := strictnessOrDefault(opts.Strictness)

	decoded, err := decodeCharset(input, opts.Encoding)
	if err != nil {
		result.Errors = append(result.Errors, models.ParseError{Row: 0, Reason: err.Error()})
		return result
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = sniffDelimiter(decoded)
	}

	cr := csv.NewReader(bytes.NewReader(decoded))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var header []string
	rowIndex := 0

	for {
		fields, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			result.Errors = append(result.Errors, models.ParseError{
				Row:    rowIndex,
				Reason: fmt.Sprintf("行解析失败: %v", readErr),
			})
			result.Stats.FailedRows++
			rowIndex++
			if strictness == StrictnessStrict {
				break
			}
			continue
		}

		if header == nil {
			if opts.NoHeader {
				header = make([]string, len(fields))
				for i := range fields {
					header[i] = "col_" + strconv.Itoa(i+1)
				}
				result.Stats.ColumnCount = len(header)
				// 无表头时首行也是数据行，落入下方的正常处理
			} else {
				header = append([]string(nil), fields...)
				result.Stats.ColumnCount = len(header)
				rowIndex++
				continue
			}
		}

		result.Stats.TotalRows++
		record, rowWarnings, rowErr := r.parseRow(rowIndex, header, fields, opts.Locale, strictness)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.Stats.FailedRows++
			rowIndex++
			if strictness == StrictnessStrict {
				break
			}
			continue
		}

		result.Warnings = append(result.Warnings, rowWarnings...)
		for _, v := range record {
			if v == nil {
				result.Stats.EmptyValues++
			}
		}
		result.Data = append(result.Data, record)
		result.Stats.ParsedRows++
		rowIndex++
	}

	return result
}

// parseRow 解析单行，列数不符按严格程度处理
func (r *CSVReader) parseRow(rowIndex int, header, fields []string, locale, strictness string) (Record, []models.ParseWarning, *models.ParseError) {
	var warnings []models.ParseWarning

	if len(fields) != len(header) {
		if strictness != StrictnessLenient {
			return nil, nil, &models.ParseError{
				Row:    rowIndex,
				Reason: fmt.Sprintf("列数不符: 期望 %d 列，实际 %d 列", len(header), len(fields)),
			}
		}
		// 宽松模式：截断多余列，缺失列补空，保留该行
		warnings = append(warnings, models.ParseWarning{
			Row:     rowIndex,
			Message: fmt.Sprintf("列数不符已修正: 期望 %d 列，实际 %d 列", len(header), len(fields)),
		})
		adjusted := make([]string, len(header))
		copy(adjusted, fields)
		fields = adjusted
	}

	record := Record{}
	for i, name := range header {
		cell := fields[i]
		record[name] = inferValue(cell, locale)
		warnings = checkIdentifierField(rowIndex, name, strings.TrimSpace(cell), warnings)
	}
	return record, warnings, nil
}

// Stringify 将记录序列写回 CSV 文本，列按字典序输出
// 与 Parse 满足往返性质，数值的语言环境格式化不保证比特级一致
func (r *CSVReader) Stringify(data []Record, opts Options) ([]byte, error) {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	columns := collectColumns(data)
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = delimiter

	if err := cw.Write(columns); err != nil {
		return nil, fmt.Errorf("写入表头失败: %w", err)
	}
	for _, record := range data {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatValue(record[col], opts.Locale)
		}
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("写入数据行失败: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("CSV 输出失败: %w", err)
	}
	return buf.Bytes(), nil
}

// collectColumns 取全部记录列名的并集，字典序稳定输出
func collectColumns(data []Record) []string {
	seen := map[string]bool{}
	for _, record := range data {
		for col := range record {
			seen[col] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// formatValue 单元格值格式化，sr 语言环境使用十进制逗号
func formatValue(value interface{}, locale string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if locale == models.LocaleSerbian || locale == models.LocaleSerbianLatin {
			s = strings.ReplaceAll(s, ".", ",")
		}
		return s
	case bool:
		return strconv.FormatBool(v)
	default:
		return cast.ToString(v)
	}
}

// decodeCharset 按声明编码转换为 UTF-8
func decodeCharset(input []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8:
		return input, nil
	case EncodingWindows1250:
		out, _, err := transform.Bytes(charmap.Windows1250.NewDecoder(), input)
		if err != nil {
			return nil, fmt.Errorf("windows-1250 解码失败: %w", err)
		}
		return out, nil
	case EncodingISO88592:
		out, _, err := transform.Bytes(charmap.ISO8859_2.NewDecoder(), input)
		if err != nil {
			return nil, fmt.Errorf("iso-8859-2 解码失败: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("不支持的输入编码: %s", encoding)
	}
}

// sniffDelimiter 从首行嗅探分隔符，候选 ; , 制表符
func sniffDelimiter(input []byte) rune {
	line := input
	if idx := bytes.IndexByte(input, '\n'); idx >= 0 {
		line = input[:idx]
	}
	best := ','
	bestCount := bytes.Count(line, []byte{','})
	if c := bytes.Count(line, []byte{';'}); c > bestCount {
		best, bestCount = ';', c
	}
	if c := bytes.Count(line, []byte{'\t'}); c > bestCount {
		best = '\t'
	}
	return best
}
