/*
 * @module service/reader/json_reader_test
 * @description JSON 读取器单元测试：数组与 NDJSON 形态识别、逐元素错误收集与往返
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 原始字节输入 -> 解析 -> 输出验证
 * @rules 非对象元素不中断解析，每个坏元素对应一条带索引的错误
 * @dependencies testing, testify
 * @refs json_reader.go
 */

package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParse_ArrayForm(t *testing.T) {
	r := NewJSONReader()

	input := `[{"grad":"Beograd","broj":100},{"grad":"Niš","broj":2.5}]`
	result := r.Parse([]byte(input), Options{})

	require.Len(t, result.Data, 2)
	assert.Equal(t, "Beograd", result.Data[0]["grad"])
	assert.Equal(t, float64(100), result.Data[0]["broj"])
	assert.Equal(t, 2.5, result.Data[1]["broj"])
	assert.Equal(t, 2, result.Stats.TotalRows)
	assert.Equal(t, 2, result.Stats.ParsedRows)
	assert.Equal(t, 2, result.Stats.ColumnCount)
}

func TestJSONParse_NDJSONForm(t *testing.T) {
	r := NewJSONReader()

	input := "{\"grad\":\"Beograd\"}\n\n{\"grad\":\"Novi Sad\"}\n"
	result := r.Parse([]byte(input), Options{})

	require.Len(t, result.Data, 2)
	assert.Equal(t, "Beograd", result.Data[0]["grad"])
	assert.Equal(t, "Novi Sad", result.Data[1]["grad"])
	assert.Equal(t, 2, result.Stats.ParsedRows)
}

func TestJSONParse_NonObjectElementContinues(t *testing.T) {
	r := NewJSONReader()

	input := `[{"a":1},"ne-objekat",{"a":3}]`
	result := r.Parse([]byte(input), Options{})

	require.Len(t, result.Data, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t, 3, result.Stats.TotalRows)
	assert.Equal(t, 1, result.Stats.FailedRows)
}

func TestJSONParse_StrictStopsAtFirstError(t *testing.T) {
	r := NewJSONReader()

	input := "{\"a\":1}\nnije json\n{\"a\":3}\n"
	result := r.Parse([]byte(input), Options{Strictness: StrictnessStrict})

	require.Len(t, result.Data, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
}

func TestJSONParse_MalformedArray(t *testing.T) {
	r := NewJSONReader()

	result := r.Parse([]byte(`[{"a":1},`), Options{})

	assert.Empty(t, result.Data)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
}

func TestJSONParse_EmptyInput(t *testing.T) {
	r := NewJSONReader()

	result := r.Parse([]byte("  \n  "), Options{})
	assert.Empty(t, result.Data)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Stats.TotalRows)
}

func TestJSONRoundTrip(t *testing.T) {
	r := NewJSONReader()

	records := []Record{
		{"grad": "Beograd", "broj": float64(100), "prazno": nil},
		{"grad": "Subotica", "aktivan": true},
	}

	out, err := r.Stringify(records, Options{})
	require.NoError(t, err)

	parsed := r.Parse(out, Options{})
	require.Len(t, parsed.Data, 2)
	assert.Equal(t, records[0]["grad"], parsed.Data[0]["grad"])
	assert.Equal(t, records[0]["broj"], parsed.Data[0]["broj"])
	assert.Nil(t, parsed.Data[0]["prazno"])
	assert.Equal(t, true, parsed.Data[1]["aktivan"])
	assert.Equal(t, 1, parsed.Stats.EmptyValues)
}
