/*
 * @module service/validators/format_test
 * @description 格式校验器测试：机器可读性、开放格式占比、编码声明分级与解析健康度
 * @architecture 测试层 - 校验器单元测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 检查项 -> 输出验证
 * @rules 解析统计缺失时跳过解析健康度与列一致性检查项
 * @dependencies testing, testify, testutil
 * @refs format.go
 */

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
	"opendata-compliance-service/testutil"
)

func TestFormat_MetadataOnlySkipsParseChecks(t *testing.T) {
	v := NewFormatValidator()

	result := v.Validate(&Context{Metadata: testutil.ValidMetadataRecord()})

	// 无解析统计时只有3个元数据检查项
	require.Len(t, result.Category.Requirements, 3)
	assert.Equal(t, 100.0, result.Category.Score)
	assert.Equal(t, models.StatusCompliant, result.Category.Status)
	assert.Equal(t, 0.32, result.Category.Weight)
	assert.Empty(t, result.Errors)
}

func TestFormat_ParseHealth(t *testing.T) {
	v := NewFormatValidator()

	stats := &models.ParseStats{
		TotalRows:   4,
		ParsedRows:  3,
		FailedRows:  1,
		ColumnCount: 2,
	}
	records := []reader.Record{
		{"a": float64(1), "b": "x"},
		{"a": float64(2), "b": nil},
		{"a": float64(3), "b": "z"},
	}
	stats.EmptyValues = 1

	result := v.Validate(&Context{
		Metadata:    testutil.ValidMetadataRecord(),
		Records:     records,
		ParseStats:  stats,
		ParseErrors: []models.ParseError{{Row: 2, Reason: "列数不符"}},
	})

	require.Len(t, result.Category.Requirements, 5)

	health := findReq(t, result.Category.Requirements, "fmt-parse-health")
	assert.Equal(t, 75.0, health.Score)
	assert.Equal(t, models.RequirementWarning, health.Status)

	consistency := findReq(t, result.Category.Requirements, "fmt-column-consistency")
	// 6格中1格为空
	assert.Equal(t, 83.3, consistency.Score)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "PARSE_FAILURES", result.Errors[0].Code)
	assert.Equal(t, models.ErrorSeverityWarning, result.Errors[0].Severity)
}

func TestFormat_EncodingTiers(t *testing.T) {
	v := NewFormatValidator()

	testCases := []struct {
		name     string
		encoding string
		expected float64
	}{
		{
			name:     "UTF-8声明满分",
			encoding: "UTF-8",
			expected: 100,
		},
		{
			name:     "未声明按UTF-8假定计50分",
			encoding: "",
			expected: 50,
		},
		{
			name:     "遗留编码计0分",
			encoding: "windows-1250",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
				r.Distributions[0].Encoding = tc.encoding
			})
			result := v.Validate(&Context{Metadata: record})

			req := findReq(t, result.Category.Requirements, "fmt-encoding")
			assert.Equal(t, tc.expected, req.Score)
		})
	}
}

func TestFormat_NoDistributions(t *testing.T) {
	v := NewFormatValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Distributions = nil
	})
	result := v.Validate(&Context{Metadata: record})

	for _, id := range []string{"fmt-machine-readable", "fmt-open-format", "fmt-encoding"} {
		req := findReq(t, result.Category.Requirements, id)
		assert.Equal(t, models.RequirementFail, req.Status, id)
	}
	assert.Equal(t, models.StatusNonCompliant, result.Category.Status)
}

func TestFormat_OpenFormatShare(t *testing.T) {
	v := NewFormatValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Distributions = []models.Distribution{
			{AccessURL: "https://data.gov.rs/a.csv", Format: "csv"},
			{AccessURL: "https://data.gov.rs/a.xlsx", Format: "xlsx"},
		}
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "fmt-open-format")
	// xlsx 机器可读但不开放
	assert.Equal(t, 50.0, req.Score)

	machineReadable := findReq(t, result.Category.Requirements, "fmt-machine-readable")
	assert.Equal(t, models.RequirementPass, machineReadable.Status)
}
