/*
 * @module service/validators/legal_test
 * @description 法律框架校验器测试：信息公开要素、个人数据披露规则与许可兼容性
 * @architecture 测试层 - 校验器单元测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 检查项 -> 输出验证
 * @rules 检出个人数据而无隐私声明产出 warning 级校验错误而非硬失败
 * @dependencies testing, testify, testutil
 * @refs legal.go, patterns.go
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

func TestLegalFramework_FullyValidRecord(t *testing.T) {
	v := NewLegalFrameworkValidator()

	result := v.Validate(&Context{Metadata: testutil.ValidMetadataRecord()})

	assert.Equal(t, 100.0, result.Category.Score)
	assert.Equal(t, models.StatusCompliant, result.Category.Status)
	assert.Equal(t, 0.20, result.Category.Weight)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Recommendations)
}

func TestLegalFramework_PersonalDataDisclosure(t *testing.T) {
	v := NewLegalFrameworkValidator()

	records := []reader.Record{
		{"ime": "Petar", "jmbg": "0101990715000"},
		{"ime": "Marko", "jmbg": "0101990715001"},
	}

	t.Run("无隐私声明时告警并计50分", func(t *testing.T) {
		result := v.Validate(&Context{
			Records:  records,
			Metadata: testutil.ValidMetadataRecord(),
		})

		req := findReq(t, result.Category.Requirements, "lf-personal-data")
		assert.Equal(t, models.RequirementWarning, req.Status)
		assert.Equal(t, 50.0, req.Score)
		assert.Contains(t, req.Evidence, "jmbg")

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "PERSONAL_DATA_UNDISCLOSED", result.Errors[0].Code)
		assert.Equal(t, models.ErrorSeverityWarning, result.Errors[0].Severity)
		assert.Equal(t, "privacy_statement", result.Errors[0].Field)
	})

	t.Run("有隐私声明时通过", func(t *testing.T) {
		record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
			r.PrivacyStatement = "Skup sadrži matične brojeve zaposlenih uz zakonski osnov obrade."
		})
		result := v.Validate(&Context{Records: records, Metadata: record})

		req := findReq(t, result.Category.Requirements, "lf-personal-data")
		assert.Equal(t, models.RequirementPass, req.Status)
		assert.Equal(t, 100.0, req.Score)
		assert.Empty(t, result.Errors)
	})

	t.Run("无个人数据时通过", func(t *testing.T) {
		clean := []reader.Record{{"grad": "Beograd", "vrednost": float64(10)}}
		result := v.Validate(&Context{Records: clean, Metadata: testutil.ValidMetadataRecord()})

		req := findReq(t, result.Category.Requirements, "lf-personal-data")
		assert.Equal(t, models.RequirementPass, req.Status)
		assert.Empty(t, result.Errors)
	})
}

func TestLegalFramework_FOIFallbacks(t *testing.T) {
	v := NewLegalFrameworkValidator()

	// 无发布机构与时间戳：具名可达联系点算责任主体，可访问分发算发布事实
	record := &models.MetadataRecord{
		Identifier: "ds-foi",
		ContactPoint: &models.ContactPoint{
			Name:  models.LocalizedText{models.LocaleSerbian: "Писарница"},
			Email: "pisarnica@gov.rs",
		},
		Distributions: []models.Distribution{
			{AccessURL: "https://data.gov.rs/ds.csv", Format: "csv"},
		},
	}
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "lf-foi-information")
	assert.Equal(t, models.RequirementPass, req.Status)
	assert.Equal(t, 100.0, req.Score)
}

func TestLegalFramework_LicenseCompat(t *testing.T) {
	v := NewLegalFrameworkValidator()

	testCases := []struct {
		name     string
		license  *models.License
		expected float64
		status   string
	}{
		{
			name:    "无许可判0分",
			license: nil,
			status:  models.RequirementFail,
		},
		{
			name:     "允许清单内且标志开放",
			license:  &models.License{Identifier: "CC0-1.0", CommercialUseAllowed: true, DerivativeWorksAllowed: true},
			expected: 100,
			status:   models.RequirementPass,
		},
		{
			name:     "清单外但标志开放",
			license:  &models.License{Identifier: "custom", CommercialUseAllowed: true, DerivativeWorksAllowed: true},
			expected: 50,
			status:   models.RequirementWarning,
		},
		{
			name:     "清单外且受限",
			license:  &models.License{Identifier: "custom"},
			expected: 0,
			status:   models.RequirementFail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
				r.License = tc.license
			})
			result := v.Validate(&Context{Metadata: record})

			req := findReq(t, result.Category.Requirements, "lf-license-compat")
			assert.Equal(t, tc.expected, req.Score)
			assert.Equal(t, tc.status, req.Status)
		})
	}
}
