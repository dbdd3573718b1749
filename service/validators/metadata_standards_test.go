/*
 * @module service/validators/metadata_standards_test
 * @description 元数据标准校验器测试：完整记录满分、发布机构缺失、本地语言覆盖门槛与主题占比
 * @architecture 测试层 - 校验器单元测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 检查项 -> 输出验证
 * @rules 缺失的发布机构是 fail 检查项 + MISSING_PUBLISHER 校验错误，不中断后续检查
 * @dependencies testing, testify, testutil
 * @refs metadata_standards.go
 */

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/testutil"
)

func TestMetadataStandards_FullyValidRecord(t *testing.T) {
	v := NewMetadataStandardsValidator()

	result := v.Validate(&Context{Metadata: testutil.ValidMetadataRecord()})

	assert.Equal(t, 100.0, result.Category.Score)
	assert.Equal(t, models.StatusCompliant, result.Category.Status)
	assert.Equal(t, 0.15, result.Category.Weight)
	require.Len(t, result.Category.Requirements, 8)
	for _, req := range result.Category.Requirements {
		assert.Equal(t, models.RequirementPass, req.Status, req.ID)
	}
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.Errors)
}

func TestMetadataStandards_MissingPublisher(t *testing.T) {
	v := NewMetadataStandardsValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Publisher = nil
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "ms-publisher")
	assert.Equal(t, models.RequirementFail, req.Status)
	assert.Equal(t, 0.0, req.Score)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "MISSING_PUBLISHER", result.Errors[0].Code)
	assert.Equal(t, models.ErrorSeverityError, result.Errors[0].Severity)
	assert.Equal(t, "publisher", result.Errors[0].Field)

	// 8项中7项满分，类别降为部分合规
	assert.Equal(t, 87.5, result.Category.Score)
	assert.Equal(t, models.StatusPartial, result.Category.Status)

	// 硬性 fail 检查项产出 critical 建议
	var critical *models.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Severity == models.SeverityCritical {
			critical = &result.Recommendations[i]
		}
	}
	require.NotNil(t, critical)
	assert.Equal(t, "Declare a valid publisher institution", critical.Title)
}

func TestMetadataStandards_HomeLocaleGate(t *testing.T) {
	v := NewMetadataStandardsValidator()

	// 标题与描述都没有本地语言变体时直接判0分，即使语言列表声明了 sr
	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Title = models.LocalizedText{models.LocaleEnglish: "Budget 2025"}
		r.Description = models.LocalizedText{models.LocaleEnglish: "Budget revenues and expenditures overview for 2025."}
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "ms-home-locale")
	assert.Equal(t, models.RequirementFail, req.Status)
	assert.Equal(t, 0.0, req.Score)
}

func TestMetadataStandards_HomeLocaleLatinVariant(t *testing.T) {
	v := NewMetadataStandardsValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Title = models.LocalizedText{models.LocaleSerbianLatin: "Budžet 2025"}
		r.Description = models.LocalizedText{models.LocaleSerbianLatin: "Pregled budžetskih prihoda i rashoda za 2025. godinu."}
	})
	result := v.Validate(&Context{Metadata: record})

	// 拉丁文变体也算本地语言覆盖
	req := findReq(t, result.Category.Requirements, "ms-home-locale")
	assert.Equal(t, models.RequirementPass, req.Status)
}

func TestMetadataStandards_ThemeShare(t *testing.T) {
	v := NewMetadataStandardsValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Themes = []models.ThemeClassification{
			{Code: "GOV"},
			{Code: "NEPOZNATO"},
		}
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "ms-themes")
	assert.Equal(t, 50.0, req.Score)
	assert.Equal(t, models.RequirementWarning, req.Status)
}

func TestMetadataStandards_NilMetadata(t *testing.T) {
	v := NewMetadataStandardsValidator()

	result := v.Validate(&Context{})

	assert.Equal(t, models.StatusNonCompliant, result.Category.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "MISSING_PUBLISHER", result.Errors[0].Code)
	req := findReq(t, result.Category.Requirements, "ms-required-fields")
	assert.Equal(t, models.RequirementFail, req.Status)
}
