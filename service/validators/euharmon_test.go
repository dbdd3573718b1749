/*
 * @module service/validators/euharmon_test
 * @description 欧盟协调校验器测试：词表映射占比、英文翻译、关联数据格式与PSI开放性合取
 * @architecture 测试层 - 校验器单元测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 检查项 -> 输出验证
 * @rules PSI 开放性是合取条件，缺一即非满分
 * @dependencies testing, testify, testutil
 * @refs euharmon.go
 */

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/testutil"
)

func TestEUHarmonization_FullyValidRecord(t *testing.T) {
	v := NewEUHarmonizationValidator()

	result := v.Validate(&Context{Metadata: testutil.ValidMetadataRecord()})

	// 无关联数据分发，该咨询项0分，其余满分
	assert.Equal(t, 80.0, result.Category.Score)
	assert.Equal(t, models.StatusCompliant, result.Category.Status)
	assert.Equal(t, 0.08, result.Category.Weight)

	linked := findReq(t, result.Category.Requirements, "eu-linked-data")
	assert.Equal(t, models.RequirementFail, linked.Status)

	mapping := findReq(t, result.Category.Requirements, "eu-theme-mapping")
	assert.Equal(t, 100.0, mapping.Score)

	openness := findReq(t, result.Category.Requirements, "eu-openness")
	assert.Equal(t, 100.0, openness.Score)
}

func TestEUHarmonization_ThemeMappingShare(t *testing.T) {
	v := NewEUHarmonizationValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Themes = []models.ThemeClassification{
			{Code: "EDU"},
			{Code: "OTH"},
		}
	})
	result := v.Validate(&Context{Metadata: record})

	// 未分类主题无欧盟词表映射
	req := findReq(t, result.Category.Requirements, "eu-theme-mapping")
	assert.Equal(t, 50.0, req.Score)
}

func TestEUHarmonization_PartialTranslation(t *testing.T) {
	v := NewEUHarmonizationValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Description = models.LocalizedText{models.LocaleSerbian: "Опис без превода"}
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "eu-english-translation")
	assert.Equal(t, 50.0, req.Score)
	assert.Contains(t, req.Evidence, "partial translation")
}

func TestEUHarmonization_LinkedDataDistribution(t *testing.T) {
	v := NewEUHarmonizationValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.Distributions = append(r.Distributions, models.Distribution{
			AccessURL: "https://data.gov.rs/budget-2025.ttl",
			Format:    "turtle",
		})
	})
	result := v.Validate(&Context{Metadata: record})

	req := findReq(t, result.Category.Requirements, "eu-linked-data")
	assert.Equal(t, models.RequirementPass, req.Status)
}

func TestEUHarmonization_OpennessConjunction(t *testing.T) {
	v := NewEUHarmonizationValidator()

	record := testutil.ValidMetadataRecord(func(r *models.MetadataRecord) {
		r.License = &models.License{Identifier: "custom"}
	})
	result := v.Validate(&Context{Metadata: record})

	// 开放许可与无限制两项不满足，机器可读与可访问满足
	req := findReq(t, result.Category.Requirements, "eu-openness")
	assert.Equal(t, 50.0, req.Score)
	assert.Equal(t, models.RequirementWarning, req.Status)
}
