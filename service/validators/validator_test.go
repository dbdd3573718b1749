/*
 * @module service/validators/validator_test
 * @description 校验器公共契约测试：评分辅助、类别聚合、建议严重程度规则与注册表权重
 * @architecture 测试层 - 纯函数测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 检查项列表 -> 聚合 -> 输出验证
 * @rules 活跃注册表的默认权重和为1.0
 * @dependencies testing, testify
 * @refs validator.go
 */

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
)

// findReq 按检查项ID查找，测试辅助
func findReq(t *testing.T, reqs []models.Requirement, id string) models.Requirement {
	t.Helper()
	for _, req := range reqs {
		if req.ID == id {
			return req
		}
	}
	t.Fatalf("requirement %s not found", id)
	return models.Requirement{}
}

func TestBoolScore(t *testing.T) {
	testCases := []struct {
		name     string
		checks   []bool
		expected float64
	}{
		{
			name:     "全部通过",
			checks:   []bool{true, true},
			expected: 100,
		},
		{
			name:     "三分之一通过",
			checks:   []bool{true, false, false},
			expected: 33.3,
		},
		{
			name:     "三分之二通过",
			checks:   []bool{true, true, false},
			expected: 66.7,
		},
		{
			name:     "全部失败",
			checks:   []bool{false},
			expected: 0,
		},
		{
			name:     "无子检查",
			checks:   nil,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, boolScore(tc.checks...))
		})
	}
}

func TestStatusForScore(t *testing.T) {
	assert.Equal(t, models.RequirementPass, statusForScore(100))
	assert.Equal(t, models.RequirementWarning, statusForScore(66.7))
	assert.Equal(t, models.RequirementFail, statusForScore(0))
}

func TestBuildCategory(t *testing.T) {
	reqs := []models.Requirement{
		{ID: "r1", Score: 100},
		{ID: "r2", Score: 50},
	}
	category := buildCategory("demo", 0.3, Thresholds{Compliant: 90, Partial: 60}, reqs)

	assert.Equal(t, 75.0, category.Score)
	assert.Equal(t, models.StatusPartial, category.Status)
	assert.Equal(t, 0.3, category.Weight)

	empty := buildCategory("demo", 0.3, Thresholds{Compliant: 90, Partial: 60}, nil)
	assert.Equal(t, 0.0, empty.Score)
	assert.Equal(t, models.StatusNonCompliant, empty.Status)
}

func TestRecommendationsFor_SeverityRules(t *testing.T) {
	advice := map[string]adviceEntry{
		"r-fail":    {Title: "Fix the failing check", Complexity: models.ComplexityLow},
		"r-warn":    {Title: "Improve the warning check", Complexity: models.ComplexityLow},
		"r-advice":  {Title: "Consider the advisory check", Complexity: models.ComplexityLow},
		"r-passing": {Title: "Should not appear", Complexity: models.ComplexityLow},
	}
	reqs := []models.Requirement{
		{ID: "r-fail", Required: true, Status: models.RequirementFail, Score: 0},
		{ID: "r-warn", Required: true, Status: models.RequirementWarning, Score: 50},
		{ID: "r-advice", Required: false, Status: models.RequirementWarning, Score: 25},
		{ID: "r-passing", Required: true, Status: models.RequirementPass, Score: 100},
	}

	recs := recommendationsFor("demo", reqs, advice)
	require.Len(t, recs, 3)

	assert.Equal(t, models.SeverityCritical, recs[0].Severity)
	assert.Equal(t, "check r-fail scored 0.0 out of 100", recs[0].Description)
	assert.Equal(t, 25.0, recs[0].ScoreImpact)

	assert.Equal(t, models.SeverityMajor, recs[1].Severity)
	assert.Equal(t, 12.5, recs[1].ScoreImpact)

	assert.Equal(t, models.SeverityMinor, recs[2].Severity)
	assert.Equal(t, "demo", recs[2].Category)
}

func TestDefaultRegistry_WeightsSumToOne(t *testing.T) {
	registry := DefaultRegistry()
	require.Len(t, registry, 5)

	var sum float64
	names := map[string]bool{}
	for _, v := range registry {
		sum += v.DefaultWeight()
		names[v.Name()] = true
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.True(t, names[ValidatorMetadataStandards])
	assert.True(t, names[ValidatorLegalFramework])
	assert.True(t, names[ValidatorEUHarmonization])
	assert.True(t, names[ValidatorFormat])
	assert.True(t, names[ValidatorAccessibility])
}

func TestConfigOverrides(t *testing.T) {
	var nilConfig *Config
	assert.Equal(t, models.LocaleSerbian, nilConfig.HomeLocale())
	assert.Equal(t, 0.15, nilConfig.WeightFor("metadata_standards", 0.15))
	assert.False(t, nilConfig.IsDisabled("format"))

	config := &Config{
		DefaultLocale:   "sr-Latn",
		WeightOverrides: map[string]float64{"format": 0.5},
		Disabled:        map[string]bool{"accessibility": true},
		ThresholdOverrides: map[string]Thresholds{
			"format": {Compliant: 95, Partial: 70},
		},
	}
	assert.Equal(t, "sr-Latn", config.HomeLocale())
	assert.Equal(t, 0.5, config.WeightFor("format", 0.32))
	assert.Equal(t, 0.15, config.WeightFor("metadata_standards", 0.15))
	assert.True(t, config.IsDisabled("accessibility"))
	assert.Equal(t, Thresholds{Compliant: 95, Partial: 70}, config.ThresholdsFor("format", Thresholds{Compliant: 90, Partial: 60}))
}

func TestPatterns(t *testing.T) {
	assert.True(t, isValidEmail("opendata@gov.rs"))
	assert.False(t, isValidEmail("nije-mejl"))
	assert.False(t, isValidEmail(""))

	assert.True(t, looksLikePhone("+381 11 123 4567"))
	assert.True(t, looksLikePhone("011/123-456"))
	assert.False(t, looksLikePhone("12345"))

	assert.True(t, isAccessibleURL("https://data.gov.rs/ds.csv"))
	assert.True(t, isAccessibleURL("http://data.gov.rs"))
	assert.False(t, isAccessibleURL("ftp://data.gov.rs"))
	assert.False(t, isAccessibleURL("/var/data/ds.csv"))
}
