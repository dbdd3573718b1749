/*
 * @module service/quality/analyzer_test
 * @description 质量分析器单元测试：各维度独立评分、固定权重综合、无记录集时的权重重归一与时效性衰减
 * @architecture 测试层 - 纯函数测试，固定时钟注入
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 记录集/元数据 -> 评分 -> 输出验证
 * @rules 综合评分权重向量固定，任何偏离都是回归
 * @dependencies testing, testify
 * @refs analyzer.go, recommendations.go
 */

package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
)

func TestCalculateQuality_CleanRecords(t *testing.T) {
	a := NewAnalyzer()

	records := []reader.Record{
		{"grad": "Beograd", "broj": float64(100)},
		{"grad": "Novi Sad", "broj": float64(200)},
	}
	metrics := a.CalculateQuality(records, nil)

	assert.Equal(t, 100.0, metrics.Completeness)
	assert.Equal(t, 100.0, metrics.Accuracy)
	assert.Equal(t, 100.0, metrics.Consistency)
	assert.Equal(t, 100.0, metrics.Validity)
	assert.Equal(t, 100.0, metrics.Uniqueness)
	// 无元数据时时效性为0，综合 = 各维度加权和
	assert.Equal(t, 85.0, metrics.Overall)
	assert.Empty(t, metrics.Issues)
}

func TestCalculateQuality_MixedTypes(t *testing.T) {
	a := NewAnalyzer()

	records := []reader.Record{
		{"a": float64(1), "b": "x"},
		{"a": float64(2), "b": "y"},
		{"a": float64(3), "b": "z"},
		{"a": "loše", "b": "w"},
	}
	metrics := a.CalculateQuality(records, nil)

	// a列主导类型占比 3/4，b列 4/4
	assert.Equal(t, 87.5, metrics.Consistency)
	// 含离群值的行不计入有效行
	assert.Equal(t, 75.0, metrics.Validity)
	assert.Equal(t, 79.4, metrics.Overall)
}

func TestCalculateQuality_MissingValues(t *testing.T) {
	a := NewAnalyzer()

	records := []reader.Record{
		{"a": float64(1), "b": nil},
		{"a": float64(2), "b": nil},
		{"a": float64(3), "b": "x"},
		{"a": float64(4), "b": nil},
	}
	metrics := a.CalculateQuality(records, nil)

	assert.Equal(t, 62.5, metrics.Completeness)
	require.Len(t, metrics.Issues, 1)
	issue := metrics.Issues[0]
	assert.Equal(t, models.DimensionCompleteness, issue.Type)
	assert.Equal(t, "b", issue.Field)
	assert.Equal(t, 3, issue.Count)
	assert.Equal(t, 75.0, issue.Percentage)
	assert.Equal(t, models.IssueSeverityHigh, issue.Severity)
}

func TestCalculateQuality_IdentifierChecksums(t *testing.T) {
	a := NewAnalyzer()

	records := []reader.Record{
		{"jmbg": "0101990715000"},
		{"jmbg": "0101990715001"},
	}
	metrics := a.CalculateQuality(records, nil)

	assert.Equal(t, 50.0, metrics.Accuracy)
	require.Len(t, metrics.Issues, 1)
	assert.Equal(t, models.DimensionAccuracy, metrics.Issues[0].Type)
	assert.Equal(t, 1, metrics.Issues[0].Count)
}

func TestCalculateQuality_Duplicates(t *testing.T) {
	a := NewAnalyzer()

	records := []reader.Record{
		{"grad": "Beograd"},
		{"grad": "Beograd"},
		{"grad": "Niš"},
	}
	metrics := a.CalculateQuality(records, nil)

	assert.Equal(t, 66.7, metrics.Uniqueness)
	require.Len(t, metrics.Issues, 1)
	assert.Equal(t, models.DimensionUniqueness, metrics.Issues[0].Type)
	assert.Equal(t, 33.3, metrics.Issues[0].Percentage)
}

func TestScoreTimeliness(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	a := NewAnalyzerAt(func() time.Time { return now })

	testCases := []struct {
		name     string
		age      time.Duration
		expected float64
	}{
		{
			name:     "新鲜期内满分",
			age:      30 * 24 * time.Hour,
			expected: 100,
		},
		{
			name:     "新鲜期边界满分",
			age:      90 * 24 * time.Hour,
			expected: 100,
		},
		{
			name:     "线性衰减中点",
			age:      410 * 24 * time.Hour,
			expected: 50,
		},
		{
			name:     "超过陈旧上限归零",
			age:      800 * 24 * time.Hour,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			modified := now.Add(-tc.age)
			metrics := a.CalculateQuality(nil, &models.MetadataRecord{Modified: &modified})
			assert.Equal(t, tc.expected, metrics.Timeliness)
		})
	}

	t.Run("无修改日期归零", func(t *testing.T) {
		metrics := a.CalculateQuality(nil, &models.MetadataRecord{Identifier: "ds"})
		assert.Equal(t, 0.0, metrics.Timeliness)
	})
}

func TestCalculateQuality_MetadataOnlyRenormalizes(t *testing.T) {
	a := NewAnalyzer()

	metadata := &models.MetadataRecord{
		Identifier: "ds-1",
		Title:      models.LocalizedText{models.LocaleSerbian: "Наслов"},
	}
	metrics := a.CalculateQuality(nil, metadata)

	// 元数据退化完整性：8个必填项命中2个
	assert.Equal(t, 25.0, metrics.Completeness)
	assert.Equal(t, 0.0, metrics.Timeliness)
	// 记录维度不参与综合，剩余权重 0.25+0.15 重归一
	assert.Equal(t, 15.6, metrics.Overall)
}

func TestCalculateQuality_NoInput(t *testing.T) {
	a := NewAnalyzer()
	metrics := a.CalculateQuality(nil, nil)
	assert.Equal(t, 0.0, metrics.Overall)
}

func TestSetWeightOverrides(t *testing.T) {
	a := NewAnalyzer()
	records := []reader.Record{
		{"grad": "Beograd"},
		{"grad": "Niš"},
	}

	a.SetWeightOverrides(map[string]float64{models.DimensionTimeliness: 0})
	metrics := a.CalculateQuality(records, nil)
	// 时效性权重清零后其余维度全部满分
	assert.Equal(t, 100.0, metrics.Overall)

	a.SetWeightOverrides(nil)
	metrics = a.CalculateQuality(records, nil)
	assert.Equal(t, 85.0, metrics.Overall)
}

func TestScoreAccessibilityAndRelevance(t *testing.T) {
	a := NewAnalyzer()

	metadata := &models.MetadataRecord{
		Keywords: []models.LocalizedText{{models.LocaleSerbian: "буџет"}},
		Themes:   []models.ThemeClassification{{Code: "ECO"}},
		Distributions: []models.Distribution{
			{AccessURL: "https://data.gov.rs/a.csv", DownloadURL: "https://data.gov.rs/a.csv", Format: "text/csv"},
			{AccessURL: "https://data.gov.rs/b.csv"},
		},
	}
	metrics := a.CalculateQuality(nil, metadata)

	// 第一个分发 100 分，第二个只有访问地址 40 分
	assert.Equal(t, 70.0, metrics.Accessibility)
	// 关键词 + 主题，描述不足50字符
	assert.Equal(t, 70.0, metrics.Relevance)
}

func TestScoreLocaleCoverage(t *testing.T) {
	a := NewAnalyzer()

	metadata := &models.MetadataRecord{
		Title:       models.LocalizedText{models.LocaleSerbian: "Наслов"},
		Description: models.LocalizedText{models.LocaleEnglish: "English only"},
	}
	metrics := a.CalculateQuality(nil, metadata)
	assert.Equal(t, 50.0, metrics.LocaleCoverage)
}

func TestGenerateQualityRecommendations(t *testing.T) {
	metrics := &models.QualityMetrics{
		Completeness:   30,
		Accuracy:       90,
		Consistency:    85,
		Timeliness:     70,
		Validity:       90,
		Uniqueness:     95,
		Accessibility:  75,
		Relevance:      55,
		LocaleCoverage: 80,
	}

	recs := GenerateQualityRecommendations(metrics)
	require.Len(t, recs, 2)

	// 低于阈值一半的维度升级为 major
	assert.Equal(t, "Reduce missing values", recs[0].Title)
	assert.Equal(t, models.SeverityMajor, recs[0].Severity)
	assert.Equal(t, 50.0, recs[0].ScoreImpact)
	assert.Equal(t, "data_quality", recs[0].Category)
	assert.NotEmpty(t, recs[0].ActionSteps)

	assert.Equal(t, "Enrich descriptive metadata", recs[1].Title)
	assert.Equal(t, models.SeverityMinor, recs[1].Severity)
	assert.Equal(t, 5.0, recs[1].ScoreImpact)

	assert.Nil(t, GenerateQualityRecommendations(nil))
}
