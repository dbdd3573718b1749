/*
 * @module service/quality/recommendations
 * @description 质量改进建议生成器，低于维度阈值的每个维度产出一条带行动步骤的建议
 * @architecture 服务层 - 无状态生成器
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 质量度量 -> 阈值比对 -> 建议列表
 * @rules 每个维度的触发阈值固定且文档化；建议是纯输出，不反馈进评分
 * @dependencies github.com/google/uuid
 * @refs analyzer.go, service/models/compliance.go
 */

package quality

import (
	"fmt"

	"github.com/google/uuid"

	"opendata-compliance-service/service/models"
)

// dimensionThresholds 各维度的建议触发阈值（低于该值时产出建议）
var dimensionThresholds = map[string]float64{
	models.DimensionCompleteness:   80,
	models.DimensionAccuracy:       85,
	models.DimensionConsistency:    80,
	models.DimensionTimeliness:     60,
	models.DimensionValidity:       85,
	models.DimensionUniqueness:     90,
	models.DimensionAccessibility:  70,
	models.DimensionRelevance:      60,
	models.DimensionLocaleCoverage: 70,
}

// dimensionAdvice 各维度的建议文案与行动步骤
var dimensionAdvice = map[string]struct {
	Title      string
	Steps      []string
	Complexity string
}{
	models.DimensionCompleteness: {
		Title: "Reduce missing values",
		Steps: []string{
			"identify columns with the highest share of empty cells",
			"backfill values from the source system where possible",
			"document legitimately absent values in the dataset description",
		},
		Complexity: models.ComplexityMedium,
	},
	models.DimensionAccuracy: {
		Title: "Fix malformed field values",
		Steps: []string{
			"run checksum validation on identifier columns",
			"normalize email and phone columns to a single format",
		},
		Complexity: models.ComplexityMedium,
	},
	models.DimensionConsistency: {
		Title: "Unify column value types",
		Steps: []string{
			"pick one representation per column (number, text, boolean)",
			"convert outlier values to the dominant column type",
		},
		Complexity: models.ComplexityLow,
	},
	models.DimensionTimeliness: {
		Title: "Refresh the dataset",
		Steps: []string{
			"publish a current snapshot of the data",
			"set the modification date in the metadata after each update",
			"agree on an update cadence and state it in the description",
		},
		Complexity: models.ComplexityLow,
	},
	models.DimensionValidity: {
		Title: "Repair rows that break the column schema",
		Steps: []string{
			"list rows whose values do not match the dominant column types",
			"correct or remove those rows at the source",
		},
		Complexity: models.ComplexityMedium,
	},
	models.DimensionUniqueness: {
		Title: "Deduplicate rows",
		Steps: []string{
			"remove exact duplicate rows before publishing",
			"add a primary-key column if the source allows it",
		},
		Complexity: models.ComplexityLow,
	},
	models.DimensionAccessibility: {
		Title: "Complete distribution access information",
		Steps: []string{
			"declare an access URL for every distribution",
			"add direct download URLs and format identifiers",
		},
		Complexity: models.ComplexityLow,
	},
	models.DimensionRelevance: {
		Title: "Enrich descriptive metadata",
		Steps: []string{
			"add keywords and assign at least one theme",
			"extend the description to explain scope and collection method",
		},
		Complexity: models.ComplexityLow,
	},
	models.DimensionLocaleCoverage: {
		Title: "Add home-locale text variants",
		Steps: []string{
			"provide Serbian variants for title, description and keywords",
			"keep translations in sync when metadata changes",
		},
		Complexity: models.ComplexityMedium,
	},
}

// recommendationOrder 建议产出的稳定顺序
var recommendationOrder = []string{
	models.DimensionCompleteness,
	models.DimensionAccuracy,
	models.DimensionConsistency,
	models.DimensionTimeliness,
	models.DimensionValidity,
	models.DimensionUniqueness,
	models.DimensionAccessibility,
	models.DimensionRelevance,
	models.DimensionLocaleCoverage,
}

// GenerateQualityRecommendations 低于阈值的每个维度产出一条建议
func GenerateQualityRecommendations(metrics *models.QualityMetrics) []models.Recommendation {
	if metrics == nil {
		return nil
	}

	var recs []models.Recommendation
	for _, dim := range recommendationOrder {
		threshold := dimensionThresholds[dim]
		score := metrics.DimensionScore(dim)
		if score >= threshold {
			continue
		}

		advice := dimensionAdvice[dim]
		severity := models.SeverityMinor
		if score < threshold/2 {
			severity = models.SeverityMajor
		}
		recs = append(recs, models.Recommendation{
			ID:          uuid.New().String(),
			Severity:    severity,
			Category:    "data_quality",
			Title:       advice.Title,
			Description: fmt.Sprintf("dimension %s scored %.1f, below the %.0f threshold", dim, score, threshold),
			ActionSteps: advice.Steps,
			ScoreImpact: round1(threshold - score),
			Complexity:  advice.Complexity,
		})
	}
	return recs
}
