/*
 * @module service/models/quality
 * @description 数据质量度量模型，包含多维度评分、质量问题和综合评分权重定义
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 数据解析 -> 维度评分 -> 加权综合 -> 质量建议
 * @rules 每个维度独立计算，综合评分是固定权重的加权和，权重向量和为1.0，不是简单平均
 * @dependencies time
 * @refs service/quality/
 */

package models

import "time"

// 质量维度常量
const (
	DimensionCompleteness   = "completeness"    // 完整性
	DimensionAccuracy       = "accuracy"        // 准确性
	DimensionConsistency    = "consistency"     // 一致性
	DimensionTimeliness     = "timeliness"      // 时效性
	DimensionValidity       = "validity"        // 有效性
	DimensionUniqueness     = "uniqueness"      // 唯一性
	DimensionAccessibility  = "accessibility"   // 可获取性
	DimensionRelevance      = "relevance"       // 相关性
	DimensionLocaleCoverage = "locale_coverage" // 本地语言覆盖度
)

// CompositeWeights 综合评分的固定权重向量，六个核心维度，和为1.0
// 该向量是设计决策而非推导结果，任何重实现必须保持相同权重以保证版本间可比
var CompositeWeights = map[string]float64{
	DimensionCompleteness: 0.25,
	DimensionAccuracy:     0.20,
	DimensionConsistency:  0.15,
	DimensionTimeliness:   0.15,
	DimensionValidity:     0.15,
	DimensionUniqueness:   0.10,
}

// 质量问题严重程度
const (
	IssueSeverityHigh   = "high"
	IssueSeverityMedium = "medium"
	IssueSeverityLow    = "low"
)

// QualityIssue 单个质量问题
type QualityIssue struct {
	Severity string `json:"severity" example:"high" enums:"high,medium,low"`
	Type     string `json:"type" example:"completeness"`
	Field    string `json:"field,omitempty" example:"email"`
	Count    int    `json:"count" example:"42"`
	// Percentage 受影响记录占比，0-100
	Percentage float64 `json:"percentage" example:"4.2"`
	Suggestion string  `json:"suggestion,omitempty"`
}

// QualityMetrics 多维度数据质量度量结果
// 所有维度评分取值 0-100
type QualityMetrics struct {
	Completeness   float64 `json:"completeness" example:"87.5"`
	Accuracy       float64 `json:"accuracy" example:"92.0"`
	Consistency    float64 `json:"consistency" example:"80.0"`
	Timeliness     float64 `json:"timeliness" example:"65.0"`
	Validity       float64 `json:"validity" example:"95.0"`
	Uniqueness     float64 `json:"uniqueness" example:"100.0"`
	Accessibility  float64 `json:"accessibility" example:"75.0"`
	Relevance      float64 `json:"relevance" example:"70.0"`
	LocaleCoverage float64 `json:"locale_coverage" example:"50.0"`
	// Overall 按 CompositeWeights 加权的综合评分
	Overall    float64        `json:"overall" example:"85.3"`
	AssessedAt time.Time      `json:"assessed_at"`
	Issues     []QualityIssue `json:"issues,omitempty"`
	// Recommendations 自由文本改进建议
	Recommendations []string `json:"recommendations,omitempty"`
}

// DimensionScore 按维度名取评分，未知维度返回0
func (m *QualityMetrics) DimensionScore(dimension string) float64 {
	switch dimension {
	case DimensionCompleteness:
		return m.Completeness
	case DimensionAccuracy:
		return m.Accuracy
	case DimensionConsistency:
		return m.Consistency
	case DimensionTimeliness:
		return m.Timeliness
	case DimensionValidity:
		return m.Validity
	case DimensionUniqueness:
		return m.Uniqueness
	case DimensionAccessibility:
		return m.Accessibility
	case DimensionRelevance:
		return m.Relevance
	case DimensionLocaleCoverage:
		return m.LocaleCoverage
	default:
		return 0
	}
}
