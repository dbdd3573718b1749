/*
 * @module service/models/compliance
 * @description 合规评估模型，包含合规类别、检查项、改进建议、校验错误和评估结果
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验器执行 -> 检查项快照 -> 类别聚合 -> 总体结果
 * @rules 检查项在每次校验时全新创建，创建后不可变；失败的检查项必须对应建议或校验错误，二者至少其一
 * @dependencies time
 * @refs service/validators/, service/suite/
 */

package models

import "time"

// 合规类别状态
const (
	StatusCompliant    = "compliant"
	StatusPartial      = "partial"
	StatusNonCompliant = "non-compliant"
)

// 检查项状态
const (
	RequirementPass    = "pass"
	RequirementWarning = "warning"
	RequirementFail    = "fail"
)

// 建议严重程度，排序优先级 critical > major > minor
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// 实施复杂度
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// 校验错误严重程度
const (
	ErrorSeverityError   = "error"
	ErrorSeverityWarning = "warning"
)

// Requirement 单个合规检查项，校验运行时创建的不可变快照
type Requirement struct {
	ID          string `json:"id" example:"ms-publisher"`
	Name        string `json:"name" example:"Publisher declared"`
	Description string `json:"description,omitempty"`
	// Required 是否为硬性要求，false 表示咨询性检查
	Required bool    `json:"required"`
	Status   string  `json:"status" example:"pass" enums:"pass,warning,fail"`
	Score    float64 `json:"score" example:"100"`
	// Evidence 评分依据的可读说明
	Evidence string `json:"evidence,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ComplianceCategory 一个校验器产出的加权合规类别
type ComplianceCategory struct {
	Name string `json:"name" example:"metadata_standards"`
	// Weight 类别权重 0-1，活跃校验器集合的权重配置和为1.0
	Weight       float64       `json:"weight" example:"0.15"`
	Score        float64       `json:"score" example:"78.5"`
	Status       string        `json:"status" example:"partial" enums:"compliant,partial,non-compliant"`
	Requirements []Requirement `json:"requirements"`
}

// Recommendation 可执行的改进建议，纯输出，不反馈进评分
type Recommendation struct {
	ID          string   `json:"id" example:"rec-001"`
	Severity    string   `json:"severity" example:"critical" enums:"critical,major,minor"`
	Category    string   `json:"category" example:"metadata_standards"`
	Title       string   `json:"title" example:"Add home-locale support"`
	Description string   `json:"description,omitempty"`
	ActionSteps []string `json:"action_steps,omitempty"`
	// ScoreImpact 预估的分数影响 0-100
	ScoreImpact float64 `json:"score_impact" example:"15"`
	Complexity  string  `json:"complexity" example:"low" enums:"low,medium,high"`
}

// ValidationError 结构性或法律性校验错误，以数据形式返回给调用方，从不抛出
type ValidationError struct {
	Code     string `json:"code" example:"MISSING_PUBLISHER"`
	Message  string `json:"message"`
	Severity string `json:"severity" example:"error" enums:"error,warning"`
	Field    string `json:"field,omitempty"`
	Category string `json:"category,omitempty"`
}

// ComplianceResult 合规评估总体结果
type ComplianceResult struct {
	AssessmentID    string               `json:"assessment_id" example:"uuid-123"`
	OverallScore    float64              `json:"overall_score" example:"74.2"`
	OverallStatus   string               `json:"overall_status" example:"partial" enums:"compliant,partial,non-compliant"`
	Categories      []ComplianceCategory `json:"categories"`
	Recommendations []Recommendation     `json:"recommendations"`
	Errors          []ValidationError    `json:"errors"`
	AssessedAt      time.Time            `json:"assessed_at"`
	Duration        time.Duration        `json:"duration"`
}

// ParseError 单行解析错误，收集后随成功数据一并返回，从不中断后续行
type ParseError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseWarning 解析期字段级告警
type ParseWarning struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ParseStats 解析统计信息
type ParseStats struct {
	TotalRows   int `json:"total_rows"`
	ParsedRows  int `json:"parsed_rows"`
	FailedRows  int `json:"failed_rows"`
	ColumnCount int `json:"column_count"`
	// EmptyValues 空值单元格总数
	EmptyValues int `json:"empty_values"`
}

// ComplianceReport 扁平化的展示投影，适合序列化导出
type ComplianceReport struct {
	AssessmentID  string    `json:"assessment_id"`
	DatasetID     string    `json:"dataset_id,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
	OverallScore  float64   `json:"overall_score"`
	OverallStatus string    `json:"overall_status"`
	QualityScore  float64   `json:"quality_score"`
	// CategorySummaries 类别名到 "score/status" 的摘要
	Categories      []ReportCategory  `json:"categories"`
	Requirements    []ReportLine      `json:"requirements"`
	Recommendations []Recommendation  `json:"recommendations"`
	Errors          []ValidationError `json:"errors"`
	Quality         *QualityMetrics   `json:"quality,omitempty"`
}

// ReportCategory 报告中的类别摘要行
type ReportCategory struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

// ReportLine 报告中的扁平检查项行
type ReportLine struct {
	Category    string  `json:"category"`
	Requirement string  `json:"requirement"`
	Name        string  `json:"name"`
	Required    bool    `json:"required"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
	Evidence    string  `json:"evidence,omitempty"`
}

// QuickCheckResult 快速检查结果，仅有通过标志与评分
type QuickCheckResult struct {
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

// SeverityRank 建议严重程度的排序权值，critical 最高
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 3
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}
