/*
 * @module service/validators/validator
 * @description 校验器公共契约：不可变校验上下文、类别结果、注册表与评分辅助
 * @architecture 服务层 - 能力接口 + 有序注册表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 共享上下文 -> 各校验器独立执行 -> 类别结果
 * @rules 校验器对元数据缺失/畸形从不抛出：缺失变成 fail 检查项（必要时附校验错误）并继续下一项；
 *        新增校验器 = 追加到注册表并声明权重，其余不变
 * @dependencies service/models, service/reader
 * @refs metadata_standards.go, legal.go, euharmon.go, format.go, accessibility.go
 */

package validators

import (
	"fmt"

	"github.com/google/uuid"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
)

// Thresholds 类别状态判定阈值，按校验器各异（保留原系统的不一致，见设计文档）
type Thresholds struct {
	Compliant float64 `json:"compliant" example:"90"`
	Partial   float64 `json:"partial" example:"60"`
}

// Config 校验配置，调用方可覆盖权重、阈值与启用状态
type Config struct {
	// DefaultLocale 管辖区默认语言，空值按 sr 处理
	DefaultLocale string `json:"default_locale,omitempty" example:"sr"`
	// WeightOverrides 类别权重覆盖，键为校验器名称
	WeightOverrides map[string]float64 `json:"weight_overrides,omitempty"`
	// Disabled 禁用的校验器名称集合
	Disabled map[string]bool `json:"disabled,omitempty"`
	// ThresholdOverrides 类别状态阈值覆盖
	ThresholdOverrides map[string]Thresholds `json:"threshold_overrides,omitempty"`
}

// HomeLocale 配置的管辖区默认语言
func (c *Config) HomeLocale() string {
	if c == nil || c.DefaultLocale == "" {
		return models.LocaleSerbian
	}
	return c.DefaultLocale
}

// WeightFor 校验器生效权重
func (c *Config) WeightFor(name string, defaultWeight float64) float64 {
	if c != nil && c.WeightOverrides != nil {
		if w, ok := c.WeightOverrides[name]; ok {
			return w
		}
	}
	return defaultWeight
}

// ThresholdsFor 校验器生效阈值
func (c *Config) ThresholdsFor(name string, defaults Thresholds) Thresholds {
	if c != nil && c.ThresholdOverrides != nil {
		if t, ok := c.ThresholdOverrides[name]; ok {
			return t
		}
	}
	return defaults
}

// IsDisabled 校验器是否被禁用
func (c *Config) IsDisabled(name string) bool {
	return c != nil && c.Disabled != nil && c.Disabled[name]
}

// Context 传给每个校验器的不可变上下文
type Context struct {
	Records  []reader.Record
	Metadata *models.MetadataRecord
	Config   *Config
	// ParseStats / ParseErrors 读取阶段的统计与错误，格式校验器使用
	ParseStats  *models.ParseStats
	ParseErrors []models.ParseError
}

// CategoryResult 单个校验器的输出
type CategoryResult struct {
	Category        models.ComplianceCategory `json:"category"`
	Recommendations []models.Recommendation   `json:"recommendations"`
	Errors          []models.ValidationError  `json:"errors"`
}

// Validator 校验器能力接口，实现对同级校验器只读
type Validator interface {
	// Name 类别名称，也是配置键
	Name() string
	// DefaultWeight 默认类别权重，活跃集合的权重和配置为1.0
	DefaultWeight() float64
	// Validate 在共享上下文上执行全部检查项
	Validate(ctx *Context) *CategoryResult
}

// DefaultRegistry 内置校验器的有序注册表
// 默认权重 0.15 + 0.20 + 0.08 + 0.32 + 0.25 = 1.0
func DefaultRegistry() []Validator {
	return []Validator{
		NewMetadataStandardsValidator(),
		NewLegalFrameworkValidator(),
		NewEUHarmonizationValidator(),
		NewFormatValidator(),
		NewAccessibilityValidator(),
	}
}

// buildCategory 由检查项列表聚合类别：评分取算术平均，状态按阈值判定
func buildCategory(name string, weight float64, thresholds Thresholds, requirements []models.Requirement) models.ComplianceCategory {
	var sum float64
	for _, req := range requirements {
		sum += req.Score
	}
	score := 0.0
	if len(requirements) > 0 {
		score = sum / float64(len(requirements))
	}

	status := models.StatusNonCompliant
	switch {
	case score >= thresholds.Compliant:
		status = models.StatusCompliant
	case score >= thresholds.Partial:
		status = models.StatusPartial
	}

	return models.ComplianceCategory{
		Name:         name,
		Weight:       weight,
		Score:        roundScore(score),
		Status:       status,
		Requirements: requirements,
	}
}

// boolScore 布尔子检查组合评分：n 个子检查各占 100/n 分
func boolScore(checks ...bool) float64 {
	if len(checks) == 0 {
		return 0
	}
	var passed int
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return roundScore(100 * float64(passed) / float64(len(checks)))
}

// statusForScore 检查项状态：满分 pass，零分 fail，中间 warning
func statusForScore(score float64) string {
	switch {
	case score >= 100:
		return models.RequirementPass
	case score <= 0:
		return models.RequirementFail
	default:
		return models.RequirementWarning
	}
}

func roundScore(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// adviceEntry 检查项对应的建议文案
type adviceEntry struct {
	Title      string
	Steps      []string
	Complexity string
}

// recommendationsFor 为每个未通过的检查项产出建议
// 严重程度规则：硬性 fail -> critical，硬性 warning -> major，咨询性 -> minor
func recommendationsFor(category string, reqs []models.Requirement, advice map[string]adviceEntry) []models.Recommendation {
	var recs []models.Recommendation
	for _, req := range reqs {
		if req.Status == models.RequirementPass {
			continue
		}
		entry, ok := advice[req.ID]
		if !ok {
			continue
		}

		severity := models.SeverityMinor
		if req.Required {
			if req.Status == models.RequirementFail {
				severity = models.SeverityCritical
			} else {
				severity = models.SeverityMajor
			}
		}
		recs = append(recs, models.Recommendation{
			ID:          uuid.New().String(),
			Severity:    severity,
			Category:    category,
			Title:       entry.Title,
			Description: fmt.Sprintf("check %s scored %.1f out of 100", req.ID, req.Score),
			ActionSteps: entry.Steps,
			ScoreImpact: roundScore((100 - req.Score) / float64(len(reqs))),
			Complexity:  entry.Complexity,
		})
	}
	return recs
}
