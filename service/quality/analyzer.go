/*
 * @module service/quality/analyzer
 * @description 多维度数据质量分析器，从记录集与元数据独立计算各维度评分并加权综合
 * @architecture 服务层 - 无状态分析器
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 记录集/元数据 -> 逐维度独立评分 -> 固定权重加权综合 -> 质量度量
 * @rules 每个维度只依赖记录集或只依赖元数据，从不混用，调用方可据此定位低分责任；
 *        综合评分使用 models.CompositeWeights 固定权重向量；无记录集时记录维度不参与综合，权重重归一
 * @dependencies encoding/json, time
 * @refs service/models/quality.go, recommendations.go
 */

package quality

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
)

// 时效性阈值：新鲜期内满分，超过陈旧上限归零，中间线性衰减
const (
	freshnessWindow  = 90 * 24 * time.Hour
	stalenessCeiling = 730 * 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

// Analyzer 数据质量分析器
type Analyzer struct {
	// now 可注入的时钟，便于时效性测试
	now func() time.Time
	// overrides 维度权重覆盖，未覆盖的维度沿用 models.CompositeWeights
	overrides map[string]float64
}

// NewAnalyzer 创建质量分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// NewAnalyzerAt 创建使用固定时钟的分析器（测试用）
func NewAnalyzerAt(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

// SetWeightOverrides 覆盖部分维度的综合权重，传 nil 恢复默认
func (a *Analyzer) SetWeightOverrides(overrides map[string]float64) {
	a.overrides = overrides
}

// effectiveWeight 维度的生效权重
func (a *Analyzer) effectiveWeight(dim string) float64 {
	if a.overrides != nil {
		if w, ok := a.overrides[dim]; ok {
			return w
		}
	}
	return models.CompositeWeights[dim]
}

// CalculateQuality 计算全部维度评分与加权综合
func (a *Analyzer) CalculateQuality(records []reader.Record, metadata *models.MetadataRecord) *models.QualityMetrics {
	metrics := &models.QualityMetrics{AssessedAt: a.now()}
	hasRecords := len(records) > 0

	// 记录集维度
	if hasRecords {
		metrics.Completeness = a.scoreCompleteness(records, metrics)
		metrics.Accuracy = a.scoreAccuracy(records, metrics)
		metrics.Consistency = a.scoreConsistency(records)
		metrics.Validity = a.scoreValidity(records)
		metrics.Uniqueness = a.scoreUniqueness(records, metrics)
	} else if metadata != nil {
		// 无记录集时完整性退化为元数据必填字段覆盖率
		metrics.Completeness = a.scoreMetadataCompleteness(metadata)
	}

	// 元数据维度
	if metadata != nil {
		metrics.Timeliness = a.scoreTimeliness(metadata)
		metrics.Accessibility = a.scoreAccessibility(metadata)
		metrics.Relevance = a.scoreRelevance(metadata)
		metrics.LocaleCoverage = a.scoreLocaleCoverage(metadata)
	}

	metrics.Overall = a.composite(metrics, hasRecords || metadata != nil, hasRecords)
	return metrics
}

// composite 按固定权重向量加权综合
// 无记录集时记录维度不参与，剩余权重重归一保持和为1.0
func (a *Analyzer) composite(metrics *models.QualityMetrics, hasAny, hasRecords bool) float64 {
	if !hasAny {
		return 0
	}

	recordDims := map[string]bool{
		models.DimensionAccuracy:    true,
		models.DimensionConsistency: true,
		models.DimensionValidity:    true,
		models.DimensionUniqueness:  true,
	}

	var sum, weight float64
	for dim := range models.CompositeWeights {
		if !hasRecords && recordDims[dim] {
			continue
		}
		w := a.effectiveWeight(dim)
		sum += metrics.DimensionScore(dim) * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return round1(sum / weight)
}

// scoreCompleteness 完整性 = 非空单元格占比（记录集维度）
func (a *Analyzer) scoreCompleteness(records []reader.Record, metrics *models.QualityMetrics) float64 {
	var total, empty int
	emptyByField := map[string]int{}
	for _, record := range records {
		for field, v := range record {
			total++
			if v == nil {
				empty++
				emptyByField[field]++
			}
		}
	}
	if total == 0 {
		return 0
	}

	for _, field := range sortedKeys(emptyByField) {
		count := emptyByField[field]
		pct := 100 * float64(count) / float64(len(records))
		if pct >= 10 {
			metrics.Issues = append(metrics.Issues, models.QualityIssue{
				Severity:   issueSeverityForPct(pct),
				Type:       models.DimensionCompleteness,
				Field:      field,
				Count:      count,
				Percentage: round1(pct),
				Suggestion: fmt.Sprintf("fill missing values in column %q or document why they are absent", field),
			})
		}
	}
	return round1(100 * float64(total-empty) / float64(total))
}

// scoreMetadataCompleteness 无记录集时的完整性退化：元数据必填字段覆盖率
func (a *Analyzer) scoreMetadataCompleteness(metadata *models.MetadataRecord) float64 {
	checks := []bool{
		metadata.Identifier != "",
		!metadata.Title.IsEmpty(),
		!metadata.Description.IsEmpty(),
		metadata.Publisher != nil,
		metadata.License != nil,
		metadata.ContactPoint != nil,
		len(metadata.Distributions) > 0,
		len(metadata.Themes) > 0,
	}
	var present int
	for _, ok := range checks {
		if ok {
			present++
		}
	}
	return round1(100 * float64(present) / float64(len(checks)))
}

// scoreAccuracy 准确性 = 通过格式检查的值占受检值的比例（记录集维度）
// 受检值：形似邮箱与形似13位识别号的字符串
func (a *Analyzer) scoreAccuracy(records []reader.Record, metrics *models.QualityMetrics) float64 {
	var checked, passed, badIDs int
	for _, record := range records {
		for _, v := range record {
			s, ok := v.(string)
			if !ok {
				continue
			}
			switch {
			case reader.LooksLikeJMBG(s):
				checked++
				if reader.ValidateJMBG(s) {
					passed++
				} else {
					badIDs++
				}
			case looksLikeEmail(s):
				checked++
				if emailPattern.MatchString(s) {
					passed++
				}
			}
		}
	}
	if checked == 0 {
		return 100
	}
	if badIDs > 0 {
		metrics.Issues = append(metrics.Issues, models.QualityIssue{
			Severity:   models.IssueSeverityMedium,
			Type:       models.DimensionAccuracy,
			Count:      badIDs,
			Percentage: round1(100 * float64(badIDs) / float64(checked)),
			Suggestion: "verify identifier columns: checksum validation failed for some values",
		})
	}
	return round1(100 * float64(passed) / float64(checked))
}

// scoreConsistency 一致性 = 各列主导类型占比的平均值（记录集维度）
func (a *Analyzer) scoreConsistency(records []reader.Record) float64 {
	typeCounts := map[string]map[string]int{}
	colTotals := map[string]int{}
	for _, record := range records {
		for field, v := range record {
			if v == nil {
				continue
			}
			if typeCounts[field] == nil {
				typeCounts[field] = map[string]int{}
			}
			typeCounts[field][valueKind(v)]++
			colTotals[field]++
		}
	}
	if len(colTotals) == 0 {
		return 0
	}

	var sum float64
	for field, counts := range typeCounts {
		dominant := 0
		for _, c := range counts {
			if c > dominant {
				dominant = c
			}
		}
		sum += float64(dominant) / float64(colTotals[field])
	}
	return round1(100 * sum / float64(len(typeCounts)))
}

// scoreValidity 有效性 = 所有非空值均符合其列主导类型的行占比（记录集维度）
func (a *Analyzer) scoreValidity(records []reader.Record) float64 {
	dominantKind := map[string]string{}
	typeCounts := map[string]map[string]int{}
	for _, record := range records {
		for field, v := range record {
			if v == nil {
				continue
			}
			if typeCounts[field] == nil {
				typeCounts[field] = map[string]int{}
			}
			typeCounts[field][valueKind(v)]++
		}
	}
	for field, counts := range typeCounts {
		best, bestCount := "", 0
		for _, kind := range sortedKeys(counts) {
			if counts[kind] > bestCount {
				best, bestCount = kind, counts[kind]
			}
		}
		dominantKind[field] = best
	}

	var valid int
	for _, record := range records {
		ok := true
		for field, v := range record {
			if v == nil {
				continue
			}
			if valueKind(v) != dominantKind[field] {
				ok = false
				break
			}
		}
		if ok {
			valid++
		}
	}
	if len(records) == 0 {
		return 0
	}
	return round1(100 * float64(valid) / float64(len(records)))
}

// scoreUniqueness 唯一性 = 去重后行数占比（记录集维度）
func (a *Analyzer) scoreUniqueness(records []reader.Record, metrics *models.QualityMetrics) float64 {
	seen := map[string]bool{}
	for _, record := range records {
		key, err := json.Marshal(sortedRecord(record))
		if err != nil {
			continue
		}
		seen[string(key)] = true
	}
	duplicates := len(records) - len(seen)
	if duplicates > 0 {
		metrics.Issues = append(metrics.Issues, models.QualityIssue{
			Severity:   models.IssueSeverityLow,
			Type:       models.DimensionUniqueness,
			Count:      duplicates,
			Percentage: round1(100 * float64(duplicates) / float64(len(records))),
			Suggestion: "remove duplicate rows from the dataset",
		})
	}
	return round1(100 * float64(len(seen)) / float64(len(records)))
}

// scoreTimeliness 时效性：新鲜期内满分，超过陈旧上限归零，中间线性衰减（元数据维度）
func (a *Analyzer) scoreTimeliness(metadata *models.MetadataRecord) float64 {
	if metadata.Modified == nil {
		return 0
	}
	age := a.now().Sub(*metadata.Modified)
	if age <= freshnessWindow {
		return 100
	}
	if age >= stalenessCeiling {
		return 0
	}
	span := stalenessCeiling - freshnessWindow
	return round1(100 * float64(stalenessCeiling-age) / float64(span))
}

// scoreAccessibility 可获取性：分发的访问地址、下载地址与格式声明（元数据维度）
func (a *Analyzer) scoreAccessibility(metadata *models.MetadataRecord) float64 {
	if len(metadata.Distributions) == 0 {
		return 0
	}
	var sum float64
	for _, dist := range metadata.Distributions {
		var score float64
		if dist.AccessURL != "" {
			score += 40
		}
		if dist.DownloadURL != "" {
			score += 30
		}
		if dist.Format != "" {
			score += 30
		}
		sum += score
	}
	return round1(sum / float64(len(metadata.Distributions)))
}

// scoreRelevance 相关性：关键词、主题与描述充实度（元数据维度）
func (a *Analyzer) scoreRelevance(metadata *models.MetadataRecord) float64 {
	var score float64
	if len(metadata.Keywords) > 0 {
		score += 35
	}
	if len(metadata.Themes) > 0 {
		score += 35
	}
	if len(metadata.Description.Best()) >= 50 {
		score += 30
	}
	return score
}

// scoreLocaleCoverage 本地语言覆盖度 = 携带本地语言变体的多语言字段占比（元数据维度）
func (a *Analyzer) scoreLocaleCoverage(metadata *models.MetadataRecord) float64 {
	fields := metadata.LocalizedFields()
	var total, covered int
	for _, field := range fields {
		if field.IsEmpty() {
			continue
		}
		total++
		if field.Has(models.LocaleSerbian) || field.Has(models.LocaleSerbianLatin) {
			covered++
		}
	}
	if total == 0 {
		return 0
	}
	return round1(100 * float64(covered) / float64(total))
}

// valueKind 值的类型类别
func valueKind(v interface{}) string {
	switch v.(type) {
	case float64, int, int64:
		return "number"
	case bool:
		return "bool"
	default:
		return "string"
	}
}

func looksLikeEmail(s string) bool {
	for i := 1; i < len(s)-2; i++ {
		if s[i] == '@' {
			return true
		}
	}
	return false
}

func issueSeverityForPct(pct float64) string {
	switch {
	case pct >= 50:
		return models.IssueSeverityHigh
	case pct >= 25:
		return models.IssueSeverityMedium
	default:
		return models.IssueSeverityLow
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRecord(record reader.Record) []interface{} {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, record[k])
	}
	return out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
