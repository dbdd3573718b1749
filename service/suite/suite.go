/*
 * @module service/suite/suite
 * @description 合规评估编排器：解析 -> 补全 -> 质量分析 -> 并发校验 -> 加权聚合的组合根
 * @architecture 服务层 - 显式组合对象，构造一次复用多次，无隐藏全局状态
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow Parse -> Enrich -> Analyze -> Validate -> Aggregate，严格单向，每次运行是输入的纯函数
 * @rules 单个类别不合规是合法可报告结果，从不导致整次运行失败；
 *        唯一的致命错误通道是编程错误（不支持的输入/导出格式）；
 *        校验器并发执行，各写各的结果槽位，聚合对执行顺序不敏感
 * @dependencies service/reader, service/metadata, service/quality, service/validators, github.com/google/uuid
 * @refs report.go
 */

package suite

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/quality"
	"opendata-compliance-service/service/reader"
	"opendata-compliance-service/service/validators"
)

// 输入格式标识
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// 总体合规状态的全局阈值，与各类别阈值相互独立
const (
	overallCompliantThreshold = 80.0
	overallPartialThreshold   = 50.0
)

// Config 一次评估运行的完整配置
type Config struct {
	// Reader 解析选项（分隔符、编码、语言环境、严格程度）
	Reader reader.Options
	// Enhance 元数据补全选项，默认全部启发式开启
	Enhance metadata.EnhanceOptions
	// Validation 校验配置（权重/阈值覆盖、禁用集合、默认语言）
	Validation *validators.Config
	// QualityWeights 质量维度综合权重覆盖
	QualityWeights map[string]float64
}

// Input 一次评估运行的输入
// Raw 与 Records 二选一：Raw 非空时先走解析阶段，否则直接使用 Records
type Input struct {
	Raw      []byte
	Format   string
	Records  []reader.Record
	Metadata *models.MetadataRecord
}

// Assessment 一次评估运行的全部产出
type Assessment struct {
	Compliance *models.ComplianceResult `json:"compliance"`
	Quality    *models.QualityMetrics   `json:"quality"`
	// Metadata 补全后的元数据记录
	Metadata *models.MetadataRecord `json:"metadata,omitempty"`
	// Parse 解析阶段产出，仅当输入含原始数据时存在
	Parse *reader.Result `json:"parse,omitempty"`
}

// ComplianceSuite 合规评估套件，由调用方构造一次并按引用传递
type ComplianceSuite struct {
	csvReader  *reader.CSVReader
	jsonReader *reader.JSONReader
	adapter    *metadata.Adapter
	enhancer   *metadata.Enhancer
	analyzer   *quality.Analyzer
	registry   []validators.Validator
	config     Config
}

// NewComplianceSuite 创建合规评估套件，查找表在此一次性初始化
func NewComplianceSuite(config Config) *ComplianceSuite {
	analyzer := quality.NewAnalyzer()
	analyzer.SetWeightOverrides(config.QualityWeights)
	return &ComplianceSuite{
		csvReader:  reader.NewCSVReader(),
		jsonReader: reader.NewJSONReader(),
		adapter:    metadata.NewAdapter(),
		enhancer:   metadata.NewEnhancer(metadata.NewInstitutionRegistry(), metadata.NewThemeRegistry()),
		analyzer:   analyzer,
		registry:   validators.DefaultRegistry(),
		config:     config,
	}
}

// newSuiteAt 固定时钟的套件（测试用）
func newSuiteAt(config Config, now func() time.Time) *ComplianceSuite {
	s := NewComplianceSuite(config)
	s.analyzer = quality.NewAnalyzerAt(now)
	s.analyzer.SetWeightOverrides(config.QualityWeights)
	return s
}

// Run 执行完整的合规评估流程
// 返回错误仅限编程错误（不支持的输入格式）；数据问题全部以结果数据形式返回
func (s *ComplianceSuite) Run(input Input) (*Assessment, error) {
	started := time.Now()
	assessment := &Assessment{}

	// 阶段1：解析。解析错误收集进结果，不中止运行
	records := input.Records
	if len(input.Raw) > 0 {
		parsed, err := s.parse(input.Raw, input.Format)
		if err != nil {
			return nil, err
		}
		assessment.Parse = parsed
		records = parsed.Data
	}

	// 阶段2：元数据补全
	var enriched *models.MetadataRecord
	if input.Metadata != nil {
		opts := s.config.Enhance
		if opts.DefaultLocale == "" {
			opts.DefaultLocale = s.config.Validation.HomeLocale()
		}
		enriched = s.enhancer.Enhance(input.Metadata, opts)
	}
	assessment.Metadata = enriched

	// 阶段3：质量分析，与校验阶段相互独立
	assessment.Quality = s.analyzer.CalculateQuality(records, enriched)
	if enriched != nil {
		enriched.Quality = assessment.Quality
	}

	// 阶段4：并发校验，各校验器写入独立槽位后统一聚合
	ctx := &validators.Context{
		Records:  records,
		Metadata: enriched,
		Config:   s.config.Validation,
	}
	if assessment.Parse != nil {
		ctx.ParseStats = &assessment.Parse.Stats
		ctx.ParseErrors = assessment.Parse.Errors
	}
	results := s.validate(ctx)

	assessment.Compliance = s.aggregate(results, assessment.Quality, started)
	return assessment, nil
}

// QuickCheck 快速检查变体，只返回通过标志与总体评分
func (s *ComplianceSuite) QuickCheck(input Input) (*models.QuickCheckResult, error) {
	assessment, err := s.Run(input)
	if err != nil {
		return nil, err
	}
	return &models.QuickCheckResult{
		Passed: assessment.Compliance.OverallStatus == models.StatusCompliant,
		Score:  assessment.Compliance.OverallScore,
		Status: assessment.Compliance.OverallStatus,
	}, nil
}

// ImportMetadata 从外部目录约定导入元数据
func (s *ComplianceSuite) ImportMetadata(schema metadata.ExternalSchema, payload metadata.Payload) (*models.MetadataRecord, error) {
	return s.adapter.AdaptFrom(schema, payload)
}

// ExportMetadata 导出元数据为外部目录约定
func (s *ComplianceSuite) ExportMetadata(schema metadata.ExternalSchema, record *models.MetadataRecord) (metadata.Payload, error) {
	return s.adapter.AdaptTo(schema, record)
}

// ExportRecords 将记录集序列化为指定格式
func (s *ComplianceSuite) ExportRecords(records []reader.Record, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return s.csvReader.Stringify(records, s.config.Reader)
	case FormatJSON:
		return s.jsonReader.Stringify(records, s.config.Reader)
	default:
		return nil, fmt.Errorf("不支持的导出格式: %s", format)
	}
}

// parse 按声明格式选择读取器
func (s *ComplianceSuite) parse(raw []byte, format string) (*reader.Result, error) {
	switch format {
	case FormatCSV:
		return s.csvReader.Parse(raw, s.config.Reader), nil
	case FormatJSON:
		return s.jsonReader.Parse(raw, s.config.Reader), nil
	default:
		return nil, fmt.Errorf("不支持的输入格式: %s", format)
	}
}

// validate 并发执行全部启用的校验器
// 每个校验器写自己的槽位，聚合阶段按注册表顺序读取，结果与串行执行一致
func (s *ComplianceSuite) validate(ctx *validators.Context) []*validators.CategoryResult {
	slots := make([]*validators.CategoryResult, len(s.registry))
	var wg sync.WaitGroup
	for i, v := range s.registry {
		if s.config.Validation.IsDisabled(v.Name()) {
			continue
		}
		wg.Add(1)
		go func(slot int, v validators.Validator) {
			defer wg.Done()
			slots[slot] = v.Validate(ctx)
		}(i, v)
	}
	wg.Wait()

	results := make([]*validators.CategoryResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results
}

// aggregate 加权聚合：总分 = Σ(类别分×权重)/Σ权重，禁用校验器的权重自动重归一
func (s *ComplianceSuite) aggregate(results []*validators.CategoryResult, metrics *models.QualityMetrics, started time.Time) *models.ComplianceResult {
	result := &models.ComplianceResult{
		AssessmentID: uuid.New().String(),
		AssessedAt:   started,
	}

	var weightedSum, totalWeight float64
	for _, r := range results {
		result.Categories = append(result.Categories, r.Category)
		result.Errors = append(result.Errors, r.Errors...)
		result.Recommendations = append(result.Recommendations, r.Recommendations...)
		weightedSum += r.Category.Score * r.Category.Weight
		totalWeight += r.Category.Weight
	}
	if totalWeight > 0 {
		result.OverallScore = round1(weightedSum / totalWeight)
	}

	switch {
	case result.OverallScore >= overallCompliantThreshold:
		result.OverallStatus = models.StatusCompliant
	case result.OverallScore >= overallPartialThreshold:
		result.OverallStatus = models.StatusPartial
	default:
		result.OverallStatus = models.StatusNonCompliant
	}

	// 质量建议与校验建议合并后按严重程度稳定排序，同级保持输入顺序
	result.Recommendations = append(result.Recommendations, quality.GenerateQualityRecommendations(metrics)...)
	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return models.SeverityRank(result.Recommendations[i].Severity) >
			models.SeverityRank(result.Recommendations[j].Severity)
	})

	// 不合规结果保证至少一条 critical 建议，锚定第一个失败的硬性检查项
	if result.OverallStatus == models.StatusNonCompliant && !hasCritical(result.Recommendations) {
		if req, category := firstFailingRequired(result.Categories); req != nil {
			rec := models.Recommendation{
				ID:          uuid.New().String(),
				Severity:    models.SeverityCritical,
				Category:    category,
				Title:       "Resolve the first failing required check: " + req.Name,
				Description: fmt.Sprintf("requirement %s failed with score %.1f", req.ID, req.Score),
				ActionSteps: []string{"address the failing requirement before resubmission"},
				ScoreImpact: round1(100 - req.Score),
				Complexity:  models.ComplexityMedium,
			}
			result.Recommendations = append([]models.Recommendation{rec}, result.Recommendations...)
		}
	}

	result.Duration = time.Since(started)
	return result
}

func hasCritical(recs []models.Recommendation) bool {
	for _, rec := range recs {
		if rec.Severity == models.SeverityCritical {
			return true
		}
	}
	return false
}

// firstFailingRequired 按类别顺序找第一个失败的硬性检查项
func firstFailingRequired(categories []models.ComplianceCategory) (*models.Requirement, string) {
	for _, category := range categories {
		for i := range category.Requirements {
			req := &category.Requirements[i]
			if req.Required && req.Status == models.RequirementFail {
				return req, category.Name
			}
		}
	}
	return nil, ""
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
