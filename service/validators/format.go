/*
 * @module service/validators/format
 * @description 格式校验器：机器可读性、开放格式占比、字符编码声明、解析健康度与列一致性
 * @architecture 服务层 - 校验器实现
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 3-5个检查项 -> 类别结果
 * @rules 解析统计缺失时跳过解析健康度与列一致性检查项（本次运行未评估原始数据，不计0分）
 * @dependencies service/models, service/metadata
 * @refs validator.go
 */

package validators

import (
	"fmt"
	"strings"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
)

// ValidatorFormat 格式类别名称
const ValidatorFormat = "format"

// FormatValidator 格式校验器
type FormatValidator struct{}

// NewFormatValidator 创建格式校验器
func NewFormatValidator() *FormatValidator {
	return &FormatValidator{}
}

// Name 类别名称
func (v *FormatValidator) Name() string { return ValidatorFormat }

// DefaultWeight 默认类别权重
func (v *FormatValidator) DefaultWeight() float64 { return 0.32 }

var formatAdvice = map[string]adviceEntry{
	"fmt-machine-readable": {
		Title: "Publish a machine-readable distribution",
		Steps: []string{
			"convert the dataset to CSV, JSON or another machine-readable format",
			"declare the normalized MIME identifier on the distribution",
		},
		Complexity: models.ComplexityMedium,
	},
	"fmt-open-format": {
		Title: "Move distributions to open formats",
		Steps: []string{
			"replace proprietary formats with open equivalents",
			"keep the proprietary variant only as a secondary distribution",
		},
		Complexity: models.ComplexityMedium,
	},
	"fmt-encoding": {
		Title: "Declare UTF-8 encoding on every distribution",
		Steps: []string{
			"re-encode legacy windows-1250 or iso-8859-2 files as UTF-8",
			"state the encoding in the distribution metadata",
		},
		Complexity: models.ComplexityLow,
	},
	"fmt-parse-health": {
		Title: "Repair rows that fail to parse",
		Steps: []string{
			"inspect the reported parse errors row by row",
			"fix quoting, delimiters and column counts at the source",
		},
		Complexity: models.ComplexityMedium,
	},
	"fmt-column-consistency": {
		Title: "Reduce empty cells in the published data",
		Steps: []string{
			"backfill missing values or drop unused columns",
		},
		Complexity: models.ComplexityLow,
	},
}

// Validate 执行全部格式检查
func (v *FormatValidator) Validate(ctx *Context) *CategoryResult {
	record := ctx.Metadata
	if record == nil {
		record = &models.MetadataRecord{}
	}

	reqs := []models.Requirement{
		v.checkMachineReadable(record),
		v.checkOpenFormats(record),
		v.checkEncoding(record),
	}
	if ctx.ParseStats != nil {
		reqs = append(reqs,
			v.checkParseHealth(ctx.ParseStats, ctx.ParseErrors),
			v.checkColumnConsistency(ctx.ParseStats, ctx.Records),
		)
	}

	var errors []models.ValidationError
	if ctx.ParseStats != nil && ctx.ParseStats.FailedRows > 0 {
		errors = append(errors, models.ValidationError{
			Code:     "PARSE_FAILURES",
			Message:  fmt.Sprintf("%d 行数据解析失败", ctx.ParseStats.FailedRows),
			Severity: models.ErrorSeverityWarning,
			Category: v.Name(),
		})
	}

	weight := ctx.Config.WeightFor(v.Name(), v.DefaultWeight())
	thresholds := ctx.Config.ThresholdsFor(v.Name(), Thresholds{Compliant: 90, Partial: 60})
	return &CategoryResult{
		Category:        buildCategory(v.Name(), weight, thresholds, reqs),
		Recommendations: recommendationsFor(v.Name(), reqs, formatAdvice),
		Errors:          errors,
	}
}

// checkMachineReadable 至少一个分发使用机器可读格式
func (v *FormatValidator) checkMachineReadable(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "fmt-machine-readable",
		Name:        "Machine-readable distribution",
		Description: "at least one distribution in a machine-readable format",
		Required:    true,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	found := false
	for _, dist := range record.Distributions {
		if metadata.IsMachineReadable(metadata.NormalizeFormat(dist.Format)) {
			found = true
			break
		}
	}
	req.Score = boolScore(found)
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("machine_readable=%t", found)
	return req
}

// checkOpenFormats 开放格式占比
func (v *FormatValidator) checkOpenFormats(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "fmt-open-format",
		Name:        "Open formats",
		Description: "score is the share of distributions using an open format",
		Required:    true,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	open := 0
	for _, dist := range record.Distributions {
		if metadata.IsOpenFormat(metadata.NormalizeFormat(dist.Format)) {
			open++
		}
	}
	req.Score = roundScore(100 * float64(open) / float64(len(record.Distributions)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d distributions open", open, len(record.Distributions))
	return req
}

// checkEncoding 编码声明检查
// 全部声明 UTF-8 满分；未声明按 UTF-8 假定计50分；声明遗留编码计0分
func (v *FormatValidator) checkEncoding(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "fmt-encoding",
		Name:        "Character encoding declared",
		Description: "all distributions declared as UTF-8 scores 100, undeclared scores 50, legacy encodings score 0",
		Required:    false,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	allUTF8 := true
	anyLegacy := false
	for _, dist := range record.Distributions {
		enc := strings.ToLower(strings.TrimSpace(dist.Encoding))
		switch enc {
		case "utf-8", "utf8":
		case "":
			allUTF8 = false
		default:
			allUTF8 = false
			anyLegacy = true
		}
	}

	switch {
	case allUTF8:
		req.Score = 100
	case anyLegacy:
		req.Score = 0
	default:
		req.Score = 50
	}
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("all_utf8=%t legacy_declared=%t", allUTF8, anyLegacy)
	return req
}

// checkParseHealth 解析健康度：成功行占比
func (v *FormatValidator) checkParseHealth(stats *models.ParseStats, parseErrors []models.ParseError) models.Requirement {
	req := models.Requirement{
		ID:          "fmt-parse-health",
		Name:        "Parse health",
		Description: "score is the share of rows that parsed successfully",
		Required:    true,
	}
	if stats.TotalRows == 0 {
		req.Status = models.RequirementFail
		req.Error = "no data rows parsed"
		return req
	}

	req.Score = roundScore(100 * float64(stats.ParsedRows) / float64(stats.TotalRows))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d rows parsed, %d errors", stats.ParsedRows, stats.TotalRows, len(parseErrors))
	return req
}

// checkColumnConsistency 列一致性：按空值单元格占比折算
func (v *FormatValidator) checkColumnConsistency(stats *models.ParseStats, records []reader.Record) models.Requirement {
	req := models.Requirement{
		ID:          "fmt-column-consistency",
		Name:        "Column consistency",
		Description: "score is the share of non-empty cells across parsed rows",
		Required:    false,
	}
	totalCells := stats.ColumnCount * len(records)
	if totalCells == 0 {
		req.Status = models.RequirementFail
		req.Error = "no cells to assess"
		return req
	}

	req.Score = roundScore(100 * float64(totalCells-stats.EmptyValues) / float64(totalCells))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d empty of %d cells", stats.EmptyValues, totalCells)
	return req
}
