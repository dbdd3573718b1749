/*
 * @module service/validators/euharmon
 * @description 欧盟协调校验器：跨辖区主题映射、英文翻译、关联数据格式、PSI指令开放性与门户兼容性
 * @architecture 服务层 - 校验器实现
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 5个检查项 -> 类别结果
 * @rules PSI 开放性是合取条件：开放许可 且 无使用限制 且 机器可读 且 可访问，缺一即非满分
 * @dependencies service/models, service/metadata
 * @refs validator.go
 */

package validators

import (
	"fmt"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
)

// ValidatorEUHarmonization 欧盟协调类别名称
const ValidatorEUHarmonization = "eu_harmonization"

// EUHarmonizationValidator 欧盟协调校验器
type EUHarmonizationValidator struct {
	themes *metadata.ThemeRegistry
}

// NewEUHarmonizationValidator 创建欧盟协调校验器
func NewEUHarmonizationValidator() *EUHarmonizationValidator {
	return &EUHarmonizationValidator{themes: metadata.NewThemeRegistry()}
}

// Name 类别名称
func (v *EUHarmonizationValidator) Name() string { return ValidatorEUHarmonization }

// DefaultWeight 默认类别权重
func (v *EUHarmonizationValidator) DefaultWeight() float64 { return 0.08 }

var euAdvice = map[string]adviceEntry{
	"eu-theme-mapping": {
		Title: "Map themes onto the EU data-theme vocabulary",
		Steps: []string{
			"assign taxonomy themes that carry an EU vocabulary mapping",
			"replace unmapped codes with their closest EU-aligned equivalent",
		},
		Complexity: models.ComplexityLow,
	},
	"eu-english-translation": {
		Title: "Add English translations of title and description",
		Steps: []string{
			"translate the title and description into English",
			"keep both variants in sync on every metadata change",
		},
		Complexity: models.ComplexityMedium,
	},
	"eu-linked-data": {
		Title: "Offer a linked-data distribution",
		Steps: []string{
			"publish an RDF, Turtle or JSON-LD serialization of the dataset",
		},
		Complexity: models.ComplexityHigh,
	},
	"eu-openness": {
		Title: "Satisfy the PSI directive openness criteria",
		Steps: []string{
			"attach an open license without usage restrictions",
			"publish a machine-readable, directly accessible distribution",
		},
		Complexity: models.ComplexityMedium,
	},
	"eu-portal-compat": {
		Title: "Complete the pan-European portal fields",
		Steps: []string{
			"fill identifier, title and description",
			"declare contact point, spatial and temporal coverage",
		},
		Complexity: models.ComplexityLow,
	},
}

// Validate 执行全部欧盟协调检查
func (v *EUHarmonizationValidator) Validate(ctx *Context) *CategoryResult {
	record := ctx.Metadata
	if record == nil {
		record = &models.MetadataRecord{}
	}

	reqs := []models.Requirement{
		v.checkThemeMapping(record),
		v.checkEnglishTranslation(record),
		v.checkLinkedData(record),
		v.checkOpenness(record),
		v.checkPortalCompat(record),
	}

	weight := ctx.Config.WeightFor(v.Name(), v.DefaultWeight())
	thresholds := ctx.Config.ThresholdsFor(v.Name(), Thresholds{Compliant: 75, Partial: 50})
	return &CategoryResult{
		Category:        buildCategory(v.Name(), weight, thresholds, reqs),
		Recommendations: recommendationsFor(v.Name(), reqs, euAdvice),
		Errors:          nil,
	}
}

// checkThemeMapping 主题到欧盟词表的映射占比
func (v *EUHarmonizationValidator) checkThemeMapping(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "eu-theme-mapping",
		Name:        "Themes mapped to the EU vocabulary",
		Description: "score is the share of assigned themes with an EU data-theme mapping",
		Required:    true,
	}
	if len(record.Themes) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no themes assigned"
		return req
	}

	mapped := 0
	for _, theme := range record.Themes {
		if _, ok := v.themes.EUThemeFor(theme.Code); ok {
			mapped++
		}
	}
	req.Score = roundScore(100 * float64(mapped) / float64(len(record.Themes)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d themes mapped", mapped, len(record.Themes))
	return req
}

// checkEnglishTranslation 英文翻译检查，只译其一算部分翻译
func (v *EUHarmonizationValidator) checkEnglishTranslation(record *models.MetadataRecord) models.Requirement {
	titleEN := record.Title.Has(models.LocaleEnglish)
	descEN := record.Description.Has(models.LocaleEnglish)

	score := boolScore(titleEN, descEN)
	evidence := fmt.Sprintf("title_en=%t description_en=%t", titleEN, descEN)
	if (titleEN || descEN) && !(titleEN && descEN) {
		evidence += "; partial translation"
	}
	return models.Requirement{
		ID:          "eu-english-translation",
		Name:        "English translation present",
		Description: "English variants of title and description, 50 points each; one of two is flagged as partial",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    evidence,
	}
}

// checkLinkedData 关联数据格式检查
func (v *EUHarmonizationValidator) checkLinkedData(record *models.MetadataRecord) models.Requirement {
	found := false
	for _, dist := range record.Distributions {
		if metadata.IsLinkedDataFormat(metadata.NormalizeFormat(dist.Format)) {
			found = true
			break
		}
	}

	score := boolScore(found)
	return models.Requirement{
		ID:          "eu-linked-data",
		Name:        "Linked-data format offered",
		Description: "at least one distribution in a semantic format (RDF, Turtle, JSON-LD)",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("linked_data_distribution=%t", found),
	}
}

// checkOpenness PSI指令开放性合取检查，4项各占25分
func (v *EUHarmonizationValidator) checkOpenness(record *models.MetadataRecord) models.Requirement {
	openLicense := record.License != nil && metadata.IsOpenLicense(record.License.Identifier)
	unrestricted := record.License != nil && metadata.IsLicenseOpenByFlags(record.License)
	machineReadable := false
	available := false
	for _, dist := range record.Distributions {
		if metadata.IsMachineReadable(metadata.NormalizeFormat(dist.Format)) {
			machineReadable = true
		}
		if isAccessibleURL(dist.AccessURL) {
			available = true
		}
	}

	score := boolScore(openLicense, unrestricted, machineReadable, available)
	return models.Requirement{
		ID:          "eu-openness",
		Name:        "PSI directive openness",
		Description: "open license, no usage restriction, machine-readable format and accessible distribution, 25 points each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence: fmt.Sprintf("open_license=%t unrestricted=%t machine_readable=%t available=%t",
			openLicense, unrestricted, machineReadable, available),
	}
}

// checkPortalCompat 泛欧门户兼容字段，咨询性检查项
func (v *EUHarmonizationValidator) checkPortalCompat(record *models.MetadataRecord) models.Requirement {
	coreOK := record.Identifier != "" && !record.Title.IsEmpty() && !record.Description.IsEmpty()
	contactOK := record.ContactPoint != nil
	spatialOK := record.Spatial != ""
	temporalOK := record.Temporal != nil

	score := boolScore(coreOK, contactOK, spatialOK, temporalOK)
	return models.Requirement{
		ID:          "eu-portal-compat",
		Name:        "Portal compatibility fields",
		Description: "core descriptive fields, contact point, spatial and temporal coverage, 25 points each",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence: fmt.Sprintf("core=%t contact=%t spatial=%t temporal=%t",
			coreOK, contactOK, spatialOK, temporalOK),
	}
}
