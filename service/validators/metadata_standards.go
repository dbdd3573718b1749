/*
 * @module service/validators/metadata_standards
 * @description 元数据标准校验器：必填字段、本地语言覆盖、发布机构、主题、许可、联系点、分发与丰富度
 * @architecture 服务层 - 校验器实现
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 8个检查项 -> 类别结果
 * @rules 缺失的发布机构是 fail 检查项 + MISSING_PUBLISHER 校验错误，不中断后续检查；
 *        丰富度是咨询性检查项（Required=false），不产生 critical/major 建议
 * @dependencies service/models, service/metadata
 * @refs validator.go
 */

package validators

import (
	"fmt"
	"strings"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
)

// ValidatorMetadataStandards 元数据标准类别名称
const ValidatorMetadataStandards = "metadata_standards"

// MetadataStandardsValidator 元数据标准校验器
type MetadataStandardsValidator struct {
	themes *metadata.ThemeRegistry
}

// NewMetadataStandardsValidator 创建元数据标准校验器
func NewMetadataStandardsValidator() *MetadataStandardsValidator {
	return &MetadataStandardsValidator{themes: metadata.NewThemeRegistry()}
}

// Name 类别名称
func (v *MetadataStandardsValidator) Name() string { return ValidatorMetadataStandards }

// DefaultWeight 默认类别权重
func (v *MetadataStandardsValidator) DefaultWeight() float64 { return 0.15 }

// metadataStandardsAdvice 各检查项的改进建议文案
var metadataStandardsAdvice = map[string]adviceEntry{
	"ms-required-fields": {
		Title: "Populate the required metadata fields",
		Steps: []string{
			"set a stable dataset identifier",
			"provide title and description",
			"declare the dataset languages and at least one distribution",
		},
		Complexity: models.ComplexityLow,
	},
	"ms-home-locale": {
		Title: "Add home-locale support",
		Steps: []string{
			"add Serbian variants of the title and description",
			"declare sr in the dataset language list",
		},
		Complexity: models.ComplexityMedium,
	},
	"ms-publisher": {
		Title: "Declare a valid publisher institution",
		Steps: []string{
			"set the publishing institution with its Serbian name",
			"use the 8-digit registry identifier (matični broj)",
			"pick an allowed institution type",
		},
		Complexity: models.ComplexityLow,
	},
	"ms-themes": {
		Title: "Assign themes from the known taxonomy",
		Steps: []string{
			"classify the dataset with at least one taxonomy theme code",
			"replace unknown codes with codes from the published taxonomy",
		},
		Complexity: models.ComplexityLow,
	},
	"ms-license": {
		Title: "Attach an approved open license",
		Steps: []string{
			"choose a license from the open-license allow-list",
			"allow commercial use and derivative works",
		},
		Complexity: models.ComplexityLow,
	},
	"ms-contact-point": {
		Title: "Complete the contact point",
		Steps: []string{
			"provide a working contact email address",
			"name the contact point in the home locale",
		},
		Complexity: models.ComplexityLow,
	},
	"ms-distributions": {
		Title: "Complete distribution format and access information",
		Steps: []string{
			"declare format and access URL for every distribution",
			"offer at least one open, machine-readable format",
		},
		Complexity: models.ComplexityMedium,
	},
	"ms-richness": {
		Title: "Enrich the descriptive metadata",
		Steps: []string{
			"extend the description beyond a single sentence",
			"add keywords and keep the modification date current",
		},
		Complexity: models.ComplexityLow,
	},
}

// Validate 执行全部元数据标准检查
func (v *MetadataStandardsValidator) Validate(ctx *Context) *CategoryResult {
	record := ctx.Metadata
	if record == nil {
		record = &models.MetadataRecord{}
	}
	home := ctx.Config.HomeLocale()

	var errors []models.ValidationError
	reqs := []models.Requirement{
		v.checkRequiredFields(record),
		v.checkHomeLocale(record, home),
		v.checkPublisher(record, home, &errors),
		v.checkThemes(record),
		v.checkLicense(record),
		v.checkContactPoint(record, home),
		v.checkDistributions(record),
		v.checkRichness(record),
	}

	weight := ctx.Config.WeightFor(v.Name(), v.DefaultWeight())
	thresholds := ctx.Config.ThresholdsFor(v.Name(), Thresholds{Compliant: 90, Partial: 60})
	return &CategoryResult{
		Category:        buildCategory(v.Name(), weight, thresholds, reqs),
		Recommendations: recommendationsFor(v.Name(), reqs, metadataStandardsAdvice),
		Errors:          errors,
	}
}

// checkRequiredFields 必填字段检查，5项子检查各占20分
func (v *MetadataStandardsValidator) checkRequiredFields(record *models.MetadataRecord) models.Requirement {
	hasIdentifier := record.Identifier != ""
	hasTitle := !record.Title.IsEmpty()
	hasDescription := !record.Description.IsEmpty()
	hasLanguages := len(record.Languages) > 0
	hasDistributions := len(record.Distributions) > 0

	score := boolScore(hasIdentifier, hasTitle, hasDescription, hasLanguages, hasDistributions)
	return models.Requirement{
		ID:          "ms-required-fields",
		Name:        "Required metadata fields present",
		Description: "identifier, title, description, language list and at least one distribution, 20 points each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence: fmt.Sprintf("identifier=%t title=%t description=%t languages=%t distributions=%t",
			hasIdentifier, hasTitle, hasDescription, hasLanguages, hasDistributions),
	}
}

// checkHomeLocale 本地语言覆盖检查
// 标题与描述都没有本地语言变体时直接判0分 fail，语言声明只在文本变体存在时计入
func (v *MetadataStandardsValidator) checkHomeLocale(record *models.MetadataRecord, home string) models.Requirement {
	titleHas := hasHomeVariant(record.Title, home)
	descHas := hasHomeVariant(record.Description, home)
	langDeclared := record.HasLanguage(home) || record.HasLanguage(models.LocaleSerbianLatin)

	var score float64
	if titleHas || descHas {
		score = boolScore(titleHas, descHas, langDeclared)
	}
	return models.Requirement{
		ID:          "ms-home-locale",
		Name:        "Home-locale coverage",
		Description: "title and description carry a home-locale variant and the language list declares it; no home-locale text at all scores 0",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("title=%t description=%t language_declared=%t", titleHas, descHas, langDeclared),
	}
}

// checkPublisher 发布机构检查，缺失时追加 MISSING_PUBLISHER 校验错误
func (v *MetadataStandardsValidator) checkPublisher(record *models.MetadataRecord, home string, errors *[]models.ValidationError) models.Requirement {
	if record.Publisher == nil {
		*errors = append(*errors, models.ValidationError{
			Code:     "MISSING_PUBLISHER",
			Message:  "数据集未声明发布机构",
			Severity: models.ErrorSeverityError,
			Field:    "publisher",
			Category: v.Name(),
		})
		return models.Requirement{
			ID:          "ms-publisher",
			Name:        "Publisher declared and valid",
			Description: "publisher present with home-locale name, 8-digit registry identifier and allowed institution type",
			Required:    true,
			Status:      models.RequirementFail,
			Score:       0,
			Error:       "publisher is missing",
		}
	}

	nameOK := hasHomeVariant(record.Publisher.Name, home)
	identifierOK := metadata.IsValidInstitutionIdentifier(record.Publisher.Identifier)
	typeOK := metadata.IsAllowedInstitutionType(record.Publisher.Type)

	score := boolScore(nameOK, identifierOK, typeOK)
	return models.Requirement{
		ID:          "ms-publisher",
		Name:        "Publisher declared and valid",
		Description: "home-locale name, 8-digit registry identifier and allowed institution type, one third each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("name=%t identifier=%t type=%t", nameOK, identifierOK, typeOK),
	}
}

// checkThemes 主题分类检查，评分为已知分类码占比
func (v *MetadataStandardsValidator) checkThemes(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "ms-themes",
		Name:        "Themes from the known taxonomy",
		Description: "at least one theme assigned; score is the share of theme codes found in the taxonomy",
		Required:    true,
	}
	if len(record.Themes) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no themes assigned"
		return req
	}

	known := 0
	for _, theme := range record.Themes {
		if v.themes.IsKnownCode(theme.Code) {
			known++
		}
	}
	req.Score = roundScore(100 * float64(known) / float64(len(record.Themes)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d theme codes known", known, len(record.Themes))
	return req
}

// checkLicense 许可协议检查：允许列表 + 开放性标志位各占50分
func (v *MetadataStandardsValidator) checkLicense(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "ms-license",
		Name:        "License approved and open",
		Description: "license on the open-license allow-list and openness flags permit commercial use and derivatives, 50 points each",
		Required:    true,
	}
	if record.License == nil {
		req.Status = models.RequirementFail
		req.Error = "no license attached"
		return req
	}

	listed := metadata.IsOpenLicense(record.License.Identifier)
	flagsOpen := metadata.IsLicenseOpenByFlags(record.License)
	req.Score = boolScore(listed, flagsOpen)
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("allow_listed=%t flags_open=%t", listed, flagsOpen)
	return req
}

// checkContactPoint 联系点检查：邮箱格式 + 本地语言名称各占50分
func (v *MetadataStandardsValidator) checkContactPoint(record *models.MetadataRecord, home string) models.Requirement {
	req := models.Requirement{
		ID:          "ms-contact-point",
		Name:        "Contact point reachable",
		Description: "valid contact email and home-locale contact name, 50 points each",
		Required:    true,
	}
	if record.ContactPoint == nil {
		req.Status = models.RequirementFail
		req.Error = "no contact point declared"
		return req
	}

	emailOK := isValidEmail(record.ContactPoint.Email)
	nameOK := hasHomeVariant(record.ContactPoint.Name, home)
	req.Score = boolScore(emailOK, nameOK)
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("email=%t name=%t", emailOK, nameOK)
	return req
}

// checkDistributions 分发完整性检查：全部分发有格式与访问地址 + 至少一个开放机器可读格式
func (v *MetadataStandardsValidator) checkDistributions(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "ms-distributions",
		Name:        "Distributions complete and open",
		Description: "every distribution declares format and access URL, and at least one format is open and machine-readable, 50 points each",
		Required:    true,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	allComplete := true
	openMachineReadable := false
	for _, dist := range record.Distributions {
		if dist.Format == "" || dist.AccessURL == "" {
			allComplete = false
		}
		normalized := metadata.NormalizeFormat(dist.Format)
		if metadata.IsOpenFormat(normalized) && metadata.IsMachineReadable(normalized) {
			openMachineReadable = true
		}
	}
	req.Score = boolScore(allComplete, openMachineReadable)
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("all_complete=%t open_machine_readable=%t", allComplete, openMachineReadable)
	return req
}

// checkRichness 元数据丰富度，咨询性检查项
func (v *MetadataStandardsValidator) checkRichness(record *models.MetadataRecord) models.Requirement {
	titleLen := len([]rune(record.Title.Best()))
	titleOK := titleLen >= 3 && titleLen <= 200
	descOK := len([]rune(record.Description.Best())) >= 30
	keywordsOK := len(record.Keywords) > 0
	modifiedOK := record.Modified != nil

	score := boolScore(titleOK, descOK, keywordsOK, modifiedOK)
	return models.Requirement{
		ID:          "ms-richness",
		Name:        "Metadata richness",
		Description: "title length in bounds, description at least 30 characters, keywords present, modification date present, 25 points each",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("title=%t description=%t keywords=%t modified=%t", titleOK, descOK, keywordsOK, modifiedOK),
	}
}

// hasHomeVariant 文本是否带有本地语言变体（西里尔文或拉丁文变体均可）
func hasHomeVariant(text models.LocalizedText, home string) bool {
	if text.Has(home) {
		return true
	}
	if strings.HasPrefix(home, models.LocaleSerbian) {
		return text.Has(models.LocaleSerbian) || text.Has(models.LocaleSerbianLatin)
	}
	return false
}
