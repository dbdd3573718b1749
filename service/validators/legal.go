/*
 * @module service/validators/legal
 * @description 法律框架校验器：信息公开四要素、开放数据适配性、个人数据披露、许可兼容性与文档完整性
 * @architecture 服务层 - 校验器实现
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 5个检查项 -> 类别结果
 * @rules 检出个人数据而无隐私声明时产出 warning 级校验错误而非硬失败，个人数据不被禁止，只要求披露
 * @dependencies service/models, service/metadata
 * @refs validator.go, patterns.go
 */

package validators

import (
	"fmt"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
)

// ValidatorLegalFramework 法律框架类别名称
const ValidatorLegalFramework = "legal_framework"

// LegalFrameworkValidator 法律框架校验器
type LegalFrameworkValidator struct{}

// NewLegalFrameworkValidator 创建法律框架校验器
func NewLegalFrameworkValidator() *LegalFrameworkValidator {
	return &LegalFrameworkValidator{}
}

// Name 类别名称
func (v *LegalFrameworkValidator) Name() string { return ValidatorLegalFramework }

// DefaultWeight 默认类别权重
func (v *LegalFrameworkValidator) DefaultWeight() float64 { return 0.20 }

var legalAdvice = map[string]adviceEntry{
	"lf-foi-information": {
		Title: "Provide the information required by the freedom-of-information law",
		Steps: []string{
			"declare a reachable contact point",
			"name the responsible publishing party",
			"record the publication date and a stable identifier",
		},
		Complexity: models.ComplexityLow,
	},
	"lf-open-data-fitness": {
		Title: "Meet the open-data regulation baseline",
		Steps: []string{
			"publish at least one machine-readable distribution",
			"attach an open license",
			"complete identifier, title and description",
		},
		Complexity: models.ComplexityMedium,
	},
	"lf-personal-data": {
		Title: "Disclose personal data handling",
		Steps: []string{
			"add a privacy statement to the dataset metadata",
			"describe which columns contain personal identifiers and why",
		},
		Complexity: models.ComplexityMedium,
	},
	"lf-license-compat": {
		Title: "Align the license with the open-license allow-list",
		Steps: []string{
			"replace the current license with one from the allow-list",
			"remove restrictions on commercial use and derivatives",
		},
		Complexity: models.ComplexityLow,
	},
	"lf-documentation": {
		Title: "Extend the baseline documentation",
		Steps: []string{
			"lengthen the description to cover scope and collection method",
			"add keywords and theme classifications",
		},
		Complexity: models.ComplexityLow,
	},
}

// Validate 执行全部法律框架检查
func (v *LegalFrameworkValidator) Validate(ctx *Context) *CategoryResult {
	record := ctx.Metadata
	if record == nil {
		record = &models.MetadataRecord{}
	}

	var errors []models.ValidationError
	reqs := []models.Requirement{
		v.checkFOIInformation(record),
		v.checkOpenDataFitness(record),
		v.checkPersonalData(ctx, record, &errors),
		v.checkLicenseCompat(record),
		v.checkDocumentation(record),
	}

	weight := ctx.Config.WeightFor(v.Name(), v.DefaultWeight())
	thresholds := ctx.Config.ThresholdsFor(v.Name(), Thresholds{Compliant: 75, Partial: 50})
	return &CategoryResult{
		Category:        buildCategory(v.Name(), weight, thresholds, reqs),
		Recommendations: recommendationsFor(v.Name(), reqs, legalAdvice),
		Errors:          errors,
	}
}

// checkFOIInformation 信息公开法四要素，各占25分
// 责任主体接受发布机构或具名联系点，发布事实接受时间戳或已可访问的分发
func (v *LegalFrameworkValidator) checkFOIInformation(record *models.MetadataRecord) models.Requirement {
	hasIdentifier := record.Identifier != ""
	contactReachable := record.ContactPoint != nil &&
		(isValidEmail(record.ContactPoint.Email) || record.ContactPoint.Phone != "")
	responsibleParty := record.Publisher != nil ||
		(record.ContactPoint != nil && !record.ContactPoint.Name.IsEmpty()) ||
		contactReachable
	publicationEvidence := record.Issued != nil || record.Modified != nil
	if !publicationEvidence {
		for _, dist := range record.Distributions {
			if dist.AccessURL != "" {
				publicationEvidence = true
				break
			}
		}
	}

	score := boolScore(hasIdentifier, contactReachable, responsibleParty, publicationEvidence)
	return models.Requirement{
		ID:          "lf-foi-information",
		Name:        "Freedom-of-information essentials",
		Description: "identifier, reachable contact, responsible party and publication evidence, 25 points each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence: fmt.Sprintf("identifier=%t contact=%t responsible_party=%t publication=%t",
			hasIdentifier, contactReachable, responsibleParty, publicationEvidence),
	}
}

// checkOpenDataFitness 开放数据法规适配性：机器可读 + 开放许可 + 最小元数据
func (v *LegalFrameworkValidator) checkOpenDataFitness(record *models.MetadataRecord) models.Requirement {
	machineReadable := false
	for _, dist := range record.Distributions {
		if metadata.IsMachineReadable(metadata.NormalizeFormat(dist.Format)) {
			machineReadable = true
			break
		}
	}
	openLicense := record.License != nil &&
		(metadata.IsOpenLicense(record.License.Identifier) || metadata.IsLicenseOpenByFlags(record.License))
	minimalMetadata := record.Identifier != "" && !record.Title.IsEmpty() && !record.Description.IsEmpty()

	score := boolScore(machineReadable, openLicense, minimalMetadata)
	return models.Requirement{
		ID:          "lf-open-data-fitness",
		Name:        "Open-data regulation fitness",
		Description: "machine-readable distribution, open license and minimal metadata, one third each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence: fmt.Sprintf("machine_readable=%t open_license=%t minimal_metadata=%t",
			machineReadable, openLicense, minimalMetadata),
	}
}

// checkPersonalData 个人数据披露检查
// 无个人数据或已有隐私声明 -> 满分；检出个人数据且无声明 -> warning 级校验错误 + 50分 warning
func (v *LegalFrameworkValidator) checkPersonalData(ctx *Context, record *models.MetadataRecord, errors *[]models.ValidationError) models.Requirement {
	req := models.Requirement{
		ID:          "lf-personal-data",
		Name:        "Personal data disclosed",
		Description: "record values matching personal-identifier patterns require a privacy statement; detection without disclosure scores 50",
		Required:    true,
	}

	hits := scanPersonalData(ctx.Records)
	if len(hits) == 0 {
		req.Status = models.RequirementPass
		req.Score = 100
		req.Evidence = "no personal-data patterns detected"
		return req
	}

	evidence := fmt.Sprintf("%d field(s) with personal-data patterns", len(hits))
	for _, hit := range hits {
		evidence += fmt.Sprintf("; %s in %q (%d)", hit.Kind, hit.Field, hit.Count)
	}

	if record.PrivacyStatement != "" {
		req.Status = models.RequirementPass
		req.Score = 100
		req.Evidence = evidence + "; privacy statement present"
		return req
	}

	*errors = append(*errors, models.ValidationError{
		Code:     "PERSONAL_DATA_UNDISCLOSED",
		Message:  "记录中检出疑似个人数据但元数据缺少隐私声明",
		Severity: models.ErrorSeverityWarning,
		Field:    "privacy_statement",
		Category: v.Name(),
	})
	req.Status = models.RequirementWarning
	req.Score = 50
	req.Evidence = evidence + "; no privacy statement"
	return req
}

// checkLicenseCompat 许可兼容性：缺失判0分，存在时按允许列表与标志位各占50分
func (v *LegalFrameworkValidator) checkLicenseCompat(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "lf-license-compat",
		Name:        "License compatibility",
		Description: "license on the open-license allow-list and openness flags unrestricted, 50 points each",
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

// checkDocumentation 基线文档完整性，咨询性检查项
func (v *LegalFrameworkValidator) checkDocumentation(record *models.MetadataRecord) models.Requirement {
	descOK := len([]rune(record.Description.Best())) >= 50
	keywordsOK := len(record.Keywords) > 0
	themesOK := len(record.Themes) > 0

	score := boolScore(descOK, keywordsOK, themesOK)
	return models.Requirement{
		ID:          "lf-documentation",
		Name:        "Baseline documentation",
		Description: "description of at least 50 characters, keywords and themes, one third each",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("description=%t keywords=%t themes=%t", descOK, keywordsOK, themesOK),
	}
}
