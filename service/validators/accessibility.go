/*
 * @module service/validators/accessibility
 * @description 可访问性校验器：访问地址形态、直接下载、联系渠道、格式多样性与体量声明
 * @architecture 服务层 - 校验器实现
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 校验上下文 -> 5个检查项 -> 类别结果
 * @rules 纯形态检查，不发起任何网络请求验证地址可达性
 * @dependencies service/models, service/metadata
 * @refs validator.go, patterns.go
 */

package validators

import (
	"fmt"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
)

// ValidatorAccessibility 可访问性类别名称
const ValidatorAccessibility = "accessibility"

// AccessibilityValidator 可访问性校验器
type AccessibilityValidator struct{}

// NewAccessibilityValidator 创建可访问性校验器
func NewAccessibilityValidator() *AccessibilityValidator {
	return &AccessibilityValidator{}
}

// Name 类别名称
func (v *AccessibilityValidator) Name() string { return ValidatorAccessibility }

// DefaultWeight 默认类别权重
func (v *AccessibilityValidator) DefaultWeight() float64 { return 0.25 }

var accessibilityAdvice = map[string]adviceEntry{
	"acc-access-url": {
		Title: "Fix distribution access URLs",
		Steps: []string{
			"declare an http or https access URL on every distribution",
			"remove placeholder or file-path values",
		},
		Complexity: models.ComplexityLow,
	},
	"acc-download-url": {
		Title: "Offer direct download links",
		Steps: []string{
			"add a direct download URL next to each landing-page link",
		},
		Complexity: models.ComplexityLow,
	},
	"acc-contact-channel": {
		Title: "Provide a working contact channel",
		Steps: []string{
			"declare a contact point with a valid email or phone number",
		},
		Complexity: models.ComplexityLow,
	},
	"acc-format-plurality": {
		Title: "Publish the data in more than one format",
		Steps: []string{
			"add a second distribution in a different open format",
		},
		Complexity: models.ComplexityMedium,
	},
	"acc-byte-size": {
		Title: "Declare distribution sizes",
		Steps: []string{
			"record the byte size of every downloadable file",
		},
		Complexity: models.ComplexityLow,
	},
}

// Validate 执行全部可访问性检查
func (v *AccessibilityValidator) Validate(ctx *Context) *CategoryResult {
	record := ctx.Metadata
	if record == nil {
		record = &models.MetadataRecord{}
	}

	reqs := []models.Requirement{
		v.checkAccessURLs(record),
		v.checkDownloadURLs(record),
		v.checkContactChannel(record),
		v.checkFormatPlurality(record),
		v.checkByteSizes(record),
	}

	weight := ctx.Config.WeightFor(v.Name(), v.DefaultWeight())
	thresholds := ctx.Config.ThresholdsFor(v.Name(), Thresholds{Compliant: 80, Partial: 55})
	return &CategoryResult{
		Category:        buildCategory(v.Name(), weight, thresholds, reqs),
		Recommendations: recommendationsFor(v.Name(), reqs, accessibilityAdvice),
		Errors:          nil,
	}
}

// checkAccessURLs 访问地址形态合法的分发占比
func (v *AccessibilityValidator) checkAccessURLs(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "acc-access-url",
		Name:        "Access URLs well-formed",
		Description: "score is the share of distributions with an http(s) access URL",
		Required:    true,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	valid := 0
	for _, dist := range record.Distributions {
		if isAccessibleURL(dist.AccessURL) {
			valid++
		}
	}
	req.Score = roundScore(100 * float64(valid) / float64(len(record.Distributions)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d access URLs valid", valid, len(record.Distributions))
	return req
}

// checkDownloadURLs 直接下载地址占比，咨询性检查项
func (v *AccessibilityValidator) checkDownloadURLs(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "acc-download-url",
		Name:        "Direct download links",
		Description: "score is the share of distributions with a direct download URL",
		Required:    false,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	direct := 0
	for _, dist := range record.Distributions {
		if isAccessibleURL(dist.DownloadURL) {
			direct++
		}
	}
	req.Score = roundScore(100 * float64(direct) / float64(len(record.Distributions)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d distributions downloadable", direct, len(record.Distributions))
	return req
}

// checkContactChannel 联系渠道检查：联系点存在 + 邮箱或电话可用各占50分
func (v *AccessibilityValidator) checkContactChannel(record *models.MetadataRecord) models.Requirement {
	present := record.ContactPoint != nil
	reachable := present &&
		(isValidEmail(record.ContactPoint.Email) || record.ContactPoint.Phone != "")

	score := boolScore(present, reachable)
	return models.Requirement{
		ID:          "acc-contact-channel",
		Name:        "Contact channel available",
		Description: "contact point declared and reachable by email or phone, 50 points each",
		Required:    true,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("present=%t reachable=%t", present, reachable),
	}
}

// checkFormatPlurality 格式多样性：两种及以上100分，一种50分，没有0分
func (v *AccessibilityValidator) checkFormatPlurality(record *models.MetadataRecord) models.Requirement {
	formats := map[string]bool{}
	for _, dist := range record.Distributions {
		if normalized := metadata.NormalizeFormat(dist.Format); normalized != "" {
			formats[normalized] = true
		}
	}

	var score float64
	switch {
	case len(formats) >= 2:
		score = 100
	case len(formats) == 1:
		score = 50
	}
	return models.Requirement{
		ID:          "acc-format-plurality",
		Name:        "Format plurality",
		Description: "two or more distinct formats score 100, a single format scores 50",
		Required:    false,
		Status:      statusForScore(score),
		Score:       score,
		Evidence:    fmt.Sprintf("%d distinct formats", len(formats)),
	}
}

// checkByteSizes 体量声明占比，咨询性检查项
func (v *AccessibilityValidator) checkByteSizes(record *models.MetadataRecord) models.Requirement {
	req := models.Requirement{
		ID:          "acc-byte-size",
		Name:        "Distribution sizes declared",
		Description: "score is the share of distributions with a positive byte size",
		Required:    false,
	}
	if len(record.Distributions) == 0 {
		req.Status = models.RequirementFail
		req.Error = "no distributions declared"
		return req
	}

	sized := 0
	for _, dist := range record.Distributions {
		if dist.ByteSize > 0 {
			sized++
		}
	}
	req.Score = roundScore(100 * float64(sized) / float64(len(record.Distributions)))
	req.Status = statusForScore(req.Score)
	req.Evidence = fmt.Sprintf("%d of %d distributions sized", sized, len(record.Distributions))
	return req
}
