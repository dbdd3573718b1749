/*
 * @module service/metadata/enhancer
 * @description 元数据启发式补全器：默认语言标签、发布机构解析、主题建议、默认许可、格式规范化
 * @architecture 服务层 - 无状态补全器，依赖只读注册表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 部分元数据 -> 逐项启发式补全 -> 补全后记录
 * @rules 每项启发式可独立跳过且幂等：补全两次与补全一次结果相同；补全只新增缺失信息，从不覆盖已有字段
 * @dependencies service/metadata 注册表
 * @refs service/suite/
 */

package metadata

import (
	"strings"

	"opendata-compliance-service/service/models"
)

// EnhanceOptions 补全选项，每项启发式可独立关闭
type EnhanceOptions struct {
	SkipLocale    bool
	SkipPublisher bool
	SkipThemes    bool
	SkipLicense   bool
	SkipFormats   bool
	// DefaultLocale 管辖区默认语言，空值按 sr 处理
	DefaultLocale string
}

// Enhancer 元数据补全器，构造一次后只读复用
type Enhancer struct {
	institutions *InstitutionRegistry
	themes       *ThemeRegistry
}

// NewEnhancer 创建补全器
func NewEnhancer(institutions *InstitutionRegistry, themes *ThemeRegistry) *Enhancer {
	return &Enhancer{institutions: institutions, themes: themes}
}

// Enhance 应用全部启发式补全，返回补全后的记录副本，原记录不被修改
func (e *Enhancer) Enhance(record *models.MetadataRecord, opts EnhanceOptions) *models.MetadataRecord {
	if record == nil {
		return nil
	}
	out := *record

	if !opts.SkipLocale {
		e.enhanceLocale(&out, opts.DefaultLocale)
	}
	if !opts.SkipPublisher {
		e.enhancePublisher(&out)
	}
	if !opts.SkipThemes {
		e.enhanceThemes(&out)
	}
	if !opts.SkipLicense {
		e.enhanceLicense(&out)
	}
	if !opts.SkipFormats {
		e.enhanceFormats(&out)
	}
	return &out
}

// enhanceLocale 语言标签缺失时追加管辖区默认语言
func (e *Enhancer) enhanceLocale(record *models.MetadataRecord, defaultLocale string) {
	if len(record.Languages) > 0 {
		return
	}
	if defaultLocale == "" {
		defaultLocale = models.LocaleSerbian
	}
	record.Languages = []string{defaultLocale}
}

// enhancePublisher 尝试用机构注册表解析发布机构
// 三种情形：注册号存在补全名称；名称存在补全注册号与类型；联系人名称命中注册表时指认发布机构
func (e *Enhancer) enhancePublisher(record *models.MetadataRecord) {
	if record.Publisher != nil {
		pub := *record.Publisher
		switch {
		case pub.Name.IsEmpty() && IsValidInstitutionIdentifier(pub.Identifier):
			if inst := e.institutions.FindByIdentifier(pub.Identifier); inst != nil {
				record.Publisher = inst
			}
		case pub.Identifier == "" && !pub.Name.IsEmpty():
			if inst := e.institutions.FindByName(pub.Name.Best()); inst != nil {
				record.Publisher = inst
			}
		}
		return
	}

	if record.ContactPoint != nil && !record.ContactPoint.Name.IsEmpty() {
		if inst := e.institutions.FindByName(record.ContactPoint.Name.Best()); inst != nil {
			record.Publisher = inst
		}
	}
}

// enhanceThemes 主题缺失时按标题+描述关键词建议主题
func (e *Enhancer) enhanceThemes(record *models.MetadataRecord) {
	if len(record.Themes) > 0 {
		return
	}
	text := strings.TrimSpace(record.Title.Best() + " " + record.Description.Best())
	record.Themes = e.themes.SuggestThemes(text)
}

// enhanceLicense 许可缺失时补全默认开放许可
func (e *Enhancer) enhanceLicense(record *models.MetadataRecord) {
	if record.License != nil {
		return
	}
	lic := DefaultLicense()
	record.License = &lic
}

// enhanceFormats 分发格式规范化为标准MIME标识，未知值原样保留
func (e *Enhancer) enhanceFormats(record *models.MetadataRecord) {
	if len(record.Distributions) == 0 {
		return
	}
	dists := make([]models.Distribution, len(record.Distributions))
	copy(dists, record.Distributions)
	for i := range dists {
		dists[i].Format = NormalizeFormat(dists[i].Format)
	}
	record.Distributions = dists
}
