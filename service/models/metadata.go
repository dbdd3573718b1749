/*
 * @module service/models/metadata
 * @description 开放数据集规范元数据模型，包含多语言文本、主题分类、分发信息、许可协议等核心结构
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 外部元数据适配 -> 规范模型 -> 启发式补全 -> 合规校验
 * @rules 必填字段缺失是可表示的数据状态而不是错误，由校验器检查，模型本身不拒绝
 * @dependencies time, golang.org/x/text/language
 * @refs service/metadata/, service/validators/
 */

package models

import (
	"sort"
	"time"

	"golang.org/x/text/language"
)

// 支持的语言标签常量
const (
	LocaleSerbian      = "sr"      // 塞尔维亚语（西里尔文）
	LocaleSerbianLatin = "sr-Latn" // 塞尔维亚语（拉丁文变体）
	LocaleEnglish      = "en"      // 英语
)

// localeFallbackOrder 多语言文本的固定回退顺序
var localeFallbackOrder = []string{LocaleSerbian, LocaleSerbianLatin, LocaleEnglish}

// LocalizedText 多语言文本，语言标签到文本的映射
// 任何查找都沿固定回退顺序降级，缺失语言不会产生错误
type LocalizedText map[string]string

// Get 获取指定语言的文本，未命中时通过语言匹配和回退顺序降级
func (t LocalizedText) Get(locale string) string {
	if len(t) == 0 {
		return ""
	}
	if v, ok := t[locale]; ok {
		return v
	}

	// 使用 x/text 的语言匹配处理 sr / sr-Latn 这类文种变体
	keys := t.sortedLocales()
	tags := make([]language.Tag, 0, len(keys))
	for _, k := range keys {
		if tag, err := language.Parse(k); err == nil {
			tags = append(tags, tag)
		}
	}
	if want, err := language.Parse(locale); err == nil && len(tags) > 0 {
		matcher := language.NewMatcher(tags)
		if _, idx, conf := matcher.Match(want); conf >= language.High {
			return t[keys[idx]]
		}
	}

	return t.Best()
}

// Best 按固定偏好顺序取最优可用文本
func (t LocalizedText) Best() string {
	for _, locale := range localeFallbackOrder {
		if v, ok := t[locale]; ok && v != "" {
			return v
		}
	}
	// 没有命中偏好顺序时取字典序最小的键，保证结果稳定
	for _, k := range t.sortedLocales() {
		if t[k] != "" {
			return t[k]
		}
	}
	return ""
}

// Has 判断指定语言是否存在非空文本
func (t LocalizedText) Has(locale string) bool {
	v, ok := t[locale]
	return ok && v != ""
}

// IsEmpty 判断是否没有任何非空文本
func (t LocalizedText) IsEmpty() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// Locales 返回已有文本的语言标签列表（升序）
func (t LocalizedText) Locales() []string {
	return t.sortedLocales()
}

func (t LocalizedText) sortedLocales() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InstitutionType 机构类型枚举
const (
	InstitutionTypeMinistry    = "ministry"    // 部委
	InstitutionTypeAgency      = "agency"      // 行政机关
	InstitutionTypeInstitution = "institution" // 公共事业机构
	InstitutionTypeCompany     = "company"     // 公营企业
	InstitutionTypeMunicipal   = "municipal"   // 地方自治单位
)

// Institution 发布机构模型
// Identifier 为塞尔维亚统一注册号（matični broj），8位数字
type Institution struct {
	Name       LocalizedText `json:"name"`
	Identifier string        `json:"identifier" example:"07000944"`
	Type       string        `json:"type" example:"ministry" enums:"ministry,agency,institution,company,municipal"`
	ParentID   string        `json:"parent_id,omitempty"`
	Children   []string      `json:"children,omitempty"`
	Address    string        `json:"address,omitempty"`
	Email      string        `json:"email,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	Website    string        `json:"website,omitempty"`
	// Jurisdiction 管辖范围，如 "RS"（国家级）或地方代码
	Jurisdiction string `json:"jurisdiction,omitempty" example:"RS"`
}

// ThemeClassification 主题分类
type ThemeClassification struct {
	Code  string        `json:"code" example:"EDU"`
	Label LocalizedText `json:"label"`
	// Level 分类层级，0为顶级
	Level int `json:"level"`
}

// License 数据许可协议
type License struct {
	Identifier string        `json:"identifier" example:"CC-BY-4.0"`
	Name       LocalizedText `json:"name"`
	URL        string        `json:"url,omitempty"`
	// 三个开放性标志位
	AttributionRequired    bool `json:"attribution_required"`
	CommercialUseAllowed   bool `json:"commercial_use_allowed"`
	DerivativeWorksAllowed bool `json:"derivative_works_allowed"`
}

// ContactPoint 联系点信息
type ContactPoint struct {
	Name    LocalizedText `json:"name"`
	Email   string        `json:"email,omitempty"`
	Phone   string        `json:"phone,omitempty"`
	Address string        `json:"address,omitempty"`
}

// Distribution 数据集分发信息
type Distribution struct {
	AccessURL   string `json:"access_url"`
	DownloadURL string `json:"download_url,omitempty"`
	// Format 规范化后的MIME标识，如 text/csv
	Format   string        `json:"format,omitempty"`
	ByteSize int64         `json:"byte_size,omitempty"`
	Title    LocalizedText `json:"title,omitempty"`
	// Encoding 声明的字符编码，如 UTF-8
	Encoding string `json:"encoding,omitempty"`
}

// PeriodOfTime 时间覆盖范围
type PeriodOfTime struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// MetadataRecord 规范元数据记录
// 不变式：任何必填字段的缺失都是可表示状态，由校验器判定，模型不做拒绝
type MetadataRecord struct {
	Identifier  string        `json:"identifier" example:"ds-1"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	// Keywords 有序的多语言关键词集合
	Keywords  []LocalizedText       `json:"keywords,omitempty"`
	Themes    []ThemeClassification `json:"themes,omitempty"`
	Publisher *Institution          `json:"publisher,omitempty"`
	Issued    *time.Time            `json:"issued,omitempty"`
	Modified  *time.Time            `json:"modified,omitempty"`
	// Languages 数据集声明支持的语言标签集合
	Languages []string `json:"languages,omitempty"`
	// Spatial 空间覆盖范围（地名或地理标识符）
	Spatial       string         `json:"spatial,omitempty"`
	Temporal      *PeriodOfTime  `json:"temporal,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty"`
	License       *License       `json:"license,omitempty"`
	ContactPoint  *ContactPoint  `json:"contact_point,omitempty"`
	// PrivacyStatement 个人数据披露声明，法定校验项
	PrivacyStatement string `json:"privacy_statement,omitempty"`
	// Quality 内嵌的质量度量结果
	Quality *QualityMetrics `json:"quality,omitempty"`
}

// HasLanguage 判断声明语言集合中是否含有指定语言
func (m *MetadataRecord) HasLanguage(locale string) bool {
	for _, l := range m.Languages {
		if l == locale {
			return true
		}
	}
	return false
}

// LocalizedFields 返回记录中全部多语言文本字段，供语言维度统计使用
func (m *MetadataRecord) LocalizedFields() []LocalizedText {
	fields := make([]LocalizedText, 0, 4+len(m.Keywords)+len(m.Themes))
	fields = append(fields, m.Title, m.Description)
	fields = append(fields, m.Keywords...)
	for _, theme := range m.Themes {
		fields = append(fields, theme.Label)
	}
	if m.Publisher != nil {
		fields = append(fields, m.Publisher.Name)
	}
	if m.ContactPoint != nil {
		fields = append(fields, m.ContactPoint.Name)
	}
	return fields
}
