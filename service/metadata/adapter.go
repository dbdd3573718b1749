/*
 * @module service/metadata/adapter
 * @description 外部目录元数据适配器，基于声明式字段映射表实现规范模型与 DCAT-AP / CKAN 约定的双向转换
 * @architecture 转换器模式 - 映射表是数据，不是分支代码
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 外部payload -> 字段映射表逐条解码 -> 规范记录；反向同理
 * @rules 转换保持最小损失：目标schema无法表示的字段直接丢弃，不做变形；多语言文本在无本地化支持的目标上降级为最优单语言
 * @dependencies github.com/spf13/cast
 * @refs service/metadata/enhancer.go, service/suite/
 */

package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"opendata-compliance-service/service/models"
)

// ExternalSchema 外部目录约定标识
type ExternalSchema string

const (
	SchemaDCATAP ExternalSchema = "dcat-ap"
	SchemaCKAN   ExternalSchema = "ckan"
)

// Payload 外部目录的通用载荷形态
type Payload = map[string]interface{}

// FieldMapping 单条字段映射：外部路径 + 双向小变换
type FieldMapping struct {
	// ExternalPath 外部payload中的点号分隔路径
	ExternalPath string
	// Decode 将外部值写入规范记录
	Decode func(value interface{}, record *models.MetadataRecord)
	// Encode 从规范记录产出外部值，false 表示该字段无值（丢弃，不写入）
	Encode func(record *models.MetadataRecord) (interface{}, bool)
}

// Adapter 元数据适配器，构造一次后只读复用
type Adapter struct {
	mappings map[ExternalSchema][]FieldMapping
}

// NewAdapter 创建适配器并装配内置映射表
func NewAdapter() *Adapter {
	return &Adapter{
		mappings: map[ExternalSchema][]FieldMapping{
			SchemaDCATAP: dcatMappings(),
			SchemaCKAN:   ckanMappings(),
		},
	}
}

// SupportedSchemas 返回支持的外部约定列表
func (a *Adapter) SupportedSchemas() []ExternalSchema {
	return []ExternalSchema{SchemaDCATAP, SchemaCKAN}
}

// AdaptFrom 将外部payload转换为部分规范记录
// 不支持的schema属于编程错误，返回致命错误
func (a *Adapter) AdaptFrom(schema ExternalSchema, payload Payload) (*models.MetadataRecord, error) {
	mappings, ok := a.mappings[schema]
	if !ok {
		return nil, fmt.Errorf("不支持的外部元数据约定: %s", schema)
	}

	record := &models.MetadataRecord{}
	for _, m := range mappings {
		if value, exists := getPath(payload, m.ExternalPath); exists && value != nil {
			m.Decode(value, record)
		}
	}
	return record, nil
}

// AdaptTo 将规范记录转换为外部payload，目标不可表示的字段丢弃
func (a *Adapter) AdaptTo(schema ExternalSchema, record *models.MetadataRecord) (Payload, error) {
	mappings, ok := a.mappings[schema]
	if !ok {
		return nil, fmt.Errorf("不支持的外部元数据约定: %s", schema)
	}

	payload := Payload{}
	for _, m := range mappings {
		if value, has := m.Encode(record); has {
			setPath(payload, m.ExternalPath, value)
		}
	}
	return payload, nil
}

// getPath 按点号路径取值
func getPath(payload Payload, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = payload
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath 按点号路径写值，中间层级按需创建
func setPath(payload Payload, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := payload
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// localizedFromValue 外部值转多语言文本
// 裸字符串视为本地语言（sr）文本，映射形态按语言标签逐项接收
func localizedFromValue(value interface{}) models.LocalizedText {
	switch v := value.(type) {
	case map[string]interface{}:
		text := models.LocalizedText{}
		for locale, s := range v {
			if str := cast.ToString(s); str != "" {
				text[locale] = str
			}
		}
		return text
	default:
		if s := cast.ToString(value); s != "" {
			return models.LocalizedText{models.LocaleSerbian: s}
		}
		return nil
	}
}

// localizedToMap 多语言文本的映射形态
func localizedToMap(text models.LocalizedText) (interface{}, bool) {
	if text.IsEmpty() {
		return nil, false
	}
	out := map[string]interface{}{}
	for locale, s := range text {
		if s != "" {
			out[locale] = s
		}
	}
	return out, true
}

// parseTimeValue 外部时间值解析，支持 RFC3339 与日期两种写法
func parseTimeValue(value interface{}) *time.Time {
	s := cast.ToString(value)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// dcatMappings DCAT-AP 约定的映射表（支持本地化）
func dcatMappings() []FieldMapping {
	return []FieldMapping{
		{
			ExternalPath: "dct:identifier",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Identifier = cast.ToString(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				return rec.Identifier, rec.Identifier != ""
			},
		},
		{
			ExternalPath: "dct:title",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Title = localizedFromValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				return localizedToMap(rec.Title)
			},
		},
		{
			ExternalPath: "dct:description",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Description = localizedFromValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				return localizedToMap(rec.Description)
			},
		},
		{
			ExternalPath: "dcat:keyword",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					if kw := localizedFromValue(item); kw != nil {
						rec.Keywords = append(rec.Keywords, kw)
					}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Keywords) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Keywords))
				for _, kw := range rec.Keywords {
					if m, ok := localizedToMap(kw); ok {
						out = append(out, m)
					}
				}
				return out, len(out) > 0
			},
		},
		{
			ExternalPath: "dcat:theme",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					switch theme := item.(type) {
					case map[string]interface{}:
						rec.Themes = append(rec.Themes, models.ThemeClassification{
							Code:  cast.ToString(theme["code"]),
							Label: localizedFromValue(theme["label"]),
							Level: cast.ToInt(theme["level"]),
						})
					default:
						rec.Themes = append(rec.Themes, models.ThemeClassification{Code: cast.ToString(item)})
					}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Themes) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Themes))
				for _, theme := range rec.Themes {
					entry := map[string]interface{}{"code": theme.Code, "level": theme.Level}
					if m, ok := localizedToMap(theme.Label); ok {
						entry["label"] = m
					}
					out = append(out, entry)
				}
				return out, true
			},
		},
		{
			ExternalPath: "dct:publisher",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				m, ok := v.(map[string]interface{})
				if !ok {
					if name := cast.ToString(v); name != "" {
						rec.Publisher = &models.Institution{Name: models.LocalizedText{models.LocaleSerbian: name}}
					}
					return
				}
				rec.Publisher = &models.Institution{
					Name:       localizedFromValue(m["foaf:name"]),
					Identifier: cast.ToString(m["dct:identifier"]),
					Type:       cast.ToString(m["dct:type"]),
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Publisher == nil {
					return nil, false
				}
				out := map[string]interface{}{}
				if m, ok := localizedToMap(rec.Publisher.Name); ok {
					out["foaf:name"] = m
				}
				if rec.Publisher.Identifier != "" {
					out["dct:identifier"] = rec.Publisher.Identifier
				}
				if rec.Publisher.Type != "" {
					out["dct:type"] = rec.Publisher.Type
				}
				return out, len(out) > 0
			},
		},
		{
			ExternalPath: "dct:issued",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Issued = parseTimeValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Issued == nil {
					return nil, false
				}
				return rec.Issued.Format(time.RFC3339), true
			},
		},
		{
			ExternalPath: "dct:modified",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Modified = parseTimeValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Modified == nil {
					return nil, false
				}
				return rec.Modified.Format(time.RFC3339), true
			},
		},
		{
			ExternalPath: "dct:language",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					if lang := cast.ToString(item); lang != "" {
						rec.Languages = append(rec.Languages, lang)
					}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Languages) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Languages))
				for _, lang := range rec.Languages {
					out = append(out, lang)
				}
				return out, true
			},
		},
		{
			ExternalPath: "dct:spatial",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Spatial = cast.ToString(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				return rec.Spatial, rec.Spatial != ""
			},
		},
		{
			ExternalPath: "dcat:distribution",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					m, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					rec.Distributions = append(rec.Distributions, models.Distribution{
						AccessURL:   cast.ToString(m["dcat:accessURL"]),
						DownloadURL: cast.ToString(m["dcat:downloadURL"]),
						Format:      cast.ToString(m["dct:format"]),
						ByteSize:    cast.ToInt64(m["dcat:byteSize"]),
						Title:       localizedFromValue(m["dct:title"]),
					})
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Distributions) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Distributions))
				for _, dist := range rec.Distributions {
					entry := map[string]interface{}{}
					if dist.AccessURL != "" {
						entry["dcat:accessURL"] = dist.AccessURL
					}
					if dist.DownloadURL != "" {
						entry["dcat:downloadURL"] = dist.DownloadURL
					}
					if dist.Format != "" {
						entry["dct:format"] = dist.Format
					}
					if dist.ByteSize > 0 {
						entry["dcat:byteSize"] = dist.ByteSize
					}
					if m, ok := localizedToMap(dist.Title); ok {
						entry["dct:title"] = m
					}
					out = append(out, entry)
				}
				return out, true
			},
		},
		{
			ExternalPath: "dct:license",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				id := cast.ToString(v)
				if m, ok := v.(map[string]interface{}); ok {
					id = cast.ToString(m["dct:identifier"])
				}
				if id == "" {
					return
				}
				if lic, ok := LookupLicense(id); ok {
					rec.License = &lic
				} else {
					rec.License = &models.License{Identifier: id}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.License == nil {
					return nil, false
				}
				return rec.License.Identifier, rec.License.Identifier != ""
			},
		},
		{
			ExternalPath: "dcat:contactPoint",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				m, ok := v.(map[string]interface{})
				if !ok {
					return
				}
				rec.ContactPoint = &models.ContactPoint{
					Name:  localizedFromValue(m["vcard:fn"]),
					Email: strings.TrimPrefix(cast.ToString(m["vcard:hasEmail"]), "mailto:"),
					Phone: cast.ToString(m["vcard:hasTelephone"]),
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.ContactPoint == nil {
					return nil, false
				}
				out := map[string]interface{}{}
				if m, ok := localizedToMap(rec.ContactPoint.Name); ok {
					out["vcard:fn"] = m
				}
				if rec.ContactPoint.Email != "" {
					out["vcard:hasEmail"] = "mailto:" + rec.ContactPoint.Email
				}
				if rec.ContactPoint.Phone != "" {
					out["vcard:hasTelephone"] = rec.ContactPoint.Phone
				}
				return out, len(out) > 0
			},
		},
	}
}

// ckanMappings CKAN 约定的映射表（无本地化支持，多语言文本降级为最优单语言）
func ckanMappings() []FieldMapping {
	return []FieldMapping{
		{
			ExternalPath: "name",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Identifier = cast.ToString(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				return rec.Identifier, rec.Identifier != ""
			},
		},
		{
			ExternalPath: "title",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				// CKAN 标题为裸字符串，归入本地语言
				rec.Title = localizedFromValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				best := rec.Title.Best()
				return best, best != ""
			},
		},
		{
			ExternalPath: "notes",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Description = localizedFromValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				best := rec.Description.Best()
				return best, best != ""
			},
		},
		{
			ExternalPath: "tags",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					var name string
					if m, ok := item.(map[string]interface{}); ok {
						name = cast.ToString(m["name"])
					} else {
						name = cast.ToString(item)
					}
					if name != "" {
						rec.Keywords = append(rec.Keywords, models.LocalizedText{models.LocaleSerbian: name})
					}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Keywords) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Keywords))
				for _, kw := range rec.Keywords {
					if best := kw.Best(); best != "" {
						out = append(out, map[string]interface{}{"name": best})
					}
				}
				return out, len(out) > 0
			},
		},
		{
			ExternalPath: "groups",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					m, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					rec.Themes = append(rec.Themes, models.ThemeClassification{
						Code:  cast.ToString(m["name"]),
						Label: localizedFromValue(m["title"]),
					})
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Themes) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Themes))
				for _, theme := range rec.Themes {
					entry := map[string]interface{}{"name": theme.Code}
					if best := theme.Label.Best(); best != "" {
						entry["title"] = best
					}
					out = append(out, entry)
				}
				return out, true
			},
		},
		{
			ExternalPath: "organization",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				m, ok := v.(map[string]interface{})
				if !ok {
					return
				}
				rec.Publisher = &models.Institution{
					Name:       localizedFromValue(m["title"]),
					Identifier: cast.ToString(m["id"]),
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Publisher == nil {
					return nil, false
				}
				out := map[string]interface{}{}
				if best := rec.Publisher.Name.Best(); best != "" {
					out["title"] = best
				}
				if rec.Publisher.Identifier != "" {
					out["id"] = rec.Publisher.Identifier
				}
				return out, len(out) > 0
			},
		},
		{
			ExternalPath: "metadata_created",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Issued = parseTimeValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Issued == nil {
					return nil, false
				}
				return rec.Issued.Format(time.RFC3339), true
			},
		},
		{
			ExternalPath: "metadata_modified",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				rec.Modified = parseTimeValue(v)
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.Modified == nil {
					return nil, false
				}
				return rec.Modified.Format(time.RFC3339), true
			},
		},
		{
			ExternalPath: "language",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, lang := range strings.Split(cast.ToString(v), ",") {
					if lang = strings.TrimSpace(lang); lang != "" {
						rec.Languages = append(rec.Languages, lang)
					}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Languages) == 0 {
					return nil, false
				}
				return strings.Join(rec.Languages, ","), true
			},
		},
		{
			ExternalPath: "license_id",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				id := cast.ToString(v)
				if id == "" {
					return
				}
				if lic, ok := LookupLicense(id); ok {
					rec.License = &lic
				} else {
					rec.License = &models.License{Identifier: id}
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.License == nil {
					return nil, false
				}
				return rec.License.Identifier, rec.License.Identifier != ""
			},
		},
		{
			ExternalPath: "resources",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				for _, item := range cast.ToSlice(v) {
					m, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					dist := models.Distribution{
						AccessURL: cast.ToString(m["url"]),
						Format:    cast.ToString(m["format"]),
						ByteSize:  cast.ToInt64(m["size"]),
					}
					if name := cast.ToString(m["name"]); name != "" {
						dist.Title = models.LocalizedText{models.LocaleSerbian: name}
					}
					rec.Distributions = append(rec.Distributions, dist)
				}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if len(rec.Distributions) == 0 {
					return nil, false
				}
				out := make([]interface{}, 0, len(rec.Distributions))
				for _, dist := range rec.Distributions {
					entry := map[string]interface{}{}
					if dist.AccessURL != "" {
						entry["url"] = dist.AccessURL
					}
					if dist.Format != "" {
						entry["format"] = dist.Format
					}
					if dist.ByteSize > 0 {
						entry["size"] = dist.ByteSize
					}
					if best := dist.Title.Best(); best != "" {
						entry["name"] = best
					}
					out = append(out, entry)
				}
				return out, true
			},
		},
		{
			ExternalPath: "maintainer",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				name := cast.ToString(v)
				if name == "" {
					return
				}
				if rec.ContactPoint == nil {
					rec.ContactPoint = &models.ContactPoint{}
				}
				rec.ContactPoint.Name = models.LocalizedText{models.LocaleSerbian: name}
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.ContactPoint == nil {
					return nil, false
				}
				best := rec.ContactPoint.Name.Best()
				return best, best != ""
			},
		},
		{
			ExternalPath: "maintainer_email",
			Decode: func(v interface{}, rec *models.MetadataRecord) {
				email := cast.ToString(v)
				if email == "" {
					return
				}
				if rec.ContactPoint == nil {
					rec.ContactPoint = &models.ContactPoint{}
				}
				rec.ContactPoint.Email = email
			},
			Encode: func(rec *models.MetadataRecord) (interface{}, bool) {
				if rec.ContactPoint == nil || rec.ContactPoint.Email == "" {
					return nil, false
				}
				return rec.ContactPoint.Email, true
			},
		},
	}
}
