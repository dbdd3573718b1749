/*
 * @module service/metadata/adapter_test
 * @description 元数据适配器单元测试：DCAT-AP 与 CKAN 双向转换、裸字符串本地化降级、往返一致性
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 外部payload -> 规范记录 -> 外部payload
 * @rules 目标schema无法表示的字段直接丢弃，不做变形
 * @dependencies testing, testify
 * @refs adapter.go
 */

package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
)

func TestAdaptFrom_DCAT(t *testing.T) {
	a := NewAdapter()

	payload := Payload{
		"dct:identifier": "ds-001",
		"dct:title": map[string]interface{}{
			"sr": "Квалитет ваздуха",
			"en": "Air quality",
		},
		"dct:description": map[string]interface{}{"sr": "Мерења квалитета ваздуха по станицама"},
		"dcat:keyword":    []interface{}{map[string]interface{}{"sr": "ваздух"}},
		"dcat:theme":      []interface{}{"ENV"},
		"dct:publisher": map[string]interface{}{
			"foaf:name":      map[string]interface{}{"sr": "Агенција за заштиту животне средине"},
			"dct:identifier": "17679450",
			"dct:type":       "agency",
		},
		"dct:issued":   "2025-03-01T00:00:00Z",
		"dct:language": []interface{}{"sr", "en"},
		"dct:spatial":  "RS",
		"dcat:distribution": []interface{}{
			map[string]interface{}{
				"dcat:accessURL": "https://data.gov.rs/air.csv",
				"dct:format":     "text/csv",
				"dcat:byteSize":  1024,
			},
		},
		"dct:license": "CC-BY-4.0",
		"dcat:contactPoint": map[string]interface{}{
			"vcard:fn":       map[string]interface{}{"sr": "Служба за податке"},
			"vcard:hasEmail": "mailto:podaci@sepa.gov.rs",
		},
	}

	record, err := a.AdaptFrom(SchemaDCATAP, payload)
	require.NoError(t, err)

	assert.Equal(t, "ds-001", record.Identifier)
	assert.Equal(t, "Квалитет ваздуха", record.Title[models.LocaleSerbian])
	assert.Equal(t, "Air quality", record.Title[models.LocaleEnglish])
	require.Len(t, record.Themes, 1)
	assert.Equal(t, "ENV", record.Themes[0].Code)
	require.NotNil(t, record.Publisher)
	assert.Equal(t, "17679450", record.Publisher.Identifier)
	require.NotNil(t, record.Issued)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), record.Issued.UTC())
	assert.Equal(t, []string{"sr", "en"}, record.Languages)
	require.Len(t, record.Distributions, 1)
	assert.Equal(t, int64(1024), record.Distributions[0].ByteSize)
	require.NotNil(t, record.License)
	// 允许清单内的许可按完整定义还原
	assert.True(t, record.License.CommercialUseAllowed)
	require.NotNil(t, record.ContactPoint)
	// mailto: 前缀剥离
	assert.Equal(t, "podaci@sepa.gov.rs", record.ContactPoint.Email)
}

func TestAdaptFrom_CKANBareStringsBecomeSerbian(t *testing.T) {
	a := NewAdapter()

	payload := Payload{
		"name":  "budzet-2025",
		"title": "Budžet za 2025. godinu",
		"notes": "Pregled budžetskih rashoda",
		"tags":  []interface{}{map[string]interface{}{"name": "budžet"}},
		"organization": map[string]interface{}{
			"title": "Ministarstvo finansija",
			"id":    "07000944",
		},
		"language":   "sr, en",
		"license_id": "CC0-1.0",
		"resources": []interface{}{
			map[string]interface{}{"url": "https://data.gov.rs/budzet.csv", "format": "CSV", "size": 2048},
		},
		"maintainer":       "Služba za otvorene podatke",
		"maintainer_email": "podaci@mfin.gov.rs",
	}

	record, err := a.AdaptFrom(SchemaCKAN, payload)
	require.NoError(t, err)

	// CKAN 裸字符串归入本地语言
	assert.Equal(t, "Budžet za 2025. godinu", record.Title[models.LocaleSerbian])
	assert.Equal(t, "Pregled budžetskih rashoda", record.Description[models.LocaleSerbian])
	require.Len(t, record.Keywords, 1)
	assert.Equal(t, "budžet", record.Keywords[0][models.LocaleSerbian])
	assert.Equal(t, []string{"sr", "en"}, record.Languages)
	require.NotNil(t, record.License)
	assert.Equal(t, "CC0-1.0", record.License.Identifier)
	require.Len(t, record.Distributions, 1)
	assert.Equal(t, "CSV", record.Distributions[0].Format)
	require.NotNil(t, record.ContactPoint)
	assert.Equal(t, "Služba za otvorene podatke", record.ContactPoint.Name[models.LocaleSerbian])
	assert.Equal(t, "podaci@mfin.gov.rs", record.ContactPoint.Email)
}

func TestAdaptRoundTrip_DCAT(t *testing.T) {
	a := NewAdapter()
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	original := &models.MetadataRecord{
		Identifier:  "ds-rt",
		Title:       models.LocalizedText{models.LocaleSerbian: "Наслов", models.LocaleEnglish: "Title"},
		Description: models.LocalizedText{models.LocaleSerbian: "Опис скупа података"},
		Themes:      []models.ThemeClassification{{Code: "EDU"}},
		Publisher: &models.Institution{
			Name:       models.LocalizedText{models.LocaleSerbian: "Министарство просвете"},
			Identifier: "07000944",
			Type:       "ministry",
		},
		Issued:    &issued,
		Languages: []string{"sr"},
		Spatial:   "RS",
		Distributions: []models.Distribution{
			{AccessURL: "https://data.gov.rs/ds.csv", Format: "text/csv", ByteSize: 512},
		},
		License: &models.License{Identifier: "CC-BY-4.0", CommercialUseAllowed: true, DerivativeWorksAllowed: true, AttributionRequired: true},
		ContactPoint: &models.ContactPoint{
			Name:  models.LocalizedText{models.LocaleSerbian: "Контакт"},
			Email: "kontakt@gov.rs",
		},
	}

	payload, err := a.AdaptTo(SchemaDCATAP, original)
	require.NoError(t, err)
	assert.Equal(t, "mailto:kontakt@gov.rs", getNested(t, payload, "dcat:contactPoint", "vcard:hasEmail"))

	restored, err := a.AdaptFrom(SchemaDCATAP, payload)
	require.NoError(t, err)

	assert.Equal(t, original.Identifier, restored.Identifier)
	assert.Equal(t, original.Title, restored.Title)
	assert.Equal(t, original.Description, restored.Description)
	require.Len(t, restored.Themes, 1)
	assert.Equal(t, "EDU", restored.Themes[0].Code)
	require.NotNil(t, restored.Publisher)
	assert.Equal(t, original.Publisher.Identifier, restored.Publisher.Identifier)
	assert.Equal(t, original.Publisher.Type, restored.Publisher.Type)
	require.NotNil(t, restored.Issued)
	assert.True(t, restored.Issued.Equal(issued))
	assert.Equal(t, original.Languages, restored.Languages)
	require.Len(t, restored.Distributions, 1)
	assert.Equal(t, original.Distributions[0], restored.Distributions[0])
	require.NotNil(t, restored.License)
	assert.Equal(t, "CC-BY-4.0", restored.License.Identifier)
	require.NotNil(t, restored.ContactPoint)
	assert.Equal(t, "kontakt@gov.rs", restored.ContactPoint.Email)
}

func TestAdaptTo_CKANDropsLocalization(t *testing.T) {
	a := NewAdapter()

	record := &models.MetadataRecord{
		Identifier: "ds-ckan",
		Title:      models.LocalizedText{models.LocaleSerbian: "Наслов", models.LocaleEnglish: "Title"},
		Languages:  []string{"sr", "en"},
	}

	payload, err := a.AdaptTo(SchemaCKAN, record)
	require.NoError(t, err)

	// CKAN 无本地化支持，标题降级为最优单语言
	assert.Equal(t, record.Title.Best(), payload["title"])
	assert.Equal(t, "sr,en", payload["language"])
	_, hasNotes := payload["notes"]
	assert.False(t, hasNotes)
}

func TestAdapt_UnsupportedSchema(t *testing.T) {
	a := NewAdapter()

	_, err := a.AdaptFrom(ExternalSchema("inspire"), Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不支持的外部元数据约定")

	_, err = a.AdaptTo(ExternalSchema("inspire"), &models.MetadataRecord{})
	require.Error(t, err)
}

func getNested(t *testing.T, payload Payload, keys ...string) interface{} {
	t.Helper()
	var current interface{} = payload
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		require.True(t, ok)
		current = m[key]
	}
	return current
}
