/*
 * @module service/metadata/registries_test
 * @description 只读注册表单元测试：机构查找、主题词表映射、许可允许清单与格式规范化
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 注册表查询 -> 输出验证
 * @rules 注册表初始化后只读
 * @dependencies testing, testify
 * @refs institutions.go, themes.go, licenses.go, formats.go
 */

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
)

func TestInstitutionRegistry_FindByName(t *testing.T) {
	r := NewInstitutionRegistry()

	testCases := []struct {
		name       string
		query      string
		identifier string
		found      bool
	}{
		{
			name:       "西里尔文全名",
			query:      "Министарство просвете",
			identifier: "07000944",
			found:      true,
		},
		{
			name:       "拉丁文子串大小写不敏感",
			query:      "zavod za statistiku",
			identifier: "07003960",
			found:      true,
		},
		{
			name:       "英文名称",
			query:      "Ministry of Health",
			identifier: "17679450",
			found:      true,
		},
		{
			name:  "未知机构",
			query: "Nepoznata ustanova",
			found: false,
		},
		{
			name:  "空查询",
			query: "  ",
			found: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inst := r.FindByName(tc.query)
			if !tc.found {
				assert.Nil(t, inst)
				return
			}
			require.NotNil(t, inst)
			assert.Equal(t, tc.identifier, inst.Identifier)
		})
	}
}

func TestInstitutionRegistry_FindByIdentifier(t *testing.T) {
	r := NewInstitutionRegistry()

	inst := r.FindByIdentifier("07004720")
	require.NotNil(t, inst)
	assert.Equal(t, "City of Belgrade", inst.Name[models.LocaleEnglish])
	assert.Equal(t, models.InstitutionTypeMunicipal, inst.Type)

	assert.Nil(t, r.FindByIdentifier("00000000"))
	assert.NotEmpty(t, r.All())
}

func TestIsValidInstitutionIdentifier(t *testing.T) {
	assert.True(t, IsValidInstitutionIdentifier("07000944"))
	assert.False(t, IsValidInstitutionIdentifier("0700094"))
	assert.False(t, IsValidInstitutionIdentifier("07000944x"))
	assert.False(t, IsValidInstitutionIdentifier(""))
}

func TestThemeRegistry_Lookup(t *testing.T) {
	r := NewThemeRegistry()

	assert.True(t, r.IsKnownCode("EDU"))
	assert.True(t, r.IsKnownCode(" edu "))
	assert.False(t, r.IsKnownCode("GOVE"))
	assert.False(t, r.IsKnownCode(""))

	eu, ok := r.EUThemeFor("ECO")
	require.True(t, ok)
	assert.Equal(t, "ECON", eu)

	// 未分类主题无欧盟词表映射
	_, ok = r.EUThemeFor(ThemeCodeUncategorized)
	assert.False(t, ok)
}

func TestThemeRegistry_SuggestThemes(t *testing.T) {
	r := NewThemeRegistry()

	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "单主题命中",
			text:     "Kvalitet vazduha u realnom vremenu",
			expected: []string{"ENV"},
		},
		{
			name:     "多主题命中",
			text:     "Budžet za obrazovanje po školama",
			expected: []string{"EDU", "ECO"},
		},
		{
			name:     "无命中回退未分类",
			text:     "Nepovezani sadržaj",
			expected: []string{ThemeCodeUncategorized},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			suggested := r.SuggestThemes(tc.text)
			codes := make([]string, 0, len(suggested))
			for _, theme := range suggested {
				codes = append(codes, theme.Code)
			}
			assert.Equal(t, tc.expected, codes)
		})
	}
}

func TestLicenseRegistry(t *testing.T) {
	assert.True(t, IsOpenLicense("CC-BY-4.0"))
	assert.True(t, IsOpenLicense("cc-by-4.0"))
	assert.True(t, IsOpenLicense("CC BY 4.0"))
	assert.False(t, IsOpenLicense("proprietary"))

	lic, ok := LookupLicense("ODbL-1.0")
	require.True(t, ok)
	assert.True(t, lic.AttributionRequired)

	def := DefaultLicense()
	assert.Equal(t, DefaultLicenseID, def.Identifier)
	assert.True(t, def.CommercialUseAllowed)

	assert.Len(t, OpenLicenseIDs(), 5)
}

func TestIsLicenseOpenByFlags(t *testing.T) {
	assert.False(t, IsLicenseOpenByFlags(nil))
	assert.False(t, IsLicenseOpenByFlags(&models.License{CommercialUseAllowed: true}))
	assert.True(t, IsLicenseOpenByFlags(&models.License{
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	}))
}

func TestNormalizeFormat(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "小写简称",
			input:    "csv",
			expected: MIMECSV,
		},
		{
			name:     "大写带空白",
			input:    " XLSX ",
			expected: MIMEXLSX,
		},
		{
			name:     "已是MIME标识",
			input:    "application/json",
			expected: MIMEJSON,
		},
		{
			name:     "未知格式原样透传",
			input:    "nepoznat",
			expected: "nepoznat",
		},
		{
			name:     "空值原样透传",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeFormat(tc.input))
		})
	}
}

func TestFormatClasses(t *testing.T) {
	assert.True(t, IsMachineReadable("csv"))
	assert.True(t, IsMachineReadable("xlsx"))
	assert.False(t, IsMachineReadable("pdf"))

	assert.True(t, IsOpenFormat("json"))
	assert.False(t, IsOpenFormat("xlsx"))
	assert.False(t, IsOpenFormat("pdf"))

	assert.True(t, IsLinkedDataFormat("ttl"))
	assert.True(t, IsLinkedDataFormat("json-ld"))
	assert.False(t, IsLinkedDataFormat("csv"))
}
