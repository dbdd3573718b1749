/*
 * @module service/metadata/enhancer_test
 * @description 元数据补全器单元测试：幂等性、不覆盖已有字段、机构解析、主题建议与格式规范化
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 部分元数据 -> 补全 -> 输出验证
 * @rules 补全只新增缺失信息，从不覆盖已有字段；原记录不被修改
 * @dependencies testing, testify
 * @refs enhancer.go
 */

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
)

func newTestEnhancer() *Enhancer {
	return NewEnhancer(NewInstitutionRegistry(), NewThemeRegistry())
}

func TestEnhance_DefaultLocale(t *testing.T) {
	e := newTestEnhancer()

	testCases := []struct {
		name     string
		record   *models.MetadataRecord
		opts     EnhanceOptions
		expected []string
	}{
		{
			name:     "语言缺失时补默认语言",
			record:   &models.MetadataRecord{Identifier: "ds-1"},
			opts:     EnhanceOptions{},
			expected: []string{models.LocaleSerbian},
		},
		{
			name:     "已有语言不被覆盖",
			record:   &models.MetadataRecord{Languages: []string{"en"}},
			opts:     EnhanceOptions{},
			expected: []string{"en"},
		},
		{
			name:     "自定义默认语言",
			record:   &models.MetadataRecord{},
			opts:     EnhanceOptions{DefaultLocale: "sr-Latn"},
			expected: []string{"sr-Latn"},
		},
		{
			name:     "关闭语言补全",
			record:   &models.MetadataRecord{},
			opts:     EnhanceOptions{SkipLocale: true},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := e.Enhance(tc.record, tc.opts)
			assert.Equal(t, tc.expected, out.Languages)
		})
	}
}

func TestEnhance_PublisherResolution(t *testing.T) {
	e := newTestEnhancer()

	t.Run("注册号存在补全名称与类型", func(t *testing.T) {
		record := &models.MetadataRecord{
			Publisher: &models.Institution{Identifier: "07000944"},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.NotNil(t, out.Publisher)
		assert.Equal(t, "Министарство просвете", out.Publisher.Name[models.LocaleSerbian])
		assert.Equal(t, models.InstitutionTypeMinistry, out.Publisher.Type)
	})

	t.Run("名称存在补全注册号", func(t *testing.T) {
		record := &models.MetadataRecord{
			Publisher: &models.Institution{
				Name: models.LocalizedText{models.LocaleEnglish: "City of Belgrade"},
			},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.NotNil(t, out.Publisher)
		assert.Equal(t, "07004720", out.Publisher.Identifier)
	})

	t.Run("联系人名称命中注册表时指认发布机构", func(t *testing.T) {
		record := &models.MetadataRecord{
			ContactPoint: &models.ContactPoint{
				Name: models.LocalizedText{models.LocaleSerbianLatin: "Republički zavod za statistiku"},
			},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.NotNil(t, out.Publisher)
		assert.Equal(t, "07003960", out.Publisher.Identifier)
	})

	t.Run("完整发布机构不被改动", func(t *testing.T) {
		pub := &models.Institution{
			Name:       models.LocalizedText{models.LocaleSerbian: "Непозната установа"},
			Identifier: "99999999",
			Type:       "institution",
		}
		record := &models.MetadataRecord{Publisher: pub}
		out := e.Enhance(record, EnhanceOptions{})
		assert.Equal(t, pub, out.Publisher)
	})
}

func TestEnhance_ThemeSuggestion(t *testing.T) {
	e := newTestEnhancer()

	t.Run("按标题关键词建议主题", func(t *testing.T) {
		record := &models.MetadataRecord{
			Title: models.LocalizedText{models.LocaleSerbianLatin: "Budžet Republike Srbije"},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.NotEmpty(t, out.Themes)
		assert.Equal(t, "ECO", out.Themes[0].Code)
	})

	t.Run("无命中回退到未分类", func(t *testing.T) {
		record := &models.MetadataRecord{
			Title: models.LocalizedText{models.LocaleEnglish: "Miscellaneous dataset"},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.Len(t, out.Themes, 1)
		assert.Equal(t, ThemeCodeUncategorized, out.Themes[0].Code)
	})

	t.Run("已有主题不被覆盖", func(t *testing.T) {
		record := &models.MetadataRecord{
			Title:  models.LocalizedText{models.LocaleEnglish: "School budget"},
			Themes: []models.ThemeClassification{{Code: "EDU"}},
		}
		out := e.Enhance(record, EnhanceOptions{})
		require.Len(t, out.Themes, 1)
		assert.Equal(t, "EDU", out.Themes[0].Code)
	})
}

func TestEnhance_DefaultLicenseAndFormats(t *testing.T) {
	e := newTestEnhancer()

	record := &models.MetadataRecord{
		Distributions: []models.Distribution{
			{AccessURL: "https://data.gov.rs/a.csv", Format: "CSV"},
			{AccessURL: "https://data.gov.rs/b.bin", Format: "nepoznat"},
		},
	}
	out := e.Enhance(record, EnhanceOptions{})

	require.NotNil(t, out.License)
	assert.Equal(t, DefaultLicenseID, out.License.Identifier)
	assert.Equal(t, MIMECSV, out.Distributions[0].Format)
	// 未知格式原样保留
	assert.Equal(t, "nepoznat", out.Distributions[1].Format)
}

func TestEnhance_IdempotentAndNonMutating(t *testing.T) {
	e := newTestEnhancer()

	record := &models.MetadataRecord{
		Title: models.LocalizedText{models.LocaleSerbianLatin: "Kvalitet vazduha u Beogradu"},
		Distributions: []models.Distribution{
			{AccessURL: "https://data.gov.rs/vazduh.csv", Format: "csv"},
		},
	}

	once := e.Enhance(record, EnhanceOptions{})
	twice := e.Enhance(once, EnhanceOptions{})
	assert.Equal(t, once, twice)

	// 原记录不被修改
	assert.Nil(t, record.Languages)
	assert.Nil(t, record.License)
	assert.Nil(t, record.Themes)
	assert.Equal(t, "csv", record.Distributions[0].Format)
}

func TestEnhance_NilRecord(t *testing.T) {
	e := newTestEnhancer()
	assert.Nil(t, e.Enhance(nil, EnhanceOptions{}))
}
