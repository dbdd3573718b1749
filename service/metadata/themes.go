/*
 * @module service/metadata/themes
 * @description 主题分类体系，含国家主题代码、欧盟 data-theme 词表映射和关键词建议集
 * @architecture 服务层 - 只读注册表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 进程启动时初始化 -> 主题校验 / 关键词建议 / 欧盟词表映射
 * @rules 关键词建议每个主题先命中先得；无任何命中时回退到 uncategorized 主题，属于文档化回退而非错误
 * @dependencies strings
 * @refs service/metadata/enhancer.go, service/validators/euharmon.go
 */

package metadata

import (
	"strings"

	"opendata-compliance-service/service/models"
)

// ThemeDefinition 主题定义
type ThemeDefinition struct {
	Code  string
	Label models.LocalizedText
	// EUTheme 对应的欧盟 data-theme 词表代码，空表示无映射
	EUTheme string
	// Keywords 用于标题+描述扫描的建议关键词（小写）
	Keywords []string
}

// ThemeCodeUncategorized 无任何关键词命中时的回退主题代码
const ThemeCodeUncategorized = "OTH"

// ThemeRegistry 主题分类注册表，初始化后只读
type ThemeRegistry struct {
	themes []ThemeDefinition
	byCode map[string]*ThemeDefinition
}

// NewThemeRegistry 创建内置主题注册表
func NewThemeRegistry() *ThemeRegistry {
	themes := builtinThemes()
	byCode := make(map[string]*ThemeDefinition, len(themes))
	for i := range themes {
		byCode[themes[i].Code] = &themes[i]
	}
	return &ThemeRegistry{themes: themes, byCode: byCode}
}

// Lookup 按主题代码查找定义
func (r *ThemeRegistry) Lookup(code string) (*ThemeDefinition, bool) {
	def, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return def, ok
}

// IsKnownCode 判断主题代码是否属于已知分类体系
func (r *ThemeRegistry) IsKnownCode(code string) bool {
	_, ok := r.Lookup(code)
	return ok
}

// EUThemeFor 返回主题代码对应的欧盟词表代码
func (r *ThemeRegistry) EUThemeFor(code string) (string, bool) {
	def, ok := r.Lookup(code)
	if !ok || def.EUTheme == "" {
		return "", false
	}
	return def.EUTheme, true
}

// SuggestThemes 扫描标题+描述文本建议主题，每个主题第一个命中的关键词生效
// 无任何命中时返回单个 uncategorized 主题
func (r *ThemeRegistry) SuggestThemes(text string) []models.ThemeClassification {
	haystack := strings.ToLower(text)
	var suggested []models.ThemeClassification

	for _, def := range r.themes {
		if def.Code == ThemeCodeUncategorized {
			continue
		}
		for _, keyword := range def.Keywords {
			if strings.Contains(haystack, keyword) {
				suggested = append(suggested, models.ThemeClassification{
					Code:  def.Code,
					Label: def.Label,
					Level: 0,
				})
				break
			}
		}
	}

	if len(suggested) == 0 {
		fallback := r.byCode[ThemeCodeUncategorized]
		suggested = append(suggested, models.ThemeClassification{
			Code:  fallback.Code,
			Label: fallback.Label,
			Level: 0,
		})
	}
	return suggested
}

// All 返回全部主题定义
func (r *ThemeRegistry) All() []ThemeDefinition {
	out := make([]ThemeDefinition, len(r.themes))
	copy(out, r.themes)
	return out
}

// builtinThemes 内置的国家主题分类体系
func builtinThemes() []ThemeDefinition {
	return []ThemeDefinition{
		{
			Code: "EDU",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Образовање",
				models.LocaleEnglish: "Education",
			},
			EUTheme:  "EDUC",
			Keywords: []string{"образовање", "obrazovanje", "школ", "škol", "education", "school", "универзитет", "univerzitet"},
		},
		{
			Code: "HEA",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Здравство",
				models.LocaleEnglish: "Health",
			},
			EUTheme:  "HEAL",
			Keywords: []string{"здравље", "zdravlje", "болниц", "bolnic", "health", "hospital", "медицин", "medicin"},
		},
		{
			Code: "ENV",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Животна средина",
				models.LocaleEnglish: "Environment",
			},
			EUTheme:  "ENVI",
			Keywords: []string{"животна средина", "životna sredina", "загађ", "zagađ", "environment", "air quality", "ваздух", "vazduh"},
		},
		{
			Code: "TRA",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Саобраћај",
				models.LocaleEnglish: "Transport",
			},
			EUTheme:  "TRAN",
			Keywords: []string{"саобраћај", "saobraćaj", "превоз", "prevoz", "transport", "traffic", "пут", "railway"},
		},
		{
			Code: "ECO",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Економија и финансије",
				models.LocaleEnglish: "Economy and finance",
			},
			EUTheme:  "ECON",
			Keywords: []string{"буџет", "budžet", "финансиј", "finansij", "economy", "budget", "порез", "porez"},
		},
		{
			Code: "GOV",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Влада и јавни сектор",
				models.LocaleEnglish: "Government and public sector",
			},
			EUTheme:  "GOVE",
			Keywords: []string{"влада", "vlada", "министарств", "ministarstv", "government", "public sector", "избор", "izbor"},
		},
		{
			Code: "AGR",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Пољопривреда",
				models.LocaleEnglish: "Agriculture",
			},
			EUTheme:  "AGRI",
			Keywords: []string{"пољопривред", "poljoprivred", "agriculture", "farm", "усев", "usev"},
		},
		{
			Code: "POP",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Становништво и друштво",
				models.LocaleEnglish: "Population and society",
			},
			EUTheme:  "SOCI",
			Keywords: []string{"становништво", "stanovništvo", "попис", "popis", "population", "census", "друштво", "društvo"},
		},
		{
			Code: "TEC",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Наука и технологија",
				models.LocaleEnglish: "Science and technology",
			},
			EUTheme:  "TECH",
			Keywords: []string{"наука", "nauka", "технологиј", "tehnologij", "science", "technology", "истраживањ", "istraživanj"},
		},
		{
			Code: "ENE",
			Label: models.LocalizedText{
				models.LocaleSerbian: "Енергетика",
				models.LocaleEnglish: "Energy",
			},
			EUTheme:  "ENER",
			Keywords: []string{"енергиј", "energij", "energy", "струј", "struj", "electricity"},
		},
		{
			Code: ThemeCodeUncategorized,
			Label: models.LocalizedText{
				models.LocaleSerbian: "Некатегоризовано",
				models.LocaleEnglish: "Uncategorized",
			},
			EUTheme: "",
		},
	}
}
