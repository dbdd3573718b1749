/*
 * @module service/metadata/licenses
 * @description 开放许可协议允许清单与默认许可推荐
 * @architecture 服务层 - 只读注册表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 进程启动时初始化 -> 许可校验 / 默认许可补全
 * @rules 允许清单之外的许可按不开放处理；默认推荐许可为 CC-BY-4.0
 * @dependencies strings
 * @refs service/metadata/enhancer.go, service/validators/legal.go
 */

package metadata

import (
	"strings"

	"opendata-compliance-service/service/models"
)

// DefaultLicenseID 无许可元数据时补全的默认开放许可
const DefaultLicenseID = "CC-BY-4.0"

// openLicenses 开放许可允许清单，初始化后只读
var openLicenses = map[string]models.License{
	"CC0-1.0": {
		Identifier: "CC0-1.0",
		Name: models.LocalizedText{
			models.LocaleEnglish: "Creative Commons Zero 1.0",
		},
		URL:                    "https://creativecommons.org/publicdomain/zero/1.0/",
		AttributionRequired:    false,
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	},
	"CC-BY-4.0": {
		Identifier: "CC-BY-4.0",
		Name: models.LocalizedText{
			models.LocaleEnglish: "Creative Commons Attribution 4.0",
		},
		URL:                    "https://creativecommons.org/licenses/by/4.0/",
		AttributionRequired:    true,
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	},
	"CC-BY-SA-4.0": {
		Identifier: "CC-BY-SA-4.0",
		Name: models.LocalizedText{
			models.LocaleEnglish: "Creative Commons Attribution-ShareAlike 4.0",
		},
		URL:                    "https://creativecommons.org/licenses/by-sa/4.0/",
		AttributionRequired:    true,
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	},
	"ODbL-1.0": {
		Identifier: "ODbL-1.0",
		Name: models.LocalizedText{
			models.LocaleEnglish: "Open Database License 1.0",
		},
		URL:                    "https://opendatacommons.org/licenses/odbl/1-0/",
		AttributionRequired:    true,
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	},
	"ODC-BY-1.0": {
		Identifier: "ODC-BY-1.0",
		Name: models.LocalizedText{
			models.LocaleEnglish: "Open Data Commons Attribution 1.0",
		},
		URL:                    "https://opendatacommons.org/licenses/by/1-0/",
		AttributionRequired:    true,
		CommercialUseAllowed:   true,
		DerivativeWorksAllowed: true,
	},
}

// IsOpenLicense 判断许可标识是否在开放许可允许清单内
func IsOpenLicense(identifier string) bool {
	_, ok := LookupLicense(identifier)
	return ok
}

// LookupLicense 按标识查找许可定义，大小写不敏感
func LookupLicense(identifier string) (models.License, bool) {
	needle := normalizeLicenseID(identifier)
	for id, lic := range openLicenses {
		if strings.EqualFold(id, needle) {
			return lic, true
		}
	}
	return models.License{}, false
}

// DefaultLicense 返回默认开放许可的完整定义
func DefaultLicense() models.License {
	return openLicenses[DefaultLicenseID]
}

// OpenLicenseIDs 返回允许清单内全部许可标识
func OpenLicenseIDs() []string {
	ids := make([]string, 0, len(openLicenses))
	for id := range openLicenses {
		ids = append(ids, id)
	}
	return ids
}

// normalizeLicenseID 许可标识写法规整
func normalizeLicenseID(identifier string) string {
	id := strings.TrimSpace(identifier)
	// 常见写法 cc-by-4.0 / CC BY 4.0 归一为标准标识
	id = strings.ReplaceAll(id, " ", "-")
	return strings.TrimSuffix(id, "/")
}

// IsLicenseOpenByFlags 根据三个开放性标志位判断许可是否满足开放条件
// 开放条件：允许商业使用且允许演绎作品（署名要求不影响开放性）
func IsLicenseOpenByFlags(lic *models.License) bool {
	if lic == nil {
		return false
	}
	return lic.CommercialUseAllowed && lic.DerivativeWorksAllowed
}
