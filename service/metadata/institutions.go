/*
 * @module service/metadata/institutions
 * @description 已知公共机构注册表，提供按名称子串与注册号的只读查找
 * @architecture 服务层 - 只读注册表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 进程启动时初始化 -> 运行期只读查找
 * @rules 注册表初始化后只读，机构注册号为8位数字（matični broj）
 * @dependencies regexp, strings
 * @refs service/metadata/enhancer.go, service/validators/metadata_standards.go
 */

package metadata

import (
	"regexp"
	"strings"

	"opendata-compliance-service/service/models"
)

// institutionIDPattern 机构注册号格式：8位数字
var institutionIDPattern = regexp.MustCompile(`^\d{8}$`)

// InstitutionRegistry 公共机构注册表，初始化后只读
type InstitutionRegistry struct {
	institutions []models.Institution
}

// NewInstitutionRegistry 创建内置机构注册表
func NewInstitutionRegistry() *InstitutionRegistry {
	return &InstitutionRegistry{institutions: builtinInstitutions()}
}

// FindByName 按任一语言名称的子串匹配查找机构，大小写不敏感
func (r *InstitutionRegistry) FindByName(name string) *models.Institution {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range r.institutions {
		for _, variant := range r.institutions[i].Name {
			if strings.Contains(strings.ToLower(variant), needle) {
				inst := r.institutions[i]
				return &inst
			}
		}
	}
	return nil
}

// FindByIdentifier 按注册号精确查找机构
func (r *InstitutionRegistry) FindByIdentifier(identifier string) *models.Institution {
	for i := range r.institutions {
		if r.institutions[i].Identifier == identifier {
			inst := r.institutions[i]
			return &inst
		}
	}
	return nil
}

// All 返回注册表全部机构
func (r *InstitutionRegistry) All() []models.Institution {
	out := make([]models.Institution, len(r.institutions))
	copy(out, r.institutions)
	return out
}

// IsValidInstitutionIdentifier 判断机构注册号格式是否合法
func IsValidInstitutionIdentifier(identifier string) bool {
	return institutionIDPattern.MatchString(identifier)
}

// IsAllowedInstitutionType 判断机构类型是否属于允许的枚举
func IsAllowedInstitutionType(institutionType string) bool {
	switch institutionType {
	case models.InstitutionTypeMinistry,
		models.InstitutionTypeAgency,
		models.InstitutionTypeInstitution,
		models.InstitutionTypeCompany,
		models.InstitutionTypeMunicipal:
		return true
	default:
		return false
	}
}

// builtinInstitutions 内置的国家级机构种子数据
func builtinInstitutions() []models.Institution {
	return []models.Institution{
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Министарство просвете",
				models.LocaleSerbianLatin: "Ministarstvo prosvete",
				models.LocaleEnglish:      "Ministry of Education",
			},
			Identifier:   "07000944",
			Type:         models.InstitutionTypeMinistry,
			Website:      "https://prosveta.gov.rs",
			Jurisdiction: "RS",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Министарство здравља",
				models.LocaleSerbianLatin: "Ministarstvo zdravlja",
				models.LocaleEnglish:      "Ministry of Health",
			},
			Identifier:   "17679450",
			Type:         models.InstitutionTypeMinistry,
			Website:      "https://zdravlje.gov.rs",
			Jurisdiction: "RS",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Републички завод за статистику",
				models.LocaleSerbianLatin: "Republički zavod za statistiku",
				models.LocaleEnglish:      "Statistical Office of the Republic of Serbia",
			},
			Identifier:   "07003960",
			Type:         models.InstitutionTypeAgency,
			Website:      "https://www.stat.gov.rs",
			Jurisdiction: "RS",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Агенција за привредне регистре",
				models.LocaleSerbianLatin: "Agencija za privredne registre",
				models.LocaleEnglish:      "Serbian Business Registers Agency",
			},
			Identifier:   "17537736",
			Type:         models.InstitutionTypeAgency,
			Website:      "https://www.apr.gov.rs",
			Jurisdiction: "RS",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Канцеларија за информационе технологије и електронску управу",
				models.LocaleSerbianLatin: "Kancelarija za informacione tehnologije i elektronsku upravu",
				models.LocaleEnglish:      "Office for IT and eGovernment",
			},
			Identifier:   "07020171",
			Type:         models.InstitutionTypeAgency,
			Website:      "https://www.ite.gov.rs",
			Jurisdiction: "RS",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Град Београд",
				models.LocaleSerbianLatin: "Grad Beograd",
				models.LocaleEnglish:      "City of Belgrade",
			},
			Identifier:   "07004720",
			Type:         models.InstitutionTypeMunicipal,
			Website:      "https://www.beograd.rs",
			Jurisdiction: "RS-00",
		},
		{
			Name: models.LocalizedText{
				models.LocaleSerbian:      "Јавно предузеће Електропривреда Србије",
				models.LocaleSerbianLatin: "Javno preduzeće Elektroprivreda Srbije",
				models.LocaleEnglish:      "Public Enterprise Electric Power Industry of Serbia",
			},
			Identifier:   "20053658",
			Type:         models.InstitutionTypeCompany,
			Website:      "https://www.eps.rs",
			Jurisdiction: "RS",
		},
	}
}
