/*
 * @module api/controllers/metadata_controller
 * @description 元数据控制器，提供外部格式转换、元数据补全与登记表查询API
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 请求接收 -> 适配器/补全器处理 -> 响应返回
 * @rules 转换与补全都是纯函数式操作，不落库
 * @dependencies opendata-compliance-service/service/metadata, github.com/go-chi/chi/v5
 * @refs service/metadata/adapter.go, service/metadata/enhancer.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
)

// MetadataController 元数据控制器
type MetadataController struct {
	adapter      *metadata.Adapter
	enhancer     *metadata.Enhancer
	institutions *metadata.InstitutionRegistry
	themes       *metadata.ThemeRegistry
}

// NewMetadataController 创建元数据控制器实例
func NewMetadataController() *MetadataController {
	institutions := metadata.NewInstitutionRegistry()
	themes := metadata.NewThemeRegistry()
	return &MetadataController{
		adapter:      metadata.NewAdapter(),
		enhancer:     metadata.NewEnhancer(institutions, themes),
		institutions: institutions,
		themes:       themes,
	}
}

// ImportMetadata 从外部格式导入元数据
// @Summary 导入外部元数据
// @Description 将 DCAT-AP 或 CKAN 格式的元数据载荷转换为规范记录
// @Tags 元数据
// @Accept json
// @Produce json
// @Param schema path string true "外部格式" Enums(dcat-ap,ckan)
// @Param payload body object true "外部元数据载荷"
// @Success 200 {object} APIResponse{data=models.MetadataRecord} "转换成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /metadata/import/{schema} [post]
func (c *MetadataController) ImportMetadata(w http.ResponseWriter, r *http.Request) {
	schema := metadata.ExternalSchema(chi.URLParam(r, "schema"))

	var payload metadata.Payload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	record, err := c.adapter.AdaptFrom(schema, payload)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "元数据导入成功",
		Data:   record,
	})
}

// ExportMetadata 导出元数据到外部格式
// @Summary 导出元数据
// @Description 将规范元数据记录转换为 DCAT-AP 或 CKAN 格式载荷
// @Tags 元数据
// @Accept json
// @Produce json
// @Param schema path string true "外部格式" Enums(dcat-ap,ckan)
// @Param record body models.MetadataRecord true "规范元数据记录"
// @Success 200 {object} APIResponse "转换成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /metadata/export/{schema} [post]
func (c *MetadataController) ExportMetadata(w http.ResponseWriter, r *http.Request) {
	schema := metadata.ExternalSchema(chi.URLParam(r, "schema"))

	var record models.MetadataRecord
	if err := render.DecodeJSON(r.Body, &record); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	payload, err := c.adapter.AdaptTo(schema, &record)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "元数据导出成功",
		Data:   payload,
	})
}

// EnhanceRequest 元数据补全请求
type EnhanceRequest struct {
	Record  *models.MetadataRecord  `json:"record"`
	Options metadata.EnhanceOptions `json:"options"`
}

// EnhanceMetadata 补全元数据
// @Summary 补全元数据
// @Description 对规范元数据记录执行机构识别、主题建议、许可与格式规范化等启发式补全
// @Tags 元数据
// @Accept json
// @Produce json
// @Param request body EnhanceRequest true "补全请求"
// @Success 200 {object} APIResponse{data=models.MetadataRecord} "补全成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /metadata/enhance [post]
func (c *MetadataController) EnhanceMetadata(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Record == nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	enriched := c.enhancer.Enhance(req.Record, req.Options)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "元数据补全成功",
		Data:   enriched,
	})
}

// GetSchemas 获取支持的外部格式
// @Summary 获取支持的外部格式
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /metadata/schemas [get]
func (c *MetadataController) GetSchemas(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取支持格式成功",
		Data:   c.adapter.SupportedSchemas(),
	})
}

// GetInstitutions 获取机构登记表
// @Summary 获取机构登记表
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Institution}
// @Router /metadata/institutions [get]
func (c *MetadataController) GetInstitutions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取机构登记表成功",
		Data:   c.institutions.All(),
	})
}

// GetThemes 获取主题分类表
// @Summary 获取主题分类表
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]metadata.ThemeDefinition}
// @Router /metadata/themes [get]
func (c *MetadataController) GetThemes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取主题分类表成功",
		Data:   c.themes.All(),
	})
}

// GetLicenses 获取开放许可列表
// @Summary 获取开放许可列表
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /metadata/licenses [get]
func (c *MetadataController) GetLicenses(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取开放许可列表成功",
		Data:   metadata.OpenLicenseIDs(),
	})
}
