/*
 * @module api/controllers/catalog_controller
 * @description 数据集目录控制器，提供数据集登记CRUD、评估触发与门户导入API
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 请求接收 -> 目录服务处理 -> 响应返回
 * @rules 评估触发支持 force 参数绕过缓存；目录只保存最新评估摘要
 * @dependencies opendata-compliance-service/service/catalog, github.com/go-chi/chi/v5
 * @refs service/catalog/catalog_service.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"opendata-compliance-service/service/catalog"
	"opendata-compliance-service/service/models"
)

// CatalogController 数据集目录控制器
type CatalogController struct {
	catalogService *catalog.CatalogService
}

// NewCatalogController 创建数据集目录控制器实例
func NewCatalogController(catalogService *catalog.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateDataset 登记数据集
// @Summary 登记数据集
// @Description 将数据集登记到目录，来源类型支持 inline、portal、url
// @Tags 数据集目录
// @Accept json
// @Produce json
// @Param dataset body models.DatasetEntry true "数据集登记信息"
// @Success 201 {object} APIResponse{data=models.DatasetEntry} "登记成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /catalog/datasets [post]
func (c *CatalogController) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var entry models.DatasetEntry
	if err := render.DecodeJSON(r.Body, &entry); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	if err := c.catalogService.Create(&entry); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "数据集登记成功",
		Data:   entry,
	})
}

// GetDatasets 获取数据集列表
// @Summary 获取数据集列表
// @Description 分页获取目录中的数据集登记
// @Tags 数据集目录
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.DatasetEntry} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /catalog/datasets [get]
func (c *CatalogController) GetDatasets(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	entries, total, err := c.catalogService.List(page, size)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取数据集列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取数据集列表成功",
		Data:   entries,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetDataset 获取数据集详情
// @Summary 获取数据集详情
// @Tags 数据集目录
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse{data=models.DatasetEntry} "获取成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /catalog/datasets/{id} [get]
func (c *CatalogController) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := c.catalogService.Get(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取数据集详情成功",
		Data:   entry,
	})
}

// UpdateDataset 更新数据集登记
// @Summary 更新数据集登记
// @Tags 数据集目录
// @Accept json
// @Produce json
// @Param id path string true "数据集ID"
// @Param dataset body models.DatasetEntry true "数据集登记信息"
// @Success 200 {object} APIResponse{data=models.DatasetEntry} "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /catalog/datasets/{id} [put]
func (c *CatalogController) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := c.catalogService.Get(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	var entry models.DatasetEntry
	if err := render.DecodeJSON(r.Body, &entry); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	if err := c.catalogService.Update(&entry); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "数据集更新成功",
		Data:   entry,
	})
}

// DeleteDataset 删除数据集登记
// @Summary 删除数据集登记
// @Tags 数据集目录
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /catalog/datasets/{id} [delete]
func (c *CatalogController) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.catalogService.Delete(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "数据集删除成功",
	})
}

// AssessDataset 评估目录中的数据集
// @Summary 评估数据集
// @Description 对目录中的数据集执行合规评估，force=true 时绕过缓存强制重评
// @Tags 数据集目录
// @Produce json
// @Param id path string true "数据集ID"
// @Param force query bool false "强制重评" default(false)
// @Success 200 {object} APIResponse{data=suite.Assessment} "评估成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Failure 500 {object} APIResponse "评估执行失败"
// @Router /catalog/datasets/{id}/assess [post]
func (c *CatalogController) AssessDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	assessment, err := c.catalogService.Assess(r.Context(), id, force)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "数据集评估完成",
		Data:   assessment,
	})
}

// ImportPortalRequest 门户导入请求
type ImportPortalRequest struct {
	PortalID  string `json:"portal_id"`
	CreatedBy string `json:"created_by,omitempty"`
}

// ImportFromPortal 从门户导入数据集
// @Summary 从门户导入数据集
// @Description 按门户数据集标识拉取元数据并登记到目录
// @Tags 数据集目录
// @Accept json
// @Produce json
// @Param request body ImportPortalRequest true "导入请求"
// @Success 201 {object} APIResponse{data=models.DatasetEntry} "导入成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "门户拉取失败"
// @Router /catalog/import [post]
func (c *CatalogController) ImportFromPortal(w http.ResponseWriter, r *http.Request) {
	var req ImportPortalRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.PortalID == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	entry, err := c.catalogService.ImportFromPortal(r.Context(), req.PortalID, req.CreatedBy)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "数据集导入成功",
		Data:   entry,
	})
}
