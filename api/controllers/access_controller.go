/*
 * @module api/controllers/access_controller
 * @description 访问密钥控制器，提供密钥签发、列表与吊销API
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 请求接收 -> 密钥服务处理 -> 响应返回
 * @rules 明文密钥只在签发响应中出现一次，之后无法再取回
 * @dependencies opendata-compliance-service/service/access, github.com/go-chi/chi/v5
 * @refs service/access/key_service.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"opendata-compliance-service/service/access"
)

// AccessController 访问密钥控制器
type AccessController struct {
	keyService *access.KeyService
}

// NewAccessController 创建访问密钥控制器实例
func NewAccessController(keyService *access.KeyService) *AccessController {
	return &AccessController{keyService: keyService}
}

// IssueKeyRequest 密钥签发请求
type IssueKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

// IssueKey 签发访问密钥
// @Summary 签发访问密钥
// @Description 签发新的访问密钥，明文只在本次响应中返回
// @Tags 访问控制
// @Accept json
// @Produce json
// @Param request body IssueKeyRequest true "签发请求"
// @Success 201 {object} APIResponse{data=access.IssuedKey} "签发成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /access/keys [post]
func (c *AccessController) IssueKey(w http.ResponseWriter, r *http.Request) {
	var req IssueKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Name == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	issued, err := c.keyService.Issue(req.Name, req.Scopes)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "密钥签发失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "密钥签发成功",
		Data:   issued,
	})
}

// GetKeys 获取密钥列表
// @Summary 获取密钥列表
// @Description 列出全部访问密钥，密钥哈希不返回
// @Tags 访问控制
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.AccessKey} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /access/keys [get]
func (c *AccessController) GetKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := c.keyService.List()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取密钥列表失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取密钥列表成功",
		Data:   keys,
	})
}

// RevokeKey 吊销访问密钥
// @Summary 吊销访问密钥
// @Tags 访问控制
// @Produce json
// @Param id path string true "密钥ID"
// @Success 200 {object} APIResponse "吊销成功"
// @Failure 404 {object} APIResponse "密钥不存在"
// @Router /access/keys/{id} [delete]
func (c *AccessController) RevokeKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.keyService.Revoke(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "密钥吊销成功",
	})
}
