/*
 * @module api/controllers/compliance_controller
 * @description 合规评估控制器，提供数据集评估、快速检查与报告导出API
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 请求接收 -> 输入组装 -> 评估套件执行 -> 响应返回
 * @rules 统一的错误处理和响应格式；报告CSV导出直接返回文件内容
 * @dependencies opendata-compliance-service/service, github.com/go-chi/render
 * @refs service/suite/suite.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/reader"
	"opendata-compliance-service/service/suite"
)

// ComplianceController 合规评估控制器
type ComplianceController struct {
	suite *suite.ComplianceSuite
}

// NewComplianceController 创建合规评估控制器实例
func NewComplianceController(complianceSuite *suite.ComplianceSuite) *ComplianceController {
	return &ComplianceController{suite: complianceSuite}
}

// AssessRequest 评估请求
type AssessRequest struct {
	// Format 原始数据格式：csv 或 json
	Format string `json:"format" example:"csv"`
	// Data 原始数据内容，与 Records 二选一
	Data string `json:"data,omitempty"`
	// Records 已解析的结构化记录
	Records []reader.Record `json:"records,omitempty"`
	// Metadata 数据集元数据
	Metadata *models.MetadataRecord `json:"metadata,omitempty"`
}

func (req *AssessRequest) toInput() suite.Input {
	input := suite.Input{
		Format:   req.Format,
		Records:  req.Records,
		Metadata: req.Metadata,
	}
	if req.Data != "" {
		input.Raw = []byte(req.Data)
	}
	return input
}

// Assess 执行完整合规评估
// @Summary 执行合规评估
// @Description 对提交的数据与元数据执行完整的合规评估与质量分析
// @Tags 合规评估
// @Accept json
// @Produce json
// @Param request body AssessRequest true "评估请求"
// @Success 200 {object} APIResponse{data=suite.Assessment} "评估成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /compliance/assess [post]
func (c *ComplianceController) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	assessment, err := c.suite.Run(req.toInput())
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "合规评估完成",
		Data:   assessment,
	})
}

// QuickCheck 快速合规检查
// @Summary 快速合规检查
// @Description 只运行必查项，返回通过与否和首要问题列表
// @Tags 合规评估
// @Accept json
// @Produce json
// @Param request body AssessRequest true "评估请求"
// @Success 200 {object} APIResponse{data=models.QuickCheckResult} "检查完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /compliance/quick-check [post]
func (c *ComplianceController) QuickCheck(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	result, err := c.suite.QuickCheck(req.toInput())
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "快速检查完成",
		Data:   result,
	})
}

// ExportReport 导出评估报告
// @Summary 导出评估报告
// @Description 执行评估并导出扁平化报告，支持 json 与 csv 两种格式
// @Tags 合规评估
// @Accept json
// @Produce json
// @Param format query string false "报告格式" Enums(json,csv) default(json)
// @Param request body AssessRequest true "评估请求"
// @Success 200 {object} APIResponse{data=models.ComplianceReport} "导出成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /compliance/report [post]
func (c *ComplianceController) ExportReport(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = suite.ReportFormatJSON
	}

	assessment, err := c.suite.Run(req.toInput())
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	report := c.suite.BuildReport(assessment)
	content, err := c.suite.ExportReport(report, format)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	if format == suite.ReportFormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=compliance_report.csv")
		w.WriteHeader(http.StatusOK)
		w.Write(content)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// ExportRecords 导出结构化记录
// @Summary 导出结构化记录
// @Description 将解析后的记录回写为 csv 或 json 内容
// @Tags 合规评估
// @Accept json
// @Produce json
// @Param format query string false "导出格式" Enums(csv,json) default(csv)
// @Param request body AssessRequest true "记录内容"
// @Success 200 {string} string "导出内容"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /compliance/export [post]
func (c *ComplianceController) ExportRecords(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = suite.FormatCSV
	}

	content, err := c.suite.ExportRecords(req.Records, format)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	contentType := "application/json; charset=utf-8"
	if format == suite.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
