/*
 * @module api/controllers/quality_controller
 * @description 数据质量控制器，提供独立的质量分析与改进建议API
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 请求接收 -> 数据解析 -> 质量维度打分 -> 响应返回
 * @rules 质量分析不依赖合规校验，可单独调用
 * @dependencies opendata-compliance-service/service/quality, github.com/go-chi/render
 * @refs service/quality/analyzer.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/quality"
	"opendata-compliance-service/service/reader"
)

// QualityController 数据质量控制器
type QualityController struct {
	analyzer   *quality.Analyzer
	csvReader  *reader.CSVReader
	jsonReader *reader.JSONReader
}

// NewQualityController 创建数据质量控制器实例
func NewQualityController() *QualityController {
	return &QualityController{
		analyzer:   quality.NewAnalyzer(),
		csvReader:  reader.NewCSVReader(),
		jsonReader: reader.NewJSONReader(),
	}
}

// AnalyzeRequest 质量分析请求
type AnalyzeRequest struct {
	Format   string                 `json:"format" example:"csv"`
	Data     string                 `json:"data,omitempty"`
	Records  []reader.Record        `json:"records,omitempty"`
	Metadata *models.MetadataRecord `json:"metadata,omitempty"`
	// Weights 质量维度综合权重覆盖
	Weights map[string]float64 `json:"weights,omitempty"`
}

// AnalyzeResponse 质量分析响应
type AnalyzeResponse struct {
	Metrics         *models.QualityMetrics  `json:"metrics"`
	Recommendations []models.Recommendation `json:"recommendations"`
	ParseErrors     []models.ParseError     `json:"parse_errors,omitempty"`
	ParseWarnings   []models.ParseWarning   `json:"parse_warnings,omitempty"`
}

// Analyze 执行质量分析
// @Summary 执行质量分析
// @Description 对结构化数据与元数据计算多维质量得分和改进建议
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "质量分析请求"
// @Success 200 {object} APIResponse{data=AnalyzeResponse} "分析成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /quality/analyze [post]
func (c *QualityController) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	records := req.Records
	response := &AnalyzeResponse{}

	if req.Data != "" {
		var result *reader.Result
		switch req.Format {
		case "json":
			result = c.jsonReader.Parse([]byte(req.Data), reader.Options{})
		case "csv", "":
			result = c.csvReader.Parse([]byte(req.Data), reader.Options{})
		default:
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "不支持的数据格式: " + req.Format,
			})
			return
		}
		records = result.Data
		response.ParseErrors = result.Errors
		response.ParseWarnings = result.Warnings
	}

	analyzer := c.analyzer
	if len(req.Weights) > 0 {
		analyzer = quality.NewAnalyzer()
		analyzer.SetWeightOverrides(req.Weights)
	}

	response.Metrics = analyzer.CalculateQuality(records, req.Metadata)
	response.Recommendations = quality.GenerateQualityRecommendations(response.Metrics)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "质量分析完成",
		Data:   response,
	})
}
