/*
 * @module service/suite/report
 * @description 合规报告构建与导出：扁平化投影 + JSON/CSV 序列化
 * @architecture 服务层 - 纯数据变换
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 评估产出 -> 扁平化报告 -> 序列化字节
 * @rules 不支持的导出格式走致命错误通道返回，属编程错误而非数据问题
 * @dependencies encoding/json, encoding/csv
 * @refs suite.go, service/models/compliance.go
 */

package suite

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"opendata-compliance-service/service/models"
)

// 报告导出格式
const (
	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
)

// BuildReport 将评估产出扁平化为展示投影
func (s *ComplianceSuite) BuildReport(assessment *Assessment) *models.ComplianceReport {
	report := &models.ComplianceReport{
		GeneratedAt: time.Now(),
	}
	if assessment == nil {
		return report
	}

	if assessment.Metadata != nil {
		report.DatasetID = assessment.Metadata.Identifier
	}
	if assessment.Quality != nil {
		report.QualityScore = assessment.Quality.Overall
		report.Quality = assessment.Quality
	}
	if assessment.Compliance == nil {
		return report
	}

	report.AssessmentID = assessment.Compliance.AssessmentID
	report.OverallScore = assessment.Compliance.OverallScore
	report.OverallStatus = assessment.Compliance.OverallStatus
	report.Recommendations = assessment.Compliance.Recommendations
	report.Errors = assessment.Compliance.Errors

	for _, category := range assessment.Compliance.Categories {
		report.Categories = append(report.Categories, models.ReportCategory{
			Name:   category.Name,
			Weight: category.Weight,
			Score:  category.Score,
			Status: category.Status,
		})
		for _, req := range category.Requirements {
			report.Requirements = append(report.Requirements, models.ReportLine{
				Category:    category.Name,
				Requirement: req.ID,
				Name:        req.Name,
				Required:    req.Required,
				Status:      req.Status,
				Score:       req.Score,
				Evidence:    req.Evidence,
			})
		}
	}
	return report
}

// ExportReport 按格式序列化报告，不支持的格式返回错误
func (s *ComplianceSuite) ExportReport(report *models.ComplianceReport, format string) ([]byte, error) {
	switch format {
	case ReportFormatJSON:
		return exportReportJSON(report)
	case ReportFormatCSV:
		return exportReportCSV(report)
	default:
		return nil, fmt.Errorf("不支持的报告格式: %s", format)
	}
}

func exportReportJSON(report *models.ComplianceReport) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("报告 JSON 序列化失败: %w", err)
	}
	return out, nil
}

// exportReportCSV 导出扁平检查项行，报告头信息以注释行形式置顶
func exportReportCSV(report *models.ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# assessment %s, overall %.1f (%s), quality %.1f\n",
		report.AssessmentID, report.OverallScore, report.OverallStatus, report.QualityScore)

	w := csv.NewWriter(&buf)
	header := []string{"category", "requirement", "name", "required", "status", "score", "evidence"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("报告 CSV 写入失败: %w", err)
	}
	for _, line := range report.Requirements {
		row := []string{
			line.Category,
			line.Requirement,
			line.Name,
			strconv.FormatBool(line.Required),
			line.Status,
			strconv.FormatFloat(line.Score, 'f', 1, 64),
			line.Evidence,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("报告 CSV 写入失败: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("报告 CSV 输出失败: %w", err)
	}
	return buf.Bytes(), nil
}
