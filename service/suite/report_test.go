/*
 * @module service/suite/report_test
 * @description 合规报告测试：扁平化投影与 JSON/CSV 导出
 * @architecture 测试层 - 纯数据变换测试
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 评估产出 -> 报告 -> 序列化验证
 * @rules CSV 导出首行为注释形式的报告头
 * @dependencies testing, testify, testutil
 * @refs report.go
 */

package suite

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendata-compliance-service/service/models"
	"opendata-compliance-service/testutil"
)

func runValidAssessment(t *testing.T) (*ComplianceSuite, *Assessment) {
	t.Helper()
	s := fixedSuite(Config{})
	assessment, err := s.Run(Input{
		Records:  cleanRecords(),
		Metadata: testutil.ValidMetadataRecord(),
	})
	require.NoError(t, err)
	return s, assessment
}

func TestBuildReport_Flattening(t *testing.T) {
	s, assessment := runValidAssessment(t)

	report := s.BuildReport(assessment)

	assert.Equal(t, "ds-budget-2025", report.DatasetID)
	assert.Equal(t, assessment.Compliance.AssessmentID, report.AssessmentID)
	assert.Equal(t, assessment.Compliance.OverallScore, report.OverallScore)
	assert.Equal(t, assessment.Quality.Overall, report.QualityScore)
	assert.False(t, report.GeneratedAt.IsZero())

	require.Len(t, report.Categories, 5)
	assert.Equal(t, assessment.Compliance.Categories[0].Name, report.Categories[0].Name)
	assert.Equal(t, assessment.Compliance.Categories[0].Score, report.Categories[0].Score)

	// 检查项行数 = 各类别检查项之和
	total := 0
	for _, category := range assessment.Compliance.Categories {
		total += len(category.Requirements)
	}
	require.Len(t, report.Requirements, total)
	assert.Equal(t, report.Categories[0].Name, report.Requirements[0].Category)
}

func TestBuildReport_NilSafety(t *testing.T) {
	s := fixedSuite(Config{})

	report := s.BuildReport(nil)
	require.NotNil(t, report)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Empty(t, report.Requirements)

	// 只有元数据没有合规结果时仅填充数据集标识
	partial := s.BuildReport(&Assessment{Metadata: testutil.ValidMetadataRecord()})
	assert.Equal(t, "ds-budget-2025", partial.DatasetID)
	assert.Empty(t, partial.Categories)
}

func TestExportReport_JSON(t *testing.T) {
	s, assessment := runValidAssessment(t)
	report := s.BuildReport(assessment)

	out, err := s.ExportReport(report, ReportFormatJSON)
	require.NoError(t, err)

	var decoded models.ComplianceReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, report.AssessmentID, decoded.AssessmentID)
	assert.Equal(t, report.OverallScore, decoded.OverallScore)
	assert.Len(t, decoded.Requirements, len(report.Requirements))
}

func TestExportReport_CSV(t *testing.T) {
	s, assessment := runValidAssessment(t)
	report := s.BuildReport(assessment)

	out, err := s.ExportReport(report, ReportFormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	// 注释头 + 表头 + 每检查项一行
	require.Len(t, lines, 2+len(report.Requirements))
	assert.True(t, strings.HasPrefix(lines[0], "# assessment "))
	assert.Contains(t, lines[0], "overall 95.9")
	assert.Equal(t, "category,requirement,name,required,status,score,evidence", lines[1])
	assert.Contains(t, lines[2], report.Requirements[0].Requirement)
}

func TestExportReport_UnsupportedFormat(t *testing.T) {
	s := fixedSuite(Config{})

	_, err := s.ExportReport(&models.ComplianceReport{}, "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不支持的报告格式")
}
