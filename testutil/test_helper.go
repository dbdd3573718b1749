/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"opendata-compliance-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.DatasetEntry{},
		&models.AccessKey{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"dataset_entries",
		"access_keys",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// DatasetEntryOption 数据集登记选项函数类型
type DatasetEntryOption func(*models.DatasetEntry)

// CreateDatasetEntry 创建测试数据集登记
func (f *TestDataFactory) CreateDatasetEntry(opts ...DatasetEntryOption) *models.DatasetEntry {
	entry := &models.DatasetEntry{
		Name:       "测试数据集_" + generateSuffix(),
		SourceType: "inline",
		DataFormat: "csv",
		CreatedBy:  "test",
	}

	// 应用选项
	for _, opt := range opts {
		opt(entry)
	}

	err := f.DB.Create(entry).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test dataset entry: %v", err))
	}

	return entry
}

// MetadataRecordOption 元数据记录选项函数类型
type MetadataRecordOption func(*models.MetadataRecord)

// ValidMetadataRecord 构建一条各必查项都能通过的元数据记录
func ValidMetadataRecord(opts ...MetadataRecordOption) *models.MetadataRecord {
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	record := &models.MetadataRecord{
		Identifier: "ds-budget-2025",
		Title: models.LocalizedText{
			models.LocaleSerbian: "Буџет Републике Србије 2025",
			models.LocaleEnglish: "Budget of the Republic of Serbia 2025",
		},
		Description: models.LocalizedText{
			models.LocaleSerbian: "Детаљан преглед буџетских прихода и расхода по корисницима и програмима за 2025. годину.",
			models.LocaleEnglish: "Detailed overview of budget revenues and expenditures by beneficiary and programme for 2025.",
		},
		Keywords: []models.LocalizedText{
			{models.LocaleSerbian: "буџет", models.LocaleEnglish: "budget"},
			{models.LocaleSerbian: "финансије", models.LocaleEnglish: "finance"},
		},
		Themes: []models.ThemeClassification{
			{Code: "GOV", Label: models.LocalizedText{models.LocaleEnglish: "Government and public sector"}},
		},
		Publisher: &models.Institution{
			Name: models.LocalizedText{
				models.LocaleSerbian: "Министарство просвете",
				models.LocaleEnglish: "Ministry of Education",
			},
			Identifier: "07000944",
			Type:       "ministry",
		},
		Issued:    &issued,
		Modified:  &modified,
		Languages: []string{models.LocaleSerbian, models.LocaleEnglish},
		Spatial:   "RS",
		Temporal: &models.PeriodOfTime{
			Start: &issued,
			End:   &modified,
		},
		Distributions: []models.Distribution{
			{
				AccessURL:   "https://data.gov.rs/datasets/budget-2025.csv",
				DownloadURL: "https://data.gov.rs/datasets/budget-2025.csv",
				Format:      "text/csv",
				ByteSize:    20480,
				Encoding:    "UTF-8",
			},
		},
		License: &models.License{
			Identifier:             "CC-BY-4.0",
			AttributionRequired:    true,
			CommercialUseAllowed:   true,
			DerivativeWorksAllowed: true,
		},
		ContactPoint: &models.ContactPoint{
			Name:  models.LocalizedText{models.LocaleSerbian: "Служба за отворене податке"},
			Email: "opendata@gov.rs",
			Phone: "+381 11 123 4567",
		},
	}

	// 应用选项
	for _, opt := range opts {
		opt(record)
	}

	return record
}

// 辅助函数
func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
