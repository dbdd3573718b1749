/*
 * @module service/catalog/catalog_service
 * @description 数据集目录服务：数据集登记CRUD、评估执行、最新摘要覆盖写入与事件通知
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 登记 -> （手动/定时）评估 -> 缓存写入 + 摘要更新 -> 状态变更通知
 * @rules 只保留最新一次评估摘要；通知与缓存失败不影响评估结果返回
 * @dependencies gorm.io/gorm, service/suite, service/cache, service/notifier, client
 * @refs scheduler.go, service/models/catalog.go
 */

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"opendata-compliance-service/client"
	"opendata-compliance-service/service/cache"
	"opendata-compliance-service/service/metadata"
	"opendata-compliance-service/service/models"
	"opendata-compliance-service/service/notifier"
	"opendata-compliance-service/service/suite"
)

// 数据来源类型
const (
	SourceInline = "inline"
	SourcePortal = "portal"
	SourceURL    = "url"
)

// CatalogService 数据集目录服务
type CatalogService struct {
	db       *gorm.DB
	suite    *suite.ComplianceSuite
	cache    *cache.AssessmentCache
	notifier *notifier.Fanout
	portal   *client.PortalClient
}

// NewCatalogService 创建数据集目录服务
// cache 与 events 允许为 nil，对应能力降级为直通
func NewCatalogService(db *gorm.DB, complianceSuite *suite.ComplianceSuite, assessmentCache *cache.AssessmentCache, events *notifier.Fanout, portal *client.PortalClient) *CatalogService {
	return &CatalogService{
		db:       db,
		suite:    complianceSuite,
		cache:    assessmentCache,
		notifier: events,
		portal:   portal,
	}
}

// Create 登记数据集
func (s *CatalogService) Create(entry *models.DatasetEntry) error {
	switch entry.SourceType {
	case SourceInline, SourcePortal, SourceURL:
	default:
		return fmt.Errorf("不支持的数据来源类型: %s", entry.SourceType)
	}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("登记数据集失败: %w", err)
	}
	return nil
}

// Get 查询单个数据集
func (s *CatalogService) Get(id string) (*models.DatasetEntry, error) {
	var entry models.DatasetEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("数据集不存在: %s", id)
	}
	return &entry, nil
}

// List 分页查询数据集
func (s *CatalogService) List(page, size int) ([]models.DatasetEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	if err := s.db.Model(&models.DatasetEntry{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计数据集失败: %w", err)
	}

	var entries []models.DatasetEntry
	err := s.db.Order("created_at desc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询数据集失败: %w", err)
	}
	return entries, total, nil
}

// Update 更新数据集登记信息并失效缓存
func (s *CatalogService) Update(entry *models.DatasetEntry) error {
	if err := s.db.Save(entry).Error; err != nil {
		return fmt.Errorf("更新数据集失败: %w", err)
	}
	s.invalidate(entry.ID)
	return nil
}

// Delete 删除数据集登记并失效缓存
func (s *CatalogService) Delete(id string) error {
	result := s.db.Delete(&models.DatasetEntry{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("删除数据集失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("数据集不存在: %s", id)
	}
	s.invalidate(id)
	return nil
}

// Assess 评估目录中的数据集，force 为 false 时优先命中缓存
func (s *CatalogService) Assess(ctx context.Context, id string, force bool) (*suite.Assessment, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !force && s.cache != nil {
		if cached, cacheErr := s.cache.Get(ctx, id); cacheErr == nil && cached != nil {
			return cached, nil
		}
	}

	input, err := s.buildInput(ctx, entry)
	if err != nil {
		return nil, err
	}

	assessment, err := s.suite.Run(*input)
	if err != nil {
		return nil, err
	}

	s.recordResult(ctx, entry, assessment)
	return assessment, nil
}

// buildInput 按来源类型构建评估输入
func (s *CatalogService) buildInput(ctx context.Context, entry *models.DatasetEntry) (*suite.Input, error) {
	input := &suite.Input{Format: entry.DataFormat}

	record, err := metadataFromEntry(entry)
	if err != nil {
		return nil, err
	}
	input.Metadata = record

	switch entry.SourceType {
	case SourceInline:
		// 行内数据集只评估元数据，原始数据由调用方随请求直接提交
	case SourcePortal:
		if s.portal == nil {
			return nil, fmt.Errorf("门户客户端未配置")
		}
		payload, portalErr := s.portal.GetDataset(ctx, entry.PortalID)
		if portalErr != nil {
			return nil, portalErr
		}
		imported, adaptErr := s.suite.ImportMetadata(metadata.SchemaCKAN, payload)
		if adaptErr != nil {
			return nil, adaptErr
		}
		input.Metadata = imported
	case SourceURL:
		if s.portal == nil {
			return nil, fmt.Errorf("门户客户端未配置")
		}
		raw, fetchErr := s.portal.FetchResource(ctx, entry.DataURL)
		if fetchErr != nil {
			return nil, fetchErr
		}
		input.Raw = raw
	}
	return input, nil
}

// recordResult 覆盖写入最新摘要，发布事件，写缓存
func (s *CatalogService) recordResult(ctx context.Context, entry *models.DatasetEntry, assessment *suite.Assessment) {
	result := assessment.Compliance
	previous := entry.LatestStatus

	now := time.Now()
	updates := map[string]interface{}{
		"latest_score":     result.OverallScore,
		"latest_status":    result.OverallStatus,
		"last_assessed_at": &now,
	}
	if err := s.db.Model(&models.DatasetEntry{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		slog.Error("更新数据集评估摘要失败", "dataset_id", entry.ID, "error", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entry.ID, assessment); err != nil {
			slog.Warn("写入评估缓存失败", "dataset_id", entry.ID, "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, notifier.NewCompletedEvent(entry.ID, result))
		if previous != "" && previous != result.OverallStatus {
			s.notifier.Publish(ctx, notifier.NewStatusChangedEvent(entry.ID, previous, result))
		}
	}
}

// ImportFromPortal 从门户导入数据集并登记
func (s *CatalogService) ImportFromPortal(ctx context.Context, portalID, createdBy string) (*models.DatasetEntry, error) {
	if s.portal == nil {
		return nil, fmt.Errorf("门户客户端未配置")
	}
	payload, err := s.portal.GetDataset(ctx, portalID)
	if err != nil {
		return nil, err
	}
	record, err := s.suite.ImportMetadata(metadata.SchemaCKAN, payload)
	if err != nil {
		return nil, err
	}

	metadataJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("元数据序列化失败: %w", err)
	}
	var metadataMap models.JSONB
	if err := json.Unmarshal(metadataJSON, &metadataMap); err != nil {
		return nil, fmt.Errorf("元数据转换失败: %w", err)
	}

	entry := &models.DatasetEntry{
		Name:       record.Title.Best(),
		SourceType: SourcePortal,
		PortalID:   portalID,
		Metadata:   metadataMap,
		CreatedBy:  createdBy,
	}
	if entry.Name == "" {
		entry.Name = portalID
	}
	if err := s.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ScheduledEntries 返回纳入周期性重评的数据集
func (s *CatalogService) ScheduledEntries() ([]models.DatasetEntry, error) {
	var entries []models.DatasetEntry
	if err := s.db.Where("schedule_enabled = ?", true).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询重评数据集失败: %w", err)
	}
	return entries, nil
}

func (s *CatalogService) invalidate(id string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Warn("失效评估缓存失败", "dataset_id", id, "error", err)
	}
}

// metadataFromEntry 将JSONB元数据还原为规范记录
func metadataFromEntry(entry *models.DatasetEntry) (*models.MetadataRecord, error) {
	if len(entry.Metadata) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("元数据序列化失败: %w", err)
	}
	var record models.MetadataRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("元数据解析失败: %w", err)
	}
	return &record, nil
}
