/*
 * @module service/catalog/scheduler
 * @description 数据集周期性重评调度器，按cron表达式批量重评纳入调度的数据集
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 启动调度器 -> 注册cron任务 -> 定时扫描待评数据集 -> 逐个执行评估
 * @rules 重评总是强制绕过缓存；单个数据集失败不中断本轮其余评估
 * @dependencies github.com/robfig/cron/v3, catalog_service.go
 * @refs catalog_service.go
 */

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// 默认每天凌晨3点重评一次
const defaultScheduleSpec = "0 0 3 * * *"

// Scheduler 数据集重评调度器
type Scheduler struct {
	service          *CatalogService
	cron             *cron.Cron
	spec             string
	ctx              context.Context
	cancel           context.CancelFunc
	schedulerStarted bool
}

// NewScheduler 创建重评调度器，cron表达式取 REASSESS_CRON 环境变量
func NewScheduler(service *CatalogService) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithSeconds())

	spec := os.Getenv("REASSESS_CRON")
	if spec == "" {
		spec = defaultScheduleSpec
	}

	return &Scheduler{
		service:          service,
		cron:             c,
		spec:             spec,
		ctx:              ctx,
		cancel:           cancel,
		schedulerStarted: false,
	}
}

// StartScheduler 启动调度器
func (s *Scheduler) StartScheduler() error {
	if s.schedulerStarted {
		return fmt.Errorf("调度器已经启动")
	}

	slog.Info("启动数据集重评调度器", "spec", s.spec)

	if _, err := s.cron.AddFunc(s.spec, s.runBatch); err != nil {
		slog.Error("注册重评任务失败", "spec", s.spec, "error", err)
		return fmt.Errorf("注册重评任务失败: %w", err)
	}
	s.cron.Start()

	s.schedulerStarted = true
	slog.Info("数据集重评调度器启动完成")
	return nil
}

// StopScheduler 停止调度器
func (s *Scheduler) StopScheduler() {
	if !s.schedulerStarted {
		return
	}

	slog.Info("停止数据集重评调度器")

	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}

	s.schedulerStarted = false
	slog.Info("数据集重评调度器已停止")
}

// runBatch 执行一轮批量重评
func (s *Scheduler) runBatch() {
	entries, err := s.service.ScheduledEntries()
	if err != nil {
		slog.Error("加载待重评数据集失败", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	slog.Info("开始批量重评数据集", "count", len(entries))
	start := time.Now()
	failed := 0

	for _, entry := range entries {
		select {
		case <-s.ctx.Done():
			slog.Info("调度器已停止，中断本轮重评")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(s.ctx, 2*time.Minute)
		_, err := s.service.Assess(ctx, entry.ID, true)
		cancel()
		if err != nil {
			failed++
			slog.Error("数据集重评失败", "dataset_id", entry.ID, "name", entry.Name, "error", err)
		}
	}

	slog.Info("批量重评完成",
		"total", len(entries),
		"failed", failed,
		"duration", time.Since(start).String())
}
