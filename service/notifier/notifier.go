/*
 * @module service/notifier/notifier
 * @description 评估事件通知：统一事件结构与通知器能力接口，支持多后端扇出
 * @architecture 适配器模式 - 统一接口封装不同消息后端
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 评估完成 -> 构建事件 -> 各后端并行发布
 * @rules 通知失败只记日志，从不影响评估结果的返回
 * @dependencies encoding/json
 * @refs kafka_notifier.go, mqtt_notifier.go
 */

package notifier

import (
	"context"
	"log/slog"
	"time"

	"opendata-compliance-service/service/models"
)

// 事件类型
const (
	EventAssessmentCompleted = "assessment.completed"
	EventStatusChanged       = "assessment.status_changed"
)

// AssessmentEvent 评估完成事件
type AssessmentEvent struct {
	Type         string    `json:"type"`
	DatasetID    string    `json:"dataset_id"`
	AssessmentID string    `json:"assessment_id"`
	Score        float64   `json:"score"`
	Status       string    `json:"status"`
	// PreviousStatus 状态变更事件携带变更前状态
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notifier 通知器能力接口
type Notifier interface {
	// Name 后端名称
	Name() string
	// Publish 发布事件
	Publish(ctx context.Context, event *AssessmentEvent) error
	// Close 关闭后端连接
	Close() error
}

// Fanout 多后端扇出通知器
type Fanout struct {
	backends []Notifier
}

// NewFanout 创建扇出通知器
func NewFanout(backends ...Notifier) *Fanout {
	return &Fanout{backends: backends}
}

// Publish 向全部后端发布，失败只记日志
func (f *Fanout) Publish(ctx context.Context, event *AssessmentEvent) {
	for _, backend := range f.backends {
		if err := backend.Publish(ctx, event); err != nil {
			slog.Error("评估事件发布失败", "backend", backend.Name(), "dataset_id", event.DatasetID, "error", err)
		}
	}
}

// Close 关闭全部后端
func (f *Fanout) Close() {
	for _, backend := range f.backends {
		if err := backend.Close(); err != nil {
			slog.Error("通知后端关闭失败", "backend", backend.Name(), "error", err)
		}
	}
}

// NewCompletedEvent 构建评估完成事件
func NewCompletedEvent(datasetID string, result *models.ComplianceResult) *AssessmentEvent {
	return &AssessmentEvent{
		Type:         EventAssessmentCompleted,
		DatasetID:    datasetID,
		AssessmentID: result.AssessmentID,
		Score:        result.OverallScore,
		Status:       result.OverallStatus,
		OccurredAt:   time.Now(),
	}
}

// NewStatusChangedEvent 构建状态变更事件
func NewStatusChangedEvent(datasetID, previous string, result *models.ComplianceResult) *AssessmentEvent {
	event := NewCompletedEvent(datasetID, result)
	event.Type = EventStatusChanged
	event.PreviousStatus = previous
	return event
}
