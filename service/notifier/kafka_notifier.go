/*
 * @module service/notifier/kafka_notifier
 * @description Kafka通知后端，将评估事件发布到指定主题
 * @architecture 适配器模式 - 封装 kafka-go Writer
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 事件 -> JSON序列化 -> 按数据集ID分区写入主题
 * @rules 以数据集ID为消息键，同一数据集的事件保持分区内有序
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs notifier.go
 */

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig Kafka后端配置
type KafkaConfig struct {
	Brokers      []string      `json:"brokers"`
	Topic        string        `json:"topic"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// KafkaNotifier Kafka通知后端
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier 创建Kafka通知后端
func NewKafkaNotifier(config *KafkaConfig) *KafkaNotifier {
	timeout := config.WriteTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaNotifier{writer: writer}
}

// Name 后端名称
func (n *KafkaNotifier) Name() string { return "kafka" }

// Publish 发布事件到主题
func (n *KafkaNotifier) Publish(ctx context.Context, event *AssessmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("事件序列化失败: %w", err)
	}
	message := kafka.Message{
		Key:   []byte(event.DatasetID),
		Value: payload,
		Time:  event.OccurredAt,
	}
	if err := n.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("Kafka消息写入失败: %w", err)
	}
	return nil
}

// Close 关闭写入器
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
