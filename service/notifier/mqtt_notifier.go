/*
 * @module service/notifier/mqtt_notifier
 * @description MQTT通知后端，将评估事件发布到按数据集分层的主题
 * @architecture 适配器模式 - 封装 paho.mqtt 客户端
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 连接建立 -> 事件发布到 <前缀>/<数据集ID> -> 断开
 * @rules QoS 1 至少一次投递；连接失败在 Publish 时返回错误而不是重试
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs notifier.go
 */

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig MQTT后端配置
type MQTTConfig struct {
	BrokerURL   string        `json:"broker_url"`
	ClientID    string        `json:"client_id"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	TopicPrefix string        `json:"topic_prefix"`
	Timeout     time.Duration `json:"timeout"`
}

// MQTTNotifier MQTT通知后端
type MQTTNotifier struct {
	client      mqtt.Client
	topicPrefix string
	timeout     time.Duration
}

// NewMQTTNotifier 创建MQTT通知后端并建立连接
func NewMQTTNotifier(config *MQTTConfig) (*MQTTNotifier, error) {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	prefix := config.TopicPrefix
	if prefix == "" {
		prefix = "opendata/assessments"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.BrokerURL)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetConnectTimeout(timeout)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("MQTT连接超时")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("MQTT连接失败: %w", err)
	}

	return &MQTTNotifier{client: client, topicPrefix: prefix, timeout: timeout}, nil
}

// Name 后端名称
func (n *MQTTNotifier) Name() string { return "mqtt" }

// Publish 发布事件到 <前缀>/<数据集ID>
func (n *MQTTNotifier) Publish(ctx context.Context, event *AssessmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("事件序列化失败: %w", err)
	}

	topic := n.topicPrefix + "/" + event.DatasetID
	token := n.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(n.timeout) {
		return fmt.Errorf("MQTT发布超时: %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("MQTT发布失败: %w", err)
	}
	return nil
}

// Close 断开连接
func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(250)
	return nil
}
