/*
 * @module service/cache/assessment_cache
 * @description 评估结果缓存，基于Redis存储数据集最近一次的完整评估产出
 * @architecture 适配器模式 - 封装Redis客户端，提供面向评估结果的读写接口
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 评估完成 -> JSON序列化写入 -> 带TTL过期 -> 命中时免重算
 * @rules 缓存未命中返回 (nil, nil)，不视为错误；缓存只是加速层，丢失可随时重算
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs service/suite/suite.go, service/catalog/catalog_service.go
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"opendata-compliance-service/service/suite"
)

const assessmentKeyPrefix = "odc:assessment:"

// Config 缓存配置
type Config struct {
	Address  string        `json:"address"`
	Password string        `json:"password"`
	Database int           `json:"database"`
	TTL      time.Duration `json:"ttl"`
	PoolSize int           `json:"pool_size"`
}

// Stats 缓存统计信息
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Writes int64 `json:"writes"`
	Errors int64 `json:"errors"`
	mutex  sync.Mutex
}

// AssessmentCache 评估结果缓存
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
	stats  *Stats
}

// NewAssessmentCache 创建评估结果缓存
func NewAssessmentCache(config *Config) *AssessmentCache {
	ttl := config.TTL
	if ttl == 0 {
		ttl = 6 * time.Hour
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.Database,
		PoolSize: config.PoolSize,
	})
	return &AssessmentCache{client: client, ttl: ttl, stats: &Stats{}}
}

// Ping 检查缓存连通性
func (c *AssessmentCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis连接失败: %w", err)
	}
	return nil
}

// Get 读取数据集的缓存评估结果，未命中返回 (nil, nil)
func (c *AssessmentCache) Get(ctx context.Context, datasetID string) (*suite.Assessment, error) {
	raw, err := c.client.Get(ctx, assessmentKeyPrefix+datasetID).Result()
	if err == redis.Nil {
		c.count(func(s *Stats) { s.Misses++ })
		return nil, nil
	}
	if err != nil {
		c.count(func(s *Stats) { s.Errors++ })
		return nil, fmt.Errorf("读取评估缓存失败: %w", err)
	}

	var assessment suite.Assessment
	if err := json.Unmarshal([]byte(raw), &assessment); err != nil {
		// 反序列化失败按未命中处理，坏条目直接删除
		slog.Warn("评估缓存条目损坏，已丢弃", "dataset_id", datasetID, "error", err)
		c.client.Del(ctx, assessmentKeyPrefix+datasetID)
		c.count(func(s *Stats) { s.Misses++ })
		return nil, nil
	}

	c.count(func(s *Stats) { s.Hits++ })
	return &assessment, nil
}

// Set 写入数据集的评估结果
func (c *AssessmentCache) Set(ctx context.Context, datasetID string, assessment *suite.Assessment) error {
	data, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("评估结果序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, assessmentKeyPrefix+datasetID, data, c.ttl).Err(); err != nil {
		c.count(func(s *Stats) { s.Errors++ })
		return fmt.Errorf("写入评估缓存失败: %w", err)
	}
	c.count(func(s *Stats) { s.Writes++ })
	return nil
}

// Invalidate 失效数据集的缓存条目
func (c *AssessmentCache) Invalidate(ctx context.Context, datasetIDs ...string) error {
	if len(datasetIDs) == 0 {
		return nil
	}
	keys := make([]string, len(datasetIDs))
	for i, id := range datasetIDs {
		keys[i] = assessmentKeyPrefix + id
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("失效评估缓存失败: %w", err)
	}
	return nil
}

// Statistics 缓存统计快照
func (c *AssessmentCache) Statistics() map[string]interface{} {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	return map[string]interface{}{
		"hits":   c.stats.Hits,
		"misses": c.stats.Misses,
		"writes": c.stats.Writes,
		"errors": c.stats.Errors,
		"ttl":    c.ttl.String(),
	}
}

// Close 关闭缓存连接
func (c *AssessmentCache) Close() error {
	return c.client.Close()
}

func (c *AssessmentCache) count(update func(*Stats)) {
	c.stats.mutex.Lock()
	update(c.stats)
	c.stats.mutex.Unlock()
}
