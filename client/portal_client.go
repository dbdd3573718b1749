/*
 * @module client/portal_client
 * @description 国家开放数据门户客户端，拉取CKAN风格的数据集元数据与资源内容
 * @architecture 客户端层 - HTTP API封装
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 构建请求 -> 调用门户API -> 解析响应 -> 返回外部元数据载荷
 * @rules 门户地址来自环境变量，测试可通过 SetURL 替换；所有请求携带调用方上下文
 * @dependencies net/http, encoding/json
 * @refs service/metadata/adapter.go, service/catalog/catalog_service.go
 */

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"opendata-compliance-service/service/metadata"
)

// PortalClient 开放数据门户客户端
type PortalClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPortalClient 创建门户客户端，地址取 PORTAL_URL 环境变量
func NewPortalClient() *PortalClient {
	baseURL := os.Getenv("PORTAL_URL")
	if baseURL == "" {
		baseURL = "https://data.gov.rs"
	}
	return &PortalClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetURL 覆盖门户地址（测试用）
func (c *PortalClient) SetURL(baseURL string) {
	c.baseURL = baseURL
}

// ckanEnvelope CKAN API响应信封
type ckanEnvelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *ckanError      `json:"error,omitempty"`
}

type ckanError struct {
	Message string `json:"message"`
	Type    string `json:"__type"`
}

// SearchResult 数据集检索结果
type SearchResult struct {
	Count    int                `json:"count"`
	Datasets []metadata.Payload `json:"results"`
}

// GetDataset 按标识拉取单个数据集的CKAN元数据载荷
func (c *PortalClient) GetDataset(ctx context.Context, datasetID string) (metadata.Payload, error) {
	endpoint := fmt.Sprintf("%s/api/3/action/package_show?id=%s", c.baseURL, url.QueryEscape(datasetID))
	raw, err := c.call(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload metadata.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("解析数据集元数据失败: %w", err)
	}
	return payload, nil
}

// SearchDatasets 按关键词检索数据集
func (c *PortalClient) SearchDatasets(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	endpoint := fmt.Sprintf("%s/api/3/action/package_search?q=%s&rows=%d",
		c.baseURL, url.QueryEscape(query), limit)
	raw, err := c.call(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("解析检索结果失败: %w", err)
	}
	return &result, nil
}

// FetchResource 下载资源原始内容，供读取器解析
func (c *PortalClient) FetchResource(ctx context.Context, resourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建资源请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("资源下载失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("资源下载失败，状态码: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取资源内容失败: %w", err)
	}
	return data, nil
}

// call 调用CKAN API并拆信封
func (c *PortalClient) call(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("创建门户请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("门户请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取门户响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("门户请求失败，状态码: %d, 响应: %s", resp.StatusCode, string(body))
	}

	var envelope ckanEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("解析门户响应失败: %w", err)
	}
	if !envelope.Success {
		message := "unknown"
		if envelope.Error != nil {
			message = envelope.Error.Message
		}
		return nil, fmt.Errorf("门户API返回失败: %s", message)
	}
	return envelope.Result, nil
}
