package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/repository"
)

// ElasticSearcher 基于ES的目录搜索。单次查询失败时回退到数据库搜索，
// 保证搜索接口在ES故障期间仍可用。
type ElasticSearcher struct {
	client   *elasticsearch.Client
	index    string
	fallback *DatabaseSearcher
	repo     repository.ToolRepository

	mu           sync.Mutex
	indexEnsured bool
}

func NewElasticSearcher(addresses []string, username, password, index string, repo repository.ToolRepository) (*ElasticSearcher, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	if index == "" {
		index = "toolhub_tools"
	}

	return &ElasticSearcher{
		client:   client,
		index:    index,
		fallback: NewDatabaseSearcher(repo),
		repo:     repo,
	}, nil
}

func (s *ElasticSearcher) ensureIndex(ctx context.Context) error {
	s.mu.Lock()
	if s.indexEnsured {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	req := esapi.IndicesExistsRequest{
		Index: []string{s.index},
	}
	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		s.mu.Lock()
		s.indexEnsured = true
		s.mu.Unlock()
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"slug":        map[string]interface{}{"type": "keyword"},
				"name":        map[string]interface{}{"type": "text"},
				"description": map[string]interface{}{"type": "text"},
				"category":    map[string]interface{}{"type": "keyword"},
				"input_types": map[string]interface{}{"type": "keyword"},
				"sort_order":  map[string]interface{}{"type": "integer"},
			},
		},
	}

	body, _ := json.Marshal(mapping)
	createReq := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader(body),
	}
	createResp, err := createReq.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer createResp.Body.Close()

	if createResp.IsError() {
		return fmt.Errorf("create index error: %s", createResp.String())
	}

	s.mu.Lock()
	s.indexEnsured = true
	s.mu.Unlock()
	return nil
}

// IndexTool 写入单个工具文档
func (s *ElasticSearcher) IndexTool(ctx context.Context, tool *models.Tool) error {
	if s.client == nil {
		return nil
	}
	if err := s.ensureIndex(ctx); err != nil {
		return err
	}

	doc := map[string]interface{}{
		"slug":        tool.Slug,
		"name":        tool.Name,
		"description": tool.Description,
		"category":    tool.Category,
		"input_types": []string(tool.InputTypes),
		"sort_order":  tool.SortOrder,
	}

	payload, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: tool.Slug,
		Body:       bytes.NewReader(payload),
		Refresh:    "true",
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index tool error: %s", resp.String())
	}
	return nil
}

// IndexAll 全量重建目录索引
func (s *ElasticSearcher) IndexAll(ctx context.Context, tools []models.Tool) error {
	for i := range tools {
		if err := s.IndexTool(ctx, &tools[i]); err != nil {
			return fmt.Errorf("failed to index tool %s: %w", tools[i].Slug, err)
		}
	}
	logger.Info("tool search index rebuilt", zap.Int("count", len(tools)))
	return nil
}

// Search 关键词搜索。名称匹配权重高于描述匹配。
func (s *ElasticSearcher) Search(ctx context.Context, query string, limit int) ([]models.Tool, error) {
	if s.client == nil {
		return s.fallback.Search(ctx, query, limit)
	}
	if limit <= 0 {
		limit = 20
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "description"},
			},
		},
	}

	payload, _ := json.Marshal(body)
	searchReq := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(payload),
	}

	resp, err := searchReq.Do(ctx, s.client)
	if err != nil {
		logger.Warn("elasticsearch query failed, falling back to database search", zap.Error(err))
		return s.fallback.Search(ctx, query, limit)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		logger.Warn("elasticsearch query error, falling back to database search",
			zap.String("status", resp.Status()))
		return s.fallback.Search(ctx, query, limit)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	// 命中的slug回库取完整实体，保持与数据库搜索一致的返回形态
	tools := make([]models.Tool, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		tool, err := s.repo.GetBySlug(ctx, hit.ID)
		if err != nil {
			logger.Warn("indexed tool missing from catalog", zap.String("slug", hit.ID))
			continue
		}
		if tool.Enabled {
			tools = append(tools, *tool)
		}
	}
	return tools, nil
}

// Ready 探测ES是否可达
func (s *ElasticSearcher) Ready() bool {
	if s.client == nil {
		return false
	}
	resp, err := s.client.Ping()
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return !resp.IsError()
}
