package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/metrics"
	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/recommend"
	"github.com/aihub/toolhub-go/internal/repository"
	"github.com/aihub/toolhub-go/internal/search"
	"github.com/aihub/toolhub-go/internal/semantic"
)

// CatalogSyncer 向量索引的目录同步端。内存索引整体重载，Milvus索引增量写入。
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, tools []models.Tool) error
}

// CatalogService 工具目录服务。持有当前目录快照，负责快照重建、
// 关键词搜索和向量重建。快照整体替换，读路径无锁竞争。
type CatalogService struct {
	repo     repository.ToolRepository
	searcher search.ToolSearcher
	indexer  search.ToolIndexer
	syncer   CatalogSyncer
	embedder semantic.Embedder

	mu      sync.RWMutex
	catalog *recommend.Catalog
}

func NewCatalogService(
	repo repository.ToolRepository,
	searcher search.ToolSearcher,
	indexer search.ToolIndexer,
	syncer CatalogSyncer,
	embedder semantic.Embedder,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		searcher: searcher,
		indexer:  indexer,
		syncer:   syncer,
		embedder: embedder,
		catalog:  recommend.NewCatalog(nil),
	}
}

// Current 返回当前目录快照
func (s *CatalogService) Current() *recommend.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Reload 从数据库重建目录快照并同步向量索引与搜索索引。
// 搜索索引失败只告警，目录本身仍然生效。
func (s *CatalogService) Reload(ctx context.Context) error {
	tools, err := s.repo.ListAll(ctx)
	if err != nil {
		metrics.CatalogReloadTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to reload catalog: %w", err)
	}

	catalog := recommend.NewCatalog(tools)
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	if s.syncer != nil {
		if err := s.syncer.SyncCatalog(ctx, tools); err != nil {
			logger.Warn("vector index sync failed", zap.Error(err))
		}
	}
	if s.indexer != nil {
		if err := s.indexer.IndexAll(ctx, tools); err != nil {
			logger.Warn("search index rebuild failed", zap.Error(err))
		}
	}

	metrics.CatalogReloadTotal.WithLabelValues("ok").Inc()
	metrics.CatalogSize.Set(float64(catalog.Size()))
	logger.Info("catalog reloaded", zap.Int("tools", catalog.Size()))
	return nil
}

// ListTools 返回目录全部工具
func (s *CatalogService) ListTools() []models.Tool {
	return s.Current().Tools()
}

// SearchTools 关键词搜索目录
func (s *CatalogService) SearchTools(ctx context.Context, query string, limit int) ([]models.Tool, error) {
	return s.searcher.Search(ctx, query, limit)
}

// RebuildEmbeddings 为目录工具重算并持久化向量。降级向量跳过不落库，
// 返回成功数与跳过数。
func (s *CatalogService) RebuildEmbeddings(ctx context.Context, model string) (updated, skipped int, err error) {
	tools := s.Current().Tools()
	for i := range tools {
		t := &tools[i]
		text := fmt.Sprintf("name: %s, description: %s, category: %s, input_types: %v",
			t.Name, t.Description, t.Category, []string(t.InputTypes))

		vec, embedErr := s.embedder.Embed(ctx, text)
		if embedErr != nil {
			logger.Warn("embedding rebuild failed for tool",
				zap.String("slug", t.Slug), zap.Error(embedErr))
			skipped++
			continue
		}
		if vec.IsFallback {
			logger.Warn("embedding rebuild produced fallback vector, not persisting",
				zap.String("slug", t.Slug))
			skipped++
			continue
		}

		if err := s.repo.UpdateEmbedding(ctx, t.Slug, vec.Values, model); err != nil {
			logger.Error("failed to persist tool embedding",
				zap.String("slug", t.Slug), zap.Error(err))
			skipped++
			continue
		}
		updated++
	}

	if reloadErr := s.Reload(ctx); reloadErr != nil {
		return updated, skipped, reloadErr
	}
	logger.Info("tool embeddings rebuilt",
		zap.Int("updated", updated), zap.Int("skipped", skipped))
	return updated, skipped, nil
}
