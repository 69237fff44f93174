package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/config"
	"github.com/aihub/toolhub-go/internal/database"
	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/recommend"
	"github.com/aihub/toolhub-go/internal/repository"
	"github.com/aihub/toolhub-go/internal/search"
	"github.com/aihub/toolhub-go/internal/semantic"
	"github.com/aihub/toolhub-go/internal/services"
)

// RegisterProviders 注册所有依赖提供者
func RegisterProviders(container *dig.Container) error {
	providers := []interface{}{
		provideConfig,
		provideToolRepository,
		provideEmbeddingCache,
		provideClassifier,
		provideEmbedder,
		provideVectorIndex,
		provideSearcher,
		providePipeline,
		provideCatalogService,
		provideRecommendationService,
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return fmt.Errorf("failed to register provider: %w", err)
		}
	}
	return nil
}

func provideConfig() (*config.Config, error) {
	if config.AppConfig == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return config.AppConfig, nil
}

func provideToolRepository() (repository.ToolRepository, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return repository.NewGormToolRepository(database.DB), nil
}

func provideEmbeddingCache(cfg *config.Config) semantic.EmbeddingCache {
	if cfg.Recommend.CacheProvider == "redis" && database.RedisClient != nil {
		logger.Info("using redis embedding cache")
		return semantic.NewRedisEmbeddingCache(database.RedisClient, 24*time.Hour)
	}
	return semantic.NewMemoryEmbeddingCache()
}

func provideClassifier(cfg *config.Config) semantic.Classifier {
	return semantic.NewOpenAIClassifier(
		cfg.AI.OpenAIAPIKey,
		cfg.AI.OpenAIBaseURL,
		cfg.AI.ClassifyModel,
	)
}

func provideEmbedder(cfg *config.Config, cache semantic.EmbeddingCache) semantic.Embedder {
	return semantic.NewOpenAIEmbedder(
		cfg.AI.OpenAIAPIKey,
		cfg.AI.OpenAIBaseURL,
		cfg.AI.EmbeddingModel,
		cfg.Recommend.FallbackDimension,
		cache,
	)
}

// provideVectorIndex 按配置选择索引后端。Milvus连接失败回退到内存索引。
func provideVectorIndex(cfg *config.Config) recommend.VectorIndex {
	if cfg.VectorIndex.Provider == "milvus" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		idx, err := recommend.NewMilvusVectorIndex(ctx,
			cfg.VectorIndex.Milvus.Address,
			cfg.VectorIndex.Milvus.Username,
			cfg.VectorIndex.Milvus.Password,
			cfg.Recommend.EmbeddingDimension)
		if err == nil {
			return idx
		}
		logger.Warn("milvus unavailable, falling back to memory vector index", zap.Error(err))
	}
	return recommend.NewMemoryVectorIndex(cfg.Recommend.EmbeddingDimension)
}

// provideSearcher 按配置选择搜索后端。ES客户端创建失败回退到数据库搜索。
func provideSearcher(cfg *config.Config, repo repository.ToolRepository) search.ToolSearcher {
	if cfg.Search.Provider == "elasticsearch" {
		es, err := search.NewElasticSearcher(
			cfg.Search.Elasticsearch.Addresses,
			cfg.Search.Elasticsearch.Username,
			cfg.Search.Elasticsearch.Password,
			cfg.Search.Elasticsearch.Index,
			repo)
		if err == nil {
			return es
		}
		logger.Warn("elasticsearch unavailable, falling back to database search", zap.Error(err))
	}
	return search.NewDatabaseSearcher(repo)
}

func providePipeline(cfg *config.Config, classifier semantic.Classifier, embedder semantic.Embedder, index recommend.VectorIndex) *recommend.Pipeline {
	return recommend.NewPipeline(classifier, embedder, index, recommend.Options{
		ClassifyTimeout: time.Duration(cfg.Recommend.ClassifyTimeoutMillis) * time.Millisecond,
		EmbedTimeout:    time.Duration(cfg.Recommend.EmbedTimeoutMillis) * time.Millisecond,
	})
}

func provideCatalogService(repo repository.ToolRepository, searcher search.ToolSearcher, index recommend.VectorIndex, embedder semantic.Embedder) *services.CatalogService {
	syncer, _ := index.(services.CatalogSyncer)
	indexer, _ := searcher.(search.ToolIndexer)
	return services.NewCatalogService(repo, searcher, indexer, syncer, embedder)
}

func provideRecommendationService(cfg *config.Config, pipeline *recommend.Pipeline, catalog *services.CatalogService) *services.RecommendationService {
	return services.NewRecommendationService(pipeline, catalog, cfg.Recommend.TopK)
}
