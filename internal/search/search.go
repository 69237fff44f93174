package search

import (
	"context"

	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/repository"
)

// ToolSearcher 目录关键词搜索接口。Elasticsearch可用时走全文索引，
// 否则降级为数据库LIKE查询。
type ToolSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.Tool, error)
	Ready() bool
}

// ToolIndexer 目录全文索引写入端。数据库实现为空操作。
type ToolIndexer interface {
	IndexTool(ctx context.Context, tool *models.Tool) error
	IndexAll(ctx context.Context, tools []models.Tool) error
}

// DatabaseSearcher 数据库LIKE搜索实现
type DatabaseSearcher struct {
	repo repository.ToolRepository
}

func NewDatabaseSearcher(repo repository.ToolRepository) *DatabaseSearcher {
	return &DatabaseSearcher{repo: repo}
}

func (s *DatabaseSearcher) Search(ctx context.Context, query string, limit int) ([]models.Tool, error) {
	return s.repo.SearchByKeyword(ctx, query, limit)
}

func (s *DatabaseSearcher) Ready() bool {
	return true
}

func (s *DatabaseSearcher) IndexTool(ctx context.Context, tool *models.Tool) error {
	return nil
}

func (s *DatabaseSearcher) IndexAll(ctx context.Context, tools []models.Tool) error {
	return nil
}
