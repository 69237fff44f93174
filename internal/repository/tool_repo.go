package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aihub/toolhub-go/internal/models"
)

// ToolRepository 工具目录的数据访问接口。推荐管线只读；
// UpdateEmbedding仅供管理端向量重建流程使用。
type ToolRepository interface {
	ListAll(ctx context.Context) ([]models.Tool, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tool, error)
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]models.Tool, error)
	UpdateEmbedding(ctx context.Context, slug string, embedding []float32, model string) error
}

// GormToolRepository 基于GORM的实现
type GormToolRepository struct {
	db *gorm.DB
}

func NewGormToolRepository(db *gorm.DB) *GormToolRepository {
	return &GormToolRepository{db: db}
}

// ListAll 返回全部启用的工具，按目录排序字段稳定排序
func (r *GormToolRepository) ListAll(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("sort_order ASC, slug ASC").
		Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return tools, nil
}

func (r *GormToolRepository) GetBySlug(ctx context.Context, slug string) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tool).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

// SearchByKeyword 数据库LIKE搜索，Elasticsearch不可用时的退化实现
func (r *GormToolRepository) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]models.Tool, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + keyword + "%"
	var tools []models.Tool
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("sort_order ASC, slug ASC").
		Limit(limit).
		Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("tool keyword search failed: %w", err)
	}
	return tools, nil
}

// UpdateEmbedding 持久化权威向量。调用方必须保证不传降级向量。
func (r *GormToolRepository) UpdateEmbedding(ctx context.Context, slug string, embedding []float32, model string) error {
	if len(embedding) == 0 {
		return fmt.Errorf("embedding is empty")
	}
	return r.db.WithContext(ctx).Model(&models.Tool{}).
		Where("slug = ?", slug).
		Updates(map[string]interface{}{
			"embedding":       models.FloatArray(embedding),
			"embedding_model": model,
		}).Error
}
