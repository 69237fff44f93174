package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/semantic"
)

// ErrFallbackQuery 降级向量不允许进入相似度检索
var ErrFallbackQuery = errors.New("fallback vector cannot be used for similarity search")

// VectorIndex 工具向量索引。查询向量必须是权威向量，
// 维度与索引不一致或带降级标记的查询直接拒绝。
type VectorIndex interface {
	Search(ctx context.Context, query semantic.EmbeddingVector, limit int) ([]IndexMatch, error)
	Ready() bool
}

type indexEntry struct {
	toolID string
	name   string
	vector []float32
	norm   float64
}

// MemoryVectorIndex 内存向量索引，目录重建时整体Load替换。
// 加载时过滤掉无向量、维度不符和零范数的工具，检索阶段不再做单条校验。
type MemoryVectorIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []indexEntry
}

func NewMemoryVectorIndex(dimension int) *MemoryVectorIndex {
	return &MemoryVectorIndex{dimension: dimension}
}

// Load 从目录工具构建索引，保留目录顺序。返回实际入索引的条数。
func (idx *MemoryVectorIndex) Load(tools []models.Tool) int {
	entries := make([]indexEntry, 0, len(tools))
	for i := range tools {
		t := &tools[i]
		if !t.HasEmbedding() {
			logger.Debug("tool skipped by vector index: no embedding",
				zap.String("slug", t.Slug))
			continue
		}
		if len(t.Embedding) != idx.dimension {
			logger.Warn("tool skipped by vector index: dimension mismatch",
				zap.String("slug", t.Slug),
				zap.Int("got", len(t.Embedding)),
				zap.Int("want", idx.dimension))
			continue
		}
		norm := vectorNorm(t.Embedding)
		if norm == 0 {
			logger.Warn("tool skipped by vector index: zero norm",
				zap.String("slug", t.Slug))
			continue
		}
		entries = append(entries, indexEntry{
			toolID: t.Slug,
			name:   t.Name,
			vector: t.Embedding,
			norm:   norm,
		})
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.mu.Unlock()

	logger.Info("vector index loaded",
		zap.Int("indexed", len(entries)),
		zap.Int("catalog_size", len(tools)))
	return len(entries)
}

// Search 余弦相似度检索，按相似度降序。相似度相同的按目录顺序输出。
// limit<=0时返回全部命中。
func (idx *MemoryVectorIndex) Search(ctx context.Context, query semantic.EmbeddingVector, limit int) ([]IndexMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query.IsFallback {
		return nil, ErrFallbackQuery
	}
	if query.Dimension != idx.dimension || len(query.Values) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d",
			query.Dimension, idx.dimension)
	}
	queryNorm := vectorNorm(query.Values)
	if queryNorm == 0 {
		return nil, errors.New("query vector has zero norm")
	}

	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()

	matches := make([]IndexMatch, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		sim := dotProduct(query.Values, e.vector) / (queryNorm * e.norm)
		matches = append(matches, IndexMatch{
			ToolID:     e.toolID,
			Name:       e.name,
			Similarity: sim,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SyncCatalog 目录重建时整体重载索引
func (idx *MemoryVectorIndex) SyncCatalog(ctx context.Context, tools []models.Tool) error {
	idx.Load(tools)
	return nil
}

// Size 索引内条目数
func (idx *MemoryVectorIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

func (idx *MemoryVectorIndex) Ready() bool {
	return true
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
