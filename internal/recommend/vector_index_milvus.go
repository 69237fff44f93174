package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/semantic"
)

const (
	milvusCollection = "tool_vectors"
	milvusVectorName = "vector"
)

// MilvusVectorIndex Milvus后端的工具向量索引。目录规模大时替代内存索引，
// 相似度计算交给Milvus的COSINE度量。
type MilvusVectorIndex struct {
	client    client.Client
	dimension int
}

// NewMilvusVectorIndex 连接Milvus并确保集合存在
func NewMilvusVectorIndex(ctx context.Context, address, username, password string, dimension int) (*MilvusVectorIndex, error) {
	c, err := client.NewClient(ctx, client.Config{
		Address:  address,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	idx := &MilvusVectorIndex{client: c, dimension: dimension}
	if err := idx.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	logger.Info("milvus vector index connected",
		zap.String("address", address),
		zap.String("collection", milvusCollection))
	return idx, nil
}

func (m *MilvusVectorIndex) ensureCollection(ctx context.Context) error {
	exists, err := m.client.HasCollection(ctx, milvusCollection)
	if err != nil {
		return fmt.Errorf("failed to check milvus collection: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: milvusCollection,
		Description:    "Tool catalog embedding vectors",
		Fields: []*entity.Field{
			{
				Name:       "tool_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "100",
				},
			},
			{
				Name:     "name",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "200",
				},
			},
			{
				Name:     milvusVectorName,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.dimension),
				},
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create milvus collection: %w", err)
	}

	var index entity.Index
	index, err = entity.NewIndexHNSW(entity.COSINE, 8, 64)
	if err != nil {
		index, err = entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to build index params: %w", err)
		}
	}
	if err := m.client.CreateIndex(ctx, milvusCollection, milvusVectorName, index, false); err != nil {
		logger.Warn("failed to create milvus index", zap.Error(err))
	}
	return m.client.LoadCollection(ctx, milvusCollection, false)
}

// Sync 将目录中带权威向量的工具写入集合。维度不符的条目跳过并告警。
func (m *MilvusVectorIndex) Sync(ctx context.Context, tools []models.Tool) error {
	ids := make([]string, 0, len(tools))
	names := make([]string, 0, len(tools))
	vectors := make([][]float32, 0, len(tools))
	for i := range tools {
		t := &tools[i]
		if !t.HasEmbedding() {
			continue
		}
		if len(t.Embedding) != m.dimension {
			logger.Warn("tool skipped by milvus sync: dimension mismatch",
				zap.String("slug", t.Slug),
				zap.Int("got", len(t.Embedding)))
			continue
		}
		ids = append(ids, t.Slug)
		names = append(names, t.Name)
		vectors = append(vectors, t.Embedding)
	}
	if len(ids) == 0 {
		return nil
	}

	// 先清旧数据再整体写入，避免半新半旧
	if err := m.client.Delete(ctx, milvusCollection, "", `tool_id != ""`); err != nil {
		logger.Warn("failed to clear milvus collection before sync", zap.Error(err))
	}

	idColumn := entity.NewColumnVarChar("tool_id", ids)
	nameColumn := entity.NewColumnVarChar("name", names)
	vectorColumn := entity.NewColumnFloatVector(milvusVectorName, m.dimension, vectors)
	if _, err := m.client.Insert(ctx, milvusCollection, "", idColumn, nameColumn, vectorColumn); err != nil {
		return fmt.Errorf("failed to insert tool vectors: %w", err)
	}
	logger.Info("milvus vector index synced", zap.Int("count", len(ids)))
	return nil
}

// SyncCatalog 目录重建时写入集合
func (m *MilvusVectorIndex) SyncCatalog(ctx context.Context, tools []models.Tool) error {
	return m.Sync(ctx, tools)
}

// Search 相似度检索。与内存索引同样的查询校验规则。
func (m *MilvusVectorIndex) Search(ctx context.Context, query semantic.EmbeddingVector, limit int) ([]IndexMatch, error) {
	if query.IsFallback {
		return nil, ErrFallbackQuery
	}
	if query.Dimension != m.dimension || len(query.Values) != m.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d",
			query.Dimension, m.dimension)
	}
	if limit <= 0 {
		limit = 50
	}

	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("failed to build search params: %w", err)
	}

	results, err := m.client.Search(ctx, milvusCollection, []string{}, "",
		[]string{"tool_id", "name"},
		[]entity.Vector{entity.FloatVector(query.Values)},
		milvusVectorName, entity.COSINE, limit, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	var matches []IndexMatch
	for _, result := range results {
		var idCol, nameCol *entity.ColumnVarChar
		for _, field := range result.Fields {
			switch field.Name() {
			case "tool_id":
				if c, ok := field.(*entity.ColumnVarChar); ok {
					idCol = c
				}
			case "name":
				if c, ok := field.(*entity.ColumnVarChar); ok {
					nameCol = c
				}
			}
		}
		if idCol == nil {
			continue
		}
		for i := 0; i < idCol.Len(); i++ {
			id, err := idCol.ValueByIdx(i)
			if err != nil {
				continue
			}
			name := ""
			if nameCol != nil {
				name, _ = nameCol.ValueByIdx(i)
			}
			sim := float64(0)
			if i < len(result.Scores) {
				sim = float64(result.Scores[i])
			}
			matches = append(matches, IndexMatch{
				ToolID:     id,
				Name:       name,
				Similarity: sim,
			})
		}
	}
	return matches, nil
}

// Ready 探测Milvus连接是否可用
func (m *MilvusVectorIndex) Ready() bool {
	if m.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := m.client.ListCollections(ctx)
	return err == nil
}

// Close 释放连接
func (m *MilvusVectorIndex) Close() error {
	if m.client == nil {
		return errors.New("milvus client not initialized")
	}
	return m.client.Close()
}
