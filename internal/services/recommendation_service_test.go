package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aihub/toolhub-go/internal/models"
	"github.com/aihub/toolhub-go/internal/recommend"
	"github.com/aihub/toolhub-go/internal/semantic"
)

// textClassifier 固定分类为text
type textClassifier struct{}

func (textClassifier) Classify(ctx context.Context, input string) (semantic.ClassificationResult, error) {
	return semantic.ClassificationResult{Category: "text", ContentSummary: "free text"}, nil
}

func (textClassifier) Ready() bool { return true }

func recommendationFixture(t *testing.T, topK int) *RecommendationService {
	t.Helper()
	tools := []models.Tool{
		{Slug: "a", Name: "A", Embedding: models.FloatArray{1, 0, 0}},
		{Slug: "b", Name: "B", Embedding: models.FloatArray{0.9, 0.1, 0}},
		{Slug: "c", Name: "C", Embedding: models.FloatArray{0.8, 0.2, 0}},
		{Slug: "d", Name: "D", Embedding: models.FloatArray{0, 0, 1}},
	}

	repo := new(MockToolRepository)
	repo.On("ListAll", mock.Anything).Return(tools, nil)

	index := recommend.NewMemoryVectorIndex(3)
	catalog := NewCatalogService(repo, nil, nil, index, nil)
	require.NoError(t, catalog.Reload(context.Background()))

	embedder := &fixedEmbedder{values: []float32{1, 0, 0}}
	pipeline := recommend.NewPipeline(textClassifier{}, embedder, index, recommend.Options{})
	return NewRecommendationService(pipeline, catalog, topK)
}

func TestRecommendationServicePredictTruncatesToTopK(t *testing.T) {
	service := recommendationFixture(t, 2)

	prediction, err := service.Predict(context.Background(), "rewrite this paragraph for me")
	require.NoError(t, err)
	assert.Len(t, prediction.PredictedTools, 2)
	assert.Equal(t, "a", prediction.PredictedTools[0].ToolID)
	assert.NotEmpty(t, prediction.Metadata.RequestID)
	assert.Equal(t, recommend.SourceSemantic, prediction.Metadata.ResolvedBy)
}

// 调试接口不截断，附带中间产物
func TestRecommendationServiceDebugPredictKeepsAllHits(t *testing.T) {
	service := recommendationFixture(t, 2)

	debug, err := service.DebugPredict(context.Background(), "rewrite this paragraph for me")
	require.NoError(t, err)
	assert.Len(t, debug.PredictedTools, 4)
	require.NotNil(t, debug.MeaningRecord)
	require.NotNil(t, debug.Embedding)
	assert.False(t, debug.Embedding.IsFallback)
}

// 每次请求分配独立的请求ID
func TestRecommendationServiceRequestIDUnique(t *testing.T) {
	service := recommendationFixture(t, 5)

	first, err := service.Predict(context.Background(), "rewrite this paragraph for me")
	require.NoError(t, err)
	second, err := service.Predict(context.Background(), "rewrite this paragraph for me")
	require.NoError(t, err)
	assert.NotEqual(t, first.Metadata.RequestID, second.Metadata.RequestID)
}

func TestRecommendationServicePredictValidationError(t *testing.T) {
	service := recommendationFixture(t, 5)

	_, err := service.Predict(context.Background(), "")
	assert.Error(t, err)
}
