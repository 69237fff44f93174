package semantic

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
)

// EmbeddingVector 向量化结果。IsFallback为true的降级向量维度与权威向量不同，
// 绝不允许与权威向量混入同一次相似度比较，也绝不持久化为目录真值。
type EmbeddingVector struct {
	Values     []float32 `json:"values"`
	Dimension  int       `json:"dimension"`
	SourceText string    `json:"source_text"`
	IsFallback bool      `json:"is_fallback"`
}

// Embedder 文本向量化接口
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingVector, error)
	Dimensions() int
	Ready() bool
}

var embeddingDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
}

// NoopEmbedder 未配置向量化服务时的占位实现，永远返回降级向量
type NoopEmbedder struct {
	FallbackDim int
}

func (n *NoopEmbedder) Embed(ctx context.Context, text string) (EmbeddingVector, error) {
	if strings.TrimSpace(text) == "" {
		return EmbeddingVector{}, errors.New("text is empty")
	}
	return FallbackVector(text, n.FallbackDim), nil
}

func (n *NoopEmbedder) Dimensions() int {
	return 0
}

func (n *NoopEmbedder) Ready() bool {
	return false
}

// OpenAIEmbedder 使用OpenAI Embedding API，失败时降级为本地哈希向量
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	dimensions  int
	fallbackDim int
	cache       EmbeddingCache
}

// NewOpenAIEmbedder 创建向量生成器。cache可为nil（不缓存）。
func NewOpenAIEmbedder(apiKey, baseURL, model string, fallbackDim int, cache EmbeddingCache) Embedder {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopEmbedder{FallbackDim: fallbackDim}
	}
	if model == "" {
		model = "text-embedding-3-small"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	dims, ok := embeddingDimensions[model]
	if !ok {
		dims = 1536
	}

	return &OpenAIEmbedder{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		dimensions:  dims,
		fallbackDim: fallbackDim,
		cache:       cache,
	}
}

// Embed 向量化文本。外部调用失败（超时、配额、响应畸形）时返回降级向量，
// 不向上抛错；只有空文本是调用方错误。降级向量不进缓存，下次调用有机会
// 拿到权威结果。
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (EmbeddingVector, error) {
	if strings.TrimSpace(text) == "" {
		return EmbeddingVector{}, errors.New("text is empty")
	}

	if e.cache != nil {
		if vec, ok := e.cache.Get(ctx, text); ok {
			return vec, nil
		}
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		logger.Warn("embedding call failed, using fallback vector", zap.Error(err))
		return FallbackVector(text, e.fallbackDim), nil
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) != e.dimensions {
		logger.Warn("embedding response malformed, using fallback vector",
			zap.Int("expected_dim", e.dimensions))
		return FallbackVector(text, e.fallbackDim), nil
	}

	values := make([]float32, e.dimensions)
	copy(values, resp.Data[0].Embedding)
	vec := EmbeddingVector{
		Values:     values,
		Dimension:  e.dimensions,
		SourceText: text,
		IsFallback: false,
	}

	if e.cache != nil {
		e.cache.Set(ctx, text, vec)
	}
	return vec, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}

// FallbackVector 由文本哈希确定性地生成降级向量。
// 同一文本永远得到同一向量；维度刻意区别于权威向量维度。
func FallbackVector(text string, dim int) EmbeddingVector {
	if dim <= 0 {
		dim = 64
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}

	values := make([]float32, dim)
	for i := range values {
		// xorshift64
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		// 映射到[-1, 1)
		values[i] = float32(int64(state)) / float32(1<<63)
	}

	return EmbeddingVector{
		Values:     values,
		Dimension:  dim,
		SourceText: text,
		IsFallback: true,
	}
}
