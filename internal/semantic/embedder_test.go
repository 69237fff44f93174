package semantic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackVectorDeterministic(t *testing.T) {
	a := FallbackVector("input_type: text, content: hello", 64)
	b := FallbackVector("input_type: text, content: hello", 64)

	assert.True(t, a.IsFallback)
	assert.Equal(t, 64, a.Dimension)
	assert.Len(t, a.Values, 64)
	assert.Equal(t, a.Values, b.Values)
}

func TestFallbackVectorDiffersByText(t *testing.T) {
	a := FallbackVector("text one", 64)
	b := FallbackVector("text two", 64)
	assert.NotEqual(t, a.Values, b.Values)
}

func TestFallbackVectorValueRange(t *testing.T) {
	vec := FallbackVector("some text", 64)
	for _, v := range vec.Values {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestFallbackVectorDefaultDimension(t *testing.T) {
	vec := FallbackVector("text", 0)
	assert.Equal(t, 64, vec.Dimension)
}

func TestNoopEmbedder(t *testing.T) {
	e := &NoopEmbedder{FallbackDim: 64}
	assert.False(t, e.Ready())

	vec, err := e.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.True(t, vec.IsFallback)
	assert.Equal(t, 64, vec.Dimension)

	_, err = e.Embed(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNewOpenAIEmbedderWithoutKey(t *testing.T) {
	e := NewOpenAIEmbedder("", "", "", 64, nil)
	_, ok := e.(*NoopEmbedder)
	assert.True(t, ok)
}

// 缓存绝不保存降级向量，后续请求才有机会拿到权威结果
func TestMemoryCacheSkipsFallback(t *testing.T) {
	c := NewMemoryEmbeddingCache()

	c.Set(context.Background(), "text", FallbackVector("text", 64))
	_, ok := c.Get(context.Background(), "text")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())

	authoritative := EmbeddingVector{
		Values:     []float32{0.1, 0.2},
		Dimension:  2,
		SourceText: "text",
	}
	c.Set(context.Background(), "text", authoritative)
	got, ok := c.Get(context.Background(), "text")
	assert.True(t, ok)
	assert.Equal(t, authoritative, got)
	assert.Equal(t, 1, c.Size())
}
