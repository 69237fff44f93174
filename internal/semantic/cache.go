package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/logger"
)

// EmbeddingCache 以EmbeddingText为键的向量缓存。实现必须并发安全。
// 只缓存权威向量，降级向量不应写入。
type EmbeddingCache interface {
	Get(ctx context.Context, text string) (EmbeddingVector, bool)
	Set(ctx context.Context, text string, vec EmbeddingVector)
}

// MemoryEmbeddingCache 进程内缓存，进程生命周期内不过期
type MemoryEmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string]EmbeddingVector
}

func NewMemoryEmbeddingCache() *MemoryEmbeddingCache {
	return &MemoryEmbeddingCache{
		entries: make(map[string]EmbeddingVector),
	}
}

func (c *MemoryEmbeddingCache) Get(ctx context.Context, text string) (EmbeddingVector, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.entries[text]
	return vec, ok
}

func (c *MemoryEmbeddingCache) Set(ctx context.Context, text string, vec EmbeddingVector) {
	if vec.IsFallback {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = vec
}

// Size 当前缓存条目数
func (c *MemoryEmbeddingCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisEmbeddingCache 跨进程共享的Redis缓存
type RedisEmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEmbeddingCache(client *redis.Client, ttl time.Duration) *RedisEmbeddingCache {
	return &RedisEmbeddingCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisEmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "toolhub:embedding:" + hex.EncodeToString(sum[:])
}

func (c *RedisEmbeddingCache) Get(ctx context.Context, text string) (EmbeddingVector, bool) {
	data, err := c.client.Get(ctx, c.key(text)).Bytes()
	if err != nil {
		return EmbeddingVector{}, false
	}

	var vec EmbeddingVector
	if err := json.Unmarshal(data, &vec); err != nil {
		logger.Warn("corrupted embedding cache entry", zap.Error(err))
		return EmbeddingVector{}, false
	}
	return vec, true
}

func (c *RedisEmbeddingCache) Set(ctx context.Context, text string, vec EmbeddingVector) {
	if vec.IsFallback {
		return
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(text), data, c.ttl).Err(); err != nil {
		logger.Warn("failed to write embedding cache", zap.Error(err))
	}
}
