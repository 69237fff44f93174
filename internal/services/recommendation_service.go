package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/kafka"
	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/metrics"
	"github.com/aihub/toolhub-go/internal/recommend"
)

// RecommendationService 推荐服务。包装管线，补充请求ID、TopK截断、
// 指标上报和分析事件。
type RecommendationService struct {
	pipeline *recommend.Pipeline
	catalog  *CatalogService
	topK     int
}

func NewRecommendationService(pipeline *recommend.Pipeline, catalog *CatalogService, topK int) *RecommendationService {
	if topK <= 0 {
		topK = 5
	}
	return &RecommendationService{
		pipeline: pipeline,
		catalog:  catalog,
		topK:     topK,
	}
}

// Predict 推荐工具，结果截断到TopK
func (s *RecommendationService) Predict(ctx context.Context, input string) (*recommend.Prediction, error) {
	debug, err := s.run(ctx, input)
	if err != nil {
		return nil, err
	}
	prediction := debug.Prediction
	if len(prediction.PredictedTools) > s.topK {
		prediction.PredictedTools = prediction.PredictedTools[:s.topK]
	}
	return &prediction, nil
}

// DebugPredict 推荐工具并附带中间产物，结果不截断
func (s *RecommendationService) DebugPredict(ctx context.Context, input string) (*recommend.DebugPrediction, error) {
	return s.run(ctx, input)
}

func (s *RecommendationService) run(ctx context.Context, input string) (*recommend.DebugPrediction, error) {
	requestID := uuid.NewString()
	start := time.Now()

	result, err := s.pipeline.DebugPredict(ctx, s.catalog.Current(), input)
	if err != nil {
		return nil, err
	}
	result.Metadata.RequestID = requestID
	duration := time.Since(start)

	s.observe(result, len(input), duration)

	logger.Debug("prediction completed",
		zap.String("request_id", requestID),
		zap.String("resolved_by", result.Metadata.ResolvedBy),
		zap.Int("tools", len(result.PredictedTools)),
		zap.Duration("duration", duration))
	return result, nil
}

func (s *RecommendationService) observe(result *recommend.DebugPrediction, inputLen int, duration time.Duration) {
	resolvedBy := result.Metadata.ResolvedBy
	metrics.PredictionsTotal.WithLabelValues(resolvedBy).Inc()
	metrics.PredictionLatency.WithLabelValues(resolvedBy).Observe(duration.Seconds())
	metrics.PredictedToolCount.Observe(float64(len(result.PredictedTools)))
	if result.Metadata.Classification.Degraded {
		metrics.ClassificationDegradedTotal.Inc()
	}
	if result.Embedding != nil && result.Embedding.IsFallback {
		metrics.EmbeddingFallbackTotal.Inc()
	}

	event := &kafka.PredictionEvent{
		RequestID:   result.Metadata.RequestID,
		InputLength: inputLen,
		ResolvedBy:  resolvedBy,
		Category:    result.Metadata.Classification.Category,
		Intent:      result.Metadata.Intent.Intent,
		Degraded:    result.Metadata.Classification.Degraded,
		ToolCount:   len(result.PredictedTools),
		DurationMs:  duration.Milliseconds(),
		Timestamp:   time.Now(),
	}
	if len(result.PredictedTools) > 0 {
		event.TopToolID = result.PredictedTools[0].ToolID
	}

	// 分析事件异步发送，不阻塞推荐响应
	go func() {
		if err := kafka.SendPredictionEvent(event); err != nil {
			logger.Warn("failed to publish prediction event", zap.Error(err))
		}
	}()
}
