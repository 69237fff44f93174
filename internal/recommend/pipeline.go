package recommend

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aihub/toolhub-go/internal/detect"
	apperrors "github.com/aihub/toolhub-go/internal/errors"
	"github.com/aihub/toolhub-go/internal/logger"
	"github.com/aihub/toolhub-go/internal/semantic"
)

// Options 管线运行参数
type Options struct {
	ClassifyTimeout time.Duration
	EmbedTimeout    time.Duration
}

// Pipeline 分层理解管线。第一层结构化/单位/批量探测零成本，命中即短路；
// 未命中才进入第二层LLM分类与第三层向量检索。层序是成本约束，不可调换。
type Pipeline struct {
	detectors  []detect.Detector
	classifier semantic.Classifier
	intents    *semantic.IntentExtractor
	embedder   semantic.Embedder
	index      VectorIndex
	aggregator *Aggregator
	opts       Options
}

func NewPipeline(
	classifier semantic.Classifier,
	embedder semantic.Embedder,
	index VectorIndex,
	opts Options,
) *Pipeline {
	return &Pipeline{
		detectors: []detect.Detector{
			detect.NewStructuredDetector(),
			detect.NewBulkClassifier(),
			detect.NewUnitValueMatcher(),
		},
		classifier: classifier,
		intents:    semantic.NewIntentExtractor(),
		embedder:   embedder,
		index:      index,
		aggregator: NewAggregator(),
		opts:       opts,
	}
}

// Predict 对原始输入做理解并返回推荐列表
func (p *Pipeline) Predict(ctx context.Context, catalog *Catalog, input string) (*Prediction, error) {
	result, err := p.run(ctx, catalog, input, false)
	if err != nil {
		return nil, err
	}
	return &result.Prediction, nil
}

// DebugPredict 同Predict，但附带各层中间产物
func (p *Pipeline) DebugPredict(ctx context.Context, catalog *Catalog, input string) (*DebugPrediction, error) {
	return p.run(ctx, catalog, input, true)
}

func (p *Pipeline) run(ctx context.Context, catalog *Catalog, input string, debug bool) (*DebugPrediction, error) {
	if strings.TrimSpace(input) == "" {
		return nil, apperrors.NewValidationError("input is empty")
	}

	// 第一层：确定性探测
	deterministic, firstMatch := p.runDetectors(catalog, input)
	if len(deterministic) > 0 {
		cls := semantic.ClassificationResult{
			Category:       firstMatch.InputType,
			ContentSummary: "structured input: " + firstMatch.InputType,
		}
		intent := p.intents.Extract(cls.Category, firstMatch.InputType)
		result := &DebugPrediction{
			Prediction: Prediction{
				PredictedTools: p.aggregator.Aggregate(deterministic, nil),
				Metadata: PredictionMetadata{
					Classification: cls,
					Intent:         intent,
					ResolvedBy:     SourceStructured,
				},
			},
		}
		if debug {
			record := semantic.NewMeaningRecord(cls, intent, firstMatch.InputType, time.Now())
			result.MeaningRecord = &record
		}
		return result, nil
	}

	// 第二层：LLM分类，失败降级而不是失败整个请求
	cls := p.classify(ctx, input)
	intent := p.intents.Extract(cls.Category, "")
	record := semantic.NewMeaningRecord(cls, intent, "", time.Now())

	// 第三层：向量化与相似度检索
	vec, embedErr := p.embed(ctx, record.EmbeddingText())
	var rawHits []IndexMatch
	if embedErr == nil && !vec.IsFallback && p.index != nil {
		hits, err := p.index.Search(ctx, vec, 0)
		if err != nil {
			logger.Warn("vector search failed, returning without semantic hits",
				zap.Error(err))
		} else {
			rawHits = hits
		}
	}

	result := &DebugPrediction{
		Prediction: Prediction{
			PredictedTools: p.aggregator.Aggregate(nil, rawHits),
			Metadata: PredictionMetadata{
				Classification: cls,
				Intent:         intent,
				ResolvedBy:     SourceSemantic,
			},
		},
	}
	if debug {
		result.MeaningRecord = &record
		if embedErr == nil {
			result.Embedding = &EmbeddingInfo{
				Dimension:  vec.Dimension,
				IsFallback: vec.IsFallback,
				SourceText: vec.SourceText,
			}
		}
		result.RawIndexHits = rawHits
	}
	return result, nil
}

// runDetectors 跑第一层全部探测器，把命中的输入类型映射成目录工具。
// 返回第一个命中的Match用于填充元信息。
func (p *Pipeline) runDetectors(catalog *Catalog, input string) ([]PredictionHit, *detect.Match) {
	var hits []PredictionHit
	var firstMatch *detect.Match
	for _, d := range p.detectors {
		match, ok := d.Detect(input)
		if !ok {
			continue
		}
		if firstMatch == nil || match.Priority > firstMatch.Priority {
			firstMatch = match
		}
		for _, tool := range catalog.ToolsForInputType(match.InputType) {
			// 每个命中持有独立副本，聚合阶段的配置合并不会串改兄弟条目
			var config map[string]interface{}
			if len(match.SuggestedConfig) > 0 {
				config = make(map[string]interface{}, len(match.SuggestedConfig))
				for k, v := range match.SuggestedConfig {
					config[k] = v
				}
			}
			hits = append(hits, PredictionHit{
				ToolID:          tool.Slug,
				Name:            tool.Name,
				SuggestedConfig: config,
				Priority:        match.Priority,
			})
		}
	}
	return hits, firstMatch
}

func (p *Pipeline) classify(ctx context.Context, input string) semantic.ClassificationResult {
	if p.classifier == nil || !p.classifier.Ready() {
		return semantic.DegradedClassification(input)
	}
	classifyCtx := ctx
	if p.opts.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		classifyCtx, cancel = context.WithTimeout(ctx, p.opts.ClassifyTimeout)
		defer cancel()
	}
	cls, err := p.classifier.Classify(classifyCtx, input)
	if err != nil {
		logger.Warn("classification failed, degrading", zap.Error(err))
		return semantic.DegradedClassification(input)
	}
	return cls
}

func (p *Pipeline) embed(ctx context.Context, text string) (semantic.EmbeddingVector, error) {
	if p.embedder == nil {
		return semantic.FallbackVector(text, 0), nil
	}
	embedCtx := ctx
	if p.opts.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, p.opts.EmbedTimeout)
		defer cancel()
	}
	return p.embedder.Embed(embedCtx, text)
}
