package recommend

import (
	"github.com/aihub/toolhub-go/internal/semantic"
)

// 推荐来源
const (
	SourceStructured = "structured"
	SourceSemantic   = "semantic"
)

// PredictionHit 单条工具推荐。确定性命中的Similarity恒为1.0。
type PredictionHit struct {
	ToolID          string                 `json:"tool_id"`
	Name            string                 `json:"name"`
	Similarity      float64                `json:"similarity"`
	Source          string                 `json:"source"`
	SuggestedConfig map[string]interface{} `json:"suggested_config,omitempty"`

	// 聚合用的内部优先级，不输出
	Priority int `json:"-"`
}

// PredictionMetadata 推荐过程的元信息
type PredictionMetadata struct {
	RequestID      string                          `json:"request_id"`
	Classification semantic.ClassificationResult   `json:"classification"`
	Intent         semantic.IntentResult           `json:"intent"`
	ResolvedBy     string                          `json:"resolved_by"` // structured | semantic
}

// Prediction predict接口的返回结果
type Prediction struct {
	PredictedTools []PredictionHit    `json:"predicted_tools"`
	Metadata       PredictionMetadata `json:"metadata"`
}

// EmbeddingInfo 调试输出中的向量元信息（不含向量本身，体积原因）
type EmbeddingInfo struct {
	Dimension  int    `json:"dimension"`
	IsFallback bool   `json:"is_fallback"`
	SourceText string `json:"source_text"`
}

// DebugPrediction debugPredict接口的返回结果，附带中间产物
type DebugPrediction struct {
	Prediction
	MeaningRecord *semantic.MeaningRecord `json:"meaning_record,omitempty"`
	Embedding     *EmbeddingInfo          `json:"embedding,omitempty"`
	RawIndexHits  []IndexMatch            `json:"raw_index_hits,omitempty"`
}

// IndexMatch 向量索引的原始命中
type IndexMatch struct {
	ToolID     string  `json:"tool_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}
