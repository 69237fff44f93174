package semantic

import (
	"fmt"
	"time"
)

// MeaningRecord 输入语义的规范化记录，创建后不可变
type MeaningRecord struct {
	Type             string    `json:"type"`
	ContentSummary   string    `json:"content_summary"`
	Intent           string    `json:"intent"`
	SubIntent        string    `json:"sub_intent"`
	IntentConfidence float64   `json:"intent_confidence"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewMeaningRecord 合并分类与意图结果。inputType非空时优先作为记录类型
// （结构化检测的类型比粗分类更精确）。
func NewMeaningRecord(cls ClassificationResult, intent IntentResult, inputType string, now time.Time) MeaningRecord {
	recordType := inputType
	if recordType == "" {
		recordType = cls.Category
	}
	return MeaningRecord{
		Type:             recordType,
		ContentSummary:   cls.ContentSummary,
		Intent:           intent.Intent,
		SubIntent:        intent.SubIntent,
		IntentConfidence: intent.Confidence,
		Timestamp:        now,
	}
}

// EmbeddingText 生成用于向量化的文本编码。字段顺序固定且属于契约的一部分：
// 同一记录必须逐字节产生同一文本，否则向量不可复现。时间戳不参与编码。
func (r MeaningRecord) EmbeddingText() string {
	return fmt.Sprintf("input_type: %s, content: %s, intent: %s, sub_intent: %s",
		r.Type, r.ContentSummary, r.Intent, r.SubIntent)
}
