package semantic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMeaningRecordPrefersInputType(t *testing.T) {
	cls := ClassificationResult{Category: "network", ContentSummary: "an IP"}
	intent := IntentResult{Intent: "analyze_network", SubIntent: "inspect_ip", Confidence: 1.0}
	now := time.Now()

	record := NewMeaningRecord(cls, intent, "ipv4", now)
	assert.Equal(t, "ipv4", record.Type)
	assert.Equal(t, "an IP", record.ContentSummary)
	assert.Equal(t, now, record.Timestamp)

	record = NewMeaningRecord(cls, intent, "", now)
	assert.Equal(t, "network", record.Type)
}

// 同一记录必须逐字节产生同一编码文本，时间戳不参与
func TestEmbeddingTextStable(t *testing.T) {
	cls := ClassificationResult{Category: "text", ContentSummary: "a sentence"}
	intent := IntentResult{Intent: "transform_text", SubIntent: "rewrite", Confidence: 0.8}

	a := NewMeaningRecord(cls, intent, "", time.Unix(100, 0))
	b := NewMeaningRecord(cls, intent, "", time.Unix(999999, 0))

	assert.Equal(t, a.EmbeddingText(), b.EmbeddingText())
	assert.Equal(t,
		"input_type: text, content: a sentence, intent: transform_text, sub_intent: rewrite",
		a.EmbeddingText())
}
