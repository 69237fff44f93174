package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateDeterministicFirst(t *testing.T) {
	a := NewAggregator()

	deterministic := []PredictionHit{
		{ToolID: "unit-converter", Name: "Unit Converter", Priority: 1},
		{ToolID: "ip-lookup", Name: "IP Lookup", Priority: 3},
	}
	semanticHits := []IndexMatch{
		{ToolID: "json-beautifier", Name: "JSON Beautifier", Similarity: 0.9},
		{ToolID: "text-rewriter", Name: "Text Rewriter", Similarity: 0.5},
	}

	merged := a.Aggregate(deterministic, semanticHits)
	require.Len(t, merged, 4)

	// 确定性段按优先级降序，语义段按相似度接在后面
	assert.Equal(t, "ip-lookup", merged[0].ToolID)
	assert.Equal(t, "unit-converter", merged[1].ToolID)
	assert.Equal(t, "json-beautifier", merged[2].ToolID)
	assert.Equal(t, "text-rewriter", merged[3].ToolID)

	assert.Equal(t, 1.0, merged[0].Similarity)
	assert.Equal(t, SourceStructured, merged[0].Source)
	assert.Equal(t, 0.9, merged[2].Similarity)
	assert.Equal(t, SourceSemantic, merged[2].Source)
}

// 两路都命中的工具只保留确定性条目
func TestAggregateDeduplicates(t *testing.T) {
	a := NewAggregator()

	deterministic := []PredictionHit{
		{ToolID: "ip-lookup", Name: "IP Lookup", Priority: 3},
	}
	semanticHits := []IndexMatch{
		{ToolID: "ip-lookup", Name: "IP Lookup", Similarity: 0.95},
		{ToolID: "subnet-calc", Name: "Subnet Calculator", Similarity: 0.7},
	}

	merged := a.Aggregate(deterministic, semanticHits)
	require.Len(t, merged, 2)
	assert.Equal(t, "ip-lookup", merged[0].ToolID)
	assert.Equal(t, SourceStructured, merged[0].Source)
	assert.Equal(t, 1.0, merged[0].Similarity)
	assert.Equal(t, "subnet-calc", merged[1].ToolID)
}

// 同一工具被多个探测器命中时保留优先级高的一条并补齐建议配置
func TestAggregateMergesDuplicateDeterministic(t *testing.T) {
	a := NewAggregator()

	deterministic := []PredictionHit{
		{ToolID: "converter", Priority: 1, SuggestedConfig: map[string]interface{}{"unit": "kilogram"}},
		{ToolID: "converter", Priority: 3, SuggestedConfig: map[string]interface{}{"dimension": "weight"}},
	}

	merged := a.Aggregate(deterministic, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Priority)
	assert.Equal(t, "weight", merged[0].SuggestedConfig["dimension"])
	assert.Equal(t, "kilogram", merged[0].SuggestedConfig["unit"])
}

func TestAggregateEmptyInputs(t *testing.T) {
	a := NewAggregator()
	assert.Empty(t, a.Aggregate(nil, nil))
}

func TestAggregateSemanticOnly(t *testing.T) {
	a := NewAggregator()

	merged := a.Aggregate(nil, []IndexMatch{
		{ToolID: "x", Similarity: 0.8},
		{ToolID: "y", Similarity: 0.6},
	})
	require.Len(t, merged, 2)
	assert.Equal(t, SourceSemantic, merged[0].Source)
	assert.Equal(t, 0.8, merged[0].Similarity)
}
