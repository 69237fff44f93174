package recommend

import (
	"sort"
)

// Aggregator 合并确定性命中与语义命中。输出规则：
//   - 确定性命中优先级降序排在最前，相似度恒为1.0；
//   - 语义命中按相似度降序接在其后；
//   - 同一工具两路都命中时保留确定性条目，补齐语义路缺失的建议配置。
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate 返回完整合并结果，不截断；截断由调用方按TopK处理
func (a *Aggregator) Aggregate(deterministic []PredictionHit, semanticHits []IndexMatch) []PredictionHit {
	merged := make([]PredictionHit, 0, len(deterministic)+len(semanticHits))
	seen := make(map[string]int, len(deterministic))

	for _, hit := range deterministic {
		hit.Similarity = 1.0
		hit.Source = SourceStructured
		if pos, ok := seen[hit.ToolID]; ok {
			// 同一工具被多个探测器命中，保留优先级更高的一条
			if hit.Priority > merged[pos].Priority {
				mergeConfig(&hit, merged[pos].SuggestedConfig)
				merged[pos] = hit
			} else {
				mergeConfig(&merged[pos], hit.SuggestedConfig)
			}
			continue
		}
		seen[hit.ToolID] = len(merged)
		merged = append(merged, hit)
	}

	// 确定性段内按优先级降序，优先级相同保持探测顺序
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority > merged[j].Priority
	})
	for i := range merged {
		seen[merged[i].ToolID] = i
	}

	for _, hit := range semanticHits {
		if _, ok := seen[hit.ToolID]; ok {
			continue
		}
		seen[hit.ToolID] = len(merged)
		merged = append(merged, PredictionHit{
			ToolID:     hit.ToolID,
			Name:       hit.Name,
			Similarity: hit.Similarity,
			Source:     SourceSemantic,
		})
	}

	return merged
}

func mergeConfig(hit *PredictionHit, extra map[string]interface{}) {
	if len(extra) == 0 {
		return
	}
	if hit.SuggestedConfig == nil {
		hit.SuggestedConfig = make(map[string]interface{}, len(extra))
	}
	for k, v := range extra {
		if _, ok := hit.SuggestedConfig[k]; !ok {
			hit.SuggestedConfig[k] = v
		}
	}
}
