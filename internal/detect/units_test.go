package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitValueMatcher(t *testing.T) {
	m := NewUnitValueMatcher()

	tests := []struct {
		name      string
		input     string
		dimension string
		unit      string
		value     float64
	}{
		{"exact", "50 kg", "weight", "kilogram", 50},
		{"glued", "50kg", "weight", "kilogram", 50},
		{"full_name", "50 kilogram", "weight", "kilogram", 50},
		{"plural", "100 kgs", "weight", "kilogram", 100},
		{"typo_celsius", "50 celcius", "temperature", "celsius", 50},
		{"abbreviated_typo", "50 grm", "weight", "kilogram", 50},
		{"typo_meter", "100 metes", "length", "meter", 100},
		{"decimal", "3.5 liter", "volume", "liter", 3.5},
		{"plural_form_entry", "100 ms", "time", "second", 100},
		{"speed", "120 km/h", "speed", "km/h", 120},
		{"data", "256 mb", "data", "byte", 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := m.Detect(tt.input)
			require.True(t, ok, "expected unit match for %q", tt.input)
			assert.Equal(t, "unit_value", match.InputType)
			assert.Equal(t, PriorityUnit, match.Priority)
			assert.Equal(t, tt.dimension, match.SuggestedConfig["dimension"])
			assert.Equal(t, tt.unit, match.SuggestedConfig["unit"])
			assert.Equal(t, tt.value, match.SuggestedConfig["value"])
		})
	}
}

func TestUnitValueMatcherRejects(t *testing.T) {
	m := NewUnitValueMatcher()

	inputs := []string{
		"",
		"50 xyzzy",           // 编辑距离超限
		"this is a sentence", // 无数值成分
		"kilogram",           // 只有单位没有数值
		"hello 42 world",     // 普通单词不会模糊匹配到单位
	}
	for _, input := range inputs {
		_, ok := m.Detect(input)
		assert.False(t, ok, "should not match %q", input)
	}
}

// 短词元只允许精确匹配，普通英文单词不允许以高相对距离配到短单位
func TestFuzzyUnitMatchGuards(t *testing.T) {
	// "have"与"ha"（公顷）编辑距离2，但2*2 >= 4，必须拒绝
	_, ok := fuzzyUnitMatch("have")
	assert.False(t, ok)

	// 两字母词元禁止模糊匹配
	_, ok = fuzzyUnitMatch("xy")
	assert.False(t, ok)

	cand, ok := fuzzyUnitMatch("celcius")
	require.True(t, ok)
	assert.Equal(t, "temperature", cand.Dimension)
	assert.Equal(t, 1, cand.EditDistance)
}

func TestMaxEditDistance(t *testing.T) {
	assert.Equal(t, 2, maxEditDistance(7))
	assert.Equal(t, 2, maxEditDistance(4))
	assert.Equal(t, 1, maxEditDistance(3))
	assert.Equal(t, 0, maxEditDistance(2))
	assert.Equal(t, 0, maxEditDistance(1))
}

func TestTokenizeGluedUnits(t *testing.T) {
	m := NewUnitValueMatcher()
	tokens := m.tokenize("100kgs of cargo")
	assert.Contains(t, tokens, "kgs")
	assert.Contains(t, tokens, "of")
	assert.Contains(t, tokens, "cargo")
}
