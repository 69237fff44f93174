package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredDetector(t *testing.T) {
	d := NewStructuredDetector()

	tests := []struct {
		name      string
		input     string
		inputType string
	}{
		{"uuid", "550e8400-e29b-41d4-a716-446655440000", "uuid"},
		{"email", "alice@example.com", "email"},
		{"ipv4", "192.168.1.1", "ipv4"},
		{"ipv6", "2001:db8::1", "ipv6"},
		{"url", "https://example.com/path", "url"},
		{"url_www", "www.example.com/page", "url"},
		{"json_object", `{"key": "value"}`, "json"},
		{"json_array", `[1, 2, 3]`, "json"},
		{"html", "<div>hello</div>", "html"},
		{"hex_color", "#ff8800", "hex_color"},
		{"binary", "10101010", "binary"},
		{"file_size", "512 MB", "file_size"},
		{"clock_time", "14:30:00", "clock_time"},
		{"date_iso", "2025-01-02", "datetime"},
		{"unix_timestamp", "1735689600", "datetime"},
		{"math", "5+6-2", "math_expression"},
		{"math_spaces", "3 * (4 + 5)", "math_expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := d.Detect(tt.input)
			require.True(t, ok, "expected detection for %q", tt.input)
			assert.Equal(t, tt.inputType, match.InputType)
			assert.Equal(t, PriorityStructured, match.Priority)
			assert.Equal(t, 1.0, match.Confidence)
		})
	}
}

func TestStructuredDetectorRejects(t *testing.T) {
	d := NewStructuredDetector()

	inputs := []string{
		"",
		"   ",
		"this is a sentence",
		"hello world",
		"not.an.ip.addr",
		"256.300.1.1",
		"{broken json",
		"a < b > c",
		"42", // 纯数字既不是时间戳也不是表达式
	}
	for _, input := range inputs {
		_, ok := d.Detect(input)
		assert.False(t, ok, "should not detect %q", input)
	}
}

// 日期匹配器必须先于数学表达式，否则带连字符的日期会被当成减法
func TestDatetimeBeforeMathExpression(t *testing.T) {
	d := NewStructuredDetector()

	match, ok := d.Detect("2025-01-02")
	require.True(t, ok)
	assert.Equal(t, "datetime", match.InputType)
}

func TestMatchEmailFields(t *testing.T) {
	fields, ok := matchEmail("bob.smith@mail.example.org")
	require.True(t, ok)
	assert.Equal(t, "bob.smith", fields["local"])
	assert.Equal(t, "mail.example.org", fields["domain"])
}

func TestMatchURLFields(t *testing.T) {
	fields, ok := matchURL("https://example.com/a/b")
	require.True(t, ok)
	assert.Equal(t, "https", fields["scheme"])
	assert.Equal(t, "example.com", fields["host"])
	assert.Equal(t, "/a/b", fields["path"])
}

func TestMatchJSONRoot(t *testing.T) {
	fields, ok := matchJSON(`[{"a": 1}]`)
	require.True(t, ok)
	assert.Equal(t, "array", fields["root"])
}
