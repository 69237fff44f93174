package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkClassifierDetect(t *testing.T) {
	b := NewBulkClassifier()

	tests := []struct {
		name      string
		input     string
		inputType string
		count     int
	}{
		{"ip_newlines", "192.168.1.1\n10.0.0.1\n172.16.0.1", "ipv4_list", 3},
		{"ip_commas", "192.168.1.1, 10.0.0.1", "ipv4_list", 2},
		{"emails", "a@example.com; b@example.com", "email_list", 2},
		{"cidrs", "10.0.0.0/8\n192.168.0.0/16", "cidr_list", 2},
		{"macs", "00:1A:2B:3C:4D:5E\n00:1A:2B:3C:4D:5F", "mac_list", 2},
		{"urls", "https://a.example.com\nhttps://b.example.com", "url_list", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := b.Detect(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.inputType, match.InputType)
			assert.Equal(t, PriorityBulk, match.Priority)
			assert.Equal(t, tt.count, match.SuggestedConfig["entry_count"])
		})
	}
}

func TestBulkClassifierRejects(t *testing.T) {
	b := NewBulkClassifier()

	inputs := []string{
		"192.168.1.1",                   // 单条不是批量
		"this is a plain sentence",      // 自然语言
		"192.168.1.1\nnot an ip",        // 异质条目
		"a@example.com, 192.168.1.1",    // 类型混杂
		"hello, world",                  // 逗号分隔但条目未知
	}
	for _, input := range inputs {
		_, ok := b.Detect(input)
		assert.False(t, ok, "should not detect bulk for %q", input)
	}
}

func TestClassifyEntry(t *testing.T) {
	b := NewBulkClassifier()

	assert.Equal(t, "ipv4", b.ClassifyEntry("8.8.8.8"))
	assert.Equal(t, "ipv6", b.ClassifyEntry("2001:db8::1"))
	assert.Equal(t, "cidr", b.ClassifyEntry("10.0.0.0/24"))
	assert.Equal(t, "mac", b.ClassifyEntry("00-1A-2B-3C-4D-5E"))
	assert.Equal(t, "email", b.ClassifyEntry("x@example.com"))
	assert.Equal(t, "url", b.ClassifyEntry("https://example.com"))
	assert.Equal(t, "unknown", b.ClassifyEntry("banana"))
	assert.Equal(t, "unknown", b.ClassifyEntry(""))
}

func TestParseBulk(t *testing.T) {
	b := NewBulkClassifier()

	entries := b.ParseBulk("a@x.com\nb@x.com,  c@x.com")
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, entries)
}
