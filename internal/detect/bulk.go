package detect

import (
	"net"
	"regexp"
	"strings"
)

// BulkClassifier 判断输入是单个结构化条目还是分隔的条目集合。
// 只有当拆分出≥2个非空条目、且每个条目都独立通过结构校验时才视为批量，
// 普通的多词句子因此不会被误判。
type BulkClassifier struct{}

func NewBulkClassifier() *BulkClassifier {
	return &BulkClassifier{}
}

var (
	bulkDelimiter = regexp.MustCompile(`[\n,;]+|\s{2,}`)
	macPattern    = regexp.MustCompile(`^(?:[0-9a-fA-F]{2}[:\-]){5}[0-9a-fA-F]{2}$`)
)

func (b *BulkClassifier) Name() string {
	return "bulk"
}

func (b *BulkClassifier) Detect(input string) (*Match, bool) {
	if !b.IsBulk(input) {
		return nil, false
	}

	entries := b.ParseBulk(input)
	entryType := b.ClassifyEntry(entries[0])
	return &Match{
		InputType:  entryType + "_list",
		Confidence: 1.0,
		Fields: map[string]string{
			"entry_type": entryType,
		},
		SuggestedConfig: map[string]interface{}{
			"entry_count": len(entries),
		},
		Priority: PriorityBulk,
	}, true
}

// IsBulk 判断输入是否为同质的结构化条目集合
func (b *BulkClassifier) IsBulk(input string) bool {
	entries := b.ParseBulk(input)
	if len(entries) < 2 {
		return false
	}

	first := b.ClassifyEntry(entries[0])
	if first == "unknown" {
		return false
	}
	for _, e := range entries[1:] {
		if b.ClassifyEntry(e) != first {
			return false
		}
	}
	return true
}

// ParseBulk 按换行、逗号、分号和连续空白拆分条目
func (b *BulkClassifier) ParseBulk(input string) []string {
	raw := bulkDelimiter.Split(input, -1)
	entries := make([]string, 0, len(raw))
	for _, r := range raw {
		// 条目内部不允许再有空白，带空格的片段说明是自然语言
		for _, part := range strings.Fields(r) {
			entries = append(entries, part)
		}
	}
	return entries
}

// ClassifyEntry 对单个条目做结构分类
func (b *BulkClassifier) ClassifyEntry(entry string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "unknown"
	}

	if ip := net.ParseIP(entry); ip != nil {
		if ip.To4() != nil && strings.Count(entry, ".") == 3 {
			return "ipv4"
		}
		if strings.Contains(entry, ":") {
			return "ipv6"
		}
	}
	if _, _, err := net.ParseCIDR(entry); err == nil {
		return "cidr"
	}
	if macPattern.MatchString(entry) {
		return "mac"
	}
	if emailPattern.MatchString(entry) {
		return "email"
	}
	if fields, ok := matchURL(entry); ok && fields != nil {
		return "url"
	}
	return "unknown"
}
