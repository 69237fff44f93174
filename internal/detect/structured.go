package detect

import (
	"encoding/json"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// StructuredDetector 识别已知形态的输入（邮箱、IP、UUID、JSON等）。
// 匹配器按固定顺序尝试，越具体越靠前（UUID在通用hex之前，JSON在普通花括号之前），
// 第一个命中即返回。
type StructuredDetector struct {
	matchers []structuredMatcher
}

type structuredMatcher struct {
	inputType string
	match     func(input string) (map[string]string, bool)
}

var (
	uuidPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	binaryPattern   = regexp.MustCompile(`^[01]{8,}(?:[\s][01]+)*$`)
	fileSizePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(b|kb|mb|gb|tb|pb|kib|mib|gib|tib)$`)
	clockPattern    = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(?::[0-5]\d)?$`)
	unixTsPattern   = regexp.MustCompile(`^\d{10}$|^\d{13}$`)
	mathPattern     = regexp.MustCompile(`^[\d\s+\-*/%^().]+$`)
	mathOpPattern   = regexp.MustCompile(`\d\s*[+*/%^]|\d\s*-\s*\d`)
	htmlTagPattern  = regexp.MustCompile(`(?s)<([a-zA-Z][a-zA-Z0-9]*)(\s[^>]*)?>`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NewStructuredDetector 创建结构化检测器
func NewStructuredDetector() *StructuredDetector {
	return &StructuredDetector{
		matchers: []structuredMatcher{
			{"uuid", matchUUID},
			{"email", matchEmail},
			{"ipv4", matchIPv4},
			{"ipv6", matchIPv6},
			{"url", matchURL},
			{"json", matchJSON},
			{"html", matchHTML},
			{"hex_color", matchHexColor},
			{"binary", matchBinary},
			{"file_size", matchFileSize},
			{"clock_time", matchClockTime},
			{"datetime", matchDatetime},
			{"math_expression", matchMathExpression},
		},
	}
}

func (d *StructuredDetector) Name() string {
	return "structured"
}

// Detect 按优先级尝试所有匹配器，命中即停。未命中返回ok=false，交给下一层处理。
func (d *StructuredDetector) Detect(input string) (*Match, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false
	}

	for _, m := range d.matchers {
		if fields, ok := m.match(trimmed); ok {
			return &Match{
				InputType:  m.inputType,
				Confidence: 1.0,
				Fields:     fields,
				Priority:   PriorityStructured,
			}, true
		}
	}
	return nil, false
}

func matchUUID(input string) (map[string]string, bool) {
	if !uuidPattern.MatchString(input) {
		return nil, false
	}
	return map[string]string{"uuid": strings.ToLower(input)}, true
}

func matchEmail(input string) (map[string]string, bool) {
	if !emailPattern.MatchString(input) {
		return nil, false
	}
	at := strings.LastIndex(input, "@")
	return map[string]string{
		"local":  input[:at],
		"domain": input[at+1:],
	}, true
}

func matchIPv4(input string) (map[string]string, bool) {
	ip := net.ParseIP(input)
	if ip == nil || ip.To4() == nil || strings.Count(input, ".") != 3 {
		return nil, false
	}
	return map[string]string{"address": input}, true
}

func matchIPv6(input string) (map[string]string, bool) {
	if !strings.Contains(input, ":") {
		return nil, false
	}
	ip := net.ParseIP(input)
	if ip == nil || ip.To4() != nil {
		return nil, false
	}
	return map[string]string{"address": input}, true
}

func matchURL(input string) (map[string]string, bool) {
	candidate := input
	if strings.HasPrefix(input, "www.") {
		candidate = "http://" + input
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
	default:
		return nil, false
	}
	if !strings.Contains(u.Host, ".") && u.Host != "localhost" {
		return nil, false
	}
	return map[string]string{
		"scheme": u.Scheme,
		"host":   u.Host,
		"path":   u.Path,
	}, true
}

func matchJSON(input string) (map[string]string, bool) {
	first := input[0]
	if first != '{' && first != '[' {
		return nil, false
	}
	if !json.Valid([]byte(input)) {
		return nil, false
	}
	root := "object"
	if first == '[' {
		root = "array"
	}
	return map[string]string{"root": root}, true
}

func matchHTML(input string) (map[string]string, bool) {
	if strings.HasPrefix(strings.ToLower(input), "<!doctype html") {
		return map[string]string{"tag": "html"}, true
	}
	m := htmlTagPattern.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	tag := strings.ToLower(m[1])
	// 必须出现配对的闭合标签或自闭合，避免把 "a < b > c" 之类误判为HTML
	if !strings.Contains(strings.ToLower(input), "</"+tag) && !strings.Contains(m[0], "/>") {
		return nil, false
	}
	return map[string]string{"tag": tag}, true
}

func matchHexColor(input string) (map[string]string, bool) {
	if !hexColorPattern.MatchString(input) {
		return nil, false
	}
	return map[string]string{"color": strings.ToLower(input)}, true
}

func matchBinary(input string) (map[string]string, bool) {
	if !binaryPattern.MatchString(input) {
		return nil, false
	}
	bits := strings.Join(strings.Fields(input), "")
	return map[string]string{"bits": bits}, true
}

func matchFileSize(input string) (map[string]string, bool) {
	m := fileSizePattern.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	return map[string]string{
		"value": m[1],
		"unit":  strings.ToUpper(m[2]),
	}, true
}

func matchClockTime(input string) (map[string]string, bool) {
	if !clockPattern.MatchString(input) {
		return nil, false
	}
	return map[string]string{"time": input}, true
}

func matchDatetime(input string) (map[string]string, bool) {
	if unixTsPattern.MatchString(input) {
		return map[string]string{"format": "unix_timestamp", "value": input}, true
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, input); err == nil {
			return map[string]string{"format": layout, "value": input}, true
		}
	}
	return nil, false
}

func matchMathExpression(input string) (map[string]string, bool) {
	if !mathPattern.MatchString(input) {
		return nil, false
	}
	// 至少出现一个作用于数字的运算符，排除纯数字和日期残片
	if !mathOpPattern.MatchString(input) {
		return nil, false
	}
	return map[string]string{"expression": input}, true
}
