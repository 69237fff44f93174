package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// 长度差异在模糊评分中的权重：score = 编辑距离 + lengthDeltaWeight × |长度差|
const lengthDeltaWeight = 0.2

// unitDimension 单位量纲。切片顺序固定，作为平局时的最终裁决依据。
type unitDimension struct {
	Name      string
	Canonical string
	Units     []string
}

var unitDimensions = []unitDimension{
	{"length", "meter", []string{
		"m", "meter", "metre", "km", "kilometer", "kilometre", "cm", "centimeter",
		"mm", "millimeter", "µm", "micrometer", "nm", "mile", "mi", "yard", "yd",
		"foot", "feet", "ft", "inch", "in", `"`, "'",
	}},
	{"weight", "kilogram", []string{
		"kg", "kilogram", "kilogramme", "g", "gram", "gramme", "mg", "milligram",
		"lb", "lbs", "pound", "oz", "ounce", "ton", "tonne", "stone", "st",
	}},
	{"temperature", "celsius", []string{
		"c", "celsius", "centigrade", "f", "fahrenheit", "k", "kelvin",
		"°", "°c", "°f", "degree",
	}},
	{"speed", "km/h", []string{
		"kmh", "km/h", "kph", "mph", "m/s", "mps", "knot", "kn",
	}},
	{"volume", "liter", []string{
		"l", "liter", "litre", "ml", "milliliter", "cl", "gallon", "gal",
		"pint", "quart", "qt", "cup", "m³", "cm³", "cc",
	}},
	{"pressure", "pascal", []string{
		"pa", "pascal", "kpa", "hpa", "mpa", "bar", "mbar", "psi", "atm",
		"torr", "mmhg",
	}},
	{"energy", "joule", []string{
		"j", "joule", "kj", "cal", "calorie", "kcal", "wh", "kwh", "mwh",
		"ev", "btu",
	}},
	{"time", "second", []string{
		"s", "sec", "second", "ms", "millisecond", "µs", "min", "minute",
		"h", "hr", "hour", "day", "week", "wk", "month", "mo", "year", "yr",
	}},
	{"data", "byte", []string{
		"b", "byte", "bit", "kb", "kilobyte", "mb", "megabyte", "gb",
		"gigabyte", "tb", "terabyte", "kib", "mib", "gib", "tib",
	}},
	{"area", "m²", []string{
		"m²", "sqm", "km²", "sqkm", "ft²", "sqft", "acre", "hectare", "ha",
	}},
}

// UnitMatchCandidate 模糊匹配的中间评分记录
type UnitMatchCandidate struct {
	RawToken      string
	Dimension     string
	CanonicalUnit string
	MatchedUnit   string
	EditDistance  int
	LengthDelta   int
	Score         float64
}

var (
	numberPattern    = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	gluedUnitPattern = regexp.MustCompile(`^([-+]?\d+(?:\.\d+)?)(\D.*)$`)
	unitTokenPattern = regexp.MustCompile(`[a-zA-Zµ°²³/"']+`)
)

// UnitValueMatcher 识别"数值+计量单位"输入，容忍拼写错误和缩写。
type UnitValueMatcher struct{}

func NewUnitValueMatcher() *UnitValueMatcher {
	return &UnitValueMatcher{}
}

func (m *UnitValueMatcher) Name() string {
	return "unit_value"
}

func (m *UnitValueMatcher) Detect(input string) (*Match, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false
	}

	// 必须有数值成分
	number := numberPattern.FindString(trimmed)
	if number == "" {
		return nil, false
	}

	candidate, ok := m.bestCandidate(trimmed)
	if !ok {
		return nil, false
	}

	value, _ := strconv.ParseFloat(number, 64)
	return &Match{
		InputType:  "unit_value",
		Confidence: 1.0,
		Fields: map[string]string{
			"raw_unit": candidate.RawToken,
			"value":    number,
		},
		SuggestedConfig: map[string]interface{}{
			"dimension": candidate.Dimension,
			"unit":      candidate.CanonicalUnit,
			"value":     value,
		},
		Priority: PriorityUnit,
	}, true
}

// bestCandidate 对输入中的每个候选词元打分，返回全局最优的单位匹配。
func (m *UnitValueMatcher) bestCandidate(input string) (UnitMatchCandidate, bool) {
	tokens := m.tokenize(input)
	if len(tokens) == 0 {
		return UnitMatchCandidate{}, false
	}

	var best UnitMatchCandidate
	found := false

	for _, token := range tokens {
		// 精确匹配（含去复数）直接满分返回
		if cand, ok := exactUnitMatch(token); ok {
			return cand, true
		}

		cand, ok := fuzzyUnitMatch(token)
		if !ok {
			continue
		}
		if !found || cand.Score < best.Score ||
			(cand.Score == best.Score && betterTie(cand, best)) {
			best = cand
			found = true
		}
	}

	return best, found
}

// tokenize 提取候选单位词元。粘连写法（"100kgs"）先拆出数字部分。
func (m *UnitValueMatcher) tokenize(input string) []string {
	fields := strings.Fields(input)
	var tokens []string
	for _, f := range fields {
		if g := gluedUnitPattern.FindStringSubmatch(f); g != nil {
			f = g[2]
		}
		for _, t := range unitTokenPattern.FindAllString(f, -1) {
			tokens = append(tokens, strings.ToLower(t))
		}
	}
	return tokens
}

func exactUnitMatch(token string) (UnitMatchCandidate, bool) {
	// 原词元优先：词表自带的复数形词条（如"ms"、"lbs"）不能被去复数规则遮蔽
	if cand, ok := lookupExact(token, token); ok {
		return cand, true
	}
	// 去掉复数尾缀再比对；单字符词元（符号单位）不处理
	if len(token) > 1 && strings.HasSuffix(token, "s") {
		return lookupExact(strings.TrimSuffix(token, "s"), token)
	}
	return UnitMatchCandidate{}, false
}

func lookupExact(normalized, raw string) (UnitMatchCandidate, bool) {
	for _, dim := range unitDimensions {
		for _, u := range dim.Units {
			if u == normalized {
				return UnitMatchCandidate{
					RawToken:      raw,
					Dimension:     dim.Name,
					CanonicalUnit: dim.Canonical,
					MatchedUnit:   u,
					Score:         0,
				}, true
			}
		}
	}
	return UnitMatchCandidate{}, false
}

// fuzzyUnitMatch 对全部词表条目计算 score = 编辑距离 + 0.2×|长度差|，
// 取全局最小者；编辑距离超过随词元长度缩放的上限时拒绝。
func fuzzyUnitMatch(token string) (UnitMatchCandidate, bool) {
	maxDist := maxEditDistance(len([]rune(token)))
	if maxDist == 0 {
		// 过短词元只允许精确匹配，否则2字母单位会误配到无关词表项
		return UnitMatchCandidate{}, false
	}

	var best UnitMatchCandidate
	found := false

	for _, dim := range unitDimensions {
		for _, u := range dim.Units {
			dist := levenshtein.ComputeDistance(token, u)
			lenDelta := len([]rune(token)) - len([]rune(u))
			if lenDelta < 0 {
				lenDelta = -lenDelta
			}
			score := float64(dist) + lengthDeltaWeight*float64(lenDelta)
			cand := UnitMatchCandidate{
				RawToken:      token,
				Dimension:     dim.Name,
				CanonicalUnit: dim.Canonical,
				MatchedUnit:   u,
				EditDistance:  dist,
				LengthDelta:   lenDelta,
				Score:         score,
			}
			if !found || score < best.Score ||
				(score == best.Score && betterTie(cand, best)) {
				best = cand
				found = true
			}
		}
	}

	if !found || best.EditDistance > maxDist {
		return UnitMatchCandidate{}, false
	}
	// 编辑距离占词元长度一半以上时拒绝，普通英文单词（如"have"）
	// 才不会以距离2误配到短单位（如"ha"）
	if best.EditDistance*2 >= len([]rune(token)) {
		return UnitMatchCandidate{}, false
	}
	return best, true
}

// maxEditDistance 随词元长度缩放的接受上限
func maxEditDistance(tokenLen int) int {
	switch {
	case tokenLen >= 4:
		return 2
	case tokenLen == 3:
		return 1
	default:
		return 0
	}
}

// betterTie 平局裁决：先比较规范单位与词元的长度差，再按量纲固定顺序。
// 两个候选评分相同时调用，量纲顺序由 unitDimensions 的声明顺序隐含保证
// （遍历顺序靠前者先成为best，后来者必须严格更优才替换）。
func betterTie(cand, best UnitMatchCandidate) bool {
	candDelta := abs(len(cand.CanonicalUnit) - len(cand.RawToken))
	bestDelta := abs(len(best.CanonicalUnit) - len(best.RawToken))
	return candDelta < bestDelta
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
