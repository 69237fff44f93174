package semantic

// IntentResult 任务意图推导结果
type IntentResult struct {
	Intent     string  `json:"intent"`
	SubIntent  string  `json:"sub_intent"`
	Confidence float64 `json:"confidence"`
}

// 输入类型优先于类别：同一类别在不同输入形态下意图不同。
// URL形态的输入意图是对URL字符串做操作（解析、编解码、校验），不是访问网站；
// JSON/代码形态的意图是格式化（美化、压缩），不是执行代码。
var intentByInputType = map[string]IntentResult{
	"url":             {Intent: "transform_string", SubIntent: "parse_url", Confidence: 1.0},
	"json":            {Intent: "format_code", SubIntent: "beautify_json", Confidence: 1.0},
	"html":            {Intent: "format_code", SubIntent: "beautify_html", Confidence: 1.0},
	"uuid":            {Intent: "inspect_identifier", SubIntent: "validate_uuid", Confidence: 1.0},
	"email":           {Intent: "validate_string", SubIntent: "validate_email", Confidence: 1.0},
	"ipv4":            {Intent: "analyze_network", SubIntent: "inspect_ip", Confidence: 1.0},
	"ipv6":            {Intent: "analyze_network", SubIntent: "inspect_ip", Confidence: 1.0},
	"ipv4_list":       {Intent: "analyze_network", SubIntent: "batch_inspect_ip", Confidence: 1.0},
	"ipv6_list":       {Intent: "analyze_network", SubIntent: "batch_inspect_ip", Confidence: 1.0},
	"cidr_list":       {Intent: "analyze_network", SubIntent: "expand_ranges", Confidence: 1.0},
	"mac_list":        {Intent: "analyze_network", SubIntent: "lookup_vendor", Confidence: 1.0},
	"email_list":      {Intent: "validate_string", SubIntent: "batch_validate_email", Confidence: 1.0},
	"url_list":        {Intent: "transform_string", SubIntent: "batch_parse_url", Confidence: 1.0},
	"hex_color":       {Intent: "convert_value", SubIntent: "convert_color", Confidence: 1.0},
	"binary":          {Intent: "convert_value", SubIntent: "convert_base", Confidence: 1.0},
	"math_expression": {Intent: "evaluate_expression", SubIntent: "calculate", Confidence: 1.0},
	"file_size":       {Intent: "convert_value", SubIntent: "convert_file_size", Confidence: 1.0},
	"clock_time":      {Intent: "convert_value", SubIntent: "convert_time", Confidence: 1.0},
	"datetime":        {Intent: "convert_value", SubIntent: "convert_datetime", Confidence: 1.0},
	"unit_value":      {Intent: "convert_value", SubIntent: "convert_unit", Confidence: 1.0},
}

var intentByCategory = map[string]IntentResult{
	"validator":       {Intent: "validate_string", Confidence: 1.0},
	"conversion":      {Intent: "convert_value", Confidence: 1.0},
	"generator":       {Intent: "generate_content", Confidence: 1.0},
	"json":            {Intent: "format_code", SubIntent: "beautify_json", Confidence: 1.0},
	"code_formatting": {Intent: "format_code", Confidence: 1.0},
	"url":             {Intent: "transform_string", SubIntent: "parse_url", Confidence: 1.0},
	"network":         {Intent: "analyze_network", Confidence: 1.0},
	"datetime":        {Intent: "convert_value", SubIntent: "convert_datetime", Confidence: 1.0},
	"encryption":      {Intent: "transform_string", SubIntent: "hash_or_encrypt", Confidence: 1.0},
	"writing":         {Intent: "transform_text", SubIntent: "rewrite", Confidence: 0.8},
	"text":            {Intent: "transform_text", Confidence: 0.6},
}

// IntentExtractor 从类别和输入类型推导任务意图。纯查表，无副作用。
type IntentExtractor struct{}

func NewIntentExtractor() *IntentExtractor {
	return &IntentExtractor{}
}

// Extract 推导意图。输入类型命中查表时置信度1.0，类别推断的按表内置信度，
// 两者都未命中时返回低置信度的兜底意图。
func (e *IntentExtractor) Extract(category, inputType string) IntentResult {
	if inputType != "" {
		if result, ok := intentByInputType[inputType]; ok {
			return result
		}
	}
	if result, ok := intentByCategory[category]; ok {
		return result
	}
	return IntentResult{
		Intent:     "explore_tools",
		SubIntent:  "",
		Confidence: 0.3,
	}
}
