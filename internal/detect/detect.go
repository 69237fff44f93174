package detect

// 第一层确定性检测的聚合优先级：精确结构匹配 > 批量匹配 > 模糊单位匹配
const (
	PriorityStructured = 3
	PriorityBulk       = 2
	PriorityUnit       = 1
)

// Match 第一层检测结果。未命中不是错误，检测器返回 ok=false 即可。
type Match struct {
	InputType       string
	Confidence      float64
	Fields          map[string]string
	SuggestedConfig map[string]interface{}
	Priority        int
}

// Detector 第一层检测器抽象。实现必须是纯函数：同一输入永远得到同一结果。
type Detector interface {
	Name() string
	Detect(input string) (*Match, bool)
}
