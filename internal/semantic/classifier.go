package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Categories 分类器允许输出的闭集。任何不在集合内的回答一律归为unknown。
var Categories = []string{
	"validator",
	"conversion",
	"generator",
	"json",
	"code_formatting",
	"url",
	"network",
	"datetime",
	"encryption",
	"writing",
	"text",
}

// CategoryUnknown 外部分类失败时的降级类别
const CategoryUnknown = "unknown"

// ClassificationResult 粗粒度内容分类结果
type ClassificationResult struct {
	Category       string `json:"category"`
	ContentSummary string `json:"content_summary"`
	Degraded       bool   `json:"degraded"`
}

// Classifier 文本分类接口。仅在第一层结构化检测未命中时调用。
type Classifier interface {
	Classify(ctx context.Context, input string) (ClassificationResult, error)
	Ready() bool
}

// NoopClassifier 默认占位实现
type NoopClassifier struct{}

func (n *NoopClassifier) Classify(ctx context.Context, input string) (ClassificationResult, error) {
	return ClassificationResult{}, errors.New("classification provider not configured")
}

func (n *NoopClassifier) Ready() bool {
	return false
}

// OpenAIClassifier 使用OpenAI Chat API做分类
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier 创建OpenAI分类器，apiKey为空时返回占位实现
func NewOpenAIClassifier(apiKey, baseURL, model string) Classifier {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopClassifier{}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

const classifyPromptTemplate = `You are a content classifier for a utility tools website.
Classify the user input into exactly one category from this list:
%s

Respond with JSON only, no prose:
{"category": "<one category>", "content_summary": "<one line describing what the input is>"}

Input:
%s`

func (c *OpenAIClassifier) Classify(ctx context.Context, input string) (ClassificationResult, error) {
	if strings.TrimSpace(input) == "" {
		return ClassificationResult{}, errors.New("input is empty")
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, strings.Join(Categories, ", "), truncate(input, 2000))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   150,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return ClassificationResult{}, err
	}
	if len(resp.Choices) == 0 {
		return ClassificationResult{}, errors.New("classification response empty")
	}

	return parseClassification(resp.Choices[0].Message.Content)
}

func (c *OpenAIClassifier) Ready() bool {
	return c.client != nil
}

// parseClassification 解析模型回复并强制约束到类别闭集
func parseClassification(content string) (ClassificationResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result ClassificationResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return ClassificationResult{}, fmt.Errorf("malformed classification response: %w", err)
	}

	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	if !isKnownCategory(result.Category) {
		result.Category = CategoryUnknown
	}
	return result, nil
}

func isKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// DegradedClassification 外部分类失败时的降级结果
func DegradedClassification(input string) ClassificationResult {
	return ClassificationResult{
		Category:       CategoryUnknown,
		ContentSummary: truncate(input, 120),
		Degraded:       true,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
