package recommend

import (
	"github.com/aihub/toolhub-go/internal/models"
)

// Catalog 工具目录的只读快照。每次请求共享同一份快照，重建目录时整体替换。
type Catalog struct {
	tools       []models.Tool
	byInputType map[string][]*models.Tool
	bySlug      map[string]*models.Tool
}

// NewCatalog 构建目录快照，保留传入顺序作为目录插入顺序
func NewCatalog(tools []models.Tool) *Catalog {
	c := &Catalog{
		tools:       tools,
		byInputType: make(map[string][]*models.Tool),
		bySlug:      make(map[string]*models.Tool, len(tools)),
	}
	for i := range tools {
		t := &c.tools[i]
		c.bySlug[t.Slug] = t
		for _, inputType := range t.InputTypes {
			c.byInputType[inputType] = append(c.byInputType[inputType], t)
		}
	}
	return c
}

// ToolsForInputType 返回声明了该输入类型的全部工具，目录顺序
func (c *Catalog) ToolsForInputType(inputType string) []*models.Tool {
	return c.byInputType[inputType]
}

// GetBySlug 按slug查找
func (c *Catalog) GetBySlug(slug string) (*models.Tool, bool) {
	t, ok := c.bySlug[slug]
	return t, ok
}

// Tools 返回全部工具（目录顺序）
func (c *Catalog) Tools() []models.Tool {
	return c.tools
}

// Size 目录工具数
func (c *Catalog) Size() int {
	return len(c.tools)
}
