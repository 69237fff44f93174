package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray JSON列存储的字符串数组
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	return string(data), err
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for StringArray")
	}
}

// FloatArray JSON列存储的向量
type FloatArray []float32

func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	return string(data), err
}

func (a *FloatArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for FloatArray")
	}
}

// JSONMap JSON列存储的任意对象
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	return string(data), err
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// Tool 工具目录实体。目录由后台管理维护，推荐管线只读。
// Embedding只存权威向量，降级向量永远不落库。
type Tool struct {
	Slug           string      `gorm:"primaryKey;size:100" json:"slug"`
	Name           string      `gorm:"size:200;not null" json:"name"`
	Description    string      `gorm:"type:text" json:"description"`
	Category       string      `gorm:"size:100;index" json:"category"`
	InputTypes     StringArray `gorm:"type:json" json:"input_types"`
	ConfigSchema   JSONMap     `gorm:"type:json" json:"config_schema,omitempty"`
	OutputType     string      `gorm:"size:100" json:"output_type"`
	Embedding      FloatArray  `gorm:"type:json" json:"-"`
	EmbeddingModel string      `gorm:"size:100" json:"-"`
	SortOrder      int         `gorm:"index;default:0" json:"sort_order"`
	Enabled        bool        `gorm:"default:true" json:"enabled"`
	CreateTime     time.Time   `gorm:"autoCreateTime" json:"create_time"`
	UpdateTime     time.Time   `gorm:"autoUpdateTime" json:"update_time"`
}

// TableName 指定表名
func (Tool) TableName() string {
	return "tools"
}

// HasEmbedding 是否已有持久化向量
func (t *Tool) HasEmbedding() bool {
	return len(t.Embedding) > 0
}
