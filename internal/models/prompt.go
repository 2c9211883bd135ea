package models

import (
	"time"

	"github.com/lib/pq"
)

type PromptTemplate struct {
	Name      string         `gorm:"column:name;type:text;primaryKey" json:"name"`
	Category  string         `gorm:"column:category;type:text;index" json:"category"`
	Content   string         `gorm:"column:content;type:text" json:"content"`
	Variables pq.StringArray `gorm:"column:variables;type:text[]" json:"variables"`
	IsActive  bool           `gorm:"column:is_active;default:true" json:"is_active"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (PromptTemplate) TableName() string { return "prompt_templates" }
