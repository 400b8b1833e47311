package model

import (
	"time"
)

// Tipos de conteúdo gerado pela pipeline
const (
	ContentImageAnalysis   = "image_analysis"
	ContentTitle           = "title"
	ContentDescription     = "description"
	ContentCharacteristics = "characteristics"
)

// GeneratedContent é uma linha por produto+tipo; regerar sobrescreve a existente
type GeneratedContent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_product_kind" json:"product_id"`
	Kind      string    `gorm:"size:30;not null;uniqueIndex:idx_product_kind" json:"kind"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Model     string    `gorm:"size:50" json:"model,omitempty"` // modelo LLM que gerou
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GeneratedContent) TableName() string {
	return "generated_contents"
}
