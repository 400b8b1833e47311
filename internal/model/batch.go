package model

import (
	"time"
)

// Status possíveis de um lote
const (
	BatchStatusQueued    = "queued"
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
	BatchStatusFailed    = "failed"
	BatchStatusCancelled = "cancelled"
)

// BatchJob é o registro persistido de um lote de otimização.
// Substitui o antigo mapa de progresso em memória: criado no início do lote,
// atualizado a cada produto e removido pela limpeza após a janela de retenção.
type BatchJob struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Status           string     `gorm:"size:20;default:queued;index" json:"status"`
	Mode             string     `gorm:"size:20;not null" json:"mode"` // reuse | force_regenerate
	Total            int        `gorm:"not null" json:"total"`
	SuccessCount     int        `json:"success_count"`
	ErrorCount       int        `json:"error_count"`
	CurrentProductID *int64     `json:"current_product_id,omitempty"`
	CurrentStep      string     `gorm:"size:50" json:"current_step,omitempty"`
	ErrorMessage     string     `gorm:"type:text" json:"error_message,omitempty"`
	Results          string     `gorm:"type:longtext" json:"results,omitempty"` // JSON com os ProductResult
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ElapsedMs        int64      `json:"elapsed_ms,omitempty"`
}

func (BatchJob) TableName() string {
	return "batch_jobs"
}
