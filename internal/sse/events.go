package sse

import (
	"github.com/catalogia/pim_go_server/internal/pipeline"
)

// Tipos de evento do protocolo de progresso do lote
const (
	EventInit       = "init"
	EventProgress   = "progress"
	EventStepUpdate = "step_update"
	EventUpdate     = "update"
	EventComplete   = "complete"
	EventError      = "error"
)

// Event é o frame serializado em cada linha `data:` do stream
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InitData lista de placeholders, um por produto do lote, na ordem de entrada
type InitData struct {
	BatchID  string                    `json:"batch_id"`
	Products []*pipeline.ProductResult `json:"products"`
}

// ProgressData anuncia o passo prestes a executar
type ProgressData struct {
	ProductID int64  `json:"product_id"`
	Step      string `json:"step"`
	Message   string `json:"message"`
}

// StepUpdateData carrega o resultado corrente do produto após cada passo
type StepUpdateData struct {
	ProductID int64                   `json:"product_id"`
	Step      string                  `json:"step"`
	Result    *pipeline.ProductResult `json:"result"`
}

// UpdateData resultado finalizado de um produto + contadores acumulados
type UpdateData struct {
	Result       *pipeline.ProductResult `json:"result"`
	SuccessCount int                     `json:"success_count"`
	ErrorCount   int                     `json:"error_count"`
	Processed    int                     `json:"processed"`
	Total        int                     `json:"total"`
}

// CompleteData totais finais do lote
type CompleteData struct {
	BatchID      string                    `json:"batch_id"`
	Total        int                       `json:"total"`
	SuccessCount int                       `json:"success_count"`
	ErrorCount   int                       `json:"error_count"`
	Results      []*pipeline.ProductResult `json:"results"`
	ElapsedMs    int64                     `json:"elapsed_ms"`
}

// ErrorData falha de nível de lote; encerra o stream
type ErrorData struct {
	Message string `json:"message"`
}
