package dto

// OptimizeBatchRequest corpo do POST /optimize-batch e /optimize-batch/stream.
// SkipExisting é ponteiro para distinguir "ausente" de "false": ausente cai no
// padrão configurado (pipeline.skip_existing_default).
type OptimizeBatchRequest struct {
	ProductIDs   []int64 `json:"product_ids"`
	SkipExisting *bool   `json:"skip_existing"`
}

// OptimizeBatchResponse resposta do enfileiramento assíncrono
type OptimizeBatchResponse struct {
	BatchID string `json:"batch_id"`
}

// StepRequest corpo dos endpoints de passo individual (fluxo produto a produto da UI)
type StepRequest struct {
	ForceNewGeneration bool `json:"force_new_generation"`
}

// StepResponse resposta dos endpoints de passo individual
type StepResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Content    string `json:"content,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// BatchStatusResponse estado persistido de um lote
type BatchStatusResponse struct {
	BatchID          string `json:"batch_id"`
	Status           string `json:"status"`
	Mode             string `json:"mode"`
	Total            int    `json:"total"`
	SuccessCount     int    `json:"success_count"`
	ErrorCount       int    `json:"error_count"`
	CurrentProductID *int64 `json:"current_product_id,omitempty"`
	CurrentStep      string `json:"current_step,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	CreatedAt        string `json:"created_at"`
	StartedAt        string `json:"started_at,omitempty"`
	CompletedAt      string `json:"completed_at,omitempty"`
	ElapsedMs        int64  `json:"elapsed_ms,omitempty"`
}
