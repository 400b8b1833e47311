package pipeline

import (
	"fmt"
)

// Nomes fixos dos passos, na ordem de execução
const (
	StepImageAnalysis             = "imageAnalysis"
	StepTitleGeneration           = "titleGeneration"
	StepDescriptionGeneration     = "descriptionGeneration"
	StepCharacteristicsGeneration = "characteristicsGeneration"
	StepAnymarketSync             = "anymarketSync"
)

// StepOrder é a ordem total dos passos; não é configurável
var StepOrder = []string{
	StepImageAnalysis,
	StepTitleGeneration,
	StepDescriptionGeneration,
	StepCharacteristicsGeneration,
	StepAnymarketSync,
}

// StepLabels rótulos exibidos nas mensagens de progresso e de falha
var StepLabels = map[string]string{
	StepImageAnalysis:             "análise de imagem",
	StepTitleGeneration:           "geração de título",
	StepDescriptionGeneration:     "geração de descrição",
	StepCharacteristicsGeneration: "geração de características",
	StepAnymarketSync:             "sincronização Anymarket",
}

// Mensagens fixas do protocolo de progresso
const (
	MsgWaiting           = "Aguardando..."
	MsgWaitingProcessing = "Aguardando processamento..."
	MsgCompleted         = "Otimização concluída com sucesso"
	MsgCancelled         = "Processamento cancelado"
)

type StepResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// ProductResult resultado agregado de um produto num lote.
// Invariante: um passo só tem Success=true se todos os anteriores na ordem
// fixa também tiveram; na primeira falha os seguintes viram "Não executado".
type ProductResult struct {
	ProductID   int64                  `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	DurationMs  int64                  `json:"duration_ms,omitempty"`
	Steps       map[string]*StepResult `json:"steps"`
}

// NewPendingResult cria o placeholder emitido no evento init
func NewPendingResult(productID int64, productName string) *ProductResult {
	steps := make(map[string]*StepResult, len(StepOrder))
	for _, name := range StepOrder {
		steps[name] = &StepResult{Message: MsgWaiting}
	}
	return &ProductResult{
		ProductID:   productID,
		ProductName: productName,
		Message:     MsgWaitingProcessing,
		Steps:       steps,
	}
}

// NotExecutedMessage mensagem dos passos pulados após uma falha
func NotExecutedMessage(failedStep string) string {
	return fmt.Sprintf("Não executado (%s falhou)", StepLabels[failedStep])
}
