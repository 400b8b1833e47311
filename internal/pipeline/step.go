package pipeline

import (
	"context"
)

// Mode controla o reaproveitamento de conteúdo já gerado. É decidido uma vez
// por invocação da pipeline, não por passo.
type Mode int

const (
	// ModeReuse reaproveita conteúdo existente (fluxo produto a produto da UI)
	ModeReuse Mode = iota
	// ModeForceRegenerate sempre regera, ignorando conteúdo em cache (padrão do lote)
	ModeForceRegenerate
)

func (m Mode) String() string {
	if m == ModeForceRegenerate {
		return "force_regenerate"
	}
	return "reuse"
}

// ParseMode converte o valor persistido na fila/registro de lote
func ParseMode(s string) Mode {
	if s == "force_regenerate" {
		return ModeForceRegenerate
	}
	return ModeReuse
}

// Step é um passo da pipeline de otimização. Execute nunca retorna erro de Go:
// qualquer falha (semântica ou de transporte) vira um StepResult com
// Success=false, que interrompe a cadeia para aquele produto.
type Step interface {
	Name() string
	Execute(ctx context.Context, productID int64, mode Mode) StepResult
}

// Observer recebe os eventos incrementais de um produto em processamento
type Observer interface {
	StepStarted(productID int64, stepName string)
	StepFinished(productID int64, stepName string, result *ProductResult)
}

// NopObserver é usado quando ninguém acompanha o progresso
type NopObserver struct{}

func (NopObserver) StepStarted(int64, string)                  {}
func (NopObserver) StepFinished(int64, string, *ProductResult) {}

// TextGenerator é o contrato com o cliente LLM usado pelos passos de geração
type TextGenerator interface {
	ModelName() string
	GenerateText(ctx context.Context, system, user string) (string, error)
	AnalyzeImages(ctx context.Context, prompt string, imageURLs []string) (string, error)
}
