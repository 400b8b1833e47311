package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/catalogia/pim_go_server/internal/repository"
)

// Pipeline executa os passos de otimização de um produto na ordem fixa,
// interrompendo a cadeia na primeira falha.
type Pipeline struct {
	steps []Step
}

func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// NewDefault monta a cadeia completa na ordem fixa do produto
func NewDefault(repo *repository.ProductRepository, llm TextGenerator, marketplace MarketplaceClient) *Pipeline {
	return New(
		NewImageAnalysisStep(repo, llm),
		NewTitleStep(repo, llm),
		NewDescriptionStep(repo, llm),
		NewCharacteristicsStep(repo, llm),
		NewAnymarketSyncStep(repo, marketplace),
	)
}

// Steps expõe os passos na ordem de execução (usado pelos endpoints individuais)
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Run processa um produto do início ao fim. Sempre retorna um ProductResult
// completo: passos não executados ficam marcados como tal.
func (p *Pipeline) Run(ctx context.Context, productID int64, productName string, mode Mode, obs Observer) *ProductResult {
	if obs == nil {
		obs = NopObserver{}
	}

	result := NewPendingResult(productID, productName)
	start := time.Now()

	for i, step := range p.steps {
		name := step.Name()

		// Cancelamento é verificado entre passos: um stream desconectado
		// para o trabalho no backend em vez de rodar até o fim
		if ctx.Err() != nil {
			p.markRemaining(result, i, MsgCancelled)
			result.Success = false
			result.Message = MsgCancelled
			result.DurationMs = time.Since(start).Milliseconds()
			return result
		}

		obs.StepStarted(productID, name)

		stepStart := time.Now()
		stepResult := p.executeStep(ctx, step, productID, mode)
		stepResult.DurationMs = time.Since(stepStart).Milliseconds()
		result.Steps[name] = &stepResult

		obs.StepFinished(productID, name, result)

		if !stepResult.Success {
			log.Printf("Product %d: step %s failed: %s", productID, name, stepResult.Message)
			p.markRemaining(result, i+1, NotExecutedMessage(name))
			result.Success = false
			result.Message = fmt.Sprintf("Falha na etapa de %s: %s", StepLabels[name], stepResult.Message)
			result.DurationMs = time.Since(start).Milliseconds()
			return result
		}
	}

	result.Success = true
	result.Message = MsgCompleted
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// executeStep converte um panic do passo em falha crítica. Sem isso um panic
// derrubaria o stream sem evento de erro e mataria o worker no caminho
// assíncrono, deixando o lote preso em running.
func (p *Pipeline) executeStep(ctx context.Context, step Step, productID int64, mode Mode) (result StepResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Product %d: step %s panicked: %v", productID, step.Name(), r)
			result = StepResult{Message: fmt.Sprintf("Erro crítico: %v", r), Error: fmt.Sprintf("%v", r)}
		}
	}()
	return step.Execute(ctx, productID, mode)
}

// markRemaining marca os passos a partir de from como não executados
func (p *Pipeline) markRemaining(result *ProductResult, from int, message string) {
	for _, step := range p.steps[from:] {
		result.Steps[step.Name()] = &StepResult{Success: false, Message: message}
	}
}
