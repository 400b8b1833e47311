package pipeline

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/repository"
)

// llmStep cobre os três passos de geração de texto (título, descrição e
// características); eles diferem apenas no prompt e no tipo de conteúdo salvo.
type llmStep struct {
	name        string
	kind        string
	system      string
	doneMessage string
	buildPrompt func(product *model.Product, imageAnalysis string) string

	repo *repository.ProductRepository
	llm  TextGenerator
}

func (s *llmStep) Name() string {
	return s.name
}

func (s *llmStep) Execute(ctx context.Context, productID int64, mode Mode) StepResult {
	if mode == ModeReuse {
		if existing, err := s.repo.GetContent(productID, s.kind); err == nil && existing.Content != "" {
			return StepResult{Success: true, Message: "Conteúdo existente reaproveitado"}
		}
	}

	product, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StepResult{Message: "Produto não encontrado", Error: err.Error()}
		}
		return criticalFailure(err)
	}

	// O laudo das imagens alimenta o prompt; na cadeia ele já existe porque a
	// análise é o primeiro passo, mas no fluxo individual pode estar ausente
	imageAnalysis := ""
	if analysis, err := s.repo.GetContent(productID, model.ContentImageAnalysis); err == nil {
		imageAnalysis = analysis.Content
	}

	content, err := s.llm.GenerateText(ctx, s.system, s.buildPrompt(product, imageAnalysis))
	if err != nil {
		return criticalFailure(err)
	}

	if err := s.repo.UpsertContent(&model.GeneratedContent{
		ProductID: productID,
		Kind:      s.kind,
		Content:   content,
		Model:     s.llm.ModelName(),
	}); err != nil {
		return criticalFailure(err)
	}

	return StepResult{Success: true, Message: s.doneMessage}
}

// NewTitleStep gera o título otimizado para marketplace
func NewTitleStep(repo *repository.ProductRepository, llm TextGenerator) Step {
	return &llmStep{
		name:        StepTitleGeneration,
		kind:        model.ContentTitle,
		system:      "Você é um especialista em SEO para marketplaces brasileiros.",
		doneMessage: "Título gerado com sucesso",
		buildPrompt: func(p *model.Product, analysis string) string {
			return fmt.Sprintf(
				"Gere um título de até 60 caracteres para o produto %q.\n"+
					"Análise das imagens: %s\n"+
					"Responda apenas com o título, sem aspas.",
				p.Name, analysis,
			)
		},
		repo: repo,
		llm:  llm,
	}
}

// NewDescriptionStep gera a descrição longa do anúncio
func NewDescriptionStep(repo *repository.ProductRepository, llm TextGenerator) Step {
	return &llmStep{
		name:        StepDescriptionGeneration,
		kind:        model.ContentDescription,
		system:      "Você é um redator de e-commerce especializado em descrições de produto.",
		doneMessage: "Descrição gerada com sucesso",
		buildPrompt: func(p *model.Product, analysis string) string {
			return fmt.Sprintf(
				"Escreva uma descrição de venda em HTML simples (parágrafos e listas) "+
					"para o produto %q.\nAnálise das imagens: %s",
				p.Name, analysis,
			)
		},
		repo: repo,
		llm:  llm,
	}
}

// NewCharacteristicsStep gera a ficha técnica como JSON [{name, value}]
func NewCharacteristicsStep(repo *repository.ProductRepository, llm TextGenerator) Step {
	return &llmStep{
		name:        StepCharacteristicsGeneration,
		kind:        model.ContentCharacteristics,
		system:      "Você extrai características técnicas de produtos para fichas de marketplace.",
		doneMessage: "Características geradas com sucesso",
		buildPrompt: func(p *model.Product, analysis string) string {
			return fmt.Sprintf(
				"Liste as características do produto %q como um array JSON de objetos "+
					"{\"name\": ..., \"value\": ...}.\nAnálise das imagens: %s\n"+
					"Responda apenas com o JSON.",
				p.Name, analysis,
			)
		},
		repo: repo,
		llm:  llm,
	}
}
