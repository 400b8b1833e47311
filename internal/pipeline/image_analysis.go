package pipeline

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/repository"
)

// maxAnalysisImages limita quantas imagens vão para o modelo de visão
const maxAnalysisImages = 6

// ImageAnalysisStep é o primeiro passo da cadeia: analisa as imagens do
// produto com o modelo de visão e persiste o laudo, que alimenta os passos
// de geração seguintes.
type ImageAnalysisStep struct {
	repo *repository.ProductRepository
	llm  TextGenerator
}

func NewImageAnalysisStep(repo *repository.ProductRepository, llm TextGenerator) *ImageAnalysisStep {
	return &ImageAnalysisStep{repo: repo, llm: llm}
}

func (s *ImageAnalysisStep) Name() string {
	return StepImageAnalysis
}

func (s *ImageAnalysisStep) Execute(ctx context.Context, productID int64, mode Mode) StepResult {
	if mode == ModeReuse {
		if existing, err := s.repo.GetContent(productID, model.ContentImageAnalysis); err == nil && existing.Content != "" {
			return StepResult{Success: true, Message: "Análise de imagem existente reaproveitada"}
		}
	}

	product, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StepResult{Message: "Produto não encontrado", Error: err.Error()}
		}
		return criticalFailure(err)
	}

	// Falha imediata e distinta quando o produto não tem categoria
	categoryVtexID, err := s.repo.GetCategoryVtexID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StepResult{Message: "Produto sem categoria cadastrada"}
		}
		return criticalFailure(err)
	}

	images, err := s.repo.ListImages(productID)
	if err != nil {
		return criticalFailure(err)
	}
	if len(images) == 0 {
		return StepResult{Message: "Produto sem imagens para analisar"}
	}

	urls := make([]string, 0, maxAnalysisImages)
	for _, img := range images {
		urls = append(urls, img.URL)
		if len(urls) == maxAnalysisImages {
			break
		}
	}

	prompt := fmt.Sprintf(
		"Analise as imagens do produto %q (categoria VTEX %d). "+
			"Descreva em português: tipo de produto, cores, materiais aparentes, "+
			"detalhes visíveis e público-alvo provável. Seja objetivo.",
		product.Name, categoryVtexID,
	)

	analysis, err := s.llm.AnalyzeImages(ctx, prompt, urls)
	if err != nil {
		return criticalFailure(err)
	}

	if err := s.repo.UpsertContent(&model.GeneratedContent{
		ProductID: productID,
		Kind:      model.ContentImageAnalysis,
		Content:   analysis,
		Model:     s.llm.ModelName(),
	}); err != nil {
		return criticalFailure(err)
	}

	return StepResult{Success: true, Message: "Análise de imagem concluída"}
}

// criticalFailure padroniza falhas de transporte/infra dos passos
func criticalFailure(err error) StepResult {
	return StepResult{
		Message: fmt.Sprintf("Erro crítico: %v", err),
		Error:   err.Error(),
	}
}
