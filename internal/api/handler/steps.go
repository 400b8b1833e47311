package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/response"
	"github.com/catalogia/pim_go_server/internal/repository"
)

// StepHandler expõe cada passo da pipeline como endpoint individual (fluxo
// produto a produto da UI). O resultado do passo vai no corpo, com HTTP 200
// mesmo em falha semântica: o erro pertence ao domínio, não ao transporte.
type StepHandler struct {
	steps       map[string]pipeline.Step
	productRepo *repository.ProductRepository
}

// contentKinds tipo de conteúdo produzido por cada passo (sincronização não gera)
var contentKinds = map[string]string{
	pipeline.StepImageAnalysis:             model.ContentImageAnalysis,
	pipeline.StepTitleGeneration:           model.ContentTitle,
	pipeline.StepDescriptionGeneration:     model.ContentDescription,
	pipeline.StepCharacteristicsGeneration: model.ContentCharacteristics,
}

func NewStepHandler(pipe *pipeline.Pipeline, productRepo *repository.ProductRepository) *StepHandler {
	steps := make(map[string]pipeline.Step)
	for _, step := range pipe.Steps() {
		steps[step.Name()] = step
	}
	return &StepHandler{
		steps:       steps,
		productRepo: productRepo,
	}
}

// AnalyzeImages POST /api/v1/products/:id/analyze-images
func (h *StepHandler) AnalyzeImages(c *gin.Context) {
	h.execute(c, pipeline.StepImageAnalysis)
}

// GenerateTitle POST /api/v1/products/:id/generate-title
func (h *StepHandler) GenerateTitle(c *gin.Context) {
	h.execute(c, pipeline.StepTitleGeneration)
}

// GenerateDescription POST /api/v1/products/:id/generate-description
func (h *StepHandler) GenerateDescription(c *gin.Context) {
	h.execute(c, pipeline.StepDescriptionGeneration)
}

// GenerateCharacteristics POST /api/v1/products/:id/generate-characteristics
func (h *StepHandler) GenerateCharacteristics(c *gin.Context) {
	h.execute(c, pipeline.StepCharacteristicsGeneration)
}

// SyncAnymarket POST /api/v1/products/:id/sync-anymarket
func (h *StepHandler) SyncAnymarket(c *gin.Context) {
	h.execute(c, pipeline.StepAnymarketSync)
}

func (h *StepHandler) execute(c *gin.Context, stepName string) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "ID de produto inválido")
		return
	}

	// Corpo é opcional; sem corpo o passo reaproveita conteúdo existente
	var req dto.StepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}
	}

	mode := pipeline.ModeReuse
	if req.ForceNewGeneration {
		mode = pipeline.ModeForceRegenerate
	}

	step, ok := h.steps[stepName]
	if !ok {
		response.ServerError(c, "")
		return
	}

	start := time.Now()
	result := step.Execute(c.Request.Context(), productID, mode)
	result.DurationMs = time.Since(start).Milliseconds()

	resp := dto.StepResponse{
		Success:    result.Success,
		Message:    result.Message,
		DurationMs: result.DurationMs,
	}

	if result.Success {
		if kind, ok := contentKinds[stepName]; ok {
			if content, err := h.productRepo.GetContent(productID, kind); err == nil {
				resp.Content = content.Content
			}
		}
	}

	response.Success(c, resp)
}
