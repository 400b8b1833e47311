package handler

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/response"
	"github.com/catalogia/pim_go_server/internal/service"
	"github.com/catalogia/pim_go_server/internal/sse"
)

type OptimizeHandler struct {
	optService *service.OptimizationService
	cfg        *config.Config
}

func NewOptimizeHandler(optService *service.OptimizationService, cfg *config.Config) *OptimizeHandler {
	return &OptimizeHandler{
		optService: optService,
		cfg:        cfg,
	}
}

// resolveMode skip_existing do corpo vence; ausente, vale o padrão configurado
func (h *OptimizeHandler) resolveMode(req *dto.OptimizeBatchRequest) pipeline.Mode {
	skip := h.cfg.Pipeline.SkipExistingDefault
	if req.SkipExisting != nil {
		skip = *req.SkipExisting
	}
	if skip {
		return pipeline.ModeReuse
	}
	return pipeline.ModeForceRegenerate
}

// StreamBatch processa o lote de forma síncrona, transmitindo o progresso por
// SSE. A validação acontece ANTES de abrir o stream: lista vazia é um 400
// normal, nunca um evento error.
// POST /api/v1/optimize-batch/stream
func (h *OptimizeHandler) StreamBatch(c *gin.Context) {
	var req dto.OptimizeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	mode := h.resolveMode(&req)
	job, err := h.optService.CreateBatch(req.ProductIDs, mode, model.BatchStatusRunning)
	if err != nil {
		switch err {
		case service.ErrEmptyProductList:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	emitter, err := sse.NewEmitter(c.Writer)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	// O contexto da requisição cancela o lote quando o cliente desconecta
	if err := h.optService.RunBatch(c.Request.Context(), job, req.ProductIDs, mode, emitter); err != nil {
		log.Printf("Batch %s: stream run ended with error: %v", job.ID, err)
	}
}

// EnqueueBatch envia o lote para processamento em background
// POST /api/v1/optimize-batch
func (h *OptimizeHandler) EnqueueBatch(c *gin.Context) {
	var req dto.OptimizeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	mode := h.resolveMode(&req)
	job, err := h.optService.CreateBatch(req.ProductIDs, mode, model.BatchStatusQueued)
	if err != nil {
		switch err {
		case service.ErrEmptyProductList:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if err := h.optService.EnqueueBatch(c.Request.Context(), job, req.ProductIDs); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Lote enfileirado", dto.OptimizeBatchResponse{BatchID: job.ID})
}
