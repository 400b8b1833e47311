package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/catalogia/pim_go_server/internal/pkg/response"
	"github.com/catalogia/pim_go_server/internal/service"
)

type BatchHandler struct {
	optService *service.OptimizationService
}

func NewBatchHandler(optService *service.OptimizationService) *BatchHandler {
	return &BatchHandler{
		optService: optService,
	}
}

// Get estado persistido de um lote
// GET /api/v1/batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	batchID := c.Param("id")

	status, err := h.optService.GetBatch(batchID)
	if err != nil {
		switch err {
		case service.ErrBatchNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}

// List lotes recentes, mais novos primeiro
// GET /api/v1/batches
func (h *BatchHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.optService.ListBatches(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
