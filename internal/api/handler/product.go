package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/pkg/response"
	"github.com/catalogia/pim_go_server/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List lista produtos do catálogo local
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	search := c.Query("search")
	brandID, _ := strconv.ParseInt(c.Query("brand_id"), 10, 64)
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.productService.List(page, pageSize, search, brandID, categoryID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get detalhe do produto com conteúdo gerado
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "ID de produto inválido")
		return
	}

	detail, err := h.productService.GetDetail(productID)
	if err != nil {
		switch err {
		case service.ErrProductNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, detail)
}

// Import importa um intervalo de páginas do catálogo VTEX
// POST /api/v1/products/import
func (h *ProductHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.productService.Import(c.Request.Context(), req.FromPage, req.ToPage)
	if err != nil {
		switch err {
		case service.ErrInvalidPageRange:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.SuccessWithMessage(c, "Importação concluída", result)
}
