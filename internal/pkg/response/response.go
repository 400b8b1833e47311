package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Códigos de erro da API
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeResourceNotFound = 1003
	CodeServerError      = 5000
)

// Mensagens padrão por código
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "Parâmetros inválidos",
	CodeResourceNotFound: "Recurso não encontrado",
	CodeServerError:      "Erro interno do servidor",
}

// Status HTTP por código. Erros de validação retornam 400 de verdade: o
// protocolo de stream exige a rejeição antes de abrir a conexão.
var codeStatus = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeParamError:       http.StatusBadRequest,
	CodeResourceNotFound: http.StatusNotFound,
	CodeServerError:      http.StatusInternalServerError,
}

// Response envelope uniforme da API
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData estrutura de paginação
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// Success resposta de sucesso
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage sucesso com mensagem customizada
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage sucesso paginado
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error resposta de erro
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ParamError erro de validação (HTTP 400)
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// NotFoundError recurso inexistente (HTTP 404)
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// ServerError erro interno (HTTP 500)
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
