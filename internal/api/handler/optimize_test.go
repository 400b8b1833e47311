package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/service"
	"github.com/catalogia/pim_go_server/internal/sse"
	"github.com/catalogia/pim_go_server/internal/testutil"
)

// fakeRunner simula a pipeline nos testes de handler
type fakeRunner struct {
	failing map[int64]bool
}

func (f *fakeRunner) Run(ctx context.Context, productID int64, productName string, mode pipeline.Mode, obs pipeline.Observer) *pipeline.ProductResult {
	result := pipeline.NewPendingResult(productID, productName)
	if f.failing[productID] {
		result.Success = false
		result.Message = "Falha na etapa de análise de imagem: Produto sem imagens para analisar"
		return result
	}
	result.Success = true
	result.Message = pipeline.MsgCompleted
	return result
}

func setupOptimizeRouter(t *testing.T, runner service.Runner) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	batchRepo := repository.NewBatchJobRepository(db)
	productRepo := repository.NewProductRepository(db)
	optService := service.NewOptimizationService(batchRepo, productRepo, runner, nil, nil, &config.Config{})

	optimizeHandler := NewOptimizeHandler(optService, &config.Config{})
	batchHandler := NewBatchHandler(optService)

	router := gin.New()
	router.POST("/api/v1/optimize-batch/stream", optimizeHandler.StreamBatch)
	router.GET("/api/v1/batches/:id", batchHandler.Get)
	router.GET("/api/v1/batches", batchHandler.List)

	return router, db
}

// decodeFrames separa o corpo do stream em eventos decodificados
func decodeFrames(t *testing.T, body string) []sse.Event {
	t.Helper()

	var events []sse.Event
	for _, frame := range strings.Split(strings.TrimSpace(body), "\n\n") {
		payload := strings.TrimPrefix(frame, "data: ")
		var event sse.Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		events = append(events, event)
	}
	return events
}

func TestResolveMode(t *testing.T) {
	h := &OptimizeHandler{cfg: &config.Config{
		Pipeline: config.PipelineConfig{SkipExistingDefault: true},
	}}

	// sem skip_existing no corpo, vale o padrão configurado
	assert.Equal(t, pipeline.ModeReuse, h.resolveMode(&dto.OptimizeBatchRequest{}))

	// o corpo vence o padrão
	force := false
	assert.Equal(t, pipeline.ModeForceRegenerate, h.resolveMode(&dto.OptimizeBatchRequest{SkipExisting: &force}))

	h.cfg.Pipeline.SkipExistingDefault = false
	skip := true
	assert.Equal(t, pipeline.ModeReuse, h.resolveMode(&dto.OptimizeBatchRequest{SkipExisting: &skip}))
}

func TestStreamBatch_EmptyProductList_Returns400BeforeStream(t *testing.T) {
	router, _ := setupOptimizeRouter(t, &fakeRunner{})

	req := httptest.NewRequest("POST", "/api/v1/optimize-batch/stream", strings.NewReader(`{"product_ids": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// nunca abre o stream para requisição inválida
	assert.NotEqual(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Lista de produtos vazia ou ausente")
}

func TestStreamBatch_InvalidJSON_Returns400(t *testing.T) {
	router, _ := setupOptimizeRouter(t, &fakeRunner{})

	req := httptest.NewRequest("POST", "/api/v1/optimize-batch/stream", strings.NewReader(`{invalid`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamBatch_TwoProducts_FullEventSequence(t *testing.T) {
	router, db := setupOptimizeRouter(t, &fakeRunner{failing: map[int64]bool{202: true}})
	testutil.TestProduct(t, db, 101, testutil.WithName("Tênis Azul"))

	req := httptest.NewRequest("POST", "/api/v1/optimize-batch/stream", strings.NewReader(`{"product_ids": [101, 202]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := decodeFrames(t, w.Body.String())
	require.GreaterOrEqual(t, len(events), 4) // init + 2 updates + complete

	assert.Equal(t, sse.EventInit, events[0].Type)
	assert.Equal(t, sse.EventComplete, events[len(events)-1].Type)

	// init lista os dois produtos, na ordem do request
	initData := events[0].Data.(map[string]interface{})
	products := initData["products"].([]interface{})
	require.Len(t, products, 2)
	first := products[0].(map[string]interface{})
	assert.Equal(t, float64(101), first["product_id"])
	assert.Equal(t, "Tênis Azul", first["product_name"])

	// complete traz os contadores finais
	completeData := events[len(events)-1].Data.(map[string]interface{})
	assert.Equal(t, float64(2), completeData["total"])
	assert.Equal(t, float64(1), completeData["success_count"])
	assert.Equal(t, float64(1), completeData["error_count"])
}

func TestBatchHandler_Get_NotFound(t *testing.T) {
	router, _ := setupOptimizeRouter(t, &fakeRunner{})

	req := httptest.NewRequest("GET", "/api/v1/batches/nao-existe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchHandler_GetAfterStream(t *testing.T) {
	router, _ := setupOptimizeRouter(t, &fakeRunner{})

	req := httptest.NewRequest("POST", "/api/v1/optimize-batch/stream", strings.NewReader(`{"product_ids": [101]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	events := decodeFrames(t, w.Body.String())
	initData := events[0].Data.(map[string]interface{})
	batchID := initData["batch_id"].(string)

	req = httptest.NewRequest("GET", "/api/v1/batches/"+batchID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Status       string `json:"status"`
			Total        int    `json:"total"`
			SuccessCount int    `json:"success_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Data.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.SuccessCount)
}
