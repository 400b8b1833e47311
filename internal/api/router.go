package api

import (
	"github.com/gin-gonic/gin"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/api/handler"
	"github.com/catalogia/pim_go_server/internal/api/middleware"
)

type Router struct {
	productHandler   *handler.ProductHandler
	optimizeHandler  *handler.OptimizeHandler
	batchHandler     *handler.BatchHandler
	stepHandler      *handler.StepHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	productHandler *handler.ProductHandler,
	optimizeHandler *handler.OptimizeHandler,
	batchHandler *handler.BatchHandler,
	stepHandler *handler.StepHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		productHandler:   productHandler,
		optimizeHandler:  optimizeHandler,
		batchHandler:     batchHandler,
		stepHandler:      stepHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket do painel de acompanhamento
		api.GET("/ws", r.websocketHandler.Handle)

		// Catálogo
		products := api.Group("/products")
		{
			products.GET("", r.productHandler.List)
			products.GET("/:id", r.productHandler.Get)
			products.POST("/import", r.productHandler.Import)

			// Passos individuais da pipeline (fluxo produto a produto da UI)
			products.POST("/:id/analyze-images", r.stepHandler.AnalyzeImages)
			products.POST("/:id/generate-title", r.stepHandler.GenerateTitle)
			products.POST("/:id/generate-description", r.stepHandler.GenerateDescription)
			products.POST("/:id/generate-characteristics", r.stepHandler.GenerateCharacteristics)
			products.POST("/:id/sync-anymarket", r.stepHandler.SyncAnymarket)
		}

		// Lotes de otimização
		api.POST("/optimize-batch", r.optimizeHandler.EnqueueBatch)
		api.POST("/optimize-batch/stream", r.optimizeHandler.StreamBatch)

		batches := api.Group("/batches")
		{
			batches.GET("", r.batchHandler.List)
			batches.GET("/:id", r.batchHandler.Get)
		}
	}

	return engine
}
