package main

import (
	"context"
	"fmt"
	"log"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/api"
	"github.com/catalogia/pim_go_server/internal/api/handler"
	"github.com/catalogia/pim_go_server/internal/database"
	"github.com/catalogia/pim_go_server/internal/integration/anymarket"
	"github.com/catalogia/pim_go_server/internal/integration/openai"
	"github.com/catalogia/pim_go_server/internal/integration/vtex"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/cron"
	"github.com/catalogia/pim_go_server/internal/pkg/pubsub"
	"github.com/catalogia/pim_go_server/internal/pkg/queue"
	"github.com/catalogia/pim_go_server/internal/pkg/ws"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	batchQueue := queue.NewQueue(rdb, cfg.Queue.BatchQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// Hub WebSocket dos painéis + ponte com o pub/sub: progresso publicado por
	// qualquer instância (inclusive o worker) chega aos painéis conectados aqui
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			if err := wsHub.Broadcast(&ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to broadcast progress: %v", err)
			}
		})
		if err != nil {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// Clientes externos
	vtexClient := vtex.NewClient(&cfg.VTEX)
	anymarketClient := anymarket.NewClient(&cfg.Anymarket)
	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to init OpenAI client: %v", err)
	}

	// Repository
	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchJobRepository(db)

	// Pipeline e services
	pipe := pipeline.NewDefault(productRepo, openaiClient, anymarketClient)
	productService := service.NewProductService(productRepo, vtexClient)
	optService := service.NewOptimizationService(batchRepo, productRepo, pipe, batchQueue, publisher, cfg)

	// Limpeza periódica dos registros de lote
	cronService := cron.NewService(batchRepo, cfg.Cleanup.RetentionHours, cfg.Cleanup.IntervalMinutes)
	cronService.Start()
	defer cronService.Stop()

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	optimizeHandler := handler.NewOptimizeHandler(optService, cfg)
	batchHandler := handler.NewBatchHandler(optService)
	stepHandler := handler.NewStepHandler(pipe, productRepo)
	websocketHandler := handler.NewWebSocketHandler(wsHub)

	router := api.NewRouter(
		productHandler,
		optimizeHandler,
		batchHandler,
		stepHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
