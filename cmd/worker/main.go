package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/database"
	"github.com/catalogia/pim_go_server/internal/integration/anymarket"
	"github.com/catalogia/pim_go_server/internal/integration/openai"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/pubsub"
	"github.com/catalogia/pim_go_server/internal/pkg/queue"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/service"
	"github.com/catalogia/pim_go_server/internal/worker"
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
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	batchQueue := queue.NewQueue(rdb, cfg.Queue.BatchQueue)
	publisher := pubsub.NewPublisher(rdb)

	anymarketClient := anymarket.NewClient(&cfg.Anymarket)
	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to init OpenAI client: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchJobRepository(db)

	pipe := pipeline.NewDefault(productRepo, openaiClient, anymarketClient)
	optService := service.NewOptimizationService(batchRepo, productRepo, pipe, batchQueue, publisher, cfg)
	processor := worker.NewProcessor(optService, batchRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := batchQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop batch: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // timeout, fila vazia
					}

					log.Printf("Worker %d: processing batch %s", workerID, msg.BatchID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: batch %s failed: %v", workerID, msg.BatchID, err)
					}
				}
			}
		}(i)
	}

	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
