package worker

import (
	"context"
	"log"

	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/queue"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/service"
	"github.com/catalogia/pim_go_server/internal/sse"
)

// Processor consome lotes da fila e executa a pipeline. O progresso não vai
// para um stream aqui: os painéis acompanham via pub/sub + WebSocket.
type Processor struct {
	optService *service.OptimizationService
	batchRepo  *repository.BatchJobRepository
}

func NewProcessor(optService *service.OptimizationService, batchRepo *repository.BatchJobRepository) *Processor {
	return &Processor{
		optService: optService,
		batchRepo:  batchRepo,
	}
}

// Process executa um lote retirado da fila
func (p *Processor) Process(ctx context.Context, msg *queue.BatchMessage) error {
	log.Printf("Processing batch %s (%d products, mode=%s)", msg.BatchID, len(msg.ProductIDs), msg.Mode)

	job, err := p.batchRepo.GetByID(msg.BatchID)
	if err != nil {
		log.Printf("Batch %s: record not found, skipping: %v", msg.BatchID, err)
		return err
	}

	mode := pipeline.ParseMode(msg.Mode)
	return p.optService.RunBatch(ctx, job, msg.ProductIDs, mode, sse.NopSink{})
}
