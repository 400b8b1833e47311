package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/pubsub"
	"github.com/catalogia/pim_go_server/internal/pkg/queue"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/sse"
)

var (
	ErrEmptyProductList = errors.New("Lista de produtos vazia ou ausente")
	ErrBatchNotFound    = errors.New("Lote não encontrado")
	ErrQueueUnavailable = errors.New("Fila de processamento indisponível")
)

// Runner abstrai a pipeline para o driver de lote (e para os testes)
type Runner interface {
	Run(ctx context.Context, productID int64, productName string, mode pipeline.Mode, obs pipeline.Observer) *pipeline.ProductResult
}

// ProgressPublisher abstrai o pub/sub de progresso (nil quando sem Redis)
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, msg *pubsub.ProgressMessage) error
}

// OptimizationService é o driver de lote: valida a entrada, monta os
// placeholders e processa os produtos um a um, na ordem recebida, nunca em
// paralelo. O antigo sleep fixo de 100ms entre produtos virou um rate limiter
// configurável.
type OptimizationService struct {
	batchRepo   *repository.BatchJobRepository
	productRepo *repository.ProductRepository
	runner      Runner
	batchQueue  *queue.Queue
	publisher   ProgressPublisher
	limiter     *rate.Limiter
	cfg         *config.Config
}

func NewOptimizationService(
	batchRepo *repository.BatchJobRepository,
	productRepo *repository.ProductRepository,
	runner Runner,
	batchQueue *queue.Queue,
	publisher ProgressPublisher,
	cfg *config.Config,
) *OptimizationService {
	var limiter *rate.Limiter
	if cfg.Pipeline.ProductsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Pipeline.ProductsPerSecond), 1)
	}

	return &OptimizationService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		runner:      runner,
		batchQueue:  batchQueue,
		publisher:   publisher,
		limiter:     limiter,
		cfg:         cfg,
	}
}

// CreateBatch valida a lista e cria o registro persistido do lote
func (s *OptimizationService) CreateBatch(productIDs []int64, mode pipeline.Mode, status string) (*model.BatchJob, error) {
	if len(productIDs) == 0 {
		return nil, ErrEmptyProductList
	}

	job := &model.BatchJob{
		ID:     uuid.NewString(),
		Status: status,
		Mode:   mode.String(),
		Total:  len(productIDs),
	}
	if err := s.batchRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// EnqueueBatch envia o lote para o worker em background
func (s *OptimizationService) EnqueueBatch(ctx context.Context, job *model.BatchJob, productIDs []int64) error {
	if s.batchQueue == nil {
		return ErrQueueUnavailable
	}
	return s.batchQueue.Push(ctx, &queue.BatchMessage{
		BatchID:    job.ID,
		ProductIDs: productIDs,
		Mode:       job.Mode,
	})
}

// RunBatch processa o lote inteiro, emitindo eventos no sink conforme avança.
// O contexto é verificado entre produtos e entre passos: cancelamento (stream
// desconectado, shutdown do worker) interrompe o lote e marca o registro.
func (s *OptimizationService) RunBatch(ctx context.Context, job *model.BatchJob, productIDs []int64, mode pipeline.Mode, sink sse.Sink) error {
	if sink == nil {
		sink = sse.NopSink{}
	}
	if len(productIDs) == 0 {
		return ErrEmptyProductList
	}

	start := time.Now()
	startedAt := start
	job.Status = model.BatchStatusRunning
	job.StartedAt = &startedAt
	if err := s.batchRepo.Update(job); err != nil {
		return s.failBatch(ctx, job, sink, err)
	}

	// Placeholders na ordem de entrada; o nome é best-effort, o ID serve de
	// rótulo quando a busca falha
	results := make([]*pipeline.ProductResult, len(productIDs))
	for i, id := range productIDs {
		name, err := s.productRepo.GetName(id)
		if err != nil || name == "" {
			name = fmt.Sprintf("Produto %d", id)
		}
		results[i] = pipeline.NewPendingResult(id, name)
	}

	if err := sink.Send(sse.EventInit, sse.InitData{BatchID: job.ID, Products: results}); err != nil {
		log.Printf("Batch %s: failed to send init event: %v", job.ID, err)
	}
	s.publish(ctx, &pubsub.ProgressMessage{
		BatchID: job.ID,
		Status:  model.BatchStatusRunning,
		Total:   job.Total,
	})

	obs := &batchObserver{ctx: ctx, svc: s, job: job, sink: sink}

	for i, id := range productIDs {
		if i > 0 && s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return s.cancelBatch(ctx, job, results, start)
			}
		}
		if ctx.Err() != nil {
			return s.cancelBatch(ctx, job, results, start)
		}

		result := s.runner.Run(ctx, id, results[i].ProductName, mode, obs)
		results[i] = result

		if ctx.Err() != nil {
			return s.cancelBatch(ctx, job, results, start)
		}

		if result.Success {
			job.SuccessCount++
		} else {
			job.ErrorCount++
		}

		if err := s.batchRepo.UpdateProgress(job.ID, id, "", job.SuccessCount, job.ErrorCount); err != nil {
			log.Printf("Batch %s: failed to update progress: %v", job.ID, err)
		}

		if err := sink.Send(sse.EventUpdate, sse.UpdateData{
			Result:       result,
			SuccessCount: job.SuccessCount,
			ErrorCount:   job.ErrorCount,
			Processed:    i + 1,
			Total:        job.Total,
		}); err != nil {
			log.Printf("Batch %s: failed to send update event: %v", job.ID, err)
		}

		s.publish(ctx, &pubsub.ProgressMessage{
			BatchID:      job.ID,
			ProductID:    id,
			ProductName:  result.ProductName,
			Status:       "product_done",
			SuccessCount: job.SuccessCount,
			ErrorCount:   job.ErrorCount,
			Total:        job.Total,
			Message:      result.Message,
		})
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return s.failBatch(ctx, job, sink, err)
	}

	completedAt := time.Now()
	job.Status = model.BatchStatusCompleted
	job.Results = string(payload)
	job.CurrentStep = ""
	job.CompletedAt = &completedAt
	job.ElapsedMs = completedAt.Sub(start).Milliseconds()
	if err := s.batchRepo.Update(job); err != nil {
		log.Printf("Batch %s: failed to persist final state: %v", job.ID, err)
	}

	if err := sink.Send(sse.EventComplete, sse.CompleteData{
		BatchID:      job.ID,
		Total:        job.Total,
		SuccessCount: job.SuccessCount,
		ErrorCount:   job.ErrorCount,
		Results:      results,
		ElapsedMs:    job.ElapsedMs,
	}); err != nil {
		log.Printf("Batch %s: failed to send complete event: %v", job.ID, err)
	}

	s.publish(ctx, &pubsub.ProgressMessage{
		BatchID:      job.ID,
		Status:       model.BatchStatusCompleted,
		SuccessCount: job.SuccessCount,
		ErrorCount:   job.ErrorCount,
		Total:        job.Total,
	})

	log.Printf("Batch %s: completed in %dms (%d ok, %d errors)",
		job.ID, job.ElapsedMs, job.SuccessCount, job.ErrorCount)
	return nil
}

// GetBatch estado persistido de um lote
func (s *OptimizationService) GetBatch(id string) (*dto.BatchStatusResponse, error) {
	job, err := s.batchRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return buildBatchStatus(job), nil
}

// ListBatches lotes recentes, mais novos primeiro
func (s *OptimizationService) ListBatches(page, pageSize int) ([]*dto.BatchStatusResponse, int64, error) {
	jobs, total, err := s.batchRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.BatchStatusResponse, len(jobs))
	for i, job := range jobs {
		items[i] = buildBatchStatus(job)
	}
	return items, total, nil
}

// cancelBatch grava o estado parcial quando o contexto é cancelado.
// Nenhum evento é emitido: o cancelamento típico é o cliente ter desconectado.
func (s *OptimizationService) cancelBatch(ctx context.Context, job *model.BatchJob, results []*pipeline.ProductResult, start time.Time) error {
	payload, _ := json.Marshal(results)
	completedAt := time.Now()
	job.Status = model.BatchStatusCancelled
	job.Results = string(payload)
	job.CompletedAt = &completedAt
	job.ElapsedMs = completedAt.Sub(start).Milliseconds()
	if err := s.batchRepo.Update(job); err != nil {
		log.Printf("Batch %s: failed to persist cancelled state: %v", job.ID, err)
	}

	s.publish(context.Background(), &pubsub.ProgressMessage{
		BatchID:      job.ID,
		Status:       model.BatchStatusCancelled,
		SuccessCount: job.SuccessCount,
		ErrorCount:   job.ErrorCount,
		Total:        job.Total,
	})

	log.Printf("Batch %s: cancelled after %d of %d products", job.ID, job.SuccessCount+job.ErrorCount, job.Total)
	return ctx.Err()
}

// failBatch trata falha de nível de lote: emite o evento error e encerra
func (s *OptimizationService) failBatch(ctx context.Context, job *model.BatchJob, sink sse.Sink, cause error) error {
	completedAt := time.Now()
	job.Status = model.BatchStatusFailed
	job.ErrorMessage = cause.Error()
	job.CompletedAt = &completedAt
	if err := s.batchRepo.Update(job); err != nil {
		log.Printf("Batch %s: failed to persist failed state: %v", job.ID, err)
	}

	if err := sink.Send(sse.EventError, sse.ErrorData{Message: cause.Error()}); err != nil {
		log.Printf("Batch %s: failed to send error event: %v", job.ID, err)
	}

	s.publish(ctx, &pubsub.ProgressMessage{
		BatchID: job.ID,
		Status:  model.BatchStatusFailed,
		Total:   job.Total,
		Error:   cause.Error(),
	})
	return cause
}

func (s *OptimizationService) publish(ctx context.Context, msg *pubsub.ProgressMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProgress(ctx, msg); err != nil {
		log.Printf("Batch %s: failed to publish progress: %v", msg.BatchID, err)
	}
}

func buildBatchStatus(job *model.BatchJob) *dto.BatchStatusResponse {
	resp := &dto.BatchStatusResponse{
		BatchID:          job.ID,
		Status:           job.Status,
		Mode:             job.Mode,
		Total:            job.Total,
		SuccessCount:     job.SuccessCount,
		ErrorCount:       job.ErrorCount,
		CurrentProductID: job.CurrentProductID,
		CurrentStep:      job.CurrentStep,
		ErrorMessage:     job.ErrorMessage,
		ElapsedMs:        job.ElapsedMs,
		CreatedAt:        job.CreatedAt.Format(time.RFC3339),
	}
	if job.StartedAt != nil {
		resp.StartedAt = job.StartedAt.Format(time.RFC3339)
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// batchObserver converte os callbacks da pipeline nos eventos progress e
// step_update do stream, além de manter o passo corrente no registro do lote
type batchObserver struct {
	ctx  context.Context
	svc  *OptimizationService
	job  *model.BatchJob
	sink sse.Sink
}

func (o *batchObserver) StepStarted(productID int64, stepName string) {
	if err := o.sink.Send(sse.EventProgress, sse.ProgressData{
		ProductID: productID,
		Step:      stepName,
		Message:   fmt.Sprintf("Executando %s...", pipeline.StepLabels[stepName]),
	}); err != nil {
		log.Printf("Batch %s: failed to send progress event: %v", o.job.ID, err)
	}

	if err := o.svc.batchRepo.UpdateProgress(o.job.ID, productID, stepName, o.job.SuccessCount, o.job.ErrorCount); err != nil {
		log.Printf("Batch %s: failed to update current step: %v", o.job.ID, err)
	}
}

func (o *batchObserver) StepFinished(productID int64, stepName string, result *pipeline.ProductResult) {
	if err := o.sink.Send(sse.EventStepUpdate, sse.StepUpdateData{
		ProductID: productID,
		Step:      stepName,
		Result:    result,
	}); err != nil {
		log.Printf("Batch %s: failed to send step_update event: %v", o.job.ID, err)
	}
}
