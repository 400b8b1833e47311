package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/pipeline"
	"github.com/catalogia/pim_go_server/internal/pkg/queue"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/service"
	"github.com/catalogia/pim_go_server/internal/testutil"
)

// okRunner aprova todo produto sem tocar em serviços externos
type okRunner struct{}

func (okRunner) Run(ctx context.Context, productID int64, productName string, mode pipeline.Mode, obs pipeline.Observer) *pipeline.ProductResult {
	result := pipeline.NewPendingResult(productID, productName)
	result.Success = true
	result.Message = pipeline.MsgCompleted
	return result
}

func TestProcessor_Process_CompletesQueuedBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	batchRepo := repository.NewBatchJobRepository(db)
	productRepo := repository.NewProductRepository(db)
	optService := service.NewOptimizationService(batchRepo, productRepo, okRunner{}, nil, nil, &config.Config{})

	job := testutil.TestBatchJob(t, db, "batch-1", model.BatchStatusQueued, func(j *model.BatchJob) {
		j.Total = 2
	})

	processor := NewProcessor(optService, batchRepo)
	err := processor.Process(context.Background(), &queue.BatchMessage{
		BatchID:    job.ID,
		ProductIDs: []int64{101, 202},
		Mode:       "force_regenerate",
	})
	require.NoError(t, err)

	saved, err := batchRepo.GetByID("batch-1")
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusCompleted, saved.Status)
	assert.Equal(t, 2, saved.SuccessCount)
	assert.NotEmpty(t, saved.Results)
}

func TestProcessor_Process_UnknownBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	batchRepo := repository.NewBatchJobRepository(db)
	productRepo := repository.NewProductRepository(db)
	optService := service.NewOptimizationService(batchRepo, productRepo, okRunner{}, nil, nil, &config.Config{})

	processor := NewProcessor(optService, batchRepo)
	err := processor.Process(context.Background(), &queue.BatchMessage{BatchID: "nao-existe"})
	assert.Error(t, err)
}
