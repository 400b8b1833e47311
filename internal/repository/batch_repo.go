package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/model"
)

type BatchJobRepository struct {
	db *gorm.DB
}

func NewBatchJobRepository(db *gorm.DB) *BatchJobRepository {
	return &BatchJobRepository{db: db}
}

func (r *BatchJobRepository) Create(job *model.BatchJob) error {
	return r.db.Create(job).Error
}

func (r *BatchJobRepository) GetByID(id string) (*model.BatchJob, error) {
	var job model.BatchJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *BatchJobRepository) Update(job *model.BatchJob) error {
	return r.db.Save(job).Error
}

func (r *BatchJobRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&model.BatchJob{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateProgress atualiza os contadores e o passo corrente durante o lote
func (r *BatchJobRepository) UpdateProgress(id string, productID int64, step string, successCount, errorCount int) error {
	return r.db.Model(&model.BatchJob{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_product_id": productID,
		"current_step":       step,
		"success_count":      successCount,
		"error_count":        errorCount,
	}).Error
}

func (r *BatchJobRepository) List(page, pageSize int) ([]*model.BatchJob, int64, error) {
	var jobs []*model.BatchJob
	var total int64

	if err := r.db.Model(&model.BatchJob{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

// DeleteExpired remove lotes finalizados cujo término passou da janela de
// retenção. A janela conta a partir de completed_at, não da criação: um lote
// que ficou muito tempo na fila ainda permanece consultável após terminar.
func (r *BatchJobRepository) DeleteExpired(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("status IN ? AND completed_at IS NOT NULL AND completed_at < ?",
		[]string{model.BatchStatusCompleted, model.BatchStatusFailed, model.BatchStatusCancelled},
		cutoff,
	).Delete(&model.BatchJob{})
	return result.RowsAffected, result.Error
}
