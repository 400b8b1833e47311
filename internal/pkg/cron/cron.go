package cron

import (
	"log"
	"time"

	"github.com/catalogia/pim_go_server/internal/repository"
)

// Service remove periodicamente registros de lote finalizados que já passaram
// da janela de retenção
type Service struct {
	batchRepo *repository.BatchJobRepository
	retention time.Duration
	interval  time.Duration
	stopChan  chan struct{}
}

func NewService(batchRepo *repository.BatchJobRepository, retentionHours, intervalMinutes int) *Service {
	if retentionHours <= 0 {
		retentionHours = 24
	}
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &Service{
		batchRepo: batchRepo,
		retention: time.Duration(retentionHours) * time.Hour,
		interval:  time.Duration(intervalMinutes) * time.Minute,
		stopChan:  make(chan struct{}),
	}
}

// Start inicia a limpeza periódica
func (s *Service) Start() {
	go s.run()
	log.Println("Cron service started (batch record cleanup)")
}

// Stop encerra a limpeza periódica
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

func (s *Service) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *Service) cleanup() {
	deleted, err := s.batchRepo.DeleteExpired(s.retention)
	if err != nil {
		log.Printf("Batch cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Batch cleanup: removed %d expired records", deleted)
	}
}

// RunNow executa uma passada de limpeza imediatamente (cmd/cleanup e testes)
func (s *Service) RunNow() (int64, error) {
	return s.batchRepo.DeleteExpired(s.retention)
}
