package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/integration/anymarket"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/repository"
)

// MarketplaceClient é o contrato com o Anymarket usado pelo passo de sync
type MarketplaceClient interface {
	FetchProductBySku(ctx context.Context, skuPartnerID string) (string, error)
	UpdateProduct(ctx context.Context, anymarketID string, payload *anymarket.UpdatePayload) error
}

// AnymarketSyncStep é o último passo: resolve o ID Anymarket do produto
// (busca ou vínculo persistido) e envia o conteúdo gerado.
type AnymarketSyncStep struct {
	repo   *repository.ProductRepository
	client MarketplaceClient
}

func NewAnymarketSyncStep(repo *repository.ProductRepository, client MarketplaceClient) *AnymarketSyncStep {
	return &AnymarketSyncStep{repo: repo, client: client}
}

func (s *AnymarketSyncStep) Name() string {
	return StepAnymarketSync
}

func (s *AnymarketSyncStep) Execute(ctx context.Context, productID int64, mode Mode) StepResult {
	anymarketID, err := s.resolveAnymarketID(ctx, productID)
	if err != nil {
		return StepResult{
			Message: fmt.Sprintf("Produto não vinculado ao Anymarket: %v", err),
			Error:   err.Error(),
		}
	}

	payload, err := s.buildPayload(productID)
	if err != nil {
		return criticalFailure(err)
	}
	if payload.Title == "" && payload.Description == "" && len(payload.Characteristics) == 0 {
		return StepResult{Message: "Nenhum conteúdo gerado para sincronizar"}
	}

	if err := s.client.UpdateProduct(ctx, anymarketID, payload); err != nil {
		return criticalFailure(err)
	}

	now := time.Now()
	if err := s.repo.UpsertAnymarketLink(&model.AnymarketLink{
		ProductID:    productID,
		AnymarketID:  anymarketID,
		LastSyncedAt: &now,
	}); err != nil {
		return criticalFailure(err)
	}

	return StepResult{Success: true, Message: "Sincronização com Anymarket concluída"}
}

// resolveAnymarketID usa o vínculo persistido ou busca pelo SKU parceiro
func (s *AnymarketSyncStep) resolveAnymarketID(ctx context.Context, productID int64) (string, error) {
	if link, err := s.repo.GetAnymarketLink(productID); err == nil {
		return link.AnymarketID, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	skus, err := s.repo.ListSkus(productID)
	if err != nil {
		return "", err
	}

	for _, sku := range skus {
		partnerID := sku.RefID
		if partnerID == "" {
			partnerID = fmt.Sprintf("%d", sku.ID)
		}
		if anymarketID, err := s.client.FetchProductBySku(ctx, partnerID); err == nil {
			return anymarketID, nil
		}
	}
	return "", fmt.Errorf("nenhum SKU do produto %d encontrado no Anymarket", productID)
}

func (s *AnymarketSyncStep) buildPayload(productID int64) (*anymarket.UpdatePayload, error) {
	payload := &anymarket.UpdatePayload{}

	if title, err := s.repo.GetContent(productID, model.ContentTitle); err == nil {
		payload.Title = title.Content
	}
	if desc, err := s.repo.GetContent(productID, model.ContentDescription); err == nil {
		payload.Description = desc.Content
	}
	if chars, err := s.repo.GetContent(productID, model.ContentCharacteristics); err == nil {
		var parsed []anymarket.Characteristic
		if err := json.Unmarshal([]byte(chars.Content), &parsed); err != nil {
			return nil, fmt.Errorf("características geradas em formato inválido: %w", err)
		}
		payload.Characteristics = parsed
	}

	return payload, nil
}
