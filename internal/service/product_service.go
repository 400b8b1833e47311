package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/integration/vtex"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/model/dto"
	"github.com/catalogia/pim_go_server/internal/repository"
)

var (
	ErrProductNotFound  = errors.New("Produto não encontrado")
	ErrInvalidPageRange = errors.New("Intervalo de páginas inválido")
)

// CatalogSource abstrai o catálogo VTEX (o cliente real nos binários, um fake
// nos testes)
type CatalogSource interface {
	ListProductIDs(ctx context.Context, page, pageSize int) ([]int64, error)
	GetProduct(ctx context.Context, productID int64) (*vtex.Product, error)
	GetSkusByProduct(ctx context.Context, productID int64) ([]*vtex.Sku, error)
}

const importPageSize = 50

// ProductService importação e consulta do catálogo local
type ProductService struct {
	repo    *repository.ProductRepository
	catalog CatalogSource
}

func NewProductService(repo *repository.ProductRepository, catalog CatalogSource) *ProductService {
	return &ProductService{
		repo:    repo,
		catalog: catalog,
	}
}

// Import percorre as páginas do catálogo VTEX e grava produtos, SKUs e
// imagens no banco local. Falha de um produto não aborta a importação.
func (s *ProductService) Import(ctx context.Context, fromPage, toPage int) (*dto.ImportResponse, error) {
	if fromPage <= 0 || toPage < fromPage {
		return nil, ErrInvalidPageRange
	}

	result := &dto.ImportResponse{}
	for page := fromPage; page <= toPage; page++ {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		ids, err := s.catalog.ListProductIDs(ctx, page, importPageSize)
		if err != nil {
			return result, err
		}
		if len(ids) == 0 {
			break // fim do catálogo
		}

		for _, id := range ids {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			skus, err := s.importProduct(ctx, id)
			if err != nil {
				log.Printf("Import: product %d failed: %v", id, err)
				result.Errors++
				continue
			}
			result.Imported++
			result.Skus += skus
		}
	}

	log.Printf("Import: %d products, %d skus, %d errors", result.Imported, result.Skus, result.Errors)
	return result, nil
}

func (s *ProductService) importProduct(ctx context.Context, productID int64) (int, error) {
	remote, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	product := &model.Product{
		ID:       remote.ID,
		Name:     remote.Name,
		RefID:    remote.RefID,
		IsActive: remote.IsActive,
	}

	if remote.BrandID > 0 {
		brand := &model.Brand{ID: remote.BrandID, Name: remote.BrandName}
		if err := s.repo.UpsertBrand(brand); err != nil {
			return 0, err
		}
		product.BrandID = &brand.ID
	}

	if remote.CategoryID > 0 {
		// o ID de categoria VTEX serve de chave local também
		category := &model.Category{ID: remote.CategoryID, VtexID: remote.CategoryID, Name: remote.CategoryName}
		if err := s.repo.UpsertCategory(category); err != nil {
			return 0, err
		}
		product.CategoryID = &category.ID
	}

	if err := s.repo.Upsert(product); err != nil {
		return 0, err
	}

	skus, err := s.catalog.GetSkusByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	var images []*model.ProductImage
	for _, remoteSku := range skus {
		sku := &model.Sku{
			ID:        remoteSku.ID,
			ProductID: productID,
			Name:      remoteSku.Name,
			EAN:       remoteSku.EAN,
			RefID:     remoteSku.RefID,
			IsActive:  remoteSku.IsActive,
		}
		if err := s.repo.UpsertSku(sku); err != nil {
			return 0, err
		}

		for pos, img := range remoteSku.Images {
			images = append(images, &model.ProductImage{
				SkuID:     remoteSku.ID,
				ProductID: productID,
				URL:       img.URL,
				Label:     img.Label,
				Position:  pos,
				IsMain:    img.IsMain,
			})
		}
	}

	if err := s.repo.ReplaceImages(productID, images); err != nil {
		return 0, err
	}
	return len(skus), nil
}

// List produtos paginados com indicadores de conteúdo gerado
func (s *ProductService) List(page, pageSize int, search string, brandID, categoryID int64) ([]*dto.ProductListItem, int64, error) {
	products, total, err := s.repo.List(page, pageSize, search, brandID, categoryID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ProductListItem, len(products))
	for i, p := range products {
		item := &dto.ProductListItem{
			ID:        p.ID,
			Name:      p.Name,
			RefID:     p.RefID,
			IsActive:  p.IsActive,
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		}
		if p.BrandID != nil {
			if brand, err := s.repo.GetBrand(*p.BrandID); err == nil {
				item.BrandName = brand.Name
			}
		}
		if p.CategoryID != nil {
			if category, err := s.repo.GetCategory(*p.CategoryID); err == nil {
				item.CategoryName = category.Name
			}
		}
		if _, err := s.repo.GetContent(p.ID, model.ContentTitle); err == nil {
			item.HasTitle = true
		}
		if _, err := s.repo.GetContent(p.ID, model.ContentImageAnalysis); err == nil {
			item.HasAnalysis = true
		}
		items[i] = item
	}
	return items, total, nil
}

// GetDetail produto com imagens, conteúdo gerado e vínculo Anymarket
func (s *ProductService) GetDetail(id int64) (*dto.ProductDetail, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	detail := &dto.ProductDetail{
		ID:        product.ID,
		Name:      product.Name,
		RefID:     product.RefID,
		IsActive:  product.IsActive,
		Generated: make(map[string]string),
		CreatedAt: product.CreatedAt.Format(time.RFC3339),
		UpdatedAt: product.UpdatedAt.Format(time.RFC3339),
	}

	if product.BrandID != nil {
		if brand, err := s.repo.GetBrand(*product.BrandID); err == nil {
			detail.BrandName = brand.Name
		}
	}
	if product.CategoryID != nil {
		if category, err := s.repo.GetCategory(*product.CategoryID); err == nil {
			detail.CategoryName = category.Name
			detail.CategoryVtexID = &category.VtexID
		}
	}

	images, err := s.repo.ListImages(id)
	if err != nil {
		return nil, err
	}
	detail.Images = make([]string, len(images))
	for i, img := range images {
		detail.Images[i] = img.URL
	}

	kinds := []string{model.ContentImageAnalysis, model.ContentTitle, model.ContentDescription, model.ContentCharacteristics}
	for _, kind := range kinds {
		if content, err := s.repo.GetContent(id, kind); err == nil {
			detail.Generated[kind] = content.Content
		}
	}

	if link, err := s.repo.GetAnymarketLink(id); err == nil {
		detail.AnymarketID = link.AnymarketID
		if link.LastSyncedAt != nil {
			detail.LastSyncedAt = link.LastSyncedAt.Format(time.RFC3339)
		}
	}

	return detail, nil
}
