package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/model"
)

// TestProduct cria um produto de teste
func TestProduct(t *testing.T, db *gorm.DB, id int64, opts ...func(*model.Product)) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:       id,
		Name:     fmt.Sprintf("Produto Teste %d", id),
		RefID:    fmt.Sprintf("REF-%d", id),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(product)
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return product
}

// WithName define o nome do produto
func WithName(name string) func(*model.Product) {
	return func(p *model.Product) {
		p.Name = name
	}
}

// WithCategory vincula o produto a uma categoria já criada
func WithCategory(categoryID int64) func(*model.Product) {
	return func(p *model.Product) {
		p.CategoryID = &categoryID
	}
}

// WithBrand vincula o produto a uma marca já criada
func WithBrand(brandID int64) func(*model.Product) {
	return func(p *model.Product) {
		p.BrandID = &brandID
	}
}

// TestCategory cria uma categoria de teste
func TestCategory(t *testing.T, db *gorm.DB, id, vtexID int64, name string) *model.Category {
	t.Helper()

	category := &model.Category{
		ID:     id,
		VtexID: vtexID,
		Name:   name,
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return category
}

// TestBrand cria uma marca de teste
func TestBrand(t *testing.T, db *gorm.DB, id int64, name string) *model.Brand {
	t.Helper()

	brand := &model.Brand{
		ID:   id,
		Name: name,
	}

	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("Failed to create test brand: %v", err)
	}

	return brand
}

// TestSku cria um SKU de teste
func TestSku(t *testing.T, db *gorm.DB, id, productID int64, refID string) *model.Sku {
	t.Helper()

	sku := &model.Sku{
		ID:        id,
		ProductID: productID,
		Name:      fmt.Sprintf("SKU %d", id),
		RefID:     refID,
		IsActive:  true,
	}

	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("Failed to create test sku: %v", err)
	}

	return sku
}

// TestImage cria uma imagem de teste
func TestImage(t *testing.T, db *gorm.DB, productID, skuID int64, url string, isMain bool) *model.ProductImage {
	t.Helper()

	image := &model.ProductImage{
		ProductID: productID,
		SkuID:     skuID,
		URL:       url,
		IsMain:    isMain,
	}

	if err := db.Create(image).Error; err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	return image
}

// TestContent cria conteúdo gerado de teste
func TestContent(t *testing.T, db *gorm.DB, productID int64, kind, content string) *model.GeneratedContent {
	t.Helper()

	gc := &model.GeneratedContent{
		ProductID: productID,
		Kind:      kind,
		Content:   content,
		Model:     "gpt-test",
	}

	if err := db.Create(gc).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}

	return gc
}

// TestBatchJob cria um registro de lote de teste
func TestBatchJob(t *testing.T, db *gorm.DB, id, status string, opts ...func(*model.BatchJob)) *model.BatchJob {
	t.Helper()

	job := &model.BatchJob{
		ID:     id,
		Status: status,
		Mode:   "force_regenerate",
		Total:  1,
	}

	for _, opt := range opts {
		opt(job)
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test batch job: %v", err)
	}

	return job
}

// WithCompletedAt define o fim do lote (para testes de retenção)
func WithCompletedAt(at time.Time) func(*model.BatchJob) {
	return func(j *model.BatchJob) {
		j.CompletedAt = &at
	}
}
