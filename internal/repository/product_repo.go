package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalogia/pim_go_server/internal/model"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetName busca só o nome (usado pelo lote para montar os placeholders)
func (r *ProductRepository) GetName(id int64) (string, error) {
	var product model.Product
	err := r.db.Select("name").Where("id = ?", id).First(&product).Error
	if err != nil {
		return "", err
	}
	return product.Name, nil
}

func (r *ProductRepository) List(page, pageSize int, search string, brandID, categoryID int64) ([]*model.Product, int64, error) {
	var products []*model.Product
	var total int64

	query := r.db.Model(&model.Product{})
	if search != "" {
		query = query.Where("name LIKE ? OR ref_id LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if brandID > 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// Upsert grava o produto importado do VTEX (insere ou atualiza pelo ID)
func (r *ProductRepository) Upsert(product *model.Product) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "ref_id", "brand_id", "category_id", "is_active", "updated_at"}),
	}).Create(product).Error
}

func (r *ProductRepository) UpsertSku(sku *model.Sku) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_id", "name", "ean", "ref_id", "is_active", "updated_at"}),
	}).Create(sku).Error
}

func (r *ProductRepository) UpsertBrand(brand *model.Brand) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(brand).Error
}

func (r *ProductRepository) UpsertCategory(category *model.Category) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vtex_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "parent_id"}),
	}).Create(category).Error
}

// ReplaceImages troca as imagens de um produto pelas recém-importadas
func (r *ProductRepository) ReplaceImages(productID int64, images []*model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

func (r *ProductRepository) ListImages(productID int64) ([]*model.ProductImage, error) {
	var images []*model.ProductImage
	err := r.db.Where("product_id = ?", productID).
		Order("is_main DESC, position ASC").
		Find(&images).Error
	return images, err
}

func (r *ProductRepository) ListSkus(productID int64) ([]*model.Sku, error) {
	var skus []*model.Sku
	err := r.db.Where("product_id = ?", productID).Find(&skus).Error
	return skus, err
}

func (r *ProductRepository) GetBrand(id int64) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.Where("id = ?", id).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *ProductRepository) GetCategory(id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryVtexID resolve o ID de categoria VTEX de um produto.
// Retorna gorm.ErrRecordNotFound quando o produto não tem categoria,
// o que a análise de imagem trata como falha imediata.
func (r *ProductRepository) GetCategoryVtexID(productID int64) (int64, error) {
	product, err := r.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product.CategoryID == nil {
		return 0, gorm.ErrRecordNotFound
	}
	category, err := r.GetCategory(*product.CategoryID)
	if err != nil {
		return 0, err
	}
	return category.VtexID, nil
}

func (r *ProductRepository) GetContent(productID int64, kind string) (*model.GeneratedContent, error) {
	var content model.GeneratedContent
	err := r.db.Where("product_id = ? AND kind = ?", productID, kind).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// UpsertContent grava o conteúdo gerado; regerar substitui a linha existente
func (r *ProductRepository) UpsertContent(content *model.GeneratedContent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "model", "updated_at"}),
	}).Create(content).Error
}

func (r *ProductRepository) GetAnymarketLink(productID int64) (*model.AnymarketLink, error) {
	var link model.AnymarketLink
	err := r.db.Where("product_id = ?", productID).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ProductRepository) UpsertAnymarketLink(link *model.AnymarketLink) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"anymarket_id", "last_synced_at", "updated_at"}),
	}).Create(link).Error
}
