package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/testutil"
)

func TestProductRepository_UpsertContent_ReplacesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestProduct(t, db, 101)

	require.NoError(t, repo.UpsertContent(&model.GeneratedContent{
		ProductID: 101, Kind: model.ContentTitle, Content: "primeiro", Model: "gpt-test",
	}))
	require.NoError(t, repo.UpsertContent(&model.GeneratedContent{
		ProductID: 101, Kind: model.ContentTitle, Content: "segundo", Model: "gpt-test",
	}))

	content, err := repo.GetContent(101, model.ContentTitle)
	require.NoError(t, err)
	assert.Equal(t, "segundo", content.Content)

	var count int64
	db.Model(&model.GeneratedContent{}).Where("product_id = ?", 101).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_GetCategoryVtexID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestCategory(t, db, 10, 987, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithCategory(10))
	testutil.TestProduct(t, db, 202) // sem categoria

	vtexID, err := repo.GetCategoryVtexID(101)
	require.NoError(t, err)
	assert.Equal(t, int64(987), vtexID)

	_, err = repo.GetCategoryVtexID(202)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_ReplaceImages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestSku(t, db, 1001, 101, "REF-1001")
	testutil.TestImage(t, db, 101, 1001, "https://img.example.com/old.jpg", true)

	err := repo.ReplaceImages(101, []*model.ProductImage{
		{ProductID: 101, SkuID: 1001, URL: "https://img.example.com/new1.jpg", IsMain: true},
		{ProductID: 101, SkuID: 1001, URL: "https://img.example.com/new2.jpg", Position: 1},
	})
	require.NoError(t, err)

	images, err := repo.ListImages(101)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.example.com/new1.jpg", images[0].URL) // principal primeiro
}

func TestProductRepository_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestProduct(t, db, 101, testutil.WithName("Tênis Azul"))
	testutil.TestProduct(t, db, 202, testutil.WithName("Camiseta Branca"))

	products, total, err := repo.List(1, 20, "Tênis", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, int64(101), products[0].ID)
}

func TestProductRepository_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestBrand(t, db, 7, "Nike")
	testutil.TestCategory(t, db, 3, 500, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithBrand(7), testutil.WithCategory(3))
	testutil.TestProduct(t, db, 202)

	products, total, err := repo.List(1, 20, "", 7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, int64(101), products[0].ID)

	_, total, err = repo.List(1, 20, "", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(1, 20, "", 7, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestProductRepository_UpsertAnymarketLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewProductRepository(db)
	testutil.TestProduct(t, db, 101)

	require.NoError(t, repo.UpsertAnymarketLink(&model.AnymarketLink{ProductID: 101, AnymarketID: "111"}))
	require.NoError(t, repo.UpsertAnymarketLink(&model.AnymarketLink{ProductID: 101, AnymarketID: "222"}))

	link, err := repo.GetAnymarketLink(101)
	require.NoError(t, err)
	assert.Equal(t, "222", link.AnymarketID)
}
