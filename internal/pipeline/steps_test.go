package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogia/pim_go_server/internal/integration/anymarket"
	"github.com/catalogia/pim_go_server/internal/model"
	"github.com/catalogia/pim_go_server/internal/repository"
	"github.com/catalogia/pim_go_server/internal/testutil"
)

// fakeLLM gerador controlável para os passos de conteúdo
type fakeLLM struct {
	textResponse  string
	imageResponse string
	err           error
	textCalls     int
	imageCalls    int
}

func (f *fakeLLM) ModelName() string { return "gpt-test" }

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.textCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.textResponse, nil
}

func (f *fakeLLM) AnalyzeImages(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	f.imageCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.imageResponse, nil
}

// fakeMarketplace cliente Anymarket controlável
type fakeMarketplace struct {
	anymarketID string
	fetchErr    error
	updateErr   error
	updated     *anymarket.UpdatePayload
	updatedID   string
}

func (f *fakeMarketplace) FetchProductBySku(ctx context.Context, skuPartnerID string) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.anymarketID, nil
}

func (f *fakeMarketplace) UpdateProduct(ctx context.Context, anymarketID string, payload *anymarket.UpdatePayload) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = anymarketID
	f.updated = payload
	return nil
}

func TestImageAnalysisStep_NoCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101) // sem categoria

	step := NewImageAnalysisStep(repo, &fakeLLM{})
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Equal(t, "Produto sem categoria cadastrada", result.Message)
}

func TestImageAnalysisStep_NoImages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestCategory(t, db, 10, 500, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithCategory(10))

	step := NewImageAnalysisStep(repo, &fakeLLM{})
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Equal(t, "Produto sem imagens para analisar", result.Message)
}

func TestImageAnalysisStep_ProductNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	step := NewImageAnalysisStep(repo, &fakeLLM{})
	result := step.Execute(context.Background(), 999, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Equal(t, "Produto não encontrado", result.Message)
}

func TestImageAnalysisStep_Success_PersistsAnalysis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestCategory(t, db, 10, 500, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithCategory(10))
	testutil.TestSku(t, db, 1001, 101, "REF-1001")
	testutil.TestImage(t, db, 101, 1001, "https://img.example.com/1.jpg", true)
	testutil.TestImage(t, db, 101, 1001, "https://img.example.com/2.jpg", false)

	llm := &fakeLLM{imageResponse: "Tênis esportivo azul, solado de borracha"}
	step := NewImageAnalysisStep(repo, llm)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	require.True(t, result.Success)
	assert.Equal(t, 1, llm.imageCalls)

	saved, err := repo.GetContent(101, model.ContentImageAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "Tênis esportivo azul, solado de borracha", saved.Content)
	assert.Equal(t, "gpt-test", saved.Model)
}

func TestImageAnalysisStep_ReuseExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestCategory(t, db, 10, 500, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithCategory(10))
	testutil.TestContent(t, db, 101, model.ContentImageAnalysis, "análise anterior")

	llm := &fakeLLM{imageResponse: "nova análise"}
	step := NewImageAnalysisStep(repo, llm)
	result := step.Execute(context.Background(), 101, ModeReuse)

	require.True(t, result.Success)
	assert.Equal(t, 0, llm.imageCalls, "should not call the vision model when reusing")

	saved, err := repo.GetContent(101, model.ContentImageAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "análise anterior", saved.Content)
}

func TestImageAnalysisStep_LLMFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestCategory(t, db, 10, 500, "Calçados")
	testutil.TestProduct(t, db, 101, testutil.WithCategory(10))
	testutil.TestSku(t, db, 1001, 101, "REF-1001")
	testutil.TestImage(t, db, 101, 1001, "https://img.example.com/1.jpg", true)

	step := NewImageAnalysisStep(repo, &fakeLLM{err: errors.New("connection refused")})
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Erro crítico:")
	assert.Contains(t, result.Message, "connection refused")
}

func TestTitleStep_GeneratesAndOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestContent(t, db, 101, model.ContentTitle, "título antigo")

	llm := &fakeLLM{textResponse: "Tênis Esportivo Azul Masculino"}
	step := NewTitleStep(repo, llm)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	require.True(t, result.Success)
	assert.Equal(t, "Título gerado com sucesso", result.Message)

	// regerar substitui a linha existente, nunca duplica
	saved, err := repo.GetContent(101, model.ContentTitle)
	require.NoError(t, err)
	assert.Equal(t, "Tênis Esportivo Azul Masculino", saved.Content)

	var count int64
	db.Model(&model.GeneratedContent{}).Where("product_id = ? AND kind = ?", 101, model.ContentTitle).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTitleStep_ReuseSkipsGeneration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestContent(t, db, 101, model.ContentTitle, "título existente")

	llm := &fakeLLM{textResponse: "novo título"}
	step := NewTitleStep(repo, llm)
	result := step.Execute(context.Background(), 101, ModeReuse)

	require.True(t, result.Success)
	assert.Equal(t, "Conteúdo existente reaproveitado", result.Message)
	assert.Equal(t, 0, llm.textCalls)
}

func TestAnymarketSyncStep_FullSync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestSku(t, db, 1001, 101, "REF-1001")
	testutil.TestContent(t, db, 101, model.ContentTitle, "Título Gerado")
	testutil.TestContent(t, db, 101, model.ContentDescription, "<p>Descrição</p>")
	testutil.TestContent(t, db, 101, model.ContentCharacteristics, `[{"name":"Cor","value":"Azul"}]`)

	marketplace := &fakeMarketplace{anymarketID: "555"}
	step := NewAnymarketSyncStep(repo, marketplace)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	require.True(t, result.Success)
	assert.Equal(t, "Sincronização com Anymarket concluída", result.Message)
	assert.Equal(t, "555", marketplace.updatedID)
	require.NotNil(t, marketplace.updated)
	assert.Equal(t, "Título Gerado", marketplace.updated.Title)
	assert.Equal(t, "<p>Descrição</p>", marketplace.updated.Description)
	require.Len(t, marketplace.updated.Characteristics, 1)
	assert.Equal(t, "Cor", marketplace.updated.Characteristics[0].Name)

	// vínculo fica persistido para os próximos syncs
	link, err := repo.GetAnymarketLink(101)
	require.NoError(t, err)
	assert.Equal(t, "555", link.AnymarketID)
	assert.NotNil(t, link.LastSyncedAt)
}

func TestAnymarketSyncStep_UsesPersistedLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestContent(t, db, 101, model.ContentTitle, "Título")
	require.NoError(t, repo.UpsertAnymarketLink(&model.AnymarketLink{ProductID: 101, AnymarketID: "777"}))

	// fetch falharia; o vínculo persistido evita a busca
	marketplace := &fakeMarketplace{fetchErr: errors.New("should not be called")}
	step := NewAnymarketSyncStep(repo, marketplace)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	require.True(t, result.Success)
	assert.Equal(t, "777", marketplace.updatedID)
}

func TestAnymarketSyncStep_NoGeneratedContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestSku(t, db, 1001, 101, "REF-1001")

	marketplace := &fakeMarketplace{anymarketID: "555"}
	step := NewAnymarketSyncStep(repo, marketplace)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Equal(t, "Nenhum conteúdo gerado para sincronizar", result.Message)
	assert.Nil(t, marketplace.updated)
}

func TestAnymarketSyncStep_InvalidCharacteristicsJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestSku(t, db, 1001, 101, "REF-1001")
	testutil.TestContent(t, db, 101, model.ContentCharacteristics, "não é JSON")

	marketplace := &fakeMarketplace{anymarketID: "555"}
	step := NewAnymarketSyncStep(repo, marketplace)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "características geradas em formato inválido")
}

func TestAnymarketSyncStep_ProductNotLinked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewProductRepository(db)
	testutil.TestProduct(t, db, 101)
	testutil.TestSku(t, db, 1001, 101, "REF-1001")

	marketplace := &fakeMarketplace{fetchErr: errors.New("404")}
	step := NewAnymarketSyncStep(repo, marketplace)
	result := step.Execute(context.Background(), 101, ModeForceRegenerate)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Produto não vinculado ao Anymarket")
}
