package dto

// ProductListItem item da listagem do catálogo
type ProductListItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RefID        string `json:"ref_id,omitempty"`
	BrandName    string `json:"brand_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	IsActive     bool   `json:"is_active"`
	HasTitle     bool   `json:"has_title"`
	HasAnalysis  bool   `json:"has_analysis"`
	UpdatedAt    string `json:"updated_at"`
}

// ProductDetail detalhe do produto com conteúdo gerado
type ProductDetail struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	RefID           string            `json:"ref_id,omitempty"`
	BrandName       string            `json:"brand_name,omitempty"`
	CategoryName    string            `json:"category_name,omitempty"`
	CategoryVtexID  *int64            `json:"category_vtex_id,omitempty"`
	IsActive        bool              `json:"is_active"`
	Images          []string          `json:"images"`
	Generated       map[string]string `json:"generated"` // kind -> conteúdo
	AnymarketID     string            `json:"anymarket_id,omitempty"`
	LastSyncedAt    string            `json:"last_synced_at,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

// ImportRequest corpo do POST /products/import
type ImportRequest struct {
	FromPage int `json:"from_page"`
	ToPage   int `json:"to_page"`
}

// ImportResponse resultado da importação VTEX
type ImportResponse struct {
	Imported int `json:"imported"`
	Skus     int `json:"skus"`
	Errors   int `json:"errors"`
}
