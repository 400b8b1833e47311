package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/catalogia/pim_go_server/config"
)

// Product payload de produto do catálogo VTEX (campos usados na importação)
type Product struct {
	ID           int64  `json:"Id"`
	Name         string `json:"Name"`
	RefID        string `json:"RefId"`
	BrandID      int64  `json:"BrandId"`
	CategoryID   int64  `json:"CategoryId"`
	IsActive     bool   `json:"IsActive"`
	LinkID       string `json:"LinkId"`
	Description  string `json:"Description"`
	BrandName    string `json:"BrandName"`
	CategoryName string `json:"CategoryName"`
}

type Sku struct {
	ID        int64  `json:"Id"`
	ProductID int64  `json:"ProductId"`
	Name      string `json:"Name"`
	RefID     string `json:"RefId"`
	EAN       string `json:"Ean"`
	IsActive  bool   `json:"IsActive"`
	Images    []SkuImage
}

type SkuImage struct {
	URL    string `json:"ImageUrl"`
	Label  string `json:"ImageName"`
	IsMain bool   `json:"IsMain"`
}

type Client struct {
	baseURL    string
	appKey     string
	appToken   string
	httpClient *http.Client
}

func NewClient(cfg *config.VTEXConfig) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("https://%s.%s.com.br", cfg.Account, cfg.Environment),
		appKey:     cfg.AppKey,
		appToken:   cfg.AppToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListProductIDs lista IDs de produto por página (API de catálogo)
func (c *Client) ListProductIDs(ctx context.Context, page, pageSize int) ([]int64, error) {
	from := (page-1)*pageSize + 1
	to := page * pageSize
	url := fmt.Sprintf("%s/api/catalog_system/pvt/products/GetProductAndSkuIds?_from=%d&_to=%d", c.baseURL, from, to)

	var payload struct {
		Data map[string][]int64 `json:"data"`
	}
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(payload.Data))
	for idStr := range payload.Data {
		var id int64
		if _, err := fmt.Sscanf(idStr, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetProduct busca um produto pelo ID
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	url := fmt.Sprintf("%s/api/catalog/pvt/product/%d", c.baseURL, productID)

	var product Product
	if err := c.get(ctx, url, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetSkusByProduct busca os SKUs de um produto, com imagens
func (c *Client) GetSkusByProduct(ctx context.Context, productID int64) ([]*Sku, error) {
	url := fmt.Sprintf("%s/api/catalog_system/pvt/sku/stockkeepingunitByProductId/%d", c.baseURL, productID)

	var skus []*Sku
	if err := c.get(ctx, url, &skus); err != nil {
		return nil, err
	}

	for _, sku := range skus {
		images, err := c.getSkuImages(ctx, sku.ID)
		if err != nil {
			continue // imagem é best-effort na importação
		}
		sku.Images = images
	}
	return skus, nil
}

func (c *Client) getSkuImages(ctx context.Context, skuID int64) ([]SkuImage, error) {
	url := fmt.Sprintf("%s/api/catalog/pvt/stockkeepingunit/%d/file", c.baseURL, skuID)

	var images []SkuImage
	if err := c.get(ctx, url, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-VTEX-API-AppKey", c.appKey)
	req.Header.Set("X-VTEX-API-AppToken", c.appToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vtex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vtex api error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode vtex response: %w", err)
	}
	return nil
}
