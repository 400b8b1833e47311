package anymarket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/catalogia/pim_go_server/config"
)

// Product representação mínima do produto no Anymarket
type Product struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	SkuPartner  string      `json:"skus,omitempty"`
}

// UpdatePayload campos enviados no PATCH de sincronização
type UpdatePayload struct {
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	Characteristics []Characteristic `json:"characteristics,omitempty"`
}

type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg *config.AnymarketConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anymarket.com.br/v2"
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchProductBySku resolve o ID Anymarket a partir do SKU parceiro (primeira
// chamada da sub-sequência de sync)
func (c *Client) FetchProductBySku(ctx context.Context, skuPartnerID string) (string, error) {
	url := fmt.Sprintf("%s/products?partnerId=%s", c.baseURL, skuPartnerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anymarket request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anymarket api error (%d): %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Content []Product `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode anymarket response: %w", err)
	}

	if len(payload.Content) == 0 {
		return "", fmt.Errorf("produto não encontrado no Anymarket (partnerId=%s)", skuPartnerID)
	}
	return payload.Content[0].ID.String(), nil
}

// UpdateProduct envia o conteúdo gerado para o produto Anymarket (segunda
// chamada da sub-sequência de sync)
func (c *Client) UpdateProduct(ctx context.Context, anymarketID string, payload *UpdatePayload) error {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, anymarketID)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anymarket request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("anymarket api error (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("gumgaToken", c.token)
	req.Header.Set("Accept", "application/json")
}
