package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"grampos/internal/app/client/config"
	"grampos/internal/domain/catalog"
	"grampos/internal/domain/sale"
	"grampos/internal/domain/worker"
)

// RejectedError marks a sale the server received and explicitly refused
// (HTTP 2xx with success=false). A rejection is entry-specific: the drain
// skips past it instead of halting. Every other failure mode is a network
// failure and halts the cycle.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("sale rejected by server: %s", e.Message)
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func newHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "GramPOS-Client/1.0",
	}
}

// HealthCheck probes server availability. Used as the online/offline signal.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchProducts pulls the full catalog, bypassing any HTTP-level cache.
// The response may be a bare array or a {success, products} wrapper.
func (h *httpClient) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	return catalog.ParsePayload(body)
}

// PushSale submits one queued sale to the sales-ingestion endpoint.
//
// Returns nil when the ledger confirmed the sale, *RejectedError when the
// server answered 2xx with success=false, and a plain error for every
// network-level failure (transport error, non-2xx, malformed body).
func (h *httpClient) PushSale(ctx context.Context, sl *sale.Sale) error {
	payload, err := json.Marshal(sl)
	if err != nil {
		return fmt.Errorf("failed to marshal sale: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/v1/sales", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Content-Type", "application/json")

	h.log.Debug("submitting sale", "invoice_id", sl.InvoiceID, "bill_no", sl.BillNo)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("sale submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sale submission returned status %d", resp.StatusCode)
	}

	var out struct {
		Success bool   `json:"success"`
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read ingestion response: %w", err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("malformed ingestion response: %w", err)
	}

	if !out.Success {
		return &RejectedError{Message: out.Message}
	}
	return nil
}

// FetchWorkers pulls the staff directory for offline caching.
func (h *httpClient) FetchWorkers(ctx context.Context) ([]worker.Worker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/workers", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("worker fetch returned status %d", resp.StatusCode)
	}

	var out worker.Payload
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("malformed worker response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("worker fetch not successful: %s", out.Message)
	}
	return out.Workers, nil
}
