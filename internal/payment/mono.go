package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/metrics"
)

const defaultBaseURL = "https://api.monobank.ua"

// MonoClient talks to the monobank merchant API. Authentication is a
// merchant X-Token header on every request.
type MonoClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewMonoClient(token, baseURL string) *MonoClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &MonoClient{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type monoCreateRequest struct {
	Amount           int64                `json:"amount"`
	Ccy              int                  `json:"ccy"`
	MerchantPaymInfo monoMerchantPaymInfo `json:"merchantPaymInfo"`
	RedirectURL      string               `json:"redirectUrl"`
	WebHookURL       string               `json:"webHookUrl"`
	Validity         int                  `json:"validity"`
	PaymentType      string               `json:"paymentType"`
}

type monoMerchantPaymInfo struct {
	Reference   string `json:"reference"`
	Destination string `json:"destination"`
}

type monoCreateResponse struct {
	InvoiceID string `json:"invoiceId"`
	PageURL   string `json:"pageUrl"`
	ErrText   string `json:"errText"`
}

func (c *MonoClient) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreatedInvoice, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues("create_invoice").Observe(time.Since(start).Seconds())
	}()

	payload := monoCreateRequest{
		Amount: req.AmountMinor,
		Ccy:    req.CurrencyCode,
		MerchantPaymInfo: monoMerchantPaymInfo{
			Reference:   req.Reference,
			Destination: req.Destination,
		},
		RedirectURL: req.RedirectURL,
		WebHookURL:  req.WebhookURL,
		Validity:    req.ValiditySec,
		PaymentType: "debit",
	}

	var resp monoCreateResponse
	if err := c.do(ctx, http.MethodPost, "/api/merchant/invoice/create", payload, &resp); err != nil {
		return nil, err
	}
	if resp.InvoiceID == "" {
		return nil, fmt.Errorf("%w: response carries no invoiceId", domain.ErrGateway)
	}
	return &CreatedInvoice{InvoiceID: resp.InvoiceID, PageURL: resp.PageURL}, nil
}

type monoStatusResponse struct {
	InvoiceID string `json:"invoiceId"`
	Status    string `json:"status"`
}

func (c *MonoClient) InvoiceStatus(ctx context.Context, invoiceID string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues("invoice_status").Observe(time.Since(start).Seconds())
	}()

	path := "/api/merchant/invoice/status?invoiceId=" + url.QueryEscape(invoiceID)
	var resp monoStatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *MonoClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal gateway request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("X-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", domain.ErrGateway, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrGateway, err)
	}
	return nil
}
