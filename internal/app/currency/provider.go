package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
)

// Provider fetches a fresh set of rates against base.
type Provider interface {
	Fetch(ctx context.Context, base domain.Currency) (*Snapshot, error)
}

type exchangeRateResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// HTTPProvider talks to an exchangerate-api compatible endpoint:
// GET {baseURL}/{apiKey}/latest/{base}.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		now:     time.Now,
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context, base domain.Currency) (*Snapshot, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", p.baseURL, p.apiKey, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call rates provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates provider returned status %d", resp.StatusCode)
	}

	var body exchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("rates provider returned result %q (%s)", body.Result, body.ErrorType)
	}
	if body.BaseCode != "" && !strings.EqualFold(body.BaseCode, string(base)) {
		return nil, fmt.Errorf("rates provider answered for base %s, asked for %s", body.BaseCode, base)
	}

	rates := make(map[domain.Currency]decimal.Decimal, len(domain.SupportedCurrencies()))
	for code, rate := range body.ConversionRates {
		c, err := domain.ParseCurrency(code)
		if err != nil {
			continue
		}
		rates[c] = rate
	}
	return NewSnapshot(base, rates, p.now().UTC())
}
