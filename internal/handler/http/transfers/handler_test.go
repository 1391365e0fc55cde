package transfers_http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"bankengine/internal/app/currency"
	"bankengine/internal/app/transfers"
	"bankengine/internal/domain"
	"bankengine/internal/mocks"
)

func newTestServer(t *testing.T) (*mocks.MockService, *currency.RateTable, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	rates := currency.NewRateTable()

	router := NewRouter([]string{"http://localhost:5173"}, 5*time.Second)
	RegisterRoutes(router, svc, rates, http.NotFoundHandler(), zap.NewNop())
	return svc, rates, router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func sampleRecord(status domain.TransferStatus) *domain.TransferRecord {
	receiver := "b"
	return &domain.TransferRecord{
		ID:              "tr-1",
		Kind:            domain.PaymentDirectTransfer,
		Amount:          decimal.RequireFromString("200"),
		Currency:        domain.EUR,
		DebitAmount:     decimal.RequireFromString("200"),
		DebitCurrency:   domain.EUR,
		Status:          status,
		ReferenceNumber: "ABCDEFGH12",
		Description:     "rent",
		SenderID:        "a",
		ReceiverID:      &receiver,
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransfer(t *testing.T) {
	svc, _, h := newTestServer(t)
	svc.EXPECT().Transfer(gomock.Any(), transfers.DirectTransferRequest{
		SenderID:    "a",
		ReceiverKey: "b",
		Amount:      decimal.RequireFromString("200.00"),
		Description: "rent",
	}).Return(sampleRecord(domain.TransferReceived), nil)

	rec := do(t, h, http.MethodPost, "/transfers", `{"sender_id":"a","receiver_key":"b","amount":"200.00","description":"rent"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[TransferResponse](t, rec)
	if resp.Amount != "200.00" || resp.Currency != "EUR" || resp.Status != "RECEIVED" || resp.ReferenceNumber != "ABCDEFGH12" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ReceiverID == nil || *resp.ReceiverID != "b" {
		t.Fatalf("receiver_id = %v", resp.ReceiverID)
	}
}

func TestCreateTransferErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("receiver: %w", domain.ErrNotFound), http.StatusNotFound, domain.CodeNotFound},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, domain.CodeInsufficientFunds},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusUnprocessableEntity, domain.CodeCurrencyMismatch},
		{"invalid description", domain.ErrInvalidDescription, http.StatusUnprocessableEntity, domain.CodeInvalidDescription},
		{"reference exhausted", domain.ErrInvalidReferenceNumber, http.StatusInternalServerError, domain.CodeInvalidReferenceNumber},
		{"rate unavailable", domain.ErrRateUnavailable, http.StatusServiceUnavailable, domain.CodeRateUnavailable},
		{"persistence", fmt.Errorf("commit: %w", domain.ErrPersistenceFailure), http.StatusServiceUnavailable, domain.CodePersistenceFailure},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, domain.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, h := newTestServer(t)
			svc.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := do(t, h, http.MethodPost, "/transfers", `{"sender_id":"a","receiver_key":"b","amount":"10","description":"x"}`)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Error != tt.code {
				t.Fatalf("error code = %q, want %q", resp.Error, tt.code)
			}
			if resp.Transfer != nil {
				t.Fatalf("unexpected transfer in error response")
			}
		})
	}
}

func TestCreateTransferDenied(t *testing.T) {
	svc, _, h := newTestServer(t)
	denied := sampleRecord(domain.TransferDenied)
	svc.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		Return(denied, &transfers.DeniedError{Reason: "Receiver instrument is blocked."})

	rec := do(t, h, http.MethodPost, "/transfers", `{"sender_id":"a","receiver_key":"b","amount":"10","description":"x"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Error != domain.CodeInvalidState {
		t.Fatalf("error code = %q", resp.Error)
	}
	if resp.Transfer == nil || resp.Transfer.Status != "DENIED" {
		t.Fatalf("denied record missing from response: %+v", resp)
	}
}

func TestCreateTransferBadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"malformed json":   `{"sender_id":`,
		"bad amount":       `{"sender_id":"a","receiver_key":"b","amount":"ten"}`,
		"missing receiver": `{"sender_id":"a","amount":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, h := newTestServer(t)
			rec := do(t, h, http.MethodPost, "/transfers", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreatePurchase(t *testing.T) {
	t.Run("with amount", func(t *testing.T) {
		svc, _, h := newTestServer(t)
		amount := decimal.RequireFromString("12.50")
		category := domain.MerchantCafe
		svc.EXPECT().Purchase(gomock.Any(), transfers.CardPurchaseRequest{PayerID: "card-1", Amount: &amount, Description: "coffee"}).
			Return(&domain.TransferRecord{
				ID: "tr-2", Kind: domain.PaymentCardPurchase,
				Amount: amount, Currency: domain.EUR, DebitAmount: amount, DebitCurrency: domain.EUR,
				Status: domain.TransferReceived, ReferenceNumber: "QWERTYUI1", Description: "coffee",
				SenderID: "card-1", MerchantCategory: &category,
			}, nil)

		rec := do(t, h, http.MethodPost, "/cards/card-1/purchases", `{"amount":"12.50","description":"coffee"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		resp := decode[TransferResponse](t, rec)
		if resp.MerchantCategory == nil || *resp.MerchantCategory != "CAFE" || resp.ReceiverID != nil {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		svc, _, h := newTestServer(t)
		svc.EXPECT().Purchase(gomock.Any(), transfers.CardPurchaseRequest{PayerID: "card-1"}).
			Return(nil, fmt.Errorf("payer: %w", domain.ErrInvalidState))

		rec := do(t, h, http.MethodPost, "/cards/card-1/purchases", "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestGetEndpoints(t *testing.T) {
	svc, _, h := newTestServer(t)
	svc.EXPECT().GetTransfer(gomock.Any(), "tr-1").Return(sampleRecord(domain.TransferReceived), nil)
	svc.EXPECT().GetTransferByReference(gomock.Any(), "NOPE").Return(nil, domain.ErrNotFound)
	svc.EXPECT().GetInstrument(gomock.Any(), "a").Return(&domain.Instrument{
		ID: "a", Kind: domain.InstrumentAccount, Currency: domain.CZK,
		Balance: decimal.RequireFromString("1500.5"), Status: domain.InstrumentActive,
	}, nil)

	if rec := do(t, h, http.MethodGet, "/transfers/tr-1", ""); rec.Code != http.StatusOK {
		t.Fatalf("GET /transfers/tr-1 = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/transfers/reference/NOPE", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /transfers/reference/NOPE = %d", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/instruments/a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /instruments/a = %d", rec.Code)
	}
	inst := decode[InstrumentResponse](t, rec)
	if inst.Balance != "1500.50" || inst.Currency != "CZK" {
		t.Fatalf("unexpected instrument %+v", inst)
	}
}

func TestGetRates(t *testing.T) {
	_, rates, h := newTestServer(t)

	if rec := do(t, h, http.MethodGet, "/rates", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("empty table should answer 503, got %d", rec.Code)
	}

	snap, err := currency.NewSnapshot(domain.CZK, map[domain.Currency]decimal.Decimal{
		domain.EUR: decimal.RequireFromString("0.04"),
	}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	rates.Swap(snap)

	rec := do(t, h, http.MethodGet, "/rates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[RatesResponse](t, rec)
	if resp.Base != "CZK" || resp.Rates["EUR"] != "0.04" || resp.Rates["CZK"] != "1" {
		t.Fatalf("unexpected rates %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	_, _, h := newTestServer(t)
	if rec := do(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", rec.Code)
	}
}
