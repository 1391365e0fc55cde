package transfers_http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankengine/internal/app/currency"
	"bankengine/internal/app/transfers"
	"bankengine/internal/domain"
)

type SnapshotReader interface {
	Current() *currency.Snapshot
}

type TransferHandler struct {
	service transfers.Service
	rates   SnapshotReader
	logger  *zap.Logger
}

func NewTransferHandler(s transfers.Service, rates SnapshotReader, l *zap.Logger) *TransferHandler {
	return &TransferHandler{service: s, rates: rates, logger: l}
}

type CreateTransferRequest struct {
	SenderID    string          `json:"sender_id"`
	ReceiverKey string          `json:"receiver_key"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type CreatePurchaseRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description"`
}

type TransferResponse struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	Amount           string  `json:"amount"`
	Currency         string  `json:"currency"`
	DebitAmount      string  `json:"debit_amount"`
	DebitCurrency    string  `json:"debit_currency"`
	Status           string  `json:"status"`
	ReferenceNumber  string  `json:"reference_number"`
	Description      string  `json:"description"`
	SenderID         string  `json:"sender_id"`
	ReceiverID       *string `json:"receiver_id,omitempty"`
	MerchantCategory *string `json:"merchant_category,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type InstrumentResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	Status   string `json:"status"`
}

type RatesResponse struct {
	Base      string            `json:"base"`
	FetchedAt string            `json:"fetched_at"`
	Rates     map[string]string `json:"rates"`
}

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Transfer *TransferResponse `json:"transfer,omitempty"`
}

func (h *TransferHandler) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateTransfer", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.SenderID) == "" || strings.TrimSpace(req.ReceiverKey) == "" {
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "sender_id and receiver_key are required", nil)
		return
	}

	record, err := h.service.Transfer(r.Context(), transfers.DirectTransferRequest{
		SenderID:    req.SenderID,
		ReceiverKey: req.ReceiverKey,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, r, err, record)
		return
	}
	h.writeJSON(w, http.StatusCreated, toTransferResponse(record))
}

func (h *TransferHandler) CreatePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	var req CreatePurchaseRequest
	// An empty body asks for a random amount and the default description.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid request body for CreatePurchase", zap.String("card_id", cardID), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	record, err := h.service.Purchase(r.Context(), transfers.CardPurchaseRequest{
		PayerID:     cardID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, r, err, nil)
		return
	}
	h.writeJSON(w, http.StatusCreated, toTransferResponse(record))
}

func (h *TransferHandler) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, nil)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransferResponse(record))
}

func (h *TransferHandler) GetTransferByReferenceHandler(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetTransferByReference(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		h.handleServiceError(w, r, err, nil)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransferResponse(record))
}

func (h *TransferHandler) GetInstrumentHandler(w http.ResponseWriter, r *http.Request) {
	inst, err := h.service.GetInstrument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, nil)
		return
	}
	h.writeJSON(w, http.StatusOK, InstrumentResponse{
		ID:       inst.ID,
		Kind:     string(inst.Kind),
		Currency: string(inst.Currency),
		Balance:  inst.Balance.StringFixed(inst.Currency.MinorUnits()),
		Status:   string(inst.Status),
	})
}

func (h *TransferHandler) GetRatesHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.rates.Current()
	if snap == nil {
		h.writeError(w, http.StatusServiceUnavailable, domain.CodeRateUnavailable, "No exchange rates loaded yet", nil)
		return
	}
	resp := RatesResponse{
		Base:      string(snap.Base),
		FetchedAt: snap.FetchedAt.UTC().Format(time.RFC3339),
		Rates:     make(map[string]string, len(snap.Rates)),
	}
	for c, rate := range snap.Rates {
		resp.Rates[string(c)] = rate.String()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *TransferHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, denied *domain.TransferRecord) {
	code := domain.ErrorCode(err)
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.String("code", code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Warn("Request rejected", fields...)
	}

	var transfer *TransferResponse
	if denied != nil {
		resp := toTransferResponse(denied)
		transfer = &resp
	}
	message := err.Error()
	if status >= http.StatusInternalServerError && code == domain.CodeInternal {
		message = "Internal server error"
	}
	h.writeError(w, status, code, message, transfer)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidReferenceNumber):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrRateUnavailable), errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusServiceUnavailable
	case domain.IsValidationError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func toTransferResponse(rec *domain.TransferRecord) TransferResponse {
	resp := TransferResponse{
		ID:              rec.ID,
		Kind:            string(rec.Kind),
		Amount:          rec.Amount.StringFixed(rec.Currency.MinorUnits()),
		Currency:        string(rec.Currency),
		DebitAmount:     rec.DebitAmount.StringFixed(rec.DebitCurrency.MinorUnits()),
		DebitCurrency:   string(rec.DebitCurrency),
		Status:          string(rec.Status),
		ReferenceNumber: rec.ReferenceNumber,
		Description:     rec.Description,
		SenderID:        rec.SenderID,
		ReceiverID:      rec.ReceiverID,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rec.MerchantCategory != nil {
		c := string(*rec.MerchantCategory)
		resp.MerchantCategory = &c
	}
	return resp
}

func (h *TransferHandler) writeError(w http.ResponseWriter, status int, code, message string, transfer *TransferResponse) {
	h.writeJSON(w, status, ErrorResponse{Error: code, Message: message, Transfer: transfer})
}

func (h *TransferHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
