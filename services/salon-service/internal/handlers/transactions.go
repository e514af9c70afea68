package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/transactions"
)

type TransactionService interface {
	Create(ctx context.Context, in transactions.CreateInput) (model.Transaction, error)
	Update(ctx context.Context, id string, in transactions.UpdateInput) (model.Transaction, error)
	Get(ctx context.Context, id string) (model.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page model.Page) ([]model.Transaction, model.Pagination, error)
	ListByCustomer(ctx context.Context, customerID, startDate, endDate string) ([]model.Transaction, error)
	ListByService(ctx context.Context, serviceID string) ([]model.Transaction, error)
	ListByPaymentMethod(ctx context.Context, method model.PaymentMethod) ([]model.Transaction, error)
	Total(ctx context.Context, startDate, endDate string) (model.TransactionTotal, error)
}

type TransactionHandler struct {
	svc    TransactionService
	logger *slog.Logger
}

func NewTransactionHandler(svc TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, logger: logger}
}

type createTransactionRequest struct {
	UserID          string      `json:"userId" validate:"required"`
	ServiceID       string      `json:"serviceId" validate:"required"`
	Amount          model.Money `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string      `json:"paymentMethod" validate:"required,oneof=cash card paypal online"`
	TransactionDate string      `json:"transactionDate" validate:"required"`
}

type updateTransactionRequest struct {
	Amount          *model.Money `json:"amount" validate:"omitempty,gt=0"`
	PaymentMethod   *string      `json:"paymentMethod" validate:"omitempty,oneof=cash card paypal online"`
	TransactionDate *string      `json:"transactionDate"`
}

type transactionList struct {
	Transactions []model.Transaction `json:"transactions"`
	Pagination   model.Pagination    `json:"pagination"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	txn, err := h.svc.Create(r.Context(), transactions.CreateInput{
		CustomerID:      req.UserID,
		ServiceID:       req.ServiceID,
		Amount:          req.Amount,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, txn, "Transaction created successfully")
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	in := transactions.UpdateInput{Amount: req.Amount, TransactionDate: req.TransactionDate}
	if req.PaymentMethod != nil {
		m := model.PaymentMethod(*req.PaymentMethod)
		in.PaymentMethod = &m
	}
	txn, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, txn, "Transaction updated successfully")
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, txn, "Transaction fetched successfully")
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, nil, "Transaction deleted successfully")
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	items, pg, err := h.svc.List(r.Context(), page)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, transactionList{Transactions: items, Pagination: pg}, "Transactions fetched successfully")
}

func (h *TransactionHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.ListByCustomer(r.Context(), r.PathValue("userId"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "User transactions fetched successfully")
}

func (h *TransactionHandler) ListByService(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByService(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Service transactions fetched successfully")
}

func (h *TransactionHandler) ListByPaymentMethod(w http.ResponseWriter, r *http.Request) {
	method := model.PaymentMethod(strings.ToLower(r.PathValue("method")))
	items, err := h.svc.ListByPaymentMethod(r.Context(), method)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Transactions fetched successfully")
}

func (h *TransactionHandler) Total(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	total, err := h.svc.Total(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, total, "Total transactions fetched successfully")
}
