package transactions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
)

type Store interface {
	Insert(ctx context.Context, txn model.Transaction, evt outbox.Event) error
	Get(ctx context.Context, id string) (model.Transaction, error)
	Update(ctx context.Context, id string, fn func(*model.Transaction) error) (model.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page model.Page) ([]model.Transaction, int, error)
	ListByCustomer(ctx context.Context, customerID string, r model.DateRange) ([]model.Transaction, error)
	ListByService(ctx context.Context, serviceID string) ([]model.Transaction, error)
	ListByMethod(ctx context.Context, method model.PaymentMethod) ([]model.Transaction, error)
	Total(ctx context.Context, r model.DateRange) (model.TransactionTotal, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

func NewService(store Store, logger *slog.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, logger: logger, now: time.Now, loc: loc}
}

type CreateInput struct {
	CustomerID      string
	ServiceID       string
	Amount          model.Money
	PaymentMethod   model.PaymentMethod
	TransactionDate string
}

type recordedPayload struct {
	TransactionID   string              `json:"transactionId"`
	CustomerID      string              `json:"customerId"`
	ServiceID       string              `json:"serviceId"`
	Amount          model.Money         `json:"amount"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
	TransactionDate time.Time           `json:"transactionDate"`
}

// Create records a completed payment. The service id is a weak reference and
// is not checked against the catalog.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Transaction, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	if in.CustomerID == "" || in.ServiceID == "" || in.Amount == 0 || in.PaymentMethod == "" || strings.TrimSpace(in.TransactionDate) == "" {
		return model.Transaction{}, apperr.Validation("userId, serviceId, amount, paymentMethod and transactionDate are required")
	}
	if err := checkAmount(in.Amount); err != nil {
		return model.Transaction{}, err
	}
	if !in.PaymentMethod.Valid() {
		return model.Transaction{}, apperr.Validation("paymentMethod must be one of cash, card, paypal, online")
	}
	when, err := s.parseDate(in.TransactionDate)
	if err != nil {
		return model.Transaction{}, err
	}

	now := s.now().UTC()
	txn := model.Transaction{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		ServiceID:       in.ServiceID,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		TransactionDate: when,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	evt, err := outbox.NewEvent("transaction", txn.ID, outbox.EventTransactionRecorded, recordedPayload{
		TransactionID:   txn.ID,
		CustomerID:      txn.CustomerID,
		ServiceID:       txn.ServiceID,
		Amount:          txn.Amount,
		PaymentMethod:   txn.PaymentMethod,
		TransactionDate: txn.TransactionDate,
	})
	if err != nil {
		return model.Transaction{}, err
	}
	if err := s.store.Insert(ctx, txn, evt); err != nil {
		return model.Transaction{}, err
	}
	s.logger.Info("transaction recorded", "transaction_id", txn.ID, "amount", txn.Amount.String(), "method", string(txn.PaymentMethod))
	return txn, nil
}

type UpdateInput struct {
	Amount          *model.Money
	PaymentMethod   *model.PaymentMethod
	TransactionDate *string
}

// Update corrects amount, payment method or date. Other fields are fixed.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (model.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return model.Transaction{}, apperr.Validation("transaction id is required")
	}
	if in.Amount != nil {
		if err := checkAmount(*in.Amount); err != nil {
			return model.Transaction{}, err
		}
	}
	if in.PaymentMethod != nil && !in.PaymentMethod.Valid() {
		return model.Transaction{}, apperr.Validation("paymentMethod must be one of cash, card, paypal, online")
	}
	var when time.Time
	if in.TransactionDate != nil {
		t, err := s.parseDate(*in.TransactionDate)
		if err != nil {
			return model.Transaction{}, err
		}
		when = t
	}
	return s.store.Update(ctx, id, func(t *model.Transaction) error {
		if in.Amount != nil {
			t.Amount = *in.Amount
		}
		if in.PaymentMethod != nil {
			t.PaymentMethod = *in.PaymentMethod
		}
		if in.TransactionDate != nil {
			t.TransactionDate = when
		}
		t.UpdatedAt = s.now().UTC()
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id string) (model.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return model.Transaction{}, apperr.Validation("transaction id is required")
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("transaction id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", "transaction_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, page model.Page) ([]model.Transaction, model.Pagination, error) {
	page = model.NewPage(page.Number, page.Size, model.DefaultPageSize)
	items, total, err := s.store.List(ctx, page)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.Paginate(page, total), nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID, startDate, endDate string) ([]model.Transaction, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, apperr.Validation("user id is required")
	}
	r, err := s.parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListByCustomer(ctx, customerID, r)
}

func (s *Service) ListByService(ctx context.Context, serviceID string) ([]model.Transaction, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, apperr.Validation("service id is required")
	}
	return s.store.ListByService(ctx, serviceID)
}

func (s *Service) ListByPaymentMethod(ctx context.Context, method model.PaymentMethod) ([]model.Transaction, error) {
	if !method.Valid() {
		return nil, apperr.Validation("invalid payment method")
	}
	return s.store.ListByMethod(ctx, method)
}

func (s *Service) Total(ctx context.Context, startDate, endDate string) (model.TransactionTotal, error) {
	r, err := s.parseRange(startDate, endDate)
	if err != nil {
		return model.TransactionTotal{}, err
	}
	return s.store.Total(ctx, r)
}

func (s *Service) parseRange(startDate, endDate string) (model.DateRange, error) {
	r, err := model.ParseDateRange(startDate, endDate, s.loc)
	if err != nil {
		return model.DateRange{}, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	return r, nil
}

func (s *Service) parseDate(raw string) (time.Time, error) {
	t, _, err := model.ParseInstant(raw, s.loc)
	if err != nil {
		return time.Time{}, apperr.Validation("transactionDate must be YYYY-MM-DD or RFC 3339")
	}
	return t.UTC(), nil
}

func checkAmount(m model.Money) error {
	if m <= 0 {
		return apperr.Validation("amount must be greater than zero")
	}
	return nil
}
