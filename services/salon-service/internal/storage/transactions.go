package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/transactions"
)

const transactionColumns = `
	t.id, t.customer_id, t.service_id, t.amount, t.payment_method,
	t.transaction_date, t.created_at, t.updated_at,
	s.name, s.price, u.full_name, u.email`

const transactionFrom = `
	FROM transactions t
	LEFT JOIN services s ON s.id = t.service_id
	LEFT JOIN users u ON u.id = t.customer_id`

type TransactionRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewTransactionRepository(pool *db.Pool, outboxRepo *outbox.Repository) *TransactionRepository {
	return &TransactionRepository{pool: pool, outbox: outboxRepo}
}

var _ transactions.Store = (*TransactionRepository)(nil)

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var (
		t             model.Transaction
		serviceName   *string
		servicePrice  *int64
		customerName  *string
		customerEmail *string
	)
	err := row.Scan(&t.ID, &t.CustomerID, &t.ServiceID, (*int64)(&t.Amount), &t.PaymentMethod,
		&t.TransactionDate, &t.CreatedAt, &t.UpdatedAt,
		&serviceName, &servicePrice, &customerName, &customerEmail)
	if err != nil {
		return model.Transaction{}, err
	}
	if serviceName != nil {
		t.Service = &model.ServiceSummary{ID: t.ServiceID, Name: *serviceName}
		if servicePrice != nil {
			t.Service.Price = model.Money(*servicePrice)
		}
	}
	if customerName != nil {
		t.Customer = &model.UserSummary{ID: t.CustomerID, FullName: *customerName}
		if customerEmail != nil {
			t.Customer.Email = *customerEmail
		}
	}
	return t, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, t model.Transaction, evt outbox.Event) error {
	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions
				(id, customer_id, service_id, amount, payment_method, transaction_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, t.ID, t.CustomerID, t.ServiceID, int64(t.Amount), string(t.PaymentMethod),
			t.TransactionDate, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return mapErr(err, "transaction")
		}
		return r.outbox.Insert(ctx, tx, evt)
	})
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (model.Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT `+transactionColumns+transactionFrom+` WHERE t.id = $1`, id))
	if err != nil {
		return model.Transaction{}, mapErr(err, "transaction")
	}
	return t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, fn func(*model.Transaction) error) (model.Transaction, error) {
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		var t model.Transaction
		err := tx.QueryRow(ctx, `
			SELECT id, amount, payment_method, transaction_date
			FROM transactions
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(&t.ID, (*int64)(&t.Amount), &t.PaymentMethod, &t.TransactionDate)
		if err != nil {
			return mapErr(err, "transaction")
		}
		if err := fn(&t); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE transactions
			SET amount = $2, payment_method = $3, transaction_date = $4, updated_at = $5
			WHERE id = $1
		`, t.ID, int64(t.Amount), string(t.PaymentMethod), t.TransactionDate, t.UpdatedAt)
		return mapErr(err, "transaction")
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return r.Get(ctx, id)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "transaction")
	}
	return mustAffect(tag, "transaction")
}

func (r *TransactionRepository) List(ctx context.Context, page model.Page) ([]model.Transaction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "transaction")
	}
	items, err := r.query(ctx, `SELECT `+transactionColumns+transactionFrom+`
		ORDER BY t.transaction_date DESC
		LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string, dr model.DateRange) ([]model.Transaction, error) {
	var w filter
	w.add("t.customer_id = $%d", customerID)
	addRange(&w, "t.transaction_date", dr)
	return r.query(ctx, `SELECT `+transactionColumns+transactionFrom+w.where()+` ORDER BY t.transaction_date DESC`, w.args...)
}

func (r *TransactionRepository) ListByService(ctx context.Context, serviceID string) ([]model.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.service_id = $1
		ORDER BY t.transaction_date DESC`, serviceID)
}

func (r *TransactionRepository) ListByMethod(ctx context.Context, method model.PaymentMethod) ([]model.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.payment_method = $1
		ORDER BY t.transaction_date DESC`, string(method))
}

func (r *TransactionRepository) Total(ctx context.Context, dr model.DateRange) (model.TransactionTotal, error) {
	return transactionTotal(ctx, r.pool, dr)
}

func transactionTotal(ctx context.Context, pool *db.Pool, dr model.DateRange) (model.TransactionTotal, error) {
	var (
		w     filter
		total model.TransactionTotal
	)
	addRange(&w, "transaction_date", dr)
	err := pool.QueryRow(ctx, `SELECT COALESCE(sum(amount), 0)::bigint, count(*) FROM transactions`+w.where(), w.args...).
		Scan((*int64)(&total.TotalAmount), &total.TotalTransactions)
	if err != nil {
		return model.TransactionTotal{}, mapErr(err, "transaction")
	}
	return total, nil
}

func (r *TransactionRepository) query(ctx context.Context, q string, args ...any) ([]model.Transaction, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err, "transaction")
	}
	defer rows.Close()

	items := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// addRange restricts column to the half-open range dr.
func addRange(w *filter, column string, dr model.DateRange) {
	if dr.IsZero() {
		return
	}
	w.add(fmt.Sprintf("%s >= $%%d", column), dr.From)
	w.add(fmt.Sprintf("%s < $%%d", column), dr.To)
}
