package storage

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/analytics"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

// AnalyticsRepository serves the dashboard's read-only queries.
type AnalyticsRepository struct {
	pool         *db.Pool
	services     *ServiceRepository
	transactions *TransactionRepository
}

func NewAnalyticsRepository(pool *db.Pool, services *ServiceRepository, transactions *TransactionRepository) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool, services: services, transactions: transactions}
}

var _ analytics.Store = (*AnalyticsRepository)(nil)

func (r *AnalyticsRepository) RevenueRows(ctx context.Context, dr model.DateRange) ([]analytics.RevenueRow, error) {
	var w filter
	addRange(&w, "transaction_date", dr)
	rows, err := r.pool.Query(ctx, `SELECT service_id, amount, transaction_date FROM transactions`+w.where()+` ORDER BY transaction_date`, w.args...)
	if err != nil {
		return nil, mapErr(err, "transaction")
	}
	defer rows.Close()

	var out []analytics.RevenueRow
	for rows.Next() {
		var row analytics.RevenueRow
		if err := rows.Scan(&row.ServiceID, (*int64)(&row.Amount), &row.At); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) Services(ctx context.Context) ([]model.Service, error) {
	return r.services.List(ctx, false)
}

// StatusCounts filters on the appointment's calendar date.
func (r *AnalyticsRepository) StatusCounts(ctx context.Context, dr model.DateRange) (map[model.AppointmentStatus]int, error) {
	var w filter
	if !dr.IsZero() {
		first, last := dr.Days()
		w.add("appointment_date >= $%d::date", first)
		w.add("appointment_date <= $%d::date", last)
	}
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM appointments`+w.where()+` GROUP BY status`, w.args...)
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	defer rows.Close()

	counts := map[model.AppointmentStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.AppointmentStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *AnalyticsRepository) CustomerSignups(ctx context.Context, dr model.DateRange) ([]time.Time, error) {
	var w filter
	w.add("role = $%d", string(model.RoleCustomer))
	addRange(&w, "created_at", dr)
	rows, err := r.pool.Query(ctx, `SELECT created_at FROM users`+w.where()+` ORDER BY created_at`, w.args...)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) CountUsers(ctx context.Context, role model.Role) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, mapErr(err, "user")
}

func (r *AnalyticsRepository) CountServices(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM services`).Scan(&n)
	return n, mapErr(err, "service")
}

func (r *AnalyticsRepository) CountAppointments(ctx context.Context, dr model.DateRange, status model.AppointmentStatus) (int, error) {
	var w filter
	addRange(&w, "created_at", dr)
	if status != "" {
		w.add("status = $%d", string(status))
	}
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`+w.where(), w.args...).Scan(&n)
	return n, mapErr(err, "appointment")
}

func (r *AnalyticsRepository) CountAppointmentsOn(ctx context.Context, date string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments WHERE appointment_date = $1::date`, date).Scan(&n)
	return n, mapErr(err, "appointment")
}

func (r *AnalyticsRepository) RevenueTotal(ctx context.Context, dr model.DateRange) (model.TransactionTotal, error) {
	return transactionTotal(ctx, r.pool, dr)
}

func (r *AnalyticsRepository) RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	return r.transactions.query(ctx, `SELECT `+transactionColumns+transactionFrom+`
		ORDER BY t.transaction_date DESC
		LIMIT $1`, limit)
}
