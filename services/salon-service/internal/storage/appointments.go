package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/appointments"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
)

const appointmentColumns = `
	a.id, a.customer_id, COALESCE(a.staff_id::text, ''), a.service_id,
	a.appointment_date::text, a.appointment_time, a.status, a.price, a.duration,
	a.notes, a.cancellation_reason, a.cancelled_at, a.created_at, a.updated_at`

// summaryColumns are NULL when the referenced service or customer is gone.
const summaryColumns = `
	s.name, s.price, u.full_name, u.email`

type AppointmentRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outbox: outboxRepo}
}

var _ appointments.Store = (*AppointmentRepository)(nil)

func scanAppointment(row pgx.Row, extra ...any) (model.Appointment, error) {
	var a model.Appointment
	dest := []any{
		&a.ID, &a.CustomerID, &a.StaffID, &a.ServiceID,
		&a.AppointmentDate, &a.AppointmentTime, &a.Status, (*int64)(&a.Price), &a.Duration,
		&a.Notes, &a.CancellationReason, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

// scanWithSummaries scans appointmentColumns followed by summaryColumns.
func scanWithSummaries(row pgx.Row) (model.Appointment, error) {
	var (
		serviceName   *string
		servicePrice  *int64
		customerName  *string
		customerEmail *string
	)
	a, err := scanAppointment(row, &serviceName, &servicePrice, &customerName, &customerEmail)
	if err != nil {
		return model.Appointment{}, err
	}
	if serviceName != nil {
		a.Service = &model.ServiceSummary{ID: a.ServiceID, Name: *serviceName}
		if servicePrice != nil {
			a.Service.Price = model.Money(*servicePrice)
		}
	}
	if customerName != nil {
		a.Customer = &model.UserSummary{ID: a.CustomerID, FullName: *customerName}
		if customerEmail != nil {
			a.Customer.Email = *customerEmail
		}
	}
	return a, nil
}

func (r *AppointmentRepository) Insert(ctx context.Context, a model.Appointment, evt outbox.Event) error {
	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments
				(id, customer_id, staff_id, service_id, appointment_date, appointment_time,
				 status, price, duration, notes, created_at, updated_at)
			VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5::date, $6, $7, $8, $9, $10, $11, $12)
		`, a.ID, a.CustomerID, a.StaffID, a.ServiceID, a.AppointmentDate, a.AppointmentTime,
			string(a.Status), int64(a.Price), a.Duration, a.Notes, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return mapErr(err, "appointment")
		}
		return r.outbox.Insert(ctx, tx, evt)
	})
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1`, id))
	if err != nil {
		return model.Appointment{}, mapErr(err, "appointment")
	}
	return a, nil
}

// Mutate locks the row, lets fn edit a copy and persists the copy together
// with the returned event. A nil event commits nothing.
func (r *AppointmentRepository) Mutate(ctx context.Context, id string, fn appointments.Mutation) (model.Appointment, error) {
	var out model.Appointment
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		current, err := scanAppointment(tx.QueryRow(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments a
			WHERE a.id = $1
			FOR UPDATE
		`, id))
		if err != nil {
			return mapErr(err, "appointment")
		}
		next := current
		evt, err := fn(&next)
		if err != nil {
			return err
		}
		if evt == nil {
			out = current
			return nil
		}
		_, err = tx.Exec(ctx, `
			UPDATE appointments
			SET status = $2,
				cancellation_reason = $3,
				cancelled_at = $4,
				updated_at = $5
			WHERE id = $1
		`, next.ID, string(next.Status), next.CancellationReason, next.CancelledAt, next.UpdatedAt)
		if err != nil {
			return mapErr(err, "appointment")
		}
		if err := r.outbox.Insert(ctx, tx, *evt); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string, evt outbox.Event) error {
	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return mapErr(err, "appointment")
		}
		if err := mustAffect(tag, "appointment"); err != nil {
			return err
		}
		return r.outbox.Insert(ctx, tx, evt)
	})
}

func (r *AppointmentRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`, `+summaryColumns+`
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		LEFT JOIN users u ON u.id = a.customer_id
		WHERE a.customer_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`, customerID)
}

func (r *AppointmentRepository) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, int, error) {
	var w filter
	if f.Status != "" {
		w.add("a.status = $%d", string(f.Status))
	}
	if f.From != "" {
		w.add("a.appointment_date >= $%d::date", f.From)
	}
	if f.To != "" {
		w.add("a.appointment_date <= $%d::date", f.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments a`+w.where(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "appointment")
	}

	q := `SELECT ` + appointmentColumns + `, ` + summaryColumns + `
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		LEFT JOIN users u ON u.id = a.customer_id` + w.where()
	q += fmt.Sprintf(" ORDER BY a.appointment_date DESC, a.appointment_time DESC LIMIT %s OFFSET %s",
		w.next(f.Page.Size), w.next(f.Page.Offset()))
	items, err := r.list(ctx, q, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByStaff returns upcoming and past bookings; callers project away
// customer data.
func (r *AppointmentRepository) ListByStaff(ctx context.Context, staffID string) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.staff_id = $1
		ORDER BY a.appointment_date, a.appointment_time
	`, staffID)
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	defer rows.Close()

	items := []model.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *AppointmentRepository) CountActiveAt(ctx context.Context, staffID, date, clock string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments
		WHERE staff_id = $1
			AND appointment_date = $2::date
			AND appointment_time = $3
			AND status IN ('pending', 'confirmed')
	`, staffID, date, clock).Scan(&n)
	return n, mapErr(err, "appointment")
}

func (r *AppointmentRepository) list(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	defer rows.Close()

	items := []model.Appointment{}
	for rows.Next() {
		a, err := scanWithSummaries(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
