package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/catalog"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

const serviceColumns = `id, name, description, price, duration, is_active, created_at, updated_at`

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

var _ catalog.Store = (*ServiceRepository)(nil)

func scanService(row pgx.Row) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, (*int64)(&s.Price), &s.Duration, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *ServiceRepository) Insert(ctx context.Context, s model.Service) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO services (id, name, description, price, duration, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.Name, s.Description, int64(s.Price), s.Duration, s.IsActive, s.CreatedAt, s.UpdatedAt)
	return mapErr(err, "service")
}

func (r *ServiceRepository) Get(ctx context.Context, id string) (model.Service, error) {
	s, err := scanService(r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		return model.Service{}, mapErr(err, "service")
	}
	return s, nil
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		q += ` WHERE is_active`
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY name`)
	if err != nil {
		return nil, mapErr(err, "service")
	}
	defer rows.Close()

	items := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *ServiceRepository) Update(ctx context.Context, id string, fn func(*model.Service) error) (model.Service, error) {
	var out model.Service
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		s, err := scanService(tx.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return mapErr(err, "service")
		}
		if err := fn(&s); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE services
			SET name = $2, description = $3, price = $4, duration = $5, is_active = $6, updated_at = $7
			WHERE id = $1
		`, s.ID, s.Name, s.Description, int64(s.Price), s.Duration, s.IsActive, s.UpdatedAt)
		if err != nil {
			return mapErr(err, "service")
		}
		out = s
		return nil
	})
	if err != nil {
		return model.Service{}, err
	}
	return out, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "service")
	}
	return mustAffect(tag, "service")
}
