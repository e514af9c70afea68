package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/accounts"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/appointments"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

const userColumns = `id, full_name, email, password_hash, role, created_at`

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var (
	_ accounts.Store         = (*UserRepository)(nil)
	_ appointments.Directory = (*UserRepository)(nil)
)

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *UserRepository) Insert(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.FullName, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt)
	return mapErr(err, "user")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return model.User{}, mapErr(err, "user")
	}
	return u, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return model.User{}, mapErr(err, "user")
	}
	return u, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY full_name`, string(role))
	if err != nil {
		return nil, mapErr(err, "user")
	}
	defer rows.Close()

	items := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
