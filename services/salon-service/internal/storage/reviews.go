package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/palor/libs/db"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/reviews"
)

const reviewColumns = `
	id, name, email, rating, comment, service, COALESCE(user_id::text, ''),
	is_approved, is_published, created_at, updated_at`

type ReviewRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewReviewRepository(pool *db.Pool, outboxRepo *outbox.Repository) *ReviewRepository {
	return &ReviewRepository{pool: pool, outbox: outboxRepo}
}

var _ reviews.Store = (*ReviewRepository)(nil)

func scanReview(row pgx.Row) (model.Review, error) {
	var r model.Review
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Rating, &r.Comment, &r.Service, &r.UserID,
		&r.IsApproved, &r.IsPublished, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *ReviewRepository) Insert(ctx context.Context, rv model.Review, evt outbox.Event) error {
	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO reviews
				(id, name, email, rating, comment, service, user_id, is_approved, is_published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11)
		`, rv.ID, rv.Name, rv.Email, rv.Rating, rv.Comment, rv.Service, rv.UserID,
			rv.IsApproved, rv.IsPublished, rv.CreatedAt, rv.UpdatedAt)
		if err != nil {
			return mapErr(err, "review")
		}
		return r.outbox.Insert(ctx, tx, evt)
	})
}

func (r *ReviewRepository) List(ctx context.Context, f model.ReviewFilter, publicOnly bool) ([]model.Review, int, error) {
	var w filter
	if publicOnly {
		w.conds = append(w.conds, "is_approved", "is_published")
	}
	if f.Approved != nil {
		w.add("is_approved = $%d", *f.Approved)
	}
	if f.Service != "" {
		w.add("service = $%d", f.Service)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews`+w.where(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "review")
	}

	q := `SELECT ` + reviewColumns + ` FROM reviews` + w.where()
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %s OFFSET %s", w.next(f.Page.Size), w.next(f.Page.Offset()))
	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, 0, mapErr(err, "review")
	}
	defer rows.Close()

	items := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id string, fn func(*model.Review)) (model.Review, error) {
	var out model.Review
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		rv, err := scanReview(tx.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return mapErr(err, "review")
		}
		fn(&rv)
		_, err = tx.Exec(ctx, `
			UPDATE reviews
			SET is_approved = $2, is_published = $3, updated_at = $4
			WHERE id = $1
		`, rv.ID, rv.IsApproved, rv.IsPublished, rv.UpdatedAt)
		if err != nil {
			return mapErr(err, "review")
		}
		out = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "review")
	}
	return mustAffect(tag, "review")
}

func (r *ReviewRepository) RatingCounts(ctx context.Context) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rating, count(*)
		FROM reviews
		WHERE is_approved AND is_published
		GROUP BY rating
	`)
	if err != nil {
		return nil, mapErr(err, "review")
	}
	defer rows.Close()

	counts := map[int]int{}
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, err
		}
		counts[rating] = n
	}
	return counts, rows.Err()
}
