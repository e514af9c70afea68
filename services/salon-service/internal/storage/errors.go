package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// mapErr classifies driver errors. A malformed uuid can never match a row, so
// it is reported as not found like a missing row.
func mapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Wrap(apperr.KindNotFound, err, entity+" not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.KindConflict, err, entity+" already exists")
		case pgInvalidText:
			return apperr.Wrap(apperr.KindNotFound, err, entity+" not found")
		}
	}
	return fmt.Errorf("%s query: %w", entity, err)
}

// mustAffect turns a zero-row update or delete into not found.
func mustAffect(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("%s not found", entity)
	}
	return nil
}

// filter accumulates WHERE conditions with positional arguments. Each
// condition holds a single %d for its placeholder number.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, len(f.args)))
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// next reserves a placeholder for an argument outside the WHERE clause.
func (f *filter) next(arg any) string {
	f.args = append(f.args, arg)
	return fmt.Sprintf("$%d", len(f.args))
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
