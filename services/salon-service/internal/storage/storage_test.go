package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

func TestMapErr(t *testing.T) {
	if mapErr(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}
	if got := apperr.KindOf(mapErr(pgx.ErrNoRows, "appointment")); got != apperr.KindNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
	if got := apperr.PublicMessage(mapErr(pgx.ErrNoRows, "appointment")); got != "appointment not found" {
		t.Fatalf("unexpected message %q", got)
	}
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if got := apperr.KindOf(mapErr(dup, "user")); got != apperr.KindConflict {
		t.Fatalf("expected conflict, got %s", got)
	}
	badUUID := &pgconn.PgError{Code: "22P02"}
	if got := apperr.KindOf(mapErr(badUUID, "review")); got != apperr.KindNotFound {
		t.Fatalf("expected not found for malformed id, got %s", got)
	}
	other := errors.New("connection reset")
	mapped := mapErr(other, "service")
	if apperr.KindOf(mapped) != apperr.KindInternal || !errors.Is(mapped, other) {
		t.Fatalf("expected wrapped internal error, got %v", mapped)
	}
}

func TestMustAffect(t *testing.T) {
	if err := mustAffect(pgconn.NewCommandTag("DELETE 0"), "review"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mustAffect(pgconn.NewCommandTag("DELETE 1"), "review"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFilter(t *testing.T) {
	var w filter
	if w.where() != "" {
		t.Fatal("empty filter should render nothing")
	}
	w.add("status = $%d", "pending")
	w.add("appointment_date >= $%d::date", "2026-01-01")
	limit := w.next(20)

	if got := w.where(); got != " WHERE status = $1 AND appointment_date >= $2::date" {
		t.Fatalf("unexpected where %q", got)
	}
	if limit != "$3" || len(w.args) != 3 {
		t.Fatalf("unexpected placeholder %s with %d args", limit, len(w.args))
	}
}

func TestAddRange(t *testing.T) {
	var w filter
	addRange(&w, "created_at", model.DateRange{})
	if len(w.conds) != 0 {
		t.Fatal("zero range should add nothing")
	}
	r := model.DateRange{From: time.Unix(0, 0), To: time.Unix(3600, 0)}
	addRange(&w, "created_at", r)
	if got := w.where(); got != " WHERE created_at >= $1 AND created_at < $2" {
		t.Fatalf("unexpected where %q", got)
	}
}
