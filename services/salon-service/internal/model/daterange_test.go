package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRange_DateOnlyEndIsInclusive(t *testing.T) {
	r, err := ParseDateRange("2026-03-01", "2026-03-31", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Contains(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("expected last day to be covered")
	}
	if r.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected next day to be excluded")
	}
	first, last := r.Days()
	if first != "2026-03-01" || last != "2026-03-31" {
		t.Fatalf("unexpected days %s..%s", first, last)
	}
}

func TestParseDateRange_Errors(t *testing.T) {
	if _, err := ParseDateRange("2026-03-01", "", time.UTC); !errors.Is(err, ErrPartialRange) {
		t.Fatalf("expected partial range error, got %v", err)
	}
	if _, err := ParseDateRange("2026-04-01", "2026-03-01", time.UTC); !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected inverted range error, got %v", err)
	}
	if _, err := ParseDateRange("yesterday", "2026-03-01", time.UTC); !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected bad date error, got %v", err)
	}
}

func TestParseDateRange_Empty(t *testing.T) {
	r, err := ParseDateRange("", "", time.UTC)
	if err != nil || !r.IsZero() {
		t.Fatalf("expected zero range, got %+v %v", r, err)
	}
	if !r.Contains(time.Now()) {
		t.Fatal("zero range should match everything")
	}
}

func TestParseDateRange_TimestampStartWithinDateOnlyEnd(t *testing.T) {
	r, err := ParseDateRange("2026-03-10T12:00:00Z", "2026-03-10", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Contains(time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)) {
		t.Fatal("expected the rest of the end day to be covered")
	}
	if r.Contains(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)) {
		t.Fatal("expected times before the start to be excluded")
	}
	if _, err := ParseDateRange("2026-03-11T00:00:00Z", "2026-03-10", time.UTC); !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected inverted range error, got %v", err)
	}
}
