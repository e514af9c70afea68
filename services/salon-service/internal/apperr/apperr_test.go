package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := NotFound("appointment not found")
	wrapped := fmt.Errorf("cancel: %w", base)

	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected not_found, got %s", KindOf(wrapped))
	}
	if KindOf(wrapped).HTTPStatus() != http.StatusNotFound {
		t.Fatal("expected 404")
	}
	if PublicMessage(wrapped) != "appointment not found" {
		t.Fatalf("unexpected message %q", PublicMessage(wrapped))
	}
}

func TestUnclassifiedIsInternal(t *testing.T) {
	err := errors.New("connection reset")
	if KindOf(err) != KindInternal {
		t.Fatal("expected internal")
	}
	if PublicMessage(err) != "internal server error" {
		t.Fatal("internal details must not leak")
	}
	if Is(nil, KindInternal) {
		t.Fatal("nil is not an error of any kind")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "email already registered")
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Kind.HTTPStatus() != http.StatusConflict {
		t.Fatal("expected 409")
	}
}
