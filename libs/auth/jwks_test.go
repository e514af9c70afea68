package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rsaJWK(t *testing.T, kid string) (jwk, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	return jwk{
		Kty: "RSA",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}, key
}

type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
	down atomic.Bool
	keys atomic.Value // []jwk
}

func newJWKSServer(t *testing.T, keys ...jwk) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.keys.Store(keys)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		if s.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(jwks{Keys: s.keys.Load().([]jwk)})
	}))
	t.Cleanup(s.Close)
	return s
}

func TestJWKSClient_CachesWithinTTL(t *testing.T) {
	k1, key := rsaJWK(t, "kid-1")
	srv := newJWKSServer(t, k1)
	c := NewJWKSClient(srv.URL, time.Minute)

	for i := 0; i < 3; i++ {
		pub, err := c.Get(context.Background(), "kid-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if pub.N.Cmp(key.PublicKey.N) != 0 {
			t.Fatal("unexpected modulus")
		}
	}
	if n := srv.hits.Load(); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
}

func TestJWKSClient_UnknownKidRefetches(t *testing.T) {
	k1, _ := rsaJWK(t, "kid-1")
	k2, _ := rsaJWK(t, "kid-2")
	srv := newJWKSServer(t, k1)
	c := NewJWKSClient(srv.URL, time.Hour)

	if _, err := c.Get(context.Background(), "kid-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	srv.keys.Store([]jwk{k1, k2})
	if _, err := c.Get(context.Background(), "kid-2"); err != nil {
		t.Fatalf("expected rotated key to resolve, got %v", err)
	}
	if _, err := c.Get(context.Background(), "kid-3"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestJWKSClient_ServesStaleKeysWhenEndpointFails(t *testing.T) {
	k1, _ := rsaJWK(t, "kid-1")
	srv := newJWKSServer(t, k1)
	c := NewJWKSClient(srv.URL, time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Get(context.Background(), "kid-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	srv.down.Store(true)
	now = now.Add(2 * time.Minute)

	if _, err := c.Get(context.Background(), "kid-1"); err != nil {
		t.Fatalf("expected cached key after failed refresh, got %v", err)
	}
	if n := srv.hits.Load(); n != 2 {
		t.Fatalf("expected expired cache to refetch, got %d fetches", n)
	}
	if _, err := c.Get(context.Background(), "kid-9"); err == nil || errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected refresh error for uncached kid, got %v", err)
	}
}

func TestParseRSAKey_RejectsBadExponent(t *testing.T) {
	k, _ := rsaJWK(t, "kid-1")
	if _, err := parseRSAKey(k.N, k.E); err != nil {
		t.Fatalf("parseRSAKey failed: %v", err)
	}
	huge := base64.RawURLEncoding.EncodeToString(new(big.Int).Lsh(big.NewInt(1), 40).Bytes())
	for name, e := range map[string]string{"missing": "", "one": "AQ", "huge": huge, "not base64": "!!"} {
		if _, err := parseRSAKey(k.N, e); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
