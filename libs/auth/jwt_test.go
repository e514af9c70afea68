package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHS256RoundTrip(t *testing.T) {
	claims := Claims{
		Sub:  "user-1",
		Role: "customer",
		Iat:  time.Now().Unix(),
		Exp:  time.Now().Add(1 * time.Hour).Unix(),
	}
	secret := "test-secret"

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256 failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, "wrong-secret"); err == nil {
		t.Fatal("expected verification error with wrong secret")
	}
}

func TestHS256Expired(t *testing.T) {
	token, err := SignHS256(Claims{Sub: "user-1", Role: "admin", Exp: time.Now().Add(-time.Minute).Unix()}, "s")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "s"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_Issue(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss := Issuer{Secret: "s", Issuer: "palor", TTL: time.Hour, Now: func() time.Time { return fixed }}

	token, expires, err := iss.Issue("user-9", "staff", "staff@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !expires.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", expires)
	}
	payload, _ := base64.RawURLEncoding.DecodeString(splitToken(t, token)[1])
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	if claims.Sub != "user-9" || claims.Role != "staff" || claims.Iss != "palor" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifier_RS256ViaJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kty: "RSA",
			Kid: "kid-1",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	claims := Claims{Sub: "user-2", Role: "admin", Exp: time.Now().Add(time.Hour).Unix()}
	token, err := signRS256(claims, key, "kid-1")
	if err != nil {
		t.Fatalf("signRS256 failed: %v", err)
	}

	v := Verifier{Secret: "unused", JWKS: NewJWKSClient(srv.URL, time.Minute)}
	parsed, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}

	unknown, err := signRS256(claims, key, "kid-unknown")
	if err != nil {
		t.Fatalf("signRS256 failed: %v", err)
	}
	if _, err := v.Verify(context.Background(), unknown); err == nil {
		t.Fatal("expected error for unknown kid")
	}
}

func TestVerifier_FallsBackToHS256(t *testing.T) {
	token, err := SignHS256(Claims{Sub: "user-3", Role: "customer"}, "secret")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	v := Verifier{Secret: "secret", JWKS: NewJWKSClient("http://127.0.0.1:0/unused", time.Minute)}
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

func TestVerifier_RejectsForeignIssuer(t *testing.T) {
	iss := Issuer{Secret: "secret", Issuer: "palor", TTL: time.Hour}
	v := Verifier{Secret: "secret", Issuer: "palor"}

	token, _, err := iss.Issue("user-4", "customer", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	iss.Issuer = "someone-else"
	foreign, _, err := iss.Issue("user-4", "customer", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := v.Verify(context.Background(), foreign); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	open := Verifier{Secret: "secret"}
	if _, err := open.Verify(context.Background(), foreign); err != nil {
		t.Fatalf("expected any issuer to pass when none is configured, got %v", err)
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := PrincipalFrom(context.Background()); ok {
		t.Fatal("expected no principal")
	}
	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: "admin"})
	p, ok := PrincipalFrom(ctx)
	if !ok || !p.HasRole("staff", "admin") || p.HasRole("customer") {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func splitToken(t *testing.T, token string) []string {
	t.Helper()
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token parts, got %d", len(parts))
	}
	return parts
}

func signRS256(claims Claims, key *rsa.PrivateKey, kid string) (string, error) {
	headerJSON, err := json.Marshal(Header{Alg: "RS256", Typ: "JWT", Kid: kid})
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(payloadJSON)
	hash := sha256.Sum256([]byte(unsigned))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}
