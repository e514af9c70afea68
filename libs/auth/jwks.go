package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"sync"
	"time"
)

var ErrKeyNotFound = errors.New("jwks key not found")

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// keySet maps a kid to its RSA public key.
type keySet map[string]*rsa.PublicKey

// JWKSClient resolves RS256 verification keys by kid. Keys are cached for
// ttl; a kid missing from a fresh cache forces a refetch so rotated keys are
// picked up. If the endpoint is down, the last good set is used.
type JWKSClient struct {
	url    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	keys      keySet
	fetchedAt time.Time
}

func NewJWKSClient(url string, ttl time.Duration) *JWKSClient {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &JWKSClient{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 3 * time.Second},
		now:    time.Now,
	}
}

func (c *JWKSClient) Get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh() {
		if key, ok := c.keys[kid]; ok {
			return key, nil
		}
	}

	set, err := c.fetch(ctx)
	if err != nil {
		if key, ok := c.keys[kid]; ok {
			return key, nil
		}
		return nil, fmt.Errorf("jwks refresh: %w", err)
	}
	c.keys, c.fetchedAt = set, c.now()

	if key, ok := set[kid]; ok {
		return key, nil
	}
	return nil, ErrKeyNotFound
}

func (c *JWKSClient) fresh() bool {
	return c.keys != nil && c.now().Sub(c.fetchedAt) < c.ttl
}

func (c *JWKSClient) fetch(ctx context.Context) (keySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	set := keySet{}
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		// Malformed entries are skipped; one bad key must not hide the rest.
		if pub, err := parseRSAKey(k.N, k.E); err == nil {
			set[k.Kid] = pub
		}
	}
	return set, nil
}

// parseRSAKey decodes the base64url modulus and exponent of an RSA JWK.
func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	if n == "" || e == "" {
		return nil, errors.New("missing modulus or exponent")
	}
	mod, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	exp, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	ev := new(big.Int).SetBytes(exp)
	if !ev.IsInt64() || ev.Int64() < 2 || ev.Int64() > math.MaxInt32 {
		return nil, errors.New("exponent out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(mod), E: int(ev.Int64())}, nil
}
