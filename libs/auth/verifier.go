package auth

import (
	"context"
	"time"
)

// Verifier checks bearer tokens. HS256 tokens are verified with Secret; RS256
// tokens carrying a kid are verified against JWKS when it is configured. A
// non-empty Issuer must match the token's iss claim.
type Verifier struct {
	Secret string
	Issuer string
	JWKS   *JWKSClient
}

func (v Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := v.verifySignature(ctx, token)
	if err != nil {
		return nil, err
	}
	if v.Issuer != "" && claims.Iss != v.Issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v Verifier) verifySignature(ctx context.Context, token string) (*Claims, error) {
	if v.JWKS != nil {
		header, err := ParseHeader(token)
		if err != nil {
			return nil, err
		}
		if header.Alg == "RS256" && header.Kid != "" {
			pub, err := v.JWKS.Get(ctx, header.Kid)
			if err != nil {
				return nil, ErrInvalidToken
			}
			return VerifyRS256(token, pub)
		}
	}
	return ParseAndVerifyHS256(token, v.Secret)
}

// Issuer mints HS256 access tokens.
type Issuer struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (i Issuer) Issue(subject, role, email string) (string, time.Time, error) {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	ttl := i.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuedAt := now().UTC()
	expiresAt := issuedAt.Add(ttl)
	token, err := SignHS256(Claims{
		Sub:   subject,
		Role:  role,
		Email: email,
		Iss:   i.Issuer,
		Iat:   issuedAt.Unix(),
		Exp:   expiresAt.Unix(),
	}, i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
