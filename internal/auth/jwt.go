// Package auth provides session tokens, purpose-bound tokens, password
// hashing, and the GitHub sign-in flow.
//
// SESSION FLOW:
//  1. /auth/register or /auth/login verifies credentials and issues a JWT
//  2. The JWT is stored in an HttpOnly cookie ("token")
//  3. On every /api request, middleware reads the cookie, validates the
//     signature and expiry, and puts the Identity in the request context
//
// The JWT is stateless — the server keeps no session table. All the
// information needed (user id, a few denormalized profile fields, expiry)
// lives inside the signed token, and the HMAC signature prevents
// tampering without the secret.
//
// PURPOSE TOKENS:
// Password reset and email verification use the same signing machinery
// but a distinct token kind: short-lived, carrying an explicit "purpose"
// claim so a reset token can never be replayed as a session or a verify
// token. Reset tokens additionally embed a fingerprint of the current
// password hash, making each token valid exactly once per password.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "devplanner"

// SessionTTL is the lifetime of a login session token.
const SessionTTL = 24 * time.Hour

// ResetTokenTTL is the lifetime of a password-reset token.
const ResetTokenTTL = 1 * time.Hour

// VerifyTokenTTL is the lifetime of an email-verification token.
const VerifyTokenTTL = 24 * time.Hour

// Token purposes. An empty purpose marks a session token.
const (
	PurposeReset  = "password_reset"
	PurposeVerify = "email_verify"
)

// SessionClaims is the payload of a session token. Besides the standard
// registered claims (sub = user id, exp, iat, iss) it denormalizes a few
// profile fields so the frontend can render the header without an extra
// round trip.
type SessionClaims struct {
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	CurrentDay     int     `json:"currentDay,omitempty"`
	TargetRevenue  float64 `json:"targetRevenue,omitempty"`
	CurrentRevenue float64 `json:"currentRevenue,omitempty"`
	Purpose        string  `json:"purpose,omitempty"`
	Fingerprint    string  `json:"fgp,omitempty"` // reset tokens only
	jwt.RegisteredClaims
}

// Identity is the minimal authenticated identity handed to handlers.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// SessionProfile is the denormalized profile data embedded in a session
// token at issue time.
type SessionProfile struct {
	Name           string
	Email          string
	CurrentDay     int
	TargetRevenue  float64
	CurrentRevenue float64
}

// TokenService signs and validates all token kinds with one HMAC secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of random data in production (openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// GenerateSession creates a signed session token for the given user.
func (s *TokenService) GenerateSession(userID string, profile SessionProfile) (string, error) {
	now := time.Now()
	c := SessionClaims{
		Name:           profile.Name,
		Email:          profile.Email,
		CurrentDay:     profile.CurrentDay,
		TargetRevenue:  profile.TargetRevenue,
		CurrentRevenue: profile.CurrentRevenue,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// ValidateSession parses a session token and returns the Identity it
// encodes. Purpose tokens are rejected here — a reset token must not
// work as a login.
func (s *TokenService) ValidateSession(tokenStr string) (*Identity, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Purpose != "" {
		return nil, fmt.Errorf("auth: not a session token")
	}
	return &Identity{ID: c.Subject, Email: c.Email, Name: c.Name}, nil
}

// GeneratePurpose creates a purpose-bound token (reset or verify).
// fingerprint binds the token to server-side state — for reset tokens,
// pass PasswordFingerprint(currentHash); for verify tokens, pass "".
func (s *TokenService) GeneratePurpose(userID, purpose, fingerprint string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := SessionClaims{
		Purpose:     purpose,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", purpose, err)
	}
	return signed, nil
}

// ValidatePurpose parses a purpose token, checks it carries the expected
// purpose, and returns (userID, fingerprint).
func (s *TokenService) ValidatePurpose(tokenStr, purpose string) (string, string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", "", err
	}
	if c.Purpose != purpose {
		return "", "", fmt.Errorf("auth: token purpose mismatch")
	}
	return c.Subject, c.Fingerprint, nil
}

// parse verifies signature, expiry, issuer, and algorithm.
//
// jwt.WithValidMethods pins HS256 — without it, an attacker could try an
// algorithm-confusion attack (e.g. alg=none).
func (s *TokenService) parse(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}
	return c, nil
}

// PasswordFingerprint derives a short stable fingerprint from a bcrypt
// hash. Embedded in reset tokens so that once the password changes, every
// token issued against the old hash stops validating.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
