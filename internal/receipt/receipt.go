// Package receipt issues and verifies signed receipts for completed
// document checks. A receipt lets a third party confirm the outcome of a
// check without the documents themselves.
package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"doccheck/internal/models"
)

const (
	Issuer     = "doccheck"
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("missing receipt signing secret")
	ErrInvalidToken  = errors.New("receipt is invalid or has expired")
)

// Claims is the payload of a receipt token.
type Claims struct {
	PassportNumber string         `json:"passport_number"`
	StudentName    string         `json:"student_name"`
	CheckedAt      string         `json:"checked_at"`
	Summary        models.Summary `json:"summary"`
	jwt.RegisteredClaims
}

// Signer issues HS256 receipt tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a receipt for r. Each receipt gets a fresh ID.
func (s *Signer) Issue(r models.VerificationReport) (string, error) {
	now := s.now()
	claims := Claims{
		PassportNumber: r.Student.PassportData.PassportNumber,
		StudentName:    r.Student.PassportData.FullName,
		CheckedAt:      r.Timestamp,
		Summary:        r.Summary,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its claims. Any signature, method, issuer
// or expiry problem yields ErrInvalidToken.
func (s *Signer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
