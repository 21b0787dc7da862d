package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "ciale"

// DefaultTokenTTL matches the 30 day browser session lifetime
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, tampered or wrongly signed tokens
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a correctly signed token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the JWT payload for session and bearer tokens
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens for a single secret
type TokenIssuer struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer; ttl <= 0 selects DefaultTokenTTL
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the identity and returns it with its expiry
func (ti *TokenIssuer) Issue(id Identity) (string, time.Time, error) {
	if id.UserID == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue token without a user id")
	}

	issuedAt := ti.now()
	expiresAt := issuedAt.Add(ti.ttl)

	claims := &Claims{
		Username: id.Username,
		Email:    id.Email,
		Avatar:   id.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm, issuer and expiry and returns the identity
func (ti *TokenIssuer) Parse(tokenString string) (*Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Avatar:   claims.Avatar,
	}, nil
}
