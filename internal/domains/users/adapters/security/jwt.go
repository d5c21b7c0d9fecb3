package security

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
)

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

// JWTIssuer signs HS256 access tokens whose subject is the username.
type JWTIssuer struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

type accessClaims struct {
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
	jwt.RegisteredClaims
}

// NewJWTIssuer derives the signing key from secret. A base64-looking secret is
// decoded first; keys shorter than 32 bytes are replaced by their SHA-256 digest.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	return &JWTIssuer{
		key:    deriveKey(secret),
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

func (j *JWTIssuer) Issue(user *domain.User) (string, error) {
	if user == nil {
		return "", errors.New("user is nil")
	}
	now := j.now()
	claims := accessClaims{
		Role:   string(user.Role),
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTIssuer) Parse(token string) (*ports.Claims, error) {
	if token == "" {
		return nil, ports.ErrInvalidToken
	}
	var claims accessClaims
	parsed, err := j.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return j.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ports.ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ports.ErrInvalidToken
	}
	out := &ports.Claims{
		Subject: claims.Subject,
		UserID:  claims.UserID,
		Role:    domain.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func deriveKey(secret string) []byte {
	key := []byte(secret)
	if base64Pattern.MatchString(secret) && len(secret)%4 == 0 {
		if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil {
			key = decoded
		}
	}
	if len(key) < 32 {
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	return key
}
