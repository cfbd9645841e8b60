package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// JWTService verifies and issues HS256 tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService builds a service from a secret. In production the secret is mandatory.
func NewJWTService(secret, env string) (*JWTService, error) {
	key, err := secretKey(secret, env)
	if err != nil {
		return nil, err
	}
	return &JWTService{secret: key, ttl: defaultTokenTTL, now: time.Now}, nil
}

// NewJWTServiceFromEnv reads JWT_SECRET and ENV.
func NewJWTServiceFromEnv() (*JWTService, error) {
	return NewJWTService(os.Getenv("JWT_SECRET"), os.Getenv("ENV"))
}

func (s *JWTService) Authenticate(ctx context.Context, token string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, ok := ParseRole(string(claims.Role))
	if !ok {
		role = RoleEntrepreneur
	}
	return User{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: role}, nil
}

// Issue signs a token for the user. Used by the CLI for development tokens.
func (s *JWTService) Issue(user User, ttl time.Duration) (string, error) {
	if user.ID == "" {
		return "", errors.New("sub is required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now().UTC()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func secretKey(secret, env string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "production" || env == "prod" {
		if secret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
	}
	if secret == "" {
		secret = "dev-secret"
	}
	return []byte(secret), nil
}
