package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenMissingClaim = errors.New("token missing required claim")
	ErrJWKSKeyNotFound   = errors.New("jwks key not found")
)

const jwksCacheTTL = 15 * time.Minute

// Validator validates a bearer token and returns the user id it was issued for.
type Validator interface {
	Validate(ctx context.Context, tokenString string) (string, error)
}

// KeySource resolves signing keys by kid.
type KeySource interface {
	GetKey(ctx context.Context, kid string) (jwk.Key, error)
}

// JWTValidator accepts Supabase access tokens signed either with the project's
// HS256 secret or with a key published on the project's JWKS endpoint.
type JWTValidator struct {
	keys         KeySource
	staticSecret []byte
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator builds a validator from the Supabase settings. At least one
// of the JWT secret or the URL and anon key pair must be present.
func NewJWTValidator(cfg *config.Config) (*JWTValidator, error) {
	log := logger.GetLogger()
	ext := cfg.ExternalServices

	var keys KeySource
	if ext.SupabaseURL != "" && ext.SupabaseAnonKey != "" {
		jwksURL := fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", ext.SupabaseURL)
		keys = NewJWKSCache(jwksURL, ext.SupabaseAnonKey, jwksCacheTTL)
		log.Infow("JWKS validation enabled", "url", jwksURL)
	}

	var secret []byte
	if ext.SupabaseJWTSecret != "" {
		secret = []byte(ext.SupabaseJWTSecret)
	}
	if secret == nil && keys == nil {
		return nil, fmt.Errorf("jwt validator: configure SUPABASE_JWT_SECRET or SUPABASE_URL with SUPABASE_ANON_KEY")
	}
	return NewJWTValidatorWithKeys(secret, keys), nil
}

func NewJWTValidatorWithKeys(secret []byte, keys KeySource) *JWTValidator {
	return &JWTValidator{keys: keys, staticSecret: secret}
}

// Validate tries the static secret first and falls back to JWKS when the
// token header names a kid. An expiry from either path wins over other errors.
func (v *JWTValidator) Validate(ctx context.Context, tokenString string) (string, error) {
	var staticErr, jwksErr error

	if len(v.staticSecret) > 0 {
		userID, err := parseSubject(tokenString, jwt.WithKey(jwa.HS256, v.staticSecret))
		if err == nil {
			return userID, nil
		}
		staticErr = err
	}

	if v.keys != nil {
		userID, err := v.validateJWKS(ctx, tokenString)
		if err == nil {
			return userID, nil
		}
		jwksErr = err
	}

	logger.GetLogger().Debugw("Token validation failed", "static_error", staticErr, "jwks_error", jwksErr)

	switch {
	case errors.Is(staticErr, ErrTokenExpired) || errors.Is(jwksErr, ErrTokenExpired):
		return "", ErrTokenExpired
	case errors.Is(staticErr, ErrTokenMissingClaim) || errors.Is(jwksErr, ErrTokenMissingClaim):
		return "", ErrTokenMissingClaim
	case errors.Is(jwksErr, ErrJWKSKeyNotFound):
		return "", jwksErr
	case jwksErr != nil:
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, jwksErr)
	default:
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, staticErr)
	}
}

func (v *JWTValidator) validateJWKS(ctx context.Context, tokenString string) (string, error) {
	msg, err := jws.Parse([]byte(tokenString))
	if err != nil {
		return "", fmt.Errorf("malformed token: %w", err)
	}
	if len(msg.Signatures()) == 0 {
		return "", errors.New("token has no signature")
	}
	kid := msg.Signatures()[0].ProtectedHeaders().KeyID()
	if kid == "" {
		return "", errors.New("no kid in token header")
	}

	key, err := v.keys.GetKey(ctx, kid)
	if err != nil {
		return "", err
	}
	return parseSubject(tokenString, jwt.WithKey(key.Algorithm(), key))
}

func parseSubject(tokenString string, keyOpt jwt.ParseOption) (string, error) {
	token, err := jwt.Parse([]byte(tokenString), keyOpt, jwt.WithValidate(true))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", err
	}
	if token.Subject() == "" {
		return "", ErrTokenMissingClaim
	}
	return token.Subject(), nil
}
