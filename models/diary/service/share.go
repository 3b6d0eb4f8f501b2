package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/golang-jwt/jwt/v5"
)

const shareIssuer = "nomad-diary"

// ShareClaims is the payload of a read-only diary link.
type ShareClaims struct {
	TripID string `json:"tripId"`
	jwt.RegisteredClaims
}

// ShareSigner mints and checks HS256 share tokens.
type ShareSigner struct {
	secret      []byte
	ttl         time.Duration
	frontendURL string
	now         func() time.Time
}

func NewShareSigner(secret string, ttl time.Duration, frontendURL string) *ShareSigner {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ShareSigner{
		secret:      []byte(secret),
		ttl:         ttl,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// Sign returns a token letting anyone holding it read tripID's diary until
// it expires. The owner is kept as the subject.
func (s *ShareSigner) Sign(userID, tripID string) (*types.ShareLinkResponse, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := &ShareClaims{
		TripID: tripID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    shareIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign share token: %w", err)
	}
	return &types.ShareLinkResponse{
		Token:     signed,
		URL:       s.frontendURL + "/shared/" + signed,
		ExpiresAt: expires.UTC().Truncate(time.Second),
	}, nil
}

// Verify parses token and returns its claims.
func (s *ShareSigner) Verify(token string) (*ShareClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &ShareClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.Unauthorized("invalid_share_token", "Share link is invalid or expired")
	}
	claims, ok := parsed.Claims.(*ShareClaims)
	if !ok || claims.TripID == "" || claims.Subject == "" {
		return nil, apperrors.Unauthorized("invalid_claims", "Invalid token structure")
	}
	return claims, nil
}

// CreateShareLink mints a read-only link for a trip the caller owns.
func (s *DiaryService) CreateShareLink(ctx context.Context, userID, tripID string) (*types.ShareLinkResponse, error) {
	if s.share == nil {
		return nil, apperrors.New(apperrors.ServerError, "Sharing is not configured", "")
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	link, err := s.share.Sign(userID, tripID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to create share link")
	}
	logger.GetLogger().Infow("Share link created", "tripID", tripID, "expiresAt", link.ExpiresAt)
	return link, nil
}

// SharedDiary resolves a share token to the diary it points at. The link
// stops working if the trip changes owner.
func (s *DiaryService) SharedDiary(ctx context.Context, token string) (*types.Diary, error) {
	if s.share == nil {
		return nil, apperrors.New(apperrors.ServerError, "Sharing is not configured", "")
	}
	claims, err := s.share.Verify(token)
	if err != nil {
		return nil, err
	}
	trip, err := s.trips.FetchTrip(ctx, claims.Subject, claims.TripID, false)
	if err != nil {
		if apperrors.IsType(err, apperrors.ForbiddenError) {
			return nil, apperrors.Unauthorized("invalid_share_token", "Share link is invalid or expired")
		}
		return nil, err
	}
	return s.LoadDiary(ctx, trip)
}
