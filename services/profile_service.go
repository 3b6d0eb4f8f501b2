package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	gocache "github.com/patrickmn/go-cache"
	"github.com/supabase-community/supabase-go"
)

const profileCacheTTL = 15 * time.Minute

// ProfileService reads a user's home country from the Supabase profile
// table. Answers, including "unknown", are cached briefly per user.
type ProfileService struct {
	fetch func(userID string) ([]byte, error)
	cache *gocache.Cache
}

// NewProfileService returns nil when Supabase is not configured; a nil
// service reports every home country as unknown.
func NewProfileService(supabaseURL, serviceKey, table string) (*ProfileService, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, nil
	}
	client, err := supabase.NewClient(supabaseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return newProfileService(func(userID string) ([]byte, error) {
		data, _, err := client.From(table).Select("home_country", "", false).Eq("id", userID).Execute()
		return data, err
	}), nil
}

func newProfileService(fetch func(userID string) ([]byte, error)) *ProfileService {
	return &ProfileService{
		fetch: fetch,
		cache: gocache.New(profileCacheTTL, 2*profileCacheTTL),
	}
}

// HomeCountry returns the user's home country or "" when none is recorded.
// Lookup failures are returned so callers can decide to continue without it.
func (s *ProfileService) HomeCountry(ctx context.Context, userID string) (string, error) {
	if s == nil || userID == "" {
		return "", nil
	}
	if v, ok := s.cache.Get(userID); ok {
		return v.(string), nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := s.fetch(userID)
	if err != nil {
		return "", fmt.Errorf("profile lookup failed: %w", err)
	}
	var rows []struct {
		HomeCountry *string `json:"home_country"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("profile lookup returned invalid JSON: %w", err)
	}

	country := ""
	if len(rows) > 0 && rows[0].HomeCountry != nil {
		country = strings.TrimSpace(*rows[0].HomeCountry)
	}
	s.cache.SetDefault(userID, country)
	logger.GetLogger().Debugw("Resolved home country", "userID", userID, "known", country != "")
	return country, nil
}
