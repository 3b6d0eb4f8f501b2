package destination

import (
	"context"
	"strings"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/pkg/geoapify"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// Searcher is the geocoding call the search needs.
type Searcher interface {
	Autocomplete(ctx context.Context, req geoapify.AutocompleteRequest) ([]types.Destination, error)
}

type SearchConfig struct {
	MinQueryLength int
	Limit          int
}

// Service answers one-shot grouped searches.
type Service struct {
	searcher Searcher
	cfg      SearchConfig
}

func NewService(searcher Searcher, cfg SearchConfig) *Service {
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 2
	}
	return &Service{searcher: searcher, cfg: cfg}
}

// Search trims query and returns grouped suggestions. Queries shorter than
// the minimum return no groups without calling the provider. A non-empty
// countryCode scopes the search.
func (s *Service) Search(ctx context.Context, query, countryCode string) (*types.SearchResponse, error) {
	query = strings.TrimSpace(query)
	resp := &types.SearchResponse{Query: query, Scope: countryCode, Groups: []types.SuggestionGroup{}}
	if len([]rune(query)) < s.cfg.MinQueryLength {
		return resp, nil
	}

	items, err := s.searcher.Autocomplete(ctx, geoapify.AutocompleteRequest{
		Text:        query,
		CountryCode: countryCode,
		Limit:       s.cfg.Limit,
	})
	if err != nil {
		logger.GetLogger().Warnw("Destination search failed", "query", query, "scope", countryCode, "error", err)
		return nil, apperrors.ProviderFailed("geocoding", err)
	}
	resp.Groups = Group(items, countryCode != "")
	return resp, nil
}
