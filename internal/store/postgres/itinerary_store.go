package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.ItineraryStore = (*ItineraryStore)(nil)

type ItineraryStore struct {
	db DBTX
}

func NewItineraryStore(db DBTX) *ItineraryStore {
	return &ItineraryStore{db: db}
}

// SaveItinerary stores the itinerary for tripID, replacing any earlier one.
func (s *ItineraryStore) SaveItinerary(ctx context.Context, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error) {
	body, err := json.Marshal(itinerary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode itinerary: %w", err)
	}

	query := `
		INSERT INTO itineraries (trip_id, itinerary)
		VALUES ($1, $2)
		ON CONFLICT (trip_id) DO UPDATE
			SET itinerary = EXCLUDED.itinerary, updated_at = NOW()
		RETURNING created_at, updated_at`

	stored := &types.StoredItinerary{TripID: tripID, Itinerary: itinerary}
	if err := s.db.QueryRow(ctx, query, tripID, body).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}
	return stored, nil
}

func (s *ItineraryStore) GetItinerary(ctx context.Context, tripID string) (*types.StoredItinerary, error) {
	query := `SELECT itinerary, created_at, updated_at FROM itineraries WHERE trip_id = $1`

	var body []byte
	stored := &types.StoredItinerary{TripID: tripID}
	if err := s.db.QueryRow(ctx, query, tripID).Scan(&body, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	if err := json.Unmarshal(body, &stored.Itinerary); err != nil {
		return nil, fmt.Errorf("failed to decode itinerary: %w", err)
	}
	return stored, nil
}
