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

var _ store.TripStore = (*TripStore)(nil)

type TripStore struct {
	db DBTX
}

func NewTripStore(db DBTX) *TripStore {
	return &TripStore{db: db}
}

const tripColumns = `id, user_id, title, start_date::text, end_date::text, budget, interests, notes,
	destination, destination_lat, destination_lng, place_id, additional_destinations, created_at, updated_at`

func (s *TripStore) CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error) {
	additional, err := json.Marshal(nonNilDestinations(trip.AdditionalDestinations))
	if err != nil {
		return nil, fmt.Errorf("failed to encode additional destinations: %w", err)
	}

	var lat, lng *float64
	if trip.DestinationCoords != nil {
		lat, lng = &trip.DestinationCoords.Lat, &trip.DestinationCoords.Lng
	}

	query := `
		INSERT INTO trips (id, user_id, title, start_date, end_date, budget, interests, notes,
			destination, destination_lat, destination_lng, place_id, additional_destinations)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at`

	created := *trip
	err = s.db.QueryRow(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Title,
		trip.StartDate,
		trip.EndDate,
		trip.Budget,
		trip.Interests,
		trip.Notes,
		trip.Destination,
		lat,
		lng,
		trip.PlaceID,
		additional,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}
	return &created, nil
}

func (s *TripStore) GetTrip(ctx context.Context, id string) (*types.TripRecord, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

func (s *TripStore) ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error) {
	query := `SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []types.TripRecord{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

func scanTrip(row pgx.Row) (*types.TripRecord, error) {
	var (
		t          types.TripRecord
		lat, lng   *float64
		additional []byte
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.StartDate,
		&t.EndDate,
		&t.Budget,
		&t.Interests,
		&t.Notes,
		&t.Destination,
		&lat,
		&lng,
		&t.PlaceID,
		&additional,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		t.DestinationCoords = &types.Coordinates{Lat: *lat, Lng: *lng}
	}
	if len(additional) > 0 {
		if err := json.Unmarshal(additional, &t.AdditionalDestinations); err != nil {
			return nil, fmt.Errorf("failed to decode additional destinations: %w", err)
		}
	}
	return &t, nil
}

func nonNilDestinations(ds []types.Destination) []types.Destination {
	if ds == nil {
		return []types.Destination{}
	}
	return ds
}
