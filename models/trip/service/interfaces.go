package service

import (
	"context"

	"github.com/NomadCrew/nomad-diary-backend/types"
)

// TripServiceInterface is what handlers and the planning flow use to reach
// trips and their stored itineraries.
type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, req types.CreateTripRequest) (*types.TripRecord, error)
	FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error)
	ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error)
	SaveItinerary(ctx context.Context, userID, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error)
	GetItinerary(ctx context.Context, userID, tripID string) (*types.StoredItinerary, error)
}

var _ TripServiceInterface = (*TripService)(nil)
