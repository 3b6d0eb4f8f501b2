package service_test

import (
	"context"

	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/mock"
)

// MockTripStore is a mock implementation of store.TripStore
type MockTripStore struct {
	mock.Mock
}

func (m *MockTripStore) CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error) {
	args := m.Called(ctx, trip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockTripStore) GetTrip(ctx context.Context, id string) (*types.TripRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockTripStore) ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripRecord), args.Error(1)
}

// MockItineraryStore is a mock implementation of store.ItineraryStore
type MockItineraryStore struct {
	mock.Mock
}

func (m *MockItineraryStore) SaveItinerary(ctx context.Context, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error) {
	args := m.Called(ctx, tripID, itinerary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}

func (m *MockItineraryStore) GetItinerary(ctx context.Context, tripID string) (*types.StoredItinerary, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}
