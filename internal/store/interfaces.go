// Package store defines the persistence contracts used by the services.
// Implementations live in store/postgres.
package store

import (
	"context"

	"github.com/NomadCrew/nomad-diary-backend/types"
)

// TripStore persists trip records.
type TripStore interface {
	// CreateTrip inserts trip using trip.ID. It returns ErrConflict when the
	// id is already taken.
	CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error)
	GetTrip(ctx context.Context, id string) (*types.TripRecord, error)
	ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error)
}

// ItineraryStore persists one final itinerary per trip.
type ItineraryStore interface {
	SaveItinerary(ctx context.Context, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error)
	GetItinerary(ctx context.Context, tripID string) (*types.StoredItinerary, error)
}

type ContactStore interface {
	ListContacts(ctx context.Context, tripID string) ([]types.EmergencyContact, error)
	// CreateContacts inserts all contacts in one transaction.
	CreateContacts(ctx context.Context, tripID string, contacts []types.EmergencyContact) ([]types.EmergencyContact, error)
	UpdateContact(ctx context.Context, contact *types.EmergencyContact) (*types.EmergencyContact, error)
	DeleteContact(ctx context.Context, tripID, id string) error
}

type CompanionStore interface {
	ListCompanions(ctx context.Context, tripID string) ([]types.Companion, error)
	CreateCompanion(ctx context.Context, companion *types.Companion) (*types.Companion, error)
	UpdateCompanion(ctx context.Context, companion *types.Companion) (*types.Companion, error)
	DeleteCompanion(ctx context.Context, tripID, id string) error
}

// DiaryStore persists the manually edited parts of a trip diary. Upserts
// insert when the entry has no id (schedules are keyed by day number
// instead) and update otherwise.
type DiaryStore interface {
	ListSchedules(ctx context.Context, tripID string) ([]types.DaySchedule, error)
	UpsertSchedule(ctx context.Context, schedule *types.DaySchedule) (*types.DaySchedule, error)
	DeleteSchedule(ctx context.Context, tripID string, dayNumber int) error

	ListAccommodations(ctx context.Context, tripID string) ([]types.Accommodation, error)
	UpsertAccommodation(ctx context.Context, acc *types.Accommodation) (*types.Accommodation, error)
	DeleteAccommodation(ctx context.Context, tripID, id string) error

	ListTravelLegs(ctx context.Context, tripID string) ([]types.TravelLeg, error)
	UpsertTravelLeg(ctx context.Context, leg *types.TravelLeg) (*types.TravelLeg, error)
	DeleteTravelLeg(ctx context.Context, tripID, id string) error

	CreatePhoto(ctx context.Context, photo *types.DiaryPhoto) error
	ListPhotos(ctx context.Context, tripID string, dayNumber int) ([]types.DiaryPhoto, error)
}
