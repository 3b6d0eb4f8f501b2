package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/handoff"
	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	istore "github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/internal/retry"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TripService handles trip creation, lookup and the stored itinerary.
type TripService struct {
	store       istore.TripStore
	itineraries istore.ItineraryStore
	cache       handoff.Store
	handoffTTL  time.Duration
	fetchPolicy retry.Policy
	metrics     *metrics.Metrics
	newID       func() string
}

// NewTripService creates a trip service. fetchPolicy governs reads of trips
// that were just created; existing trips are read once.
func NewTripService(
	store istore.TripStore,
	itineraries istore.ItineraryStore,
	cache handoff.Store,
	handoffTTL time.Duration,
	fetchPolicy retry.Policy,
	m *metrics.Metrics,
) *TripService {
	return &TripService{
		store:       store,
		itineraries: itineraries,
		cache:       cache,
		handoffTTL:  handoffTTL,
		fetchPolicy: fetchPolicy,
		metrics:     m,
		newID:       uuid.NewString,
	}
}

// CreateTrip persists req for userID. The caller's provisional id is kept
// when it is free. Replaying a create for an id the same user already owns
// returns the existing trip; an id owned by someone else is replaced with a
// server id. The stored record is mirrored into the handoff cache.
func (s *TripService) CreateTrip(ctx context.Context, userID string, req types.CreateTripRequest) (*types.TripRecord, error) {
	log := logger.GetLogger()

	if _, _, err := types.ParseTripDates(req.StartDate, req.EndDate); err != nil {
		return nil, apperrors.ValidationFailed("Invalid trip dates", err.Error())
	}
	if req.Destination == "" {
		return nil, apperrors.ValidationFailed("Destination is required", "")
	}

	rec := req.Record(userID)
	if rec.ID == "" {
		rec.ID = s.newID()
	}

	created, err := s.store.CreateTrip(ctx, &rec)
	if errors.Is(err, istore.ErrConflict) {
		existing, getErr := s.store.GetTrip(ctx, rec.ID)
		if getErr != nil {
			return nil, apperrors.NewDatabaseError(getErr)
		}
		if existing.UserID == userID {
			log.Infow("Trip create replayed, returning existing trip", "tripID", existing.ID, "userID", userID)
			s.mirror(ctx, existing)
			return existing, nil
		}
		provisional := rec.ID
		rec.ID = s.newID()
		log.Warnw("Provisional trip id already taken, assigning server id",
			"provisionalID", provisional, "tripID", rec.ID)
		created, err = s.store.CreateTrip(ctx, &rec)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.mirror(ctx, created)
	log.Infow("Trip created", "tripID", created.ID, "userID", userID)
	return created, nil
}

func (s *TripService) mirror(ctx context.Context, trip *types.TripRecord) {
	if s.cache == nil {
		return
	}
	if err := handoff.SetJSON(ctx, s.cache, types.HandoffKey(trip.ID), trip, s.handoffTTL); err != nil {
		logger.GetLogger().Warnw("Failed to mirror trip into handoff cache", "tripID", trip.ID, "error", err)
	}
}

// FetchTrip returns a trip owned by userID. For a trip that was just created
// the handoff cache is consulted first and the store read is retried with
// backoff, since the row may not be visible yet.
func (s *TripService) FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error) {
	log := logger.GetLogger()

	if isNewTrip && s.cache != nil {
		cached, found, err := handoff.GetJSON[types.TripRecord](ctx, s.cache, types.HandoffKey(tripID))
		switch {
		case err != nil && errors.Is(err, handoff.ErrMalformed):
			s.metrics.ObserveHandoff("invalid")
			log.Warnw("Ignoring malformed handoff entry", "tripID", tripID, "error", err)
		case err != nil:
			s.metrics.ObserveHandoff("miss")
			log.Warnw("Handoff lookup failed, falling back to store", "tripID", tripID, "error", err)
		case found:
			s.metrics.ObserveHandoff("hit")
			return s.authorize(cached, userID)
		default:
			s.metrics.ObserveHandoff("miss")
		}
	}

	policy := s.fetchPolicy
	if !isNewTrip {
		policy.MaxAttempts = 1
	}
	trip, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (*types.TripRecord, error) {
		t, err := s.store.GetTrip(ctx, tripID)
		s.metrics.ObserveFetchAttempt(err)
		if err != nil {
			log.Debugw("Trip fetch attempt failed", "tripID", tripID, "attempt", attempt, "error", err)
		}
		return t, err
	})
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return nil, apperrors.TripNotFound(tripID)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.authorize(trip, userID)
}

func (s *TripService) authorize(trip *types.TripRecord, userID string) (*types.TripRecord, error) {
	if trip.UserID != userID {
		return nil, apperrors.Forbidden("access_denied", "Trip belongs to another user")
	}
	return trip, nil
}

// ListTrips returns the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	trips, err := s.store.ListTrips(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return trips, nil
}

// SaveItinerary stores the final itinerary for a trip the caller owns,
// replacing any earlier one.
func (s *TripService) SaveItinerary(ctx context.Context, userID, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error) {
	if _, err := s.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	stored, err := s.itineraries.SaveItinerary(ctx, tripID, itinerary)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return nil, apperrors.TripNotFound(tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	logger.GetLogger().Infow("Itinerary saved", "tripID", tripID, "days", len(itinerary.Days))
	return stored, nil
}

func (s *TripService) GetItinerary(ctx context.Context, userID, tripID string) (*types.StoredItinerary, error) {
	if _, err := s.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	stored, err := s.itineraries.GetItinerary(ctx, tripID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return nil, apperrors.NotFound("Itinerary", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return stored, nil
}
