package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/handoff"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/google/uuid"
)

// TripCreator persists a submitted draft and returns the authoritative record.
type TripCreator interface {
	CreateTrip(ctx context.Context, userID string, req types.CreateTripRequest) (*types.TripRecord, error)
}

// DiaryImporter copies the schedules, travel legs and accommodations captured
// by the five-step flow into the new trip's diary.
type DiaryImporter interface {
	ImportDraft(ctx context.Context, userID, tripID string, draft types.TripDraft) error
}

// SubmitResult is returned after a successful submission.
type SubmitResult struct {
	Session  View              `json:"session"`
	Trip     *types.TripRecord `json:"trip"`
	Redirect string            `json:"redirect"`
}

type Service struct {
	cache handoff.Store
	trips TripCreator
	diary DiaryImporter
	ttl   time.Duration
	now   func() time.Time
}

func NewService(cache handoff.Store, trips TripCreator, diary DiaryImporter, ttl time.Duration) *Service {
	return &Service{
		cache: cache,
		trips: trips,
		diary: diary,
		ttl:   ttl,
		now:   time.Now,
	}
}

// defaultClaimTTL bounds a submit claim when the service has no session TTL.
const defaultClaimTTL = 5 * time.Minute

func sessionKey(id string) string {
	return "wizard:" + id
}

func submitKey(id string) string {
	return sessionKey(id) + ":submit"
}

// Start opens a new session on the first step of variant.
func (s *Service) Start(ctx context.Context, userID string, variant Variant) (*Session, error) {
	if variant == "" {
		variant = VariantTwoStep
	}
	if _, err := Steps(variant); err != nil {
		return nil, apperrors.ValidationFailed("Unknown wizard variant", string(variant))
	}
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Variant:   variant,
		Phase:     PhaseEditing,
		Draft:     types.TripDraft{Destinations: types.NewDestinationList()},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	logger.GetLogger().Infow("Wizard session started", "sessionID", sess.ID, "variant", variant, "userID", userID)
	return sess, nil
}

// Get loads a session owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Session, error) {
	sess, found, err := handoff.GetJSON[Session](ctx, s.cache, sessionKey(id))
	if err != nil {
		if errors.Is(err, handoff.ErrMalformed) {
			logger.GetLogger().Warnw("Discarding malformed wizard session", "sessionID", id, "error", err)
			return nil, apperrors.NotFound("Wizard session", id)
		}
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to load wizard session")
	}
	if !found {
		return nil, apperrors.NotFound("Wizard session", id)
	}
	if sess.UserID != userID {
		return nil, apperrors.Forbidden("Not your wizard session", id)
	}
	return sess, nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now()
	if err := handoff.SetJSON(ctx, s.cache, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to save wizard session")
	}
	return nil
}

// mutate loads, applies fn and saves the session when fn succeeds.
func (s *Service) mutate(ctx context.Context, userID, id string, fn func(*Session) error) (*Session, error) {
	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) PatchDraft(ctx context.Context, userID, id string, patch types.DraftPatch) (*Session, error) {
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Edit(func(d *types.TripDraft) error {
			patch.Apply(d)
			return nil
		})
	})
}

func (s *Service) AddDestination(ctx context.Context, userID, id string, dest types.Destination) (*Session, error) {
	if dest.PlaceID == "" {
		return nil, apperrors.ValidationFailed("Destination is missing a place id", "")
	}
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Edit(func(d *types.TripDraft) error {
			d.Destinations.Add(dest)
			return nil
		})
	})
}

func (s *Service) RemoveDestination(ctx context.Context, userID, id, placeID string) (*Session, error) {
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Edit(func(d *types.TripDraft) error {
			d.Destinations.Remove(placeID)
			return nil
		})
	})
}

func (s *Service) SetPrimaryDestination(ctx context.Context, userID, id, placeID string) (*Session, error) {
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Edit(func(d *types.TripDraft) error {
			if !d.Destinations.SetPrimary(placeID) {
				return apperrors.NotFound("Destination", placeID)
			}
			return nil
		})
	})
}

func (s *Service) Next(ctx context.Context, userID, id string) (*Session, error) {
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Next(ctx)
	})
}

func (s *Service) Back(ctx context.Context, userID, id string) (*Session, error) {
	return s.mutate(ctx, userID, id, func(sess *Session) error {
		return sess.Back()
	})
}

// claimSubmit takes the per-session submit claim. Only one caller across all
// instances sharing the cache gets it until it is released or expires.
func (s *Service) claimSubmit(ctx context.Context, userID, id string) error {
	ttl := s.ttl
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	claimed, err := s.cache.SetIfAbsent(ctx, submitKey(id), []byte(userID), ttl)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to claim wizard submission")
	}
	if !claimed {
		return apperrors.NewConflictError("Trip is already being created", "wait for the current submission to finish")
	}
	return nil
}

func (s *Service) releaseSubmit(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, submitKey(id)); err != nil {
		logger.GetLogger().Warnw("Failed to release wizard submit claim", "sessionID", id, "error", err)
	}
}

// Submit creates the trip from the draft. The submit claim is taken before
// the create call so a concurrent submit is turned away with a conflict. On
// failure the claim is released and the session goes back to its last step
// with the draft intact. After success the claim is left to expire.
func (s *Service) Submit(ctx context.Context, userID, id string, confirm bool) (*SubmitResult, error) {
	log := logger.GetLogger()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	req, err := sess.BeginSubmit(confirm, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.claimSubmit(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		s.releaseSubmit(ctx, id)
		return nil, err
	}

	trip, err := s.trips.CreateTrip(ctx, userID, req)
	if err != nil {
		log.Warnw("Trip creation from wizard failed", "sessionID", id, "provisionalID", req.ID, "error", err)
		sess.FailSubmit(err)
		if saveErr := s.save(ctx, sess); saveErr != nil {
			log.Errorw("Failed to restore wizard session after submit failure", "sessionID", id, "error", saveErr)
		}
		s.releaseSubmit(ctx, id)
		return nil, err
	}

	if trip.ID != req.ID {
		log.Infow("Provisional trip id reconciled", "provisionalID", req.ID, "tripID", trip.ID)
	}

	if sess.Variant == VariantFiveStep && s.diary != nil {
		if err := s.diary.ImportDraft(ctx, userID, trip.ID, sess.Draft); err != nil {
			// The trip exists; the diary can still be edited by hand.
			log.Errorw("Failed to import draft into diary", "tripID", trip.ID, "error", err)
		}
	}

	sess.CompleteSubmit(trip.ID)
	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		log.Warnw("Failed to discard wizard session", "sessionID", id, "error", err)
	}

	return &SubmitResult{
		Session:  sess.View(),
		Trip:     trip,
		Redirect: fmt.Sprintf("/trips/%s/itinerary?new=true", trip.ID),
	}, nil
}
