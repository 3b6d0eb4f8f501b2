package itinerary

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/handoff"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// TripReader loads a trip the caller owns. isNewTrip enables the handoff
// lookup and retrying read.
type TripReader interface {
	FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error)
}

type ItinerarySaver interface {
	SaveItinerary(ctx context.Context, userID, tripID string, itinerary types.Itinerary) (*types.StoredItinerary, error)
}

// HomeCountryLookup resolves the caller's home country for prompts. An
// empty result means unknown.
type HomeCountryLookup interface {
	HomeCountry(ctx context.Context, userID string) (string, error)
}

// Redirect tells the client where to go once the itinerary is final.
type Redirect struct {
	Path    string `json:"path"`
	DelayMs int64  `json:"delayMs"`
}

// Plan is one user's planning session for one trip.
type Plan struct {
	TripID           string                  `json:"tripId"`
	UserID           string                  `json:"userId"`
	View             types.ViewState         `json:"view"`
	Details          types.TripDetails       `json:"tripDetails"`
	Options          []types.ItineraryOption `json:"itineraryOptions"`
	SelectedOptionID string                  `json:"selectedOptionId,omitempty"`
	Selection        SelectionMap            `json:"selection,omitempty"`
	Final            *types.Itinerary        `json:"finalItinerary,omitempty"`
	Redirect         *Redirect               `json:"redirect,omitempty"`
	LastError        string                  `json:"lastError,omitempty"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// SelectedOption returns the option being customised.
func (p *Plan) SelectedOption() (types.ItineraryOption, bool) {
	for _, o := range p.Options {
		if o.ID == p.SelectedOptionID {
			return o, true
		}
	}
	return types.ItineraryOption{}, false
}

func (p *Plan) requireView(v types.ViewState) error {
	if p.View != v {
		return apperrors.NewConflictError(
			fmt.Sprintf("Planner is in %s, not %s", p.View, v),
			"reload the planner state and try again")
	}
	return nil
}

// Planner runs the options → customize → finalizing → final flow. State
// lives in the handoff cache and is replaced whole on every transition.
type Planner struct {
	gen           *Generator
	trips         TripReader
	saver         ItinerarySaver
	profiles      HomeCountryLookup
	cache         handoff.Store
	ttl           time.Duration
	redirectDelay time.Duration
	now           func() time.Time
}

func NewPlanner(
	gen *Generator,
	trips TripReader,
	saver ItinerarySaver,
	profiles HomeCountryLookup,
	cache handoff.Store,
	ttl time.Duration,
	redirectDelay time.Duration,
) *Planner {
	return &Planner{
		gen:           gen,
		trips:         trips,
		saver:         saver,
		profiles:      profiles,
		cache:         cache,
		ttl:           ttl,
		redirectDelay: redirectDelay,
		now:           time.Now,
	}
}

func planKey(userID, tripID string) string {
	return "planner:" + userID + ":" + tripID
}

// HomeCountry returns the caller's home country, or "" when it is unknown
// or the lookup fails.
func (p *Planner) HomeCountry(ctx context.Context, userID string) string {
	if p.profiles == nil || userID == "" {
		return ""
	}
	country, err := p.profiles.HomeCountry(ctx, userID)
	if err != nil {
		logger.GetLogger().Warnw("Home country lookup failed", "userID", userID, "error", err)
		return ""
	}
	return country
}

// Generator exposes the underlying generator for the stateless endpoints.
func (p *Planner) Generator() *Generator {
	return p.gen
}

func (p *Planner) save(ctx context.Context, plan *Plan) error {
	plan.UpdatedAt = p.now()
	if err := handoff.SetJSON(ctx, p.cache, planKey(plan.UserID, plan.TripID), plan, p.ttl); err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to save planner state")
	}
	return nil
}

// Get returns the current planning state for a trip.
func (p *Planner) Get(ctx context.Context, userID, tripID string) (*Plan, error) {
	plan, found, err := handoff.GetJSON[Plan](ctx, p.cache, planKey(userID, tripID))
	if err != nil {
		if errors.Is(err, handoff.ErrMalformed) {
			logger.GetLogger().Warnw("Discarding malformed planner state", "tripID", tripID, "error", err)
			return nil, apperrors.NotFound("Planner state", tripID)
		}
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to load planner state")
	}
	if !found {
		return nil, apperrors.NotFound("Planner state", tripID)
	}
	return plan, nil
}

// Options generates fresh options for the trip and resets the flow to the
// options view. A failure leaves any earlier state untouched.
func (p *Planner) Options(ctx context.Context, userID, tripID string, isNewTrip bool) (*Plan, error) {
	trip, err := p.trips.FetchTrip(ctx, userID, tripID, isNewTrip)
	if err != nil {
		return nil, err
	}
	details := trip.Details()
	details.HomeCountry = p.HomeCountry(ctx, userID)

	options, err := p.gen.GenerateOptions(ctx, details)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		TripID:  trip.ID,
		UserID:  userID,
		View:    types.ViewOptions,
		Details: details,
		Options: options,
	}
	if err := p.save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Planner) transition(ctx context.Context, userID, tripID string, fn func(*Plan) error) (*Plan, error) {
	plan, err := p.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	if err := p.save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Select picks an option to customise; all of its activities start selected.
func (p *Planner) Select(ctx context.Context, userID, tripID, optionID string) (*Plan, error) {
	return p.transition(ctx, userID, tripID, func(plan *Plan) error {
		if err := plan.requireView(types.ViewOptions); err != nil {
			return err
		}
		plan.SelectedOptionID = optionID
		opt, ok := plan.SelectedOption()
		if !ok {
			plan.SelectedOptionID = ""
			return apperrors.NotFound("Itinerary option", optionID)
		}
		plan.Selection = NewSelectionMap(opt)
		plan.View = types.ViewCustomize
		plan.LastError = ""
		return nil
	})
}

func (p *Planner) Toggle(ctx context.Context, userID, tripID, activityID string) (*Plan, error) {
	return p.transition(ctx, userID, tripID, func(plan *Plan) error {
		if err := plan.requireView(types.ViewCustomize); err != nil {
			return err
		}
		if _, err := plan.Selection.Toggle(activityID); err != nil {
			return apperrors.NotFound("Activity", activityID)
		}
		return nil
	})
}

// BackToOptions discards the selection and returns to the option list.
func (p *Planner) BackToOptions(ctx context.Context, userID, tripID string) (*Plan, error) {
	return p.transition(ctx, userID, tripID, func(plan *Plan) error {
		if err := plan.requireView(types.ViewCustomize); err != nil {
			return err
		}
		plan.SelectedOptionID = ""
		plan.Selection = nil
		plan.View = types.ViewOptions
		plan.LastError = ""
		return nil
	})
}

// Finalize synthesises and stores the itinerary from the kept activities.
// On any failure the plan returns to customize with the chosen option and
// selection intact.
func (p *Planner) Finalize(ctx context.Context, userID, tripID string) (*Plan, error) {
	log := logger.GetLogger()

	plan, err := p.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if err := plan.requireView(types.ViewCustomize); err != nil {
		return nil, err
	}
	opt, ok := plan.SelectedOption()
	if !ok {
		return nil, apperrors.NotFound("Itinerary option", plan.SelectedOptionID)
	}
	selected := plan.Selection.Flatten(opt)
	if len(selected) == 0 {
		return nil, apperrors.ValidationFailed("Select at least one activity", "")
	}

	plan.View = types.ViewFinalizing
	if err := p.save(ctx, plan); err != nil {
		return nil, err
	}

	fail := func(err error) (*Plan, error) {
		log.Warnw("Itinerary finalisation failed", "tripID", tripID, "error", err)
		plan.View = types.ViewCustomize
		plan.LastError = err.Error()
		if saveErr := p.save(ctx, plan); saveErr != nil {
			log.Errorw("Failed to restore planner state", "tripID", tripID, "error", saveErr)
		}
		return nil, err
	}

	final, err := p.gen.GenerateFinal(ctx, plan.Details, selected)
	if err != nil {
		return fail(err)
	}
	if _, err := p.saver.SaveItinerary(ctx, userID, tripID, *final); err != nil {
		return fail(err)
	}

	plan.Final = final
	plan.View = types.ViewFinal
	plan.Selection = nil
	plan.LastError = ""
	plan.Redirect = &Redirect{
		Path:    fmt.Sprintf("/trips/%s/diary", tripID),
		DelayMs: p.redirectDelay.Milliseconds(),
	}
	if err := p.save(ctx, plan); err != nil {
		return nil, err
	}
	log.Infow("Itinerary finalised", "tripID", tripID, "activities", len(selected), "days", len(final.Days))
	return plan, nil
}
