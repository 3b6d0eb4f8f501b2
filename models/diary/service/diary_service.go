// Package service renders and edits a trip diary: the stored itinerary plus
// the manually kept schedules, accommodations, travel legs and photos.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	istore "github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// TripReader checks that the caller owns the trip before any access.
type TripReader interface {
	FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error)
}

type DiaryService struct {
	diary       istore.DiaryStore
	itineraries istore.ItineraryStore
	contacts    istore.ContactStore
	companions  istore.CompanionStore
	trips       TripReader
	photos      PhotoStorage
	share       *ShareSigner
	mailer      ItineraryMailer
	opts        Options
}

// NewDiaryService wires the diary stores. photos and share may be nil, in
// which case the photo and share operations report that the feature is off.
func NewDiaryService(
	diary istore.DiaryStore,
	itineraries istore.ItineraryStore,
	contacts istore.ContactStore,
	companions istore.CompanionStore,
	trips TripReader,
	photos PhotoStorage,
	share *ShareSigner,
	opts Options,
) *DiaryService {
	return &DiaryService{
		diary:       diary,
		itineraries: itineraries,
		contacts:    contacts,
		companions:  companions,
		trips:       trips,
		photos:      photos,
		share:       share,
		opts:        opts.withDefaults(),
	}
}

func storeError(err error, entity, id string) error {
	if errors.Is(err, istore.ErrNotFound) {
		return apperrors.NotFound(entity, id)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewDatabaseError(err)
}

// GetDiary loads everything the diary viewer shows for a trip the caller owns.
func (s *DiaryService) GetDiary(ctx context.Context, userID, tripID string) (*types.Diary, error) {
	trip, err := s.trips.FetchTrip(ctx, userID, tripID, false)
	if err != nil {
		return nil, err
	}
	return s.LoadDiary(ctx, trip)
}

// LoadDiary assembles the diary for trip without an ownership check. The
// sections are read concurrently; a missing itinerary is not an error.
func (s *DiaryService) LoadDiary(ctx context.Context, trip *types.TripRecord) (*types.Diary, error) {
	d := &types.Diary{Trip: *trip}
	tripID := trip.ID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stored, err := s.itineraries.GetItinerary(gctx, tripID)
		if errors.Is(err, istore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		d.Itinerary = &stored.Itinerary
		return nil
	})
	g.Go(func() (err error) {
		d.Schedules, err = s.diary.ListSchedules(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		d.Accommodations, err = s.diary.ListAccommodations(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		d.TravelLegs, err = s.diary.ListTravelLegs(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		d.Companions, err = s.companions.ListCompanions(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		d.Contacts, err = s.contacts.ListContacts(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.GetLogger().Errorw("Failed to load diary", "tripID", tripID, "error", err)
		return nil, storeError(err, "Trip", tripID)
	}

	if d.Schedules == nil {
		d.Schedules = []types.DaySchedule{}
	}
	if d.Accommodations == nil {
		d.Accommodations = []types.Accommodation{}
	}
	if d.TravelLegs == nil {
		d.TravelLegs = []types.TravelLeg{}
	}
	if d.Companions == nil {
		d.Companions = []types.Companion{}
	}
	if d.Contacts == nil {
		d.Contacts = []types.EmergencyContact{}
	}
	d.Totals = Totals(d.Accommodations, d.TravelLegs)
	return d, nil
}

// Totals sums accommodation and travel costs per currency and the known
// travel distance. Entries without a price are skipped.
func Totals(accommodations []types.Accommodation, legs []types.TravelLeg) types.DiaryTotals {
	t := types.DiaryTotals{
		AccommodationCost: map[string]decimal.Decimal{},
		TravelCost:        map[string]decimal.Decimal{},
	}
	for _, a := range accommodations {
		total := a.TotalPrice()
		if !total.Valid {
			continue
		}
		cur := currencyKey(a.Currency)
		t.AccommodationCost[cur] = t.AccommodationCost[cur].Add(total.Decimal)
	}
	for _, l := range legs {
		if l.Cost.Valid {
			cur := currencyKey(l.Currency)
			t.TravelCost[cur] = t.TravelCost[cur].Add(l.Cost.Decimal)
		}
		if l.DistanceKm != nil {
			t.DistanceKm += *l.DistanceKm
		}
	}
	return t
}

func currencyKey(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return "UNKNOWN"
	}
	return c
}

// LegDistanceKm is the great-circle distance between both ends of a leg,
// rounded to 0.1 km, or nil when either end has no coordinates.
func LegDistanceKm(leg types.TravelLeg) *float64 {
	if leg.FromCoords == nil || leg.ToCoords == nil {
		return nil
	}
	from := orb.Point{leg.FromCoords.Lng, leg.FromCoords.Lat}
	to := orb.Point{leg.ToCoords.Lng, leg.ToCoords.Lat}
	km := decimal.NewFromFloat(geo.DistanceHaversine(from, to) / 1000).Round(1).InexactFloat64()
	return &km
}

// --- schedules ---

func (s *DiaryService) UpsertSchedule(ctx context.Context, userID, tripID string, schedule types.DaySchedule) (*types.DaySchedule, error) {
	if schedule.DayNumber < 1 {
		return nil, apperrors.ValidationFailed("Day number must be at least 1", "")
	}
	trip, err := s.trips.FetchTrip(ctx, userID, tripID, false)
	if err != nil {
		return nil, err
	}
	if err := checkDayInTrip(trip, schedule.DayNumber); err != nil {
		return nil, err
	}
	schedule.TripID = tripID
	schedule.Activities = strings.TrimSpace(schedule.Activities)
	saved, err := s.diary.UpsertSchedule(ctx, &schedule)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	return saved, nil
}

func (s *DiaryService) DeleteSchedule(ctx context.Context, userID, tripID string, dayNumber int) error {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return err
	}
	if err := s.diary.DeleteSchedule(ctx, tripID, dayNumber); err != nil {
		return storeError(err, "Day schedule", strconv.Itoa(dayNumber))
	}
	return nil
}

// checkDayInTrip rejects day numbers past the end of the trip. Trips with
// unparseable dates accept any positive day.
func checkDayInTrip(trip *types.TripRecord, day int) error {
	start, end, err := types.ParseTripDates(trip.StartDate, trip.EndDate)
	if err != nil {
		return nil
	}
	if days := types.TripDuration(start, end); day > days {
		return apperrors.ValidationFailed("Day number is outside the trip", "")
	}
	return nil
}

// --- accommodations ---

func (s *DiaryService) UpsertAccommodation(ctx context.Context, userID, tripID string, acc types.Accommodation) (*types.Accommodation, error) {
	if strings.TrimSpace(acc.Name) == "" {
		return nil, apperrors.ValidationFailed("Accommodation name is required", "")
	}
	if acc.CheckIn != "" || acc.CheckOut != "" {
		if _, _, err := types.ParseTripDates(acc.CheckIn, acc.CheckOut); err != nil {
			return nil, apperrors.ValidationFailed("Invalid check-in or check-out date", err.Error())
		}
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	acc.TripID = tripID
	acc.Name = strings.TrimSpace(acc.Name)
	acc.Currency = strings.ToUpper(strings.TrimSpace(acc.Currency))
	saved, err := s.diary.UpsertAccommodation(ctx, &acc)
	if err != nil {
		return nil, storeError(err, "Accommodation", acc.ID)
	}
	return saved, nil
}

func (s *DiaryService) DeleteAccommodation(ctx context.Context, userID, tripID, id string) error {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return err
	}
	if err := s.diary.DeleteAccommodation(ctx, tripID, id); err != nil {
		return storeError(err, "Accommodation", id)
	}
	return nil
}

// --- travel legs ---

func normalizeLeg(tripID string, leg types.TravelLeg) (types.TravelLeg, error) {
	if strings.TrimSpace(leg.FromName) == "" || strings.TrimSpace(leg.ToName) == "" {
		return leg, apperrors.ValidationFailed("Travel leg needs both a start and an end", "")
	}
	if leg.DepartAt != nil && leg.ArriveAt != nil && leg.ArriveAt.Before(*leg.DepartAt) {
		return leg, apperrors.ValidationFailed("Arrival cannot be before departure", "")
	}
	leg.Mode = types.TravelMode(strings.ToLower(string(leg.Mode)))
	if !leg.Mode.IsValid() {
		leg.Mode = types.TravelOther
	}
	leg.TripID = tripID
	leg.FromName = strings.TrimSpace(leg.FromName)
	leg.ToName = strings.TrimSpace(leg.ToName)
	leg.Currency = strings.ToUpper(strings.TrimSpace(leg.Currency))
	leg.DistanceKm = LegDistanceKm(leg)
	return leg, nil
}

func (s *DiaryService) UpsertTravelLeg(ctx context.Context, userID, tripID string, leg types.TravelLeg) (*types.TravelLeg, error) {
	leg, err := normalizeLeg(tripID, leg)
	if err != nil {
		return nil, err
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	saved, err := s.diary.UpsertTravelLeg(ctx, &leg)
	if err != nil {
		return nil, storeError(err, "Travel leg", leg.ID)
	}
	return saved, nil
}

func (s *DiaryService) DeleteTravelLeg(ctx context.Context, userID, tripID, id string) error {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return err
	}
	if err := s.diary.DeleteTravelLeg(ctx, tripID, id); err != nil {
		return storeError(err, "Travel leg", id)
	}
	return nil
}

// ImportDraft copies the schedules, legs and accommodations captured by the
// five-step wizard into the diary of the newly created trip. Blank entries
// are skipped; the first failing write aborts the import.
func (s *DiaryService) ImportDraft(ctx context.Context, userID, tripID string, draft types.TripDraft) error {
	log := logger.GetLogger()
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, true); err != nil {
		return err
	}

	imported := 0
	for i, sched := range draft.DaySchedules {
		if strings.TrimSpace(sched.Activities) == "" {
			continue
		}
		if sched.DayNumber < 1 {
			sched.DayNumber = i + 1
		}
		sched.ID, sched.TripID = "", tripID
		if _, err := s.diary.UpsertSchedule(ctx, &sched); err != nil {
			return storeError(err, "Trip", tripID)
		}
		imported++
	}
	for _, leg := range draft.TravelLegs {
		leg.ID = ""
		norm, err := normalizeLeg(tripID, leg)
		if err != nil {
			log.Debugw("Skipping incomplete travel leg", "tripID", tripID, "error", err)
			continue
		}
		if _, err := s.diary.UpsertTravelLeg(ctx, &norm); err != nil {
			return storeError(err, "Trip", tripID)
		}
		imported++
	}
	for _, acc := range draft.Accommodations {
		if strings.TrimSpace(acc.Name) == "" {
			continue
		}
		acc.ID, acc.TripID = "", tripID
		if _, err := s.diary.UpsertAccommodation(ctx, &acc); err != nil {
			return storeError(err, "Trip", tripID)
		}
		imported++
	}

	log.Infow("Imported wizard draft into diary", "tripID", tripID, "entries", imported)
	return nil
}
