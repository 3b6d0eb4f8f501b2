package types

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format of trip dates.
const DateLayout = "2006-01-02"

var (
	ErrDatesMissing  = errors.New("start and end dates are required")
	ErrDateInvalid   = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrDateOrder     = errors.New("end date cannot be before start date")
	ErrNoDestination = errors.New("at least one destination is required")
)

// TripDraft is a trip being assembled by the creation wizard. It is never
// persisted as such; submitting it creates a TripRecord.
type TripDraft struct {
	Title          string          `json:"title"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	Budget         string          `json:"budget,omitempty"`
	Interests      string          `json:"interests,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Destinations   DestinationList `json:"destinations"`
	DaySchedules   []DaySchedule   `json:"daySchedules,omitempty"`
	TravelLegs     []TravelLeg     `json:"travelLegs,omitempty"`
	Accommodations []Accommodation `json:"accommodations,omitempty"`
}

// DraftPatch carries partial updates to the scalar fields of a draft.
type DraftPatch struct {
	Title          *string          `json:"title,omitempty"`
	StartDate      *string          `json:"startDate,omitempty"`
	EndDate        *string          `json:"endDate,omitempty"`
	Budget         *string          `json:"budget,omitempty"`
	Interests      *string          `json:"interests,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	DaySchedules   *[]DaySchedule   `json:"daySchedules,omitempty"`
	TravelLegs     *[]TravelLeg     `json:"travelLegs,omitempty"`
	Accommodations *[]Accommodation `json:"accommodations,omitempty"`
}

// Apply copies every non-nil field of p onto d.
func (p DraftPatch) Apply(d *TripDraft) {
	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setIf(&d.Title, p.Title)
	setIf(&d.StartDate, p.StartDate)
	setIf(&d.EndDate, p.EndDate)
	setIf(&d.Budget, p.Budget)
	setIf(&d.Interests, p.Interests)
	setIf(&d.Notes, p.Notes)
	if p.DaySchedules != nil {
		d.DaySchedules = *p.DaySchedules
	}
	if p.TravelLegs != nil {
		d.TravelLegs = *p.TravelLegs
	}
	if p.Accommodations != nil {
		d.Accommodations = *p.Accommodations
	}
}

// ParseTripDates parses both dates and checks that end is not before start.
func ParseTripDates(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, ErrDatesMissing
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrDateInvalid
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrDateInvalid
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, ErrDateOrder
	}
	return s, e, nil
}

// TripDuration returns the inclusive day count between start and end:
// ceil((end-start)/24h) + 1. It may be zero or negative for reversed input.
func TripDuration(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	return int(math.Ceil(days)) + 1
}

// Validate checks the invariants a draft must hold before it can become a trip.
func (d TripDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title is required")
	}
	if d.Destinations.Len() == 0 {
		return ErrNoDestination
	}
	_, _, err := ParseTripDates(d.StartDate, d.EndDate)
	return err
}

// Details projects the draft into the shape the itinerary generator takes.
func (d TripDraft) Details() TripDetails {
	return TripDetails{
		Title:        d.Title,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Budget:       d.Budget,
		Interests:    d.Interests,
		Notes:        d.Notes,
		Destinations: d.Destinations.Names(),
	}
}
