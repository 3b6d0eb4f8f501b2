package types

import "time"

type ActivityType string

const (
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityAdventure   ActivityType = "adventure"
	ActivityRelaxation  ActivityType = "relaxation"
	ActivityCultural    ActivityType = "cultural"
	ActivityCulinary    ActivityType = "culinary"
	ActivityOther       ActivityType = "other"
)

// IsValid reports whether t is one of the known activity types.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivitySightseeing, ActivityAdventure, ActivityRelaxation,
		ActivityCultural, ActivityCulinary, ActivityOther:
		return true
	}
	return false
}

// ActivityOption is one proposed activity. ID is unique within its option.
type ActivityOption struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	Location    string       `json:"location"`
	Duration    string       `json:"duration,omitempty"`
	Cost        string       `json:"cost,omitempty"`
}

type ItineraryDayOption struct {
	DayNumber   int              `json:"dayNumber"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Activities  []ActivityOption `json:"activities"`
	Meals       []string         `json:"meals,omitempty"`
}

// ItineraryOption is one AI-proposed day-by-day plan.
type ItineraryOption struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Highlights  []string             `json:"highlights"`
	Days        []ItineraryDayOption `json:"days"`
}

// ActivityCount returns the number of activities across all days.
func (o ItineraryOption) ActivityCount() int {
	n := 0
	for _, d := range o.Days {
		n += len(d.Activities)
	}
	return n
}

// SelectedActivity is an activity kept for finalisation, tagged with the day
// it came from.
type SelectedActivity struct {
	ActivityOption
	DayNumber int `json:"dayNumber"`
}

type ItineraryActivity struct {
	Time        string       `json:"time,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        ActivityType `json:"type,omitempty"`
	Location    string       `json:"location,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Cost        string       `json:"cost,omitempty"`
}

type ItineraryDay struct {
	DayNumber  int                 `json:"dayNumber"`
	Date       string              `json:"date,omitempty"`
	Title      string              `json:"title"`
	Activities []ItineraryActivity `json:"activities"`
	Meals      []string            `json:"meals,omitempty"`
	Notes      string              `json:"notes,omitempty"`
}

// Itinerary is the final synthesised plan for a trip.
type Itinerary struct {
	Title   string         `json:"title"`
	Summary string         `json:"summary,omitempty"`
	Days    []ItineraryDay `json:"days"`
	Tips    []string       `json:"tips,omitempty"`
}

// StoredItinerary is an itinerary as persisted against a trip.
type StoredItinerary struct {
	TripID    string    `json:"tripId"`
	Itinerary Itinerary `json:"itinerary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ViewState is the position of a planning session in the
// options → customize → finalizing → final flow.
type ViewState string

const (
	ViewOptions    ViewState = "options"
	ViewCustomize  ViewState = "customize"
	ViewFinalizing ViewState = "finalizing"
	ViewFinal      ViewState = "final"
)

type GenerateOptionsRequest struct {
	TripDetails TripDetails `json:"tripDetails" binding:"required"`
}

type GenerateOptionsResponse struct {
	Success          bool              `json:"success"`
	ItineraryOptions []ItineraryOption `json:"itineraryOptions"`
}

type GenerateFinalRequest struct {
	TripDetails        TripDetails        `json:"tripDetails" binding:"required"`
	SelectedActivities []SelectedActivity `json:"selectedActivities" binding:"required"`
}

type GenerateFinalResponse struct {
	Success        bool       `json:"success"`
	FinalItinerary *Itinerary `json:"finalItinerary"`
}

// AIFailureResponse is returned by the AI endpoints when generation fails.
type AIFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SaveItineraryRequest struct {
	Itinerary Itinerary `json:"itinerary" binding:"required"`
}
