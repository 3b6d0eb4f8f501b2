package types

import (
	"fmt"
	"strings"
	"time"
)

// ProvisionalIDPrefix marks ids minted before the trip row exists.
const ProvisionalIDPrefix = "trip-"

// ProvisionalTripID returns the id a client mints for a trip it is about to
// create: "trip-<epochMillis>".
func ProvisionalTripID(now time.Time) string {
	return fmt.Sprintf("%s%d", ProvisionalIDPrefix, now.UnixMilli())
}

// HandoffKey is the cache key a trip is mirrored under after creation.
func HandoffKey(tripID string) string {
	if strings.HasPrefix(tripID, ProvisionalIDPrefix) {
		return tripID
	}
	return ProvisionalIDPrefix + tripID
}

// TripRecord is a persisted trip.
type TripRecord struct {
	ID                     string        `json:"id"`
	UserID                 string        `json:"user_id"`
	Title                  string        `json:"title"`
	StartDate              string        `json:"start_date"`
	EndDate                string        `json:"end_date"`
	Budget                 string        `json:"budget,omitempty"`
	Interests              string        `json:"interests,omitempty"`
	Notes                  string        `json:"notes,omitempty"`
	Destination            string        `json:"destination"`
	DestinationCoords      *Coordinates  `json:"destination_coords,omitempty"`
	PlaceID                string        `json:"place_id,omitempty"`
	AdditionalDestinations []Destination `json:"additional_destinations,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

// CreateTripRequest is the body of POST /v1/trips. ID is the provisional
// id minted by the caller and may be empty.
type CreateTripRequest struct {
	ID                     string        `json:"id" example:"trip-1718400000000"`
	UserID                 string        `json:"user_id,omitempty"`
	Title                  string        `json:"title" binding:"required" example:"Tokyo Trip"`
	StartDate              string        `json:"start_date" binding:"required" example:"2025-06-15"`
	EndDate                string        `json:"end_date" binding:"required" example:"2025-06-22"`
	Budget                 string        `json:"budget,omitempty" example:"2000 USD"`
	Interests              string        `json:"interests,omitempty" example:"food, temples"`
	Notes                  string        `json:"notes,omitempty"`
	Destination            string        `json:"destination" binding:"required" example:"Tokyo, Japan"`
	DestinationCoords      *Coordinates  `json:"destination_coords,omitempty"`
	PlaceID                string        `json:"place_id,omitempty"`
	AdditionalDestinations []Destination `json:"additional_destinations,omitempty"`
}

// Record converts the request into a record owned by userID.
func (r CreateTripRequest) Record(userID string) TripRecord {
	return TripRecord{
		ID:                     r.ID,
		UserID:                 userID,
		Title:                  strings.TrimSpace(r.Title),
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		Budget:                 r.Budget,
		Interests:              r.Interests,
		Notes:                  r.Notes,
		Destination:            r.Destination,
		DestinationCoords:      r.DestinationCoords,
		PlaceID:                r.PlaceID,
		AdditionalDestinations: r.AdditionalDestinations,
	}
}

// CreateTripRequestFromDraft maps a wizard draft onto the create body. The
// primary destination fills destination, destination_coords and place_id;
// the rest go to additional_destinations.
func CreateTripRequestFromDraft(id string, d TripDraft) CreateTripRequest {
	req := CreateTripRequest{
		ID:        id,
		Title:     d.Title,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Budget:    d.Budget,
		Interests: d.Interests,
		Notes:     d.Notes,
	}
	items := d.Destinations.Items()
	if len(items) > 0 {
		p := items[0]
		req.Destination = p.FormattedName
		if req.Destination == "" {
			req.Destination = p.Name
		}
		coords := p.Coordinates
		req.DestinationCoords = &coords
		req.PlaceID = p.PlaceID
		if len(items) > 1 {
			req.AdditionalDestinations = items[1:]
		}
	}
	return req
}

// DestinationNames lists the primary destination followed by the additional
// ones, skipping repeats.
func (t TripRecord) DestinationNames() []string {
	seen := map[string]struct{}{}
	var names []string
	add := func(n string) {
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	add(t.Destination)
	for _, d := range t.AdditionalDestinations {
		if d.FormattedName != "" {
			add(d.FormattedName)
		} else {
			add(d.Name)
		}
	}
	return names
}

// Details projects the record into the generator input.
func (t TripRecord) Details() TripDetails {
	return TripDetails{
		TripID:       t.ID,
		Title:        t.Title,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Budget:       t.Budget,
		Interests:    t.Interests,
		Notes:        t.Notes,
		Destinations: t.DestinationNames(),
	}
}

// TripDetails is what the itinerary generator needs to know about a trip.
type TripDetails struct {
	TripID       string   `json:"tripId,omitempty"`
	Title        string   `json:"title"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Budget       string   `json:"budget,omitempty"`
	Interests    string   `json:"interests,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Destinations []string `json:"destinations"`
	HomeCountry  string   `json:"homeCountry,omitempty"`
}
