package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaySchedule is a manually entered plan for one trip day.
type DaySchedule struct {
	ID         string    `json:"id,omitempty"`
	TripID     string    `json:"tripId,omitempty"`
	DayNumber  int       `json:"dayNumber"`
	Date       string    `json:"date,omitempty"`
	Activities string    `json:"activities"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

type Accommodation struct {
	ID                 string              `json:"id,omitempty"`
	TripID             string              `json:"tripId,omitempty"`
	Name               string              `json:"name"`
	Address            string              `json:"address,omitempty"`
	CheckIn            string              `json:"checkIn,omitempty"`
	CheckOut           string              `json:"checkOut,omitempty"`
	ConfirmationNumber string              `json:"confirmationNumber,omitempty"`
	PricePerNight      decimal.NullDecimal `json:"pricePerNight"`
	Currency           string              `json:"currency,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	UpdatedAt          time.Time           `json:"updatedAt,omitempty"`
}

// Nights returns the number of nights between check-in and check-out, or 0
// when either date is missing or malformed.
func (a Accommodation) Nights() int {
	in, out, err := ParseTripDates(a.CheckIn, a.CheckOut)
	if err != nil {
		return 0
	}
	return TripDuration(in, out) - 1
}

// TotalPrice is PricePerNight times Nights, when a price is known.
func (a Accommodation) TotalPrice() decimal.NullDecimal {
	if !a.PricePerNight.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.PricePerNight.Decimal.Mul(decimal.NewFromInt(int64(a.Nights()))))
}

type TravelMode string

const (
	TravelFlight TravelMode = "flight"
	TravelTrain  TravelMode = "train"
	TravelBus    TravelMode = "bus"
	TravelCar    TravelMode = "car"
	TravelFerry  TravelMode = "ferry"
	TravelOther  TravelMode = "other"
)

func (m TravelMode) IsValid() bool {
	switch m {
	case TravelFlight, TravelTrain, TravelBus, TravelCar, TravelFerry, TravelOther:
		return true
	}
	return false
}

// TravelLeg is a single hop between two places. DistanceKm is filled in by
// the diary service when both ends have coordinates.
type TravelLeg struct {
	ID         string              `json:"id,omitempty"`
	TripID     string              `json:"tripId,omitempty"`
	Mode       TravelMode          `json:"mode"`
	FromName   string              `json:"fromName"`
	ToName     string              `json:"toName"`
	FromCoords *Coordinates        `json:"fromCoords,omitempty"`
	ToCoords   *Coordinates        `json:"toCoords,omitempty"`
	DepartAt   *time.Time          `json:"departAt,omitempty"`
	ArriveAt   *time.Time          `json:"arriveAt,omitempty"`
	Reference  string              `json:"reference,omitempty"`
	Cost       decimal.NullDecimal `json:"cost"`
	Currency   string              `json:"currency,omitempty"`
	DistanceKm *float64            `json:"distanceKm,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	UpdatedAt  time.Time           `json:"updatedAt,omitempty"`
}

// DiaryPhoto is an image attached to a trip day.
type DiaryPhoto struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	DayNumber   int       `json:"dayNumber"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	URL         string    `json:"url,omitempty"`
}

// Diary is everything the diary viewer renders for a trip.
type Diary struct {
	Trip           TripRecord         `json:"trip"`
	Itinerary      *Itinerary         `json:"itinerary,omitempty"`
	Schedules      []DaySchedule      `json:"schedules"`
	Accommodations []Accommodation    `json:"accommodations"`
	TravelLegs     []TravelLeg        `json:"travelLegs"`
	Companions     []Companion        `json:"companions"`
	Contacts       []EmergencyContact `json:"emergencyContacts"`
	Totals         DiaryTotals        `json:"totals"`
}

// DiaryTotals sums known costs per currency.
type DiaryTotals struct {
	AccommodationCost map[string]decimal.Decimal `json:"accommodationCost"`
	TravelCost        map[string]decimal.Decimal `json:"travelCost"`
	DistanceKm        float64                    `json:"distanceKm"`
}

// ShareLinkResponse is returned when a read-only diary link is minted.
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
