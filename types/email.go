package types

// ItineraryEmail is one itinerary mail sent to a trip's companions.
type ItineraryEmail struct {
	To         []string
	ReplyTo    string
	SenderName string
	TripTitle  string
	StartDate  string
	EndDate    string
	Itinerary  Itinerary
	ShareURL   string
}

// EmailItineraryResponse reports who an itinerary was sent to.
type EmailItineraryResponse struct {
	Recipients []string `json:"recipients"`
	ShareURL   string   `json:"shareUrl,omitempty"`
}
