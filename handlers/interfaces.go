package handlers

import (
	"context"
	"io"

	"github.com/NomadCrew/nomad-diary-backend/models/itinerary"
	"github.com/NomadCrew/nomad-diary-backend/models/wizard"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// ItineraryGenerator backs the stateless AI endpoints.
type ItineraryGenerator interface {
	GenerateOptions(ctx context.Context, d types.TripDetails) ([]types.ItineraryOption, error)
	GenerateFinal(ctx context.Context, d types.TripDetails, selected []types.SelectedActivity) (*types.Itinerary, error)
}

type DestinationSearcher interface {
	Search(ctx context.Context, query, countryCode string) (*types.SearchResponse, error)
}

type WizardService interface {
	Start(ctx context.Context, userID string, variant wizard.Variant) (*wizard.Session, error)
	Get(ctx context.Context, userID, id string) (*wizard.Session, error)
	PatchDraft(ctx context.Context, userID, id string, patch types.DraftPatch) (*wizard.Session, error)
	AddDestination(ctx context.Context, userID, id string, dest types.Destination) (*wizard.Session, error)
	RemoveDestination(ctx context.Context, userID, id, placeID string) (*wizard.Session, error)
	SetPrimaryDestination(ctx context.Context, userID, id, placeID string) (*wizard.Session, error)
	Next(ctx context.Context, userID, id string) (*wizard.Session, error)
	Back(ctx context.Context, userID, id string) (*wizard.Session, error)
	Submit(ctx context.Context, userID, id string, confirm bool) (*wizard.SubmitResult, error)
}

type PlannerService interface {
	Get(ctx context.Context, userID, tripID string) (*itinerary.Plan, error)
	Options(ctx context.Context, userID, tripID string, isNewTrip bool) (*itinerary.Plan, error)
	Select(ctx context.Context, userID, tripID, optionID string) (*itinerary.Plan, error)
	Toggle(ctx context.Context, userID, tripID, activityID string) (*itinerary.Plan, error)
	BackToOptions(ctx context.Context, userID, tripID string) (*itinerary.Plan, error)
	Finalize(ctx context.Context, userID, tripID string) (*itinerary.Plan, error)
}

type ContactService interface {
	ListContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error)
	AddContact(ctx context.Context, userID, tripID string, in types.ContactInput) (*types.EmergencyContact, error)
	UpdateContact(ctx context.Context, userID, tripID, id string, in types.ContactInput) (*types.EmergencyContact, error)
	DeleteContact(ctx context.Context, userID, tripID, id string) error
	GenerateContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error)
	ExtractContacts(ctx context.Context, userID, tripID, text string) ([]types.EmergencyContact, error)

	ListCompanions(ctx context.Context, userID, tripID string) ([]types.Companion, error)
	AddCompanion(ctx context.Context, userID, tripID string, in types.CompanionInput) (*types.Companion, error)
	UpdateCompanion(ctx context.Context, userID, tripID, id string, in types.CompanionInput) (*types.Companion, error)
	DeleteCompanion(ctx context.Context, userID, tripID, id string) error
}

type DiaryService interface {
	GetDiary(ctx context.Context, userID, tripID string) (*types.Diary, error)
	UpsertSchedule(ctx context.Context, userID, tripID string, schedule types.DaySchedule) (*types.DaySchedule, error)
	DeleteSchedule(ctx context.Context, userID, tripID string, dayNumber int) error
	UpsertAccommodation(ctx context.Context, userID, tripID string, acc types.Accommodation) (*types.Accommodation, error)
	DeleteAccommodation(ctx context.Context, userID, tripID, id string) error
	UpsertTravelLeg(ctx context.Context, userID, tripID string, leg types.TravelLeg) (*types.TravelLeg, error)
	DeleteTravelLeg(ctx context.Context, userID, tripID, id string) error

	UploadPhoto(ctx context.Context, userID, tripID string, day int, body io.Reader, size int64) (*types.DiaryPhoto, error)
	ListPhotos(ctx context.Context, userID, tripID string, day int) ([]types.DiaryPhoto, error)

	CreateShareLink(ctx context.Context, userID, tripID string) (*types.ShareLinkResponse, error)
	SharedDiary(ctx context.Context, token string) (*types.Diary, error)
	EmailItinerary(ctx context.Context, userID, tripID, senderName string) (*types.EmailItineraryResponse, error)
}
