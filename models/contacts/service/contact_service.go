// Package service manages a trip's emergency contacts and travel
// companions, including AI-assisted contact generation and extraction.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	istore "github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/pkg/llm"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

const (
	opGenerateContacts = "generate_contacts"
	opExtractContacts  = "extract_contacts"

	maxExtractTextLength = 20000
)

// TripReader checks that the caller owns the trip before any access.
type TripReader interface {
	FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error)
}

type HomeCountryLookup interface {
	HomeCountry(ctx context.Context, userID string) (string, error)
}

type ContactService struct {
	contacts   istore.ContactStore
	companions istore.CompanionStore
	trips      TripReader
	completer  llm.Completer
	profiles   HomeCountryLookup
	metrics    *metrics.Metrics
}

func NewContactService(
	contacts istore.ContactStore,
	companions istore.CompanionStore,
	trips TripReader,
	completer llm.Completer,
	profiles HomeCountryLookup,
	m *metrics.Metrics,
) *ContactService {
	return &ContactService{
		contacts:   contacts,
		companions: companions,
		trips:      trips,
		completer:  completer,
		profiles:   profiles,
		metrics:    m,
	}
}

func storeError(err error, entity, id string) error {
	if errors.Is(err, istore.ErrNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.NewDatabaseError(err)
}

func (s *ContactService) ListContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error) {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListContacts(ctx, tripID)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	return contacts, nil
}

func contactFromInput(in types.ContactInput, source types.ContactSource) types.EmergencyContact {
	category := types.ContactCategory(strings.ToLower(strings.TrimSpace(string(in.Category))))
	if !category.IsValid() {
		category = types.ContactOther
	}
	return types.EmergencyContact{
		Name:     strings.TrimSpace(in.Name),
		Category: category,
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		Address:  strings.TrimSpace(in.Address),
		Notes:    strings.TrimSpace(in.Notes),
		Source:   source,
	}
}

func (s *ContactService) AddContact(ctx context.Context, userID, tripID string, in types.ContactInput) (*types.EmergencyContact, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.ValidationFailed("Contact name is required", "")
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	created, err := s.contacts.CreateContacts(ctx, tripID, []types.EmergencyContact{contactFromInput(in, types.SourceManual)})
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	return &created[0], nil
}

func (s *ContactService) UpdateContact(ctx context.Context, userID, tripID, id string, in types.ContactInput) (*types.EmergencyContact, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.ValidationFailed("Contact name is required", "")
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	c := contactFromInput(in, types.SourceManual)
	c.ID, c.TripID = id, tripID
	updated, err := s.contacts.UpdateContact(ctx, &c)
	if err != nil {
		return nil, storeError(err, "Contact", id)
	}
	return updated, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, userID, tripID, id string) error {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return err
	}
	if err := s.contacts.DeleteContact(ctx, tripID, id); err != nil {
		return storeError(err, "Contact", id)
	}
	return nil
}

// GenerateContacts asks the AI for the emergency numbers, embassies and
// hospitals relevant to the trip's destinations and stores them.
func (s *ContactService) GenerateContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error) {
	trip, err := s.trips.FetchTrip(ctx, userID, tripID, false)
	if err != nil {
		return nil, err
	}
	home := ""
	if s.profiles != nil {
		if home, err = s.profiles.HomeCountry(ctx, userID); err != nil {
			logger.GetLogger().Warnw("Home country lookup failed", "userID", userID, "error", err)
			home = ""
		}
	}
	return s.completeAndStore(ctx, opGenerateContacts, tripID, generatePrompt(trip.DestinationNames(), home), types.SourceGenerated)
}

// ExtractContacts pulls contacts out of pasted free text, such as a booking
// confirmation or an insurance policy.
func (s *ContactService) ExtractContacts(ctx context.Context, userID, tripID, text string) ([]types.EmergencyContact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationFailed("Text is required", "")
	}
	if len(text) > maxExtractTextLength {
		return nil, apperrors.ValidationFailed("Text is too long", fmt.Sprintf("limit is %d characters", maxExtractTextLength))
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	return s.completeAndStore(ctx, opExtractContacts, tripID, extractPrompt(text), types.SourceExtracted)
}

func (s *ContactService) completeAndStore(ctx context.Context, op, tripID, prompt string, source types.ContactSource) ([]types.EmergencyContact, error) {
	log := logger.GetLogger()

	started := time.Now()
	raw, err := s.completer.CompleteJSON(ctx, llm.Request{System: contactsSystemPrompt, Prompt: prompt})
	s.metrics.ObserveAI(op, started, err)
	if err != nil {
		log.Errorw("AI contact completion failed", "operation", op, "tripID", tripID, "error", err)
		return nil, apperrors.ProviderFailed("AI", err)
	}

	inputs, err := parseContacts(raw)
	if err != nil {
		return nil, apperrors.ParseFailed("Failed to parse emergency contacts", err)
	}

	contacts := make([]types.EmergencyContact, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			continue
		}
		contacts = append(contacts, contactFromInput(in, source))
	}
	if len(contacts) == 0 {
		return []types.EmergencyContact{}, nil
	}

	created, err := s.contacts.CreateContacts(ctx, tripID, contacts)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	log.Infow("Emergency contacts stored", "operation", op, "tripID", tripID, "count", len(created))
	return created, nil
}

func parseContacts(raw string) ([]types.ContactInput, error) {
	var body struct {
		EmergencyContacts json.RawMessage `json:"emergencyContacts"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v := strings.TrimSpace(string(body.EmergencyContacts))
	if !strings.HasPrefix(v, "[") {
		return nil, errors.New("emergencyContacts must be an array")
	}
	var out []types.ContactInput
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("emergencyContacts: %w", err)
	}
	return out, nil
}
