package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	istore "github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// ItineraryMailer delivers an itinerary email.
type ItineraryMailer interface {
	SendItinerary(ctx context.Context, msg types.ItineraryEmail) error
}

// SetMailer enables EmailItinerary.
func (s *DiaryService) SetMailer(m ItineraryMailer) {
	s.mailer = m
}

// EmailItinerary sends the trip's final itinerary to every companion with an
// email address. A share link is attached when sharing is configured.
func (s *DiaryService) EmailItinerary(ctx context.Context, userID, tripID, senderName string) (*types.EmailItineraryResponse, error) {
	log := logger.GetLogger()
	if s.mailer == nil {
		return nil, apperrors.New(apperrors.ServerError, "Email is not configured", "")
	}
	trip, err := s.trips.FetchTrip(ctx, userID, tripID, false)
	if err != nil {
		return nil, err
	}

	stored, err := s.itineraries.GetItinerary(ctx, tripID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return nil, apperrors.ValidationFailed("Trip has no itinerary yet", "")
		}
		return nil, storeError(err, "Trip", tripID)
	}

	companions, err := s.companions.ListCompanions(ctx, tripID)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	seen := map[string]bool{}
	var recipients []string
	for _, c := range companions {
		addr := strings.ToLower(strings.TrimSpace(c.Email))
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return nil, apperrors.ValidationFailed("No companion has an email address", "")
	}

	msg := types.ItineraryEmail{
		To:         recipients,
		SenderName: senderName,
		TripTitle:  trip.Title,
		StartDate:  trip.StartDate,
		EndDate:    trip.EndDate,
		Itinerary:  stored.Itinerary,
	}
	if s.share != nil {
		if link, err := s.share.Sign(userID, tripID); err == nil {
			msg.ShareURL = link.URL
		} else {
			log.Warnw("Failed to sign share link for email", "tripID", tripID, "error", err)
		}
	}

	if err := s.mailer.SendItinerary(ctx, msg); err != nil {
		return nil, apperrors.ProviderFailed("Email", err)
	}
	return &types.EmailItineraryResponse{Recipients: recipients, ShareURL: msg.ShareURL}, nil
}
