package service

import (
	"context"
	"strings"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

func companionFromInput(tripID string, in types.CompanionInput) types.Companion {
	return types.Companion{
		TripID:       tripID,
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Relationship: strings.TrimSpace(in.Relationship),
		Notes:        strings.TrimSpace(in.Notes),
	}
}

func (s *ContactService) ListCompanions(ctx context.Context, userID, tripID string) ([]types.Companion, error) {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	companions, err := s.companions.ListCompanions(ctx, tripID)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	return companions, nil
}

func (s *ContactService) AddCompanion(ctx context.Context, userID, tripID string, in types.CompanionInput) (*types.Companion, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.ValidationFailed("Companion name is required", "")
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	c := companionFromInput(tripID, in)
	created, err := s.companions.CreateCompanion(ctx, &c)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	return created, nil
}

func (s *ContactService) UpdateCompanion(ctx context.Context, userID, tripID, id string, in types.CompanionInput) (*types.Companion, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.ValidationFailed("Companion name is required", "")
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	c := companionFromInput(tripID, in)
	c.ID = id
	updated, err := s.companions.UpdateCompanion(ctx, &c)
	if err != nil {
		return nil, storeError(err, "Companion", id)
	}
	return updated, nil
}

func (s *ContactService) DeleteCompanion(ctx context.Context, userID, tripID, id string) error {
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return err
	}
	if err := s.companions.DeleteCompanion(ctx, tripID, id); err != nil {
		return storeError(err, "Companion", id)
	}
	return nil
}
