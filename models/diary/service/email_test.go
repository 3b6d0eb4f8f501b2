package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	istore "github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendItinerary(ctx context.Context, msg types.ItineraryEmail) error {
	return m.Called(ctx, msg).Error(0)
}

func TestEmailItinerary(t *testing.T) {
	f := newDiaryFixture()
	mailer := new(MockMailer)
	f.svc.SetMailer(mailer)
	ctx := context.Background()

	f.trips.On("FetchTrip", ctx, "user-1", "trip-1", false).Return(testTrip(), nil)
	f.itineraries.On("GetItinerary", ctx, "trip-1").
		Return(&types.StoredItinerary{Itinerary: types.Itinerary{Title: "Four days"}}, nil)
	f.companions.On("ListCompanions", ctx, "trip-1").Return([]types.Companion{
		{Name: "Aiko", Email: "Aiko@Example.com"},
		{Name: "Ben"},
		{Name: "Aiko again", Email: "aiko@example.com"},
		{Name: "Chloe", Email: "chloe@example.com"},
	}, nil)
	mailer.On("SendItinerary", ctx, mock.MatchedBy(func(m types.ItineraryEmail) bool {
		return len(m.To) == 2 && m.TripTitle == "Japan" && m.Itinerary.Title == "Four days" &&
			strings.HasPrefix(m.ShareURL, "https://app.test/shared/") && m.SenderName == "Sam"
	})).Return(nil)

	res, err := f.svc.EmailItinerary(ctx, "user-1", "trip-1", "Sam")
	require.NoError(t, err)
	assert.Equal(t, []string{"aiko@example.com", "chloe@example.com"}, res.Recipients)
	mailer.AssertExpectations(t)
}

func TestEmailItinerary_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no itinerary", func(t *testing.T) {
		f := newDiaryFixture()
		f.svc.SetMailer(new(MockMailer))
		f.trips.On("FetchTrip", ctx, "user-1", "trip-1", false).Return(testTrip(), nil)
		f.itineraries.On("GetItinerary", ctx, "trip-1").Return(nil, istore.ErrNotFound)

		_, err := f.svc.EmailItinerary(ctx, "user-1", "trip-1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
	})

	t.Run("no recipients", func(t *testing.T) {
		f := newDiaryFixture()
		f.svc.SetMailer(new(MockMailer))
		f.trips.On("FetchTrip", ctx, "user-1", "trip-1", false).Return(testTrip(), nil)
		f.itineraries.On("GetItinerary", ctx, "trip-1").Return(&types.StoredItinerary{}, nil)
		f.companions.On("ListCompanions", ctx, "trip-1").Return([]types.Companion{{Name: "Ben"}}, nil)

		_, err := f.svc.EmailItinerary(ctx, "user-1", "trip-1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newDiaryFixture()
		mailer := new(MockMailer)
		f.svc.SetMailer(mailer)
		f.trips.On("FetchTrip", ctx, "user-1", "trip-1", false).Return(testTrip(), nil)
		f.itineraries.On("GetItinerary", ctx, "trip-1").Return(&types.StoredItinerary{}, nil)
		f.companions.On("ListCompanions", ctx, "trip-1").Return([]types.Companion{{Email: "a@example.com"}}, nil)
		mailer.On("SendItinerary", ctx, mock.Anything).Return(errors.New("resend 500"))

		_, err := f.svc.EmailItinerary(ctx, "user-1", "trip-1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ProviderError))
	})

	t.Run("not configured", func(t *testing.T) {
		f := newDiaryFixture()
		_, err := f.svc.EmailItinerary(ctx, "user-1", "trip-1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ServerError))
	})
}
