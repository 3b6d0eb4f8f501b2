package handlers

import (
	"context"
	"io"

	"github.com/NomadCrew/nomad-diary-backend/middleware"
	"github.com/NomadCrew/nomad-diary-backend/models/itinerary"
	"github.com/NomadCrew/nomad-diary-backend/models/wizard"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// newTestRouter mirrors the production chain: errors are rendered by
// ErrorHandler and the caller is already authenticated as userID.
func newTestRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(string(middleware.UserIDKey), userID)
		}
		c.Next()
	})
	return r
}

type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) CreateTrip(ctx context.Context, userID string, req types.CreateTripRequest) (*types.TripRecord, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockTripService) FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error) {
	args := m.Called(ctx, userID, tripID, isNewTrip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockTripService) ListTrips(ctx context.Context, userID string, limit, offset int) ([]types.TripRecord, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripRecord), args.Error(1)
}

func (m *MockTripService) SaveItinerary(ctx context.Context, userID, tripID string, it types.Itinerary) (*types.StoredItinerary, error) {
	args := m.Called(ctx, userID, tripID, it)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}

func (m *MockTripService) GetItinerary(ctx context.Context, userID, tripID string) (*types.StoredItinerary, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}

type MockItineraryGenerator struct {
	mock.Mock
}

func (m *MockItineraryGenerator) GenerateOptions(ctx context.Context, d types.TripDetails) ([]types.ItineraryOption, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ItineraryOption), args.Error(1)
}

func (m *MockItineraryGenerator) GenerateFinal(ctx context.Context, d types.TripDetails, selected []types.SelectedActivity) (*types.Itinerary, error) {
	args := m.Called(ctx, d, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

type MockDestinationSearcher struct {
	mock.Mock
}

func (m *MockDestinationSearcher) Search(ctx context.Context, query, countryCode string) (*types.SearchResponse, error) {
	args := m.Called(ctx, query, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SearchResponse), args.Error(1)
}

type MockWizardService struct {
	mock.Mock
}

func (m *MockWizardService) session(args mock.Arguments) (*wizard.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Session), args.Error(1)
}

func (m *MockWizardService) Start(ctx context.Context, userID string, variant wizard.Variant) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, variant))
}

func (m *MockWizardService) Get(ctx context.Context, userID, id string) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id))
}

func (m *MockWizardService) PatchDraft(ctx context.Context, userID, id string, patch types.DraftPatch) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id, patch))
}

func (m *MockWizardService) AddDestination(ctx context.Context, userID, id string, dest types.Destination) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id, dest))
}

func (m *MockWizardService) RemoveDestination(ctx context.Context, userID, id, placeID string) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id, placeID))
}

func (m *MockWizardService) SetPrimaryDestination(ctx context.Context, userID, id, placeID string) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id, placeID))
}

func (m *MockWizardService) Next(ctx context.Context, userID, id string) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id))
}

func (m *MockWizardService) Back(ctx context.Context, userID, id string) (*wizard.Session, error) {
	return m.session(m.Called(ctx, userID, id))
}

func (m *MockWizardService) Submit(ctx context.Context, userID, id string, confirm bool) (*wizard.SubmitResult, error) {
	args := m.Called(ctx, userID, id, confirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.SubmitResult), args.Error(1)
}

type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) plan(args mock.Arguments) (*itinerary.Plan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itinerary.Plan), args.Error(1)
}

func (m *MockPlannerService) Get(ctx context.Context, userID, tripID string) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID))
}

func (m *MockPlannerService) Options(ctx context.Context, userID, tripID string, isNewTrip bool) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID, isNewTrip))
}

func (m *MockPlannerService) Select(ctx context.Context, userID, tripID, optionID string) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID, optionID))
}

func (m *MockPlannerService) Toggle(ctx context.Context, userID, tripID, activityID string) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID, activityID))
}

func (m *MockPlannerService) BackToOptions(ctx context.Context, userID, tripID string) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID))
}

func (m *MockPlannerService) Finalize(ctx context.Context, userID, tripID string) (*itinerary.Plan, error) {
	return m.plan(m.Called(ctx, userID, tripID))
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) contacts(args mock.Arguments) ([]types.EmergencyContact, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EmergencyContact), args.Error(1)
}

func (m *MockContactService) contact(args mock.Arguments) (*types.EmergencyContact, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EmergencyContact), args.Error(1)
}

func (m *MockContactService) companion(args mock.Arguments) (*types.Companion, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Companion), args.Error(1)
}

func (m *MockContactService) ListContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error) {
	return m.contacts(m.Called(ctx, userID, tripID))
}

func (m *MockContactService) AddContact(ctx context.Context, userID, tripID string, in types.ContactInput) (*types.EmergencyContact, error) {
	return m.contact(m.Called(ctx, userID, tripID, in))
}

func (m *MockContactService) UpdateContact(ctx context.Context, userID, tripID, id string, in types.ContactInput) (*types.EmergencyContact, error) {
	return m.contact(m.Called(ctx, userID, tripID, id, in))
}

func (m *MockContactService) DeleteContact(ctx context.Context, userID, tripID, id string) error {
	return m.Called(ctx, userID, tripID, id).Error(0)
}

func (m *MockContactService) GenerateContacts(ctx context.Context, userID, tripID string) ([]types.EmergencyContact, error) {
	return m.contacts(m.Called(ctx, userID, tripID))
}

func (m *MockContactService) ExtractContacts(ctx context.Context, userID, tripID, text string) ([]types.EmergencyContact, error) {
	return m.contacts(m.Called(ctx, userID, tripID, text))
}

func (m *MockContactService) ListCompanions(ctx context.Context, userID, tripID string) ([]types.Companion, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Companion), args.Error(1)
}

func (m *MockContactService) AddCompanion(ctx context.Context, userID, tripID string, in types.CompanionInput) (*types.Companion, error) {
	return m.companion(m.Called(ctx, userID, tripID, in))
}

func (m *MockContactService) UpdateCompanion(ctx context.Context, userID, tripID, id string, in types.CompanionInput) (*types.Companion, error) {
	return m.companion(m.Called(ctx, userID, tripID, id, in))
}

func (m *MockContactService) DeleteCompanion(ctx context.Context, userID, tripID, id string) error {
	return m.Called(ctx, userID, tripID, id).Error(0)
}

type MockDiaryService struct {
	mock.Mock
}

func (m *MockDiaryService) GetDiary(ctx context.Context, userID, tripID string) (*types.Diary, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Diary), args.Error(1)
}

func (m *MockDiaryService) UpsertSchedule(ctx context.Context, userID, tripID string, schedule types.DaySchedule) (*types.DaySchedule, error) {
	args := m.Called(ctx, userID, tripID, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DaySchedule), args.Error(1)
}

func (m *MockDiaryService) DeleteSchedule(ctx context.Context, userID, tripID string, dayNumber int) error {
	return m.Called(ctx, userID, tripID, dayNumber).Error(0)
}

func (m *MockDiaryService) UpsertAccommodation(ctx context.Context, userID, tripID string, acc types.Accommodation) (*types.Accommodation, error) {
	args := m.Called(ctx, userID, tripID, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Accommodation), args.Error(1)
}

func (m *MockDiaryService) DeleteAccommodation(ctx context.Context, userID, tripID, id string) error {
	return m.Called(ctx, userID, tripID, id).Error(0)
}

func (m *MockDiaryService) UpsertTravelLeg(ctx context.Context, userID, tripID string, leg types.TravelLeg) (*types.TravelLeg, error) {
	args := m.Called(ctx, userID, tripID, leg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelLeg), args.Error(1)
}

func (m *MockDiaryService) DeleteTravelLeg(ctx context.Context, userID, tripID, id string) error {
	return m.Called(ctx, userID, tripID, id).Error(0)
}

func (m *MockDiaryService) UploadPhoto(ctx context.Context, userID, tripID string, day int, body io.Reader, size int64) (*types.DiaryPhoto, error) {
	args := m.Called(ctx, userID, tripID, day, body, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DiaryPhoto), args.Error(1)
}

func (m *MockDiaryService) ListPhotos(ctx context.Context, userID, tripID string, day int) ([]types.DiaryPhoto, error) {
	args := m.Called(ctx, userID, tripID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DiaryPhoto), args.Error(1)
}

func (m *MockDiaryService) CreateShareLink(ctx context.Context, userID, tripID string) (*types.ShareLinkResponse, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShareLinkResponse), args.Error(1)
}

func (m *MockDiaryService) SharedDiary(ctx context.Context, token string) (*types.Diary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Diary), args.Error(1)
}

func (m *MockDiaryService) EmailItinerary(ctx context.Context, userID, tripID, senderName string) (*types.EmailItineraryResponse, error) {
	args := m.Called(ctx, userID, tripID, senderName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EmailItineraryResponse), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) types.HealthCheck {
	return m.Called(ctx).Get(0).(types.HealthCheck)
}
