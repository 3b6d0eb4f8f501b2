package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/mock"
)

type MockDiaryStore struct {
	mock.Mock
}

func (m *MockDiaryStore) ListSchedules(ctx context.Context, tripID string) ([]types.DaySchedule, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DaySchedule), args.Error(1)
}

func (m *MockDiaryStore) UpsertSchedule(ctx context.Context, s *types.DaySchedule) (*types.DaySchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DaySchedule), args.Error(1)
}

func (m *MockDiaryStore) DeleteSchedule(ctx context.Context, tripID string, day int) error {
	return m.Called(ctx, tripID, day).Error(0)
}

func (m *MockDiaryStore) ListAccommodations(ctx context.Context, tripID string) ([]types.Accommodation, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Accommodation), args.Error(1)
}

func (m *MockDiaryStore) UpsertAccommodation(ctx context.Context, a *types.Accommodation) (*types.Accommodation, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Accommodation), args.Error(1)
}

func (m *MockDiaryStore) DeleteAccommodation(ctx context.Context, tripID, id string) error {
	return m.Called(ctx, tripID, id).Error(0)
}

func (m *MockDiaryStore) ListTravelLegs(ctx context.Context, tripID string) ([]types.TravelLeg, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TravelLeg), args.Error(1)
}

func (m *MockDiaryStore) UpsertTravelLeg(ctx context.Context, l *types.TravelLeg) (*types.TravelLeg, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelLeg), args.Error(1)
}

func (m *MockDiaryStore) DeleteTravelLeg(ctx context.Context, tripID, id string) error {
	return m.Called(ctx, tripID, id).Error(0)
}

func (m *MockDiaryStore) CreatePhoto(ctx context.Context, p *types.DiaryPhoto) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDiaryStore) ListPhotos(ctx context.Context, tripID string, day int) ([]types.DiaryPhoto, error) {
	args := m.Called(ctx, tripID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DiaryPhoto), args.Error(1)
}

type MockItineraryStore struct {
	mock.Mock
}

func (m *MockItineraryStore) SaveItinerary(ctx context.Context, tripID string, it types.Itinerary) (*types.StoredItinerary, error) {
	args := m.Called(ctx, tripID, it)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}

func (m *MockItineraryStore) GetItinerary(ctx context.Context, tripID string) (*types.StoredItinerary, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredItinerary), args.Error(1)
}

type MockContactStore struct {
	mock.Mock
}

func (m *MockContactStore) ListContacts(ctx context.Context, tripID string) ([]types.EmergencyContact, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EmergencyContact), args.Error(1)
}

func (m *MockContactStore) CreateContacts(ctx context.Context, tripID string, cs []types.EmergencyContact) ([]types.EmergencyContact, error) {
	args := m.Called(ctx, tripID, cs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EmergencyContact), args.Error(1)
}

func (m *MockContactStore) UpdateContact(ctx context.Context, c *types.EmergencyContact) (*types.EmergencyContact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EmergencyContact), args.Error(1)
}

func (m *MockContactStore) DeleteContact(ctx context.Context, tripID, id string) error {
	return m.Called(ctx, tripID, id).Error(0)
}

type MockCompanionStore struct {
	mock.Mock
}

func (m *MockCompanionStore) ListCompanions(ctx context.Context, tripID string) ([]types.Companion, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Companion), args.Error(1)
}

func (m *MockCompanionStore) CreateCompanion(ctx context.Context, c *types.Companion) (*types.Companion, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Companion), args.Error(1)
}

func (m *MockCompanionStore) UpdateCompanion(ctx context.Context, c *types.Companion) (*types.Companion, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Companion), args.Error(1)
}

func (m *MockCompanionStore) DeleteCompanion(ctx context.Context, tripID, id string) error {
	return m.Called(ctx, tripID, id).Error(0)
}

type MockTripReader struct {
	mock.Mock
}

func (m *MockTripReader) FetchTrip(ctx context.Context, userID, tripID string, isNewTrip bool) (*types.TripRecord, error) {
	args := m.Called(ctx, userID, tripID, isNewTrip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

// memoryPhotos is an in-memory PhotoStorage.
type memoryPhotos struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryPhotos() *memoryPhotos {
	return &memoryPhotos{objects: map[string][]byte{}}
}

func (p *memoryPhotos) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if p.putErr != nil {
		return p.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[key] = buf.Bytes()
	return nil
}

func (p *memoryPhotos) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://photos.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (p *memoryPhotos) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, key)
	return nil
}
