package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupDiaryRouter(maxUpload int64) (*MockDiaryService, http.Handler) {
	svc := new(MockDiaryService)
	h := NewDiaryHandler(svc, maxUpload)
	r := newTestRouter("user-1")
	r.GET("/v1/trips/:id/diary", h.GetDiaryHandler)
	r.PUT("/v1/trips/:id/diary/days/:day", h.UpsertScheduleHandler)
	r.DELETE("/v1/trips/:id/diary/days/:day", h.DeleteScheduleHandler)
	r.POST("/v1/trips/:id/diary/days/:day/photos", h.UploadPhotoHandler)
	r.GET("/v1/trips/:id/diary/days/:day/photos", h.ListPhotosHandler)
	r.POST("/v1/trips/:id/diary/accommodations", h.UpsertAccommodationHandler)
	r.PUT("/v1/trips/:id/diary/accommodations/:itemId", h.UpsertAccommodationHandler)
	r.DELETE("/v1/trips/:id/diary/accommodations/:itemId", h.DeleteAccommodationHandler)
	r.POST("/v1/trips/:id/diary/legs", h.UpsertTravelLegHandler)
	r.PUT("/v1/trips/:id/diary/legs/:itemId", h.UpsertTravelLegHandler)
	r.DELETE("/v1/trips/:id/diary/legs/:itemId", h.DeleteTravelLegHandler)
	r.POST("/v1/trips/:id/share", h.CreateShareLinkHandler)
	r.GET("/v1/shared/:token", h.SharedDiaryHandler)
	r.POST("/v1/trips/:id/itinerary/email", h.EmailItineraryHandler)
	return svc, r
}

func TestDiaryHandlers(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		setupMocks     func(*MockDiaryService)
		expectedStatus int
	}{
		{
			name:   "Get diary",
			method: http.MethodGet,
			url:    "/v1/trips/trip-1/diary",
			setupMocks: func(m *MockDiaryService) {
				m.On("GetDiary", mock.Anything, "user-1", "trip-1").
					Return(&types.Diary{Trip: types.TripRecord{ID: "trip-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Upsert schedule takes day from path",
			method: http.MethodPut,
			url:    "/v1/trips/trip-1/diary/days/2",
			body:   `{"dayNumber":9,"activities":"Fushimi Inari"}`,
			setupMocks: func(m *MockDiaryService) {
				m.On("UpsertSchedule", mock.Anything, "user-1", "trip-1", mock.MatchedBy(func(s types.DaySchedule) bool {
					return s.DayNumber == 2 && s.Activities == "Fushimi Inari"
				})).Return(&types.DaySchedule{DayNumber: 2, Activities: "Fushimi Inari"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Upsert schedule with bad day",
			method:         http.MethodPut,
			url:            "/v1/trips/trip-1/diary/days/zero",
			body:           `{"activities":"x"}`,
			setupMocks:     func(*MockDiaryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Delete schedule",
			method: http.MethodDelete,
			url:    "/v1/trips/trip-1/diary/days/3",
			setupMocks: func(m *MockDiaryService) {
				m.On("DeleteSchedule", mock.Anything, "user-1", "trip-1", 3).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "Create accommodation",
			method: http.MethodPost,
			url:    "/v1/trips/trip-1/diary/accommodations",
			body:   `{"name":"Hotel Sakura","checkIn":"2025-06-15","checkOut":"2025-06-18"}`,
			setupMocks: func(m *MockDiaryService) {
				m.On("UpsertAccommodation", mock.Anything, "user-1", "trip-1", mock.MatchedBy(func(a types.Accommodation) bool {
					return a.ID == "" && a.Name == "Hotel Sakura"
				})).Return(&types.Accommodation{ID: "acc-1", Name: "Hotel Sakura"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Replace accommodation",
			method: http.MethodPut,
			url:    "/v1/trips/trip-1/diary/accommodations/acc-1",
			body:   `{"name":"Hotel Sakura Annex"}`,
			setupMocks: func(m *MockDiaryService) {
				m.On("UpsertAccommodation", mock.Anything, "user-1", "trip-1", mock.MatchedBy(func(a types.Accommodation) bool {
					return a.ID == "acc-1"
				})).Return(&types.Accommodation{ID: "acc-1", Name: "Hotel Sakura Annex"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Delete accommodation",
			method: http.MethodDelete,
			url:    "/v1/trips/trip-1/diary/accommodations/acc-1",
			setupMocks: func(m *MockDiaryService) {
				m.On("DeleteAccommodation", mock.Anything, "user-1", "trip-1", "acc-1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "Invalid travel leg",
			method: http.MethodPost,
			url:    "/v1/trips/trip-1/diary/legs",
			body:   `{"mode":"teleport","fromName":"Tokyo","toName":"Kyoto"}`,
			setupMocks: func(m *MockDiaryService) {
				m.On("UpsertTravelLeg", mock.Anything, "user-1", "trip-1", mock.Anything).
					Return(nil, apperrors.ValidationFailed("Unknown travel mode", "teleport"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Delete travel leg",
			method: http.MethodDelete,
			url:    "/v1/trips/trip-1/diary/legs/leg-1",
			setupMocks: func(m *MockDiaryService) {
				m.On("DeleteTravelLeg", mock.Anything, "user-1", "trip-1", "leg-1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "List photos",
			method: http.MethodGet,
			url:    "/v1/trips/trip-1/diary/days/1/photos",
			setupMocks: func(m *MockDiaryService) {
				m.On("ListPhotos", mock.Anything, "user-1", "trip-1", 1).
					Return([]types.DiaryPhoto{{ID: "ph-1", DayNumber: 1, URL: "https://cdn.example.com/ph-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Create share link",
			method: http.MethodPost,
			url:    "/v1/trips/trip-1/share",
			setupMocks: func(m *MockDiaryService) {
				m.On("CreateShareLink", mock.Anything, "user-1", "trip-1").Return(&types.ShareLinkResponse{
					Token:     "tok",
					URL:       "https://app.example.com/shared/tok",
					ExpiresAt: time.Now().Add(72 * time.Hour),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Shared diary with bad token",
			method: http.MethodGet,
			url:    "/v1/shared/expired",
			setupMocks: func(m *MockDiaryService) {
				m.On("SharedDiary", mock.Anything, "expired").
					Return(nil, apperrors.Unauthorized("invalid_share_token", "Share link is invalid or expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Email itinerary without body",
			method: http.MethodPost,
			url:    "/v1/trips/trip-1/itinerary/email",
			setupMocks: func(m *MockDiaryService) {
				m.On("EmailItinerary", mock.Anything, "user-1", "trip-1", "").
					Return(&types.EmailItineraryResponse{Recipients: []string{"alex@example.com"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Email itinerary with sender",
			method: http.MethodPost,
			url:    "/v1/trips/trip-1/itinerary/email",
			body:   `{"senderName":"Sam"}`,
			setupMocks: func(m *MockDiaryService) {
				m.On("EmailItinerary", mock.Anything, "user-1", "trip-1", "Sam").
					Return(nil, apperrors.ValidationFailed("No companion has an email address", ""))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := setupDiaryRouter(0)
			tt.setupMocks(svc)

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.url, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func multipartPhoto(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadPhotoHandler(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("Success", func(t *testing.T) {
		svc, r := setupDiaryRouter(1 << 20)
		svc.On("UploadPhoto", mock.Anything, "user-1", "trip-1", 2, mock.Anything, int64(len(png))).
			Return(&types.DiaryPhoto{ID: "ph-1", DayNumber: 2, ContentType: "image/png"}, nil)

		body, contentType := multipartPhoto(t, "file", png)
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/diary/days/2/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var photo types.DiaryPhoto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photo))
		assert.Equal(t, "image/png", photo.ContentType)
		svc.AssertExpectations(t)
	})

	t.Run("Missing file field", func(t *testing.T) {
		svc, r := setupDiaryRouter(1 << 20)

		body, contentType := multipartPhoto(t, "image", png)
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/diary/days/2/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UploadPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unsupported type", func(t *testing.T) {
		svc, r := setupDiaryRouter(1 << 20)
		svc.On("UploadPhoto", mock.Anything, "user-1", "trip-1", 1, mock.Anything, mock.Anything).
			Return(nil, apperrors.ValidationFailed("Unsupported image type", "text/plain"))

		body, contentType := multipartPhoto(t, "file", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/diary/days/1/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
