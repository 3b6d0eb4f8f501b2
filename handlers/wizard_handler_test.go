package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/models/wizard"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupWizardRouter() (*MockWizardService, http.Handler) {
	svc := new(MockWizardService)
	h := NewWizardHandler(svc)
	r := newTestRouter("user-1")
	r.POST("/v1/wizard/sessions", h.StartHandler)
	r.GET("/v1/wizard/sessions/:sessionId", h.GetHandler)
	r.PATCH("/v1/wizard/sessions/:sessionId/draft", h.PatchDraftHandler)
	r.POST("/v1/wizard/sessions/:sessionId/destinations", h.AddDestinationHandler)
	r.DELETE("/v1/wizard/sessions/:sessionId/destinations/:placeId", h.RemoveDestinationHandler)
	r.PUT("/v1/wizard/sessions/:sessionId/destinations/:placeId/primary", h.SetPrimaryDestinationHandler)
	r.POST("/v1/wizard/sessions/:sessionId/next", h.NextHandler)
	r.POST("/v1/wizard/sessions/:sessionId/back", h.BackHandler)
	r.POST("/v1/wizard/sessions/:sessionId/submit", h.SubmitHandler)
	return svc, r
}

func newWizardSession() *wizard.Session {
	return &wizard.Session{
		ID:      "wiz-1",
		UserID:  "user-1",
		Variant: wizard.VariantTwoStep,
		Phase:   wizard.PhaseEditing,
	}
}

func TestWizardStartHandler(t *testing.T) {
	t.Run("Default variant without body", func(t *testing.T) {
		svc, r := setupWizardRouter()
		svc.On("Start", mock.Anything, "user-1", wizard.Variant("")).Return(newWizardSession(), nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/wizard/sessions", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		var view map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "wiz-1", view["id"])
		assert.Equal(t, string(wizard.StepDestinationSelection), view["stepName"])
		assert.Equal(t, false, view["canBack"])
		svc.AssertExpectations(t)
	})

	t.Run("Five step variant", func(t *testing.T) {
		svc, r := setupWizardRouter()
		sess := newWizardSession()
		sess.Variant = wizard.VariantFiveStep
		svc.On("Start", mock.Anything, "user-1", wizard.VariantFiveStep).Return(sess, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/wizard/sessions", strings.NewReader(`{"variant":"five_step"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"stepCount":5`)
	})
}

func TestWizardStepHandlers(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		setupMocks     func(*MockWizardService)
		expectedStatus int
	}{
		{
			name:   "Get unknown session",
			method: http.MethodGet,
			url:    "/v1/wizard/sessions/missing",
			setupMocks: func(m *MockWizardService) {
				m.On("Get", mock.Anything, "user-1", "missing").Return(nil, apperrors.NotFound("WizardSession", "missing"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Patch draft",
			method: http.MethodPatch,
			url:    "/v1/wizard/sessions/wiz-1/draft",
			body:   `{"title":"Kyoto"}`,
			setupMocks: func(m *MockWizardService) {
				m.On("PatchDraft", mock.Anything, "user-1", "wiz-1", mock.MatchedBy(func(p types.DraftPatch) bool {
					return p.Title != nil && *p.Title == "Kyoto"
				})).Return(newWizardSession(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Add destination",
			method: http.MethodPost,
			url:    "/v1/wizard/sessions/wiz-1/destinations",
			body:   `{"placeId":"p-1","name":"Kyoto"}`,
			setupMocks: func(m *MockWizardService) {
				m.On("AddDestination", mock.Anything, "user-1", "wiz-1", mock.AnythingOfType("types.Destination")).
					Return(newWizardSession(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Remove destination",
			method: http.MethodDelete,
			url:    "/v1/wizard/sessions/wiz-1/destinations/p-1",
			setupMocks: func(m *MockWizardService) {
				m.On("RemoveDestination", mock.Anything, "user-1", "wiz-1", "p-1").Return(newWizardSession(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Set primary destination",
			method: http.MethodPut,
			url:    "/v1/wizard/sessions/wiz-1/destinations/p-2/primary",
			setupMocks: func(m *MockWizardService) {
				m.On("SetPrimaryDestination", mock.Anything, "user-1", "wiz-1", "p-2").Return(newWizardSession(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Next blocked by validation",
			method: http.MethodPost,
			url:    "/v1/wizard/sessions/wiz-1/next",
			setupMocks: func(m *MockWizardService) {
				m.On("Next", mock.Anything, "user-1", "wiz-1").
					Return(nil, apperrors.ValidationFailed("Add at least one destination", ""))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Back",
			method: http.MethodPost,
			url:    "/v1/wizard/sessions/wiz-1/back",
			setupMocks: func(m *MockWizardService) {
				m.On("Back", mock.Anything, "user-1", "wiz-1").Return(newWizardSession(), nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := setupWizardRouter()
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

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestWizardSubmitHandler(t *testing.T) {
	t.Run("Created trip and redirect", func(t *testing.T) {
		svc, r := setupWizardRouter()
		sess := newWizardSession()
		sess.Phase = wizard.PhaseDone
		sess.TripID = "trip-9"
		svc.On("Submit", mock.Anything, "user-1", "wiz-1", true).Return(&wizard.SubmitResult{
			Session:  sess.View(),
			Trip:     &types.TripRecord{ID: "trip-9"},
			Redirect: "/trips/trip-9/itinerary?new=true",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/wizard/sessions/wiz-1/submit", strings.NewReader(`{"confirm":true}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/trips/trip-9/itinerary?new=true", resp["redirect"])
	})

	t.Run("Double submit", func(t *testing.T) {
		svc, r := setupWizardRouter()
		svc.On("Submit", mock.Anything, "user-1", "wiz-1", false).
			Return(nil, apperrors.NewConflictError("Session already submitted", ""))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/wizard/sessions/wiz-1/submit", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
