package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/middleware"
	tripservice "github.com/NomadCrew/nomad-diary-backend/models/trip/service"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
)

// TripHandler exposes trip creation, lookup and the stored itinerary.
type TripHandler struct {
	trips tripservice.TripServiceInterface
}

func NewTripHandler(trips tripservice.TripServiceInterface) *TripHandler {
	return &TripHandler{trips: trips}
}

func getUserIDFromContext(c *gin.Context) string {
	return middleware.UserID(c)
}

// bindJSONOrError binds JSON request body and sets validation error if binding fails.
// Returns true if binding succeeded, false if error was set (caller should return).
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// CreateTripHandler godoc
// @Summary Create a trip
// @Description Persists a trip. A provisional "trip-<millis>" id may be supplied; the returned id is authoritative.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body types.CreateTripRequest true "Trip details"
// @Success 201 {object} types.TripRecord
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /trips [post]
// @Security BearerAuth
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	var req types.CreateTripRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), getUserIDFromContext(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	logger.GetLogger().Infow("Trip created", "tripID", trip.ID, "provisionalID", req.ID)
	c.JSON(http.StatusCreated, trip)
}

// GetTripHandler godoc
// @Summary Get a trip
// @Description With new=true the handoff cache is consulted first and the read is retried while the row becomes visible.
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Param new query bool false "Trip was just created"
// @Success 200 {object} types.TripRecord
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /trips/{id} [get]
// @Security BearerAuth
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	isNew := c.Query("new") == "true"
	trip, err := h.trips.FetchTrip(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), isNew)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type listTripsQuery struct {
	Limit  int `form:"limit,default=20" binding:"gte=1,lte=100"`
	Offset int `form:"offset,default=0" binding:"gte=0"`
}

// ListTripsHandler godoc
// @Summary List the caller's trips
// @Tags trips
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} types.TripRecord
// @Router /trips [get]
// @Security BearerAuth
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	var q listTripsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_query", err.Error()))
		return
	}
	trips, err := h.trips.ListTrips(c.Request.Context(), getUserIDFromContext(c), q.Limit, q.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if trips == nil {
		trips = []types.TripRecord{}
	}
	c.JSON(http.StatusOK, trips)
}

// SaveItineraryHandler godoc
// @Summary Store the final itinerary of a trip
// @Tags itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body types.SaveItineraryRequest true "Itinerary"
// @Success 200 {object} types.StoredItinerary
// @Router /trips/{id}/itinerary [post]
// @Security BearerAuth
func (h *TripHandler) SaveItineraryHandler(c *gin.Context) {
	var req types.SaveItineraryRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	stored, err := h.trips.SaveItinerary(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), req.Itinerary)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetItineraryHandler godoc
// @Summary Get the stored itinerary of a trip
// @Tags itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} types.StoredItinerary
// @Failure 404 {object} middleware.ErrorResponse
// @Router /trips/{id}/itinerary [get]
// @Security BearerAuth
func (h *TripHandler) GetItineraryHandler(c *gin.Context) {
	stored, err := h.trips.GetItinerary(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stored)
}
