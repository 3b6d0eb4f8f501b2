package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
)

// AIHandler serves the stateless generation endpoints. Failures use the
// {success:false, error} envelope the planning screens expect.
type AIHandler struct {
	gen ItineraryGenerator
}

func NewAIHandler(gen ItineraryGenerator) *AIHandler {
	return &AIHandler{gen: gen}
}

func (h *AIHandler) fail(c *gin.Context, status int, err error) {
	message := "AI generation failed"
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
		if appErr.Type == apperrors.ValidationError {
			status = http.StatusBadRequest
		}
	}
	logger.LogHTTPError(c, err, status, "AI request failed")
	c.JSON(status, types.AIFailureResponse{Success: false, Error: message})
}

// GenerateOptionsHandler godoc
// @Summary Generate itinerary options
// @Description Asks the AI provider for three distinct itinerary options.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body types.GenerateOptionsRequest true "Trip details"
// @Success 200 {object} types.GenerateOptionsResponse
// @Failure 502 {object} types.AIFailureResponse
// @Router /ai/generate-options [post]
// @Security BearerAuth
func (h *AIHandler) GenerateOptionsHandler(c *gin.Context) {
	var req types.GenerateOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, apperrors.ValidationFailed("Trip details are required", err.Error()))
		return
	}

	options, err := h.gen.GenerateOptions(c.Request.Context(), req.TripDetails)
	if err != nil {
		h.fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, types.GenerateOptionsResponse{Success: true, ItineraryOptions: options})
}

// GenerateFinalItineraryHandler godoc
// @Summary Generate the final itinerary
// @Description Builds a day-by-day itinerary from the activities the traveller kept.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body types.GenerateFinalRequest true "Trip details and kept activities"
// @Success 200 {object} types.GenerateFinalResponse
// @Failure 502 {object} types.AIFailureResponse
// @Router /ai/generate-final-itinerary [post]
// @Security BearerAuth
func (h *AIHandler) GenerateFinalItineraryHandler(c *gin.Context) {
	var req types.GenerateFinalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, apperrors.ValidationFailed("Trip details and selected activities are required", err.Error()))
		return
	}
	if len(req.SelectedActivities) == 0 {
		h.fail(c, http.StatusBadRequest, apperrors.ValidationFailed("Select at least one activity", ""))
		return
	}

	final, err := h.gen.GenerateFinal(c.Request.Context(), req.TripDetails, req.SelectedActivities)
	if err != nil {
		h.fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, types.GenerateFinalResponse{Success: true, FinalItinerary: final})
}
