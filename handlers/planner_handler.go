package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-diary-backend/models/itinerary"
	"github.com/gin-gonic/gin"
)

// PlannerHandler exposes the options → customize → final planning flow of
// one trip.
type PlannerHandler struct {
	planner PlannerService
}

func NewPlannerHandler(p PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: p}
}

type selectOptionRequest struct {
	OptionID string `json:"optionId" binding:"required" example:"option-1"`
}

type toggleActivityRequest struct {
	ActivityID string `json:"activityId" binding:"required" example:"option-1-d1-a1"`
}

func (h *PlannerHandler) respond(c *gin.Context, plan *itinerary.Plan, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GenerateOptionsHandler godoc
// @Summary Generate itinerary options for a trip
// @Description Starts or restarts planning. new=true reads a just-created trip through the handoff cache.
// @Tags planner
// @Produce json
// @Param id path string true "Trip ID"
// @Param new query bool false "Trip was just created"
// @Success 200 {object} itinerary.Plan
// @Failure 502 {object} middleware.ErrorResponse
// @Router /trips/{id}/planner/options [post]
// @Security BearerAuth
func (h *PlannerHandler) GenerateOptionsHandler(c *gin.Context) {
	plan, err := h.planner.Options(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Query("new") == "true")
	h.respond(c, plan, err)
}

// GetPlanHandler godoc
// @Summary Get planning state
// @Tags planner
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} itinerary.Plan
// @Failure 404 {object} middleware.ErrorResponse
// @Router /trips/{id}/planner [get]
// @Security BearerAuth
func (h *PlannerHandler) GetPlanHandler(c *gin.Context) {
	plan, err := h.planner.Get(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	h.respond(c, plan, err)
}

// SelectOptionHandler godoc
// @Summary Choose an option to customise
// @Tags planner
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body selectOptionRequest true "Option"
// @Success 200 {object} itinerary.Plan
// @Failure 409 {object} middleware.ErrorResponse
// @Router /trips/{id}/planner/select [post]
// @Security BearerAuth
func (h *PlannerHandler) SelectOptionHandler(c *gin.Context) {
	var req selectOptionRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	plan, err := h.planner.Select(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), req.OptionID)
	h.respond(c, plan, err)
}

// ToggleActivityHandler godoc
// @Summary Keep or drop an activity
// @Tags planner
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body toggleActivityRequest true "Activity"
// @Success 200 {object} itinerary.Plan
// @Router /trips/{id}/planner/toggle [post]
// @Security BearerAuth
func (h *PlannerHandler) ToggleActivityHandler(c *gin.Context) {
	var req toggleActivityRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	plan, err := h.planner.Toggle(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), req.ActivityID)
	h.respond(c, plan, err)
}

// BackHandler godoc
// @Summary Return to the option list
// @Tags planner
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} itinerary.Plan
// @Router /trips/{id}/planner/back [post]
// @Security BearerAuth
func (h *PlannerHandler) BackHandler(c *gin.Context) {
	plan, err := h.planner.BackToOptions(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	h.respond(c, plan, err)
}

// FinalizeHandler godoc
// @Summary Build and store the final itinerary
// @Description On failure the plan stays in customize with the selection intact.
// @Tags planner
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} itinerary.Plan
// @Failure 502 {object} middleware.ErrorResponse
// @Router /trips/{id}/planner/finalize [post]
// @Security BearerAuth
func (h *PlannerHandler) FinalizeHandler(c *gin.Context) {
	plan, err := h.planner.Finalize(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	h.respond(c, plan, err)
}
