package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-diary-backend/models/wizard"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
)

// WizardHandler drives trip creation wizard sessions.
type WizardHandler struct {
	wizard WizardService
}

func NewWizardHandler(w WizardService) *WizardHandler {
	return &WizardHandler{wizard: w}
}

type startWizardRequest struct {
	Variant wizard.Variant `json:"variant" example:"two_step"`
}

type submitWizardRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *WizardHandler) respond(c *gin.Context, status int, sess *wizard.Session, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(status, sess.View())
}

// StartHandler godoc
// @Summary Start a wizard session
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body startWizardRequest false "Variant (two_step or five_step)"
// @Success 201 {object} wizard.View
// @Router /wizard/sessions [post]
// @Security BearerAuth
func (h *WizardHandler) StartHandler(c *gin.Context) {
	var req startWizardRequest
	if c.Request.ContentLength != 0 && !bindJSONOrError(c, &req) {
		return
	}
	sess, err := h.wizard.Start(c.Request.Context(), getUserIDFromContext(c), req.Variant)
	h.respond(c, http.StatusCreated, sess, err)
}

// GetHandler godoc
// @Summary Get a wizard session
// @Tags wizard
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} wizard.View
// @Failure 404 {object} middleware.ErrorResponse
// @Router /wizard/sessions/{sessionId} [get]
// @Security BearerAuth
func (h *WizardHandler) GetHandler(c *gin.Context) {
	sess, err := h.wizard.Get(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"))
	h.respond(c, http.StatusOK, sess, err)
}

// PatchDraftHandler godoc
// @Summary Update draft fields
// @Tags wizard
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body types.DraftPatch true "Fields to change"
// @Success 200 {object} wizard.View
// @Failure 409 {object} middleware.ErrorResponse
// @Router /wizard/sessions/{sessionId}/draft [patch]
// @Security BearerAuth
func (h *WizardHandler) PatchDraftHandler(c *gin.Context) {
	var patch types.DraftPatch
	if !bindJSONOrError(c, &patch) {
		return
	}
	sess, err := h.wizard.PatchDraft(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"), patch)
	h.respond(c, http.StatusOK, sess, err)
}

// AddDestinationHandler godoc
// @Summary Add a destination to the draft
// @Tags wizard
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body types.Destination true "Destination"
// @Success 200 {object} wizard.View
// @Router /wizard/sessions/{sessionId}/destinations [post]
// @Security BearerAuth
func (h *WizardHandler) AddDestinationHandler(c *gin.Context) {
	var dest types.Destination
	if !bindJSONOrError(c, &dest) {
		return
	}
	sess, err := h.wizard.AddDestination(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"), dest)
	h.respond(c, http.StatusOK, sess, err)
}

// RemoveDestinationHandler godoc
// @Summary Remove a destination from the draft
// @Tags wizard
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param placeId path string true "Place ID"
// @Success 200 {object} wizard.View
// @Router /wizard/sessions/{sessionId}/destinations/{placeId} [delete]
// @Security BearerAuth
func (h *WizardHandler) RemoveDestinationHandler(c *gin.Context) {
	sess, err := h.wizard.RemoveDestination(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"), c.Param("placeId"))
	h.respond(c, http.StatusOK, sess, err)
}

// SetPrimaryDestinationHandler godoc
// @Summary Make a destination the primary one
// @Tags wizard
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param placeId path string true "Place ID"
// @Success 200 {object} wizard.View
// @Router /wizard/sessions/{sessionId}/destinations/{placeId}/primary [post]
// @Security BearerAuth
func (h *WizardHandler) SetPrimaryDestinationHandler(c *gin.Context) {
	sess, err := h.wizard.SetPrimaryDestination(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"), c.Param("placeId"))
	h.respond(c, http.StatusOK, sess, err)
}

// NextHandler godoc
// @Summary Advance to the next step
// @Description Fails with a validation error naming the first unmet requirement of the current step.
// @Tags wizard
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} wizard.View
// @Failure 400 {object} middleware.ErrorResponse
// @Router /wizard/sessions/{sessionId}/next [post]
// @Security BearerAuth
func (h *WizardHandler) NextHandler(c *gin.Context) {
	sess, err := h.wizard.Next(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"))
	h.respond(c, http.StatusOK, sess, err)
}

// BackHandler godoc
// @Summary Return to the previous step
// @Tags wizard
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} wizard.View
// @Router /wizard/sessions/{sessionId}/back [post]
// @Security BearerAuth
func (h *WizardHandler) BackHandler(c *gin.Context) {
	sess, err := h.wizard.Back(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"))
	h.respond(c, http.StatusOK, sess, err)
}

// SubmitHandler godoc
// @Summary Create the trip from the draft
// @Description Returns the created trip and the itinerary page to open next.
// @Tags wizard
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body submitWizardRequest false "Confirmation for the five-step flow"
// @Success 201 {object} wizard.SubmitResult
// @Failure 409 {object} middleware.ErrorResponse
// @Router /wizard/sessions/{sessionId}/submit [post]
// @Security BearerAuth
func (h *WizardHandler) SubmitHandler(c *gin.Context) {
	var req submitWizardRequest
	if c.Request.ContentLength != 0 && !bindJSONOrError(c, &req) {
		return
	}
	res, err := h.wizard.Submit(c.Request.Context(), getUserIDFromContext(c), c.Param("sessionId"), req.Confirm)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
