package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
)

// ContactHandler manages a trip's emergency contacts and companions.
type ContactHandler struct {
	contacts ContactService
}

func NewContactHandler(contacts ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// ListContactsHandler godoc
// @Summary List emergency contacts
// @Tags contacts
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {array} types.EmergencyContact
// @Router /trips/{id}/contacts [get]
// @Security BearerAuth
func (h *ContactHandler) ListContactsHandler(c *gin.Context) {
	contacts, err := h.contacts.ListContacts(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// AddContactHandler godoc
// @Summary Add an emergency contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body types.ContactInput true "Contact"
// @Success 201 {object} types.EmergencyContact
// @Router /trips/{id}/contacts [post]
// @Security BearerAuth
func (h *ContactHandler) AddContactHandler(c *gin.Context) {
	var in types.ContactInput
	if !bindJSONOrError(c, &in) {
		return
	}
	contact, err := h.contacts.AddContact(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// UpdateContactHandler godoc
// @Summary Update an emergency contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param contactId path string true "Contact ID"
// @Param request body types.ContactInput true "Contact"
// @Success 200 {object} types.EmergencyContact
// @Router /trips/{id}/contacts/{contactId} [put]
// @Security BearerAuth
func (h *ContactHandler) UpdateContactHandler(c *gin.Context) {
	var in types.ContactInput
	if !bindJSONOrError(c, &in) {
		return
	}
	contact, err := h.contacts.UpdateContact(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("contactId"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DeleteContactHandler godoc
// @Summary Delete an emergency contact
// @Tags contacts
// @Param id path string true "Trip ID"
// @Param contactId path string true "Contact ID"
// @Success 204
// @Router /trips/{id}/contacts/{contactId} [delete]
// @Security BearerAuth
func (h *ContactHandler) DeleteContactHandler(c *gin.Context) {
	if err := h.contacts.DeleteContact(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("contactId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateContactsHandler godoc
// @Summary Suggest emergency contacts with AI
// @Description Replaces previously generated contacts for the trip's destinations. Manual entries are kept.
// @Tags contacts
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {array} types.EmergencyContact
// @Failure 502 {object} middleware.ErrorResponse
// @Router /trips/{id}/contacts/generate [post]
// @Security BearerAuth
func (h *ContactHandler) GenerateContactsHandler(c *gin.Context) {
	contacts, err := h.contacts.GenerateContacts(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// ExtractContactsHandler godoc
// @Summary Extract contacts from pasted text
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body types.ExtractContactsRequest true "Free text"
// @Success 200 {array} types.EmergencyContact
// @Failure 502 {object} middleware.ErrorResponse
// @Router /trips/{id}/contacts/extract [post]
// @Security BearerAuth
func (h *ContactHandler) ExtractContactsHandler(c *gin.Context) {
	var req types.ExtractContactsRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	contacts, err := h.contacts.ExtractContacts(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// ListCompanionsHandler godoc
// @Summary List travel companions
// @Tags companions
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {array} types.Companion
// @Router /trips/{id}/companions [get]
// @Security BearerAuth
func (h *ContactHandler) ListCompanionsHandler(c *gin.Context) {
	companions, err := h.contacts.ListCompanions(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, companions)
}

// AddCompanionHandler godoc
// @Summary Add a travel companion
// @Tags companions
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body types.CompanionInput true "Companion"
// @Success 201 {object} types.Companion
// @Router /trips/{id}/companions [post]
// @Security BearerAuth
func (h *ContactHandler) AddCompanionHandler(c *gin.Context) {
	var in types.CompanionInput
	if !bindJSONOrError(c, &in) {
		return
	}
	companion, err := h.contacts.AddCompanion(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, companion)
}

// UpdateCompanionHandler godoc
// @Summary Update a travel companion
// @Tags companions
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param companionId path string true "Companion ID"
// @Param request body types.CompanionInput true "Companion"
// @Success 200 {object} types.Companion
// @Router /trips/{id}/companions/{companionId} [put]
// @Security BearerAuth
func (h *ContactHandler) UpdateCompanionHandler(c *gin.Context) {
	var in types.CompanionInput
	if !bindJSONOrError(c, &in) {
		return
	}
	companion, err := h.contacts.UpdateCompanion(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("companionId"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, companion)
}

// DeleteCompanionHandler godoc
// @Summary Remove a travel companion
// @Tags companions
// @Param id path string true "Trip ID"
// @Param companionId path string true "Companion ID"
// @Success 204
// @Router /trips/{id}/companions/{companionId} [delete]
// @Security BearerAuth
func (h *ContactHandler) DeleteCompanionHandler(c *gin.Context) {
	if err := h.contacts.DeleteCompanion(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("companionId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
