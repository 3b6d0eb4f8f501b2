package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the photo size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// DiaryHandler serves the trip diary: the aggregated view, its editable
// sections, day photos and the read-only share link.
type DiaryHandler struct {
	diary          DiaryService
	maxUploadBytes int64
}

func NewDiaryHandler(diary DiaryService, maxUploadBytes int64) *DiaryHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DiaryHandler{diary: diary, maxUploadBytes: maxUploadBytes}
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		_ = c.Error(apperrors.ValidationFailed("Day must be a positive number", c.Param("day")))
		return 0, false
	}
	return day, true
}

// GetDiaryHandler godoc
// @Summary Get the trip diary
// @Tags diary
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} types.Diary
// @Router /trips/{id}/diary [get]
// @Security BearerAuth
func (h *DiaryHandler) GetDiaryHandler(c *gin.Context) {
	diary, err := h.diary.GetDiary(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

// UpsertScheduleHandler godoc
// @Summary Write the plan for one day
// @Tags diary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Param request body types.DaySchedule true "Schedule"
// @Success 200 {object} types.DaySchedule
// @Router /trips/{id}/diary/days/{day} [put]
// @Security BearerAuth
func (h *DiaryHandler) UpsertScheduleHandler(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var schedule types.DaySchedule
	if !bindJSONOrError(c, &schedule) {
		return
	}
	schedule.DayNumber = day
	saved, err := h.diary.UpsertSchedule(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), schedule)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteScheduleHandler godoc
// @Summary Clear the plan for one day
// @Tags diary
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Success 204
// @Router /trips/{id}/diary/days/{day} [delete]
// @Security BearerAuth
func (h *DiaryHandler) DeleteScheduleHandler(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	if err := h.diary.DeleteSchedule(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertAccommodationHandler godoc
// @Summary Add or update an accommodation
// @Description POST creates; PUT with an itemId replaces that entry.
// @Tags diary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param itemId path string false "Accommodation ID"
// @Param request body types.Accommodation true "Accommodation"
// @Success 200 {object} types.Accommodation
// @Router /trips/{id}/diary/accommodations/{itemId} [put]
// @Security BearerAuth
func (h *DiaryHandler) UpsertAccommodationHandler(c *gin.Context) {
	var acc types.Accommodation
	if !bindJSONOrError(c, &acc) {
		return
	}
	acc.ID = c.Param("itemId")
	saved, err := h.diary.UpsertAccommodation(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), acc)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteAccommodationHandler godoc
// @Summary Delete an accommodation
// @Tags diary
// @Param id path string true "Trip ID"
// @Param itemId path string true "Accommodation ID"
// @Success 204
// @Router /trips/{id}/diary/accommodations/{itemId} [delete]
// @Security BearerAuth
func (h *DiaryHandler) DeleteAccommodationHandler(c *gin.Context) {
	if err := h.diary.DeleteAccommodation(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("itemId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertTravelLegHandler godoc
// @Summary Add or update a travel leg
// @Description Distance is computed when both ends carry coordinates.
// @Tags diary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param itemId path string false "Leg ID"
// @Param request body types.TravelLeg true "Travel leg"
// @Success 200 {object} types.TravelLeg
// @Router /trips/{id}/diary/legs/{itemId} [put]
// @Security BearerAuth
func (h *DiaryHandler) UpsertTravelLegHandler(c *gin.Context) {
	var leg types.TravelLeg
	if !bindJSONOrError(c, &leg) {
		return
	}
	leg.ID = c.Param("itemId")
	saved, err := h.diary.UpsertTravelLeg(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), leg)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteTravelLegHandler godoc
// @Summary Delete a travel leg
// @Tags diary
// @Param id path string true "Trip ID"
// @Param itemId path string true "Leg ID"
// @Success 204
// @Router /trips/{id}/diary/legs/{itemId} [delete]
// @Security BearerAuth
func (h *DiaryHandler) DeleteTravelLegHandler(c *gin.Context) {
	if err := h.diary.DeleteTravelLeg(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), c.Param("itemId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhotoHandler godoc
// @Summary Attach a photo to a trip day
// @Description Multipart upload with a "file" field. JPEG, PNG, WebP, HEIC/HEIF and GIF are accepted.
// @Tags diary
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Param file formData file true "Image"
// @Success 201 {object} types.DiaryPhoto
// @Failure 400 {object} middleware.ErrorResponse
// @Router /trips/{id}/diary/days/{day}/photos [post]
// @Security BearerAuth
func (h *DiaryHandler) UploadPhotoHandler(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			_ = c.Error(apperrors.ValidationFailed("Photo is too large", strconv.FormatInt(h.maxUploadBytes, 10)+" bytes max"))
			return
		}
		_ = c.Error(apperrors.ValidationFailed("A file field is required", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Could not read the uploaded file", err.Error()))
		return
	}
	defer file.Close()

	photo, err := h.diary.UploadPhoto(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day, file, fileHeader.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// ListPhotosHandler godoc
// @Summary List the photos of a trip day
// @Tags diary
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Success 200 {array} types.DiaryPhoto
// @Router /trips/{id}/diary/days/{day}/photos [get]
// @Security BearerAuth
func (h *DiaryHandler) ListPhotosHandler(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	photos, err := h.diary.ListPhotos(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// CreateShareLinkHandler godoc
// @Summary Create a read-only diary link
// @Tags share
// @Produce json
// @Param id path string true "Trip ID"
// @Success 201 {object} types.ShareLinkResponse
// @Router /trips/{id}/share [post]
// @Security BearerAuth
func (h *DiaryHandler) CreateShareLinkHandler(c *gin.Context) {
	link, err := h.diary.CreateShareLink(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// SharedDiaryHandler godoc
// @Summary Open a shared diary
// @Description No authentication; the token is the credential.
// @Tags share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} types.Diary
// @Failure 401 {object} middleware.ErrorResponse
// @Router /shared/{token} [get]
func (h *DiaryHandler) SharedDiaryHandler(c *gin.Context) {
	diary, err := h.diary.SharedDiary(c.Request.Context(), c.Param("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

type emailItineraryRequest struct {
	SenderName string `json:"senderName" example:"Sam"`
}

// EmailItineraryHandler godoc
// @Summary Email the itinerary to companions
// @Description Sends the stored itinerary with a share link to every companion that has an email address.
// @Tags itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body emailItineraryRequest false "Sender display name"
// @Success 200 {object} types.EmailItineraryResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /trips/{id}/itinerary/email [post]
// @Security BearerAuth
func (h *DiaryHandler) EmailItineraryHandler(c *gin.Context) {
	var req emailItineraryRequest
	if c.Request.ContentLength != 0 && !bindJSONOrError(c, &req) {
		return
	}
	res, err := h.diary.EmailItinerary(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), req.SenderName)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
