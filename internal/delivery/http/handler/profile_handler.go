package handler

import (
	"encoding/json"
	"net/http"

	"cureconnect/internal/converter"
	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/response"
	"cureconnect/pkg/validator"

	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	log            *logrus.Logger
	profileUsecase usecase.ProfileUsecase
	mediaUsecase   usecase.MediaUsecase
	validator      *validator.CustomValidator
	maxImageBytes  int64
}

func NewProfileHandler(
	log *logrus.Logger,
	profileUsecase usecase.ProfileUsecase,
	mediaUsecase usecase.MediaUsecase,
	validator *validator.CustomValidator,
) *ProfileHandler {
	return &ProfileHandler{
		log:            log,
		profileUsecase: profileUsecase,
		mediaUsecase:   mediaUsecase,
		validator:      validator,
		maxImageBytes:  media.DefaultMaxImageBytes,
	}
}

// GetProfile returns the caller's profile
// @Summary Get own profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileUsecase.GetProfile(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", converter.ProfileToResponse(profile))
}

// Stream sends the profile as Server-Sent Events: one "profile" event for
// the current state and one for every later change.
func (h *ProfileHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sub, err := h.profileUsecase.Subscribe(r.Context())
	if err != nil {
		writeError(w, err, "Failed to subscribe to profile updates")
		return
	}
	defer sub.Close()

	flusher, ok := response.StartStream(w)
	if !ok {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Updates():
			if !ok {
				return
			}

			if event.Err != nil {
				h.log.Warnf("Failed to read profile update: %+v", event.Err)
				err = response.Event(w, flusher, "error", map[string]string{"error": event.Err.Error()})
			} else {
				err = response.Event(w, flusher, "profile", converter.ProfileEventToResponse(event))
			}
			if err != nil {
				return
			}
		}
	}
}

func (h *ProfileHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	completion, err := h.profileUsecase.GetCompletion(r.Context())
	if err != nil {
		writeError(w, err, "Failed to compute profile completion")
		return
	}

	response.Success(w, http.StatusOK, "Profile completion retrieved successfully", converter.CompletionToResponse(completion))
}

// UpdateField sets one field, e.g. {"field": "availability.sunday", "value": "10:00 - 14:00"}
// @Summary Update one profile field
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateFieldRequest true "Update Field Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/field [patch]
func (h *ProfileHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	session, ok := entity.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	var req dto.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	path, err := entity.ParseFieldPath(session.Role, req.Field)
	if err != nil {
		writeError(w, err, "Invalid field")
		return
	}

	if err := h.profileUsecase.UpdateField(r.Context(), path, req.Value); err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", nil)
}

// BatchUpdate applies several field updates as one write
func (h *ProfileHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := entity.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	var req dto.BatchUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	updates := make(map[entity.FieldPath]any, len(req.Fields))
	for field, value := range req.Fields {
		path, err := entity.ParseFieldPath(session.Role, field)
		if err != nil {
			writeError(w, err, "Invalid field")
			return
		}
		updates[path] = value
	}

	if err := h.profileUsecase.BatchUpdate(r.Context(), updates); err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", nil)
}

// UpdateLanguages takes a comma separated list, e.g. "English, Hindi"
func (h *ProfileHandler) UpdateLanguages(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLanguagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	languages, err := h.profileUsecase.UpdateLanguages(r.Context(), req.Languages)
	if err != nil {
		writeError(w, err, "Failed to update languages")
		return
	}

	response.Success(w, http.StatusOK, "Languages updated successfully", dto.LanguagesResponse{LanguagesSpoken: languages})
}

func (h *ProfileHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	available, err := h.profileUsecase.ToggleAvailability(r.Context())
	if err != nil {
		writeError(w, err, "Failed to update availability status")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", dto.AvailabilityResponse{IsAvailable: available})
}

// UpdatePicture accepts a multipart form with an "image" file and a
// "source" of gallery or camera. No image means the user cancelled.
func (h *ProfileHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+1<<20)
	picker := media.NewRequestPicker(r, h.maxImageBytes)
	if err := picker.Parse(); err != nil {
		writeError(w, err, "Failed to read upload")
		return
	}
	useCamera := picker.Source() == media.SourceCamera

	result, err := h.mediaUsecase.UpdatePictureFlow(r.Context(), picker, useCamera)
	if err != nil {
		writeError(w, err, "Failed to update profile picture")
		return
	}

	message := "Profile picture updated successfully"
	if result.Cancelled {
		message = result.Message
	}
	response.Success(w, http.StatusOK, message, converter.PictureResultToResponse(result))
}

func (h *ProfileHandler) RemovePicture(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaUsecase.RemoveProfilePicture(r.Context()); err != nil {
		writeError(w, err, "Failed to remove profile picture")
		return
	}

	response.Success(w, http.StatusOK, "Profile picture removed successfully", nil)
}
