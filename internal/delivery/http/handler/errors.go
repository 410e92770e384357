package handler

import (
	"errors"
	"net/http"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/response"
)

// writeError maps usecase errors to responses. Errors that carry user-facing
// copy are sent as is; anything unknown becomes fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var actionErr *usecase.ActionError
	var permissionErr *media.PermissionError

	switch {
	case errors.Is(err, usecase.ErrAccountExists):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, usecase.ErrWeakCredential),
		errors.Is(err, usecase.ErrInvalidEmail),
		errors.Is(err, usecase.ErrInvalidRole),
		errors.Is(err, usecase.ErrInvalidImage):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrAccountNotFound),
		errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrWrongCredential),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked),
		errors.Is(err, usecase.ErrNotAuthenticated):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrRateLimited):
		response.Error(w, http.StatusTooManyRequests, err.Error(), nil)
	case errors.Is(err, usecase.ErrNetworkFailure):
		response.Error(w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, usecase.ErrAccountInactive),
		errors.Is(err, usecase.ErrNotDoctor),
		errors.Is(err, entity.ErrFieldNotAllowed):
		response.Forbidden(w, err.Error())
	case errors.Is(err, media.ErrImageTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, media.ErrImageTooLarge.Error(), nil)
	case errors.As(err, &permissionErr):
		response.Forbidden(w, permissionErr.Error())
	case errors.Is(err, entity.ErrUnknownFieldPath),
		errors.Is(err, entity.ErrInvalidFieldType):
		response.BadRequest(w, err.Error())
	case errors.As(err, &actionErr) && errors.Is(err, usecase.ErrUploadFailed):
		response.Error(w, http.StatusBadGateway, actionErr.Message, nil)
	case errors.As(err, &actionErr):
		response.InternalServerError(w, actionErr.Message)
	case errors.Is(err, usecase.ErrAuthFailed):
		response.InternalServerError(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
