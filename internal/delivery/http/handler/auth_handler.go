package handler

import (
	"encoding/json"
	"net/http"

	"cureconnect/internal/converter"
	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/response"
	"cureconnect/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// SignUp handles account registration
// @Summary Register a doctor or patient
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Sign Up Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.SignUp(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create account")
		return
	}

	response.Success(w, http.StatusCreated, "Account created successfully", result)
}

// SignIn handles credential sign-in
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Sign In Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.SignIn(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to sign in")
		return
	}

	response.Success(w, http.StatusOK, "Sign in successful", result)
}

// SignOut revokes the current access token and, if given, the refresh token
// @Summary Sign out
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	// Body is optional
	var req dto.SignOutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.SignOut(r.Context(), req.RefreshToken); err != nil {
		writeError(w, err, "Failed to sign out")
		return
	}

	response.Success(w, http.StatusOK, "Sign out successful", nil)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Me returns the session and profile of the caller
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := entity.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	profile, err := h.authUsecase.GetProfile(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get current user")
		return
	}

	response.Success(w, http.StatusOK, "Current user retrieved successfully", map[string]interface{}{
		"session": converter.SessionToResponse(session),
		"profile": profile,
	})
}

// DeactivateAccount soft-deletes the caller's account
func (h *AuthHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.DeactivateAccount(r.Context()); err != nil {
		writeError(w, err, "Failed to deactivate account")
		return
	}

	response.Success(w, http.StatusOK, "Account deactivated successfully", nil)
}
