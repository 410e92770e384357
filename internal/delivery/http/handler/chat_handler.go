package handler

import (
	"encoding/json"
	"net/http"

	"cureconnect/internal/chatbot"
	"cureconnect/internal/delivery/dto"
	"cureconnect/pkg/response"
	"cureconnect/pkg/validator"
)

type ChatHandler struct {
	validator *validator.CustomValidator
}

func NewChatHandler(validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{validator: validator}
}

// Reply answers one chat message
// @Summary Ask the medical assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat Request"
// @Success 200 {object} response.Response
// @Router /chat [post]
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	response.Success(w, http.StatusOK, "Reply generated", dto.ChatResponse{Reply: chatbot.Respond(req.Message)})
}

// Welcome returns the greeting shown when the chat opens.
func (h *ChatHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Welcome message", dto.ChatResponse{Reply: chatbot.WelcomeMessage})
}
