package converter

import (
	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/usecase"
)

func ProfileToResponse(profile entity.Profile) *dto.ProfileEventResponse {
	if profile == nil {
		return nil
	}
	return &dto.ProfileEventResponse{
		Role:    profile.ProfileRole().String(),
		Profile: profile,
	}
}

func ProfileEventToResponse(event usecase.ProfileEvent) *dto.ProfileEventResponse {
	return &dto.ProfileEventResponse{
		Role:    event.Role.String(),
		Profile: event.Profile(),
	}
}

func CompletionToResponse(c *entity.Completion) *dto.CompletionResponse {
	return &dto.CompletionResponse{
		IsComplete:     c.IsComplete,
		Percentage:     c.Percentage,
		MissingFields:  c.MissingFields,
		RequiredFields: c.RequiredFields,
	}
}

func PictureResultToResponse(result *usecase.PictureResult) *dto.ProfilePictureResponse {
	resp := &dto.ProfilePictureResponse{
		Cancelled: result.Cancelled,
		Message:   result.Message,
	}
	if result.URL != "" {
		url := result.URL
		resp.ProfileImage = &url
		resp.ThumbnailURL = Thumbnail(&url, ThumbnailSize)
	}
	return resp
}

func SessionToResponse(session *entity.Session) *dto.SessionResponse {
	if session == nil {
		return &dto.SessionResponse{}
	}
	return &dto.SessionResponse{
		UserID:          session.UserID,
		Email:           session.Email,
		Role:            session.Role.String(),
		IsAuthenticated: true,
	}
}
