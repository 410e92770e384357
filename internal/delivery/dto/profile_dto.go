package dto

// Request DTOs

// UpdateFieldRequest sets one field. Field is a path such as "phone" or
// "availability.sunday"; a null value clears it.
type UpdateFieldRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

type BatchUpdateRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

type UpdateLanguagesRequest struct {
	Languages string `json:"languages"`
}

// Response DTOs

type ProfileEventResponse struct {
	Role    string      `json:"role"`
	Profile interface{} `json:"profile"`
}

type CompletionResponse struct {
	IsComplete     bool     `json:"is_complete"`
	Percentage     int      `json:"percentage"`
	MissingFields  []string `json:"missing_fields"`
	RequiredFields []string `json:"required_fields"`
}

type AvailabilityResponse struct {
	IsAvailable bool `json:"is_available"`
}

type LanguagesResponse struct {
	LanguagesSpoken []string `json:"languages_spoken"`
}

type ProfilePictureResponse struct {
	Cancelled    bool    `json:"cancelled"`
	Message      string  `json:"message,omitempty"`
	ProfileImage *string `json:"profile_image"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}
