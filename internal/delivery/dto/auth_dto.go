package dto

// Request DTOs

type SignUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Phone    string `json:"phone" validate:"required,phone"`
	Role     string `json:"role" validate:"required,oneof=doctor patient"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type SignUpResponse struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
	Profile interface{} `json:"profile"`
}

type SignInResponse struct {
	UserID  string         `json:"user_id"`
	Email   string         `json:"email"`
	Role    string         `json:"role"`
	Profile interface{}    `json:"profile"`
	Tokens  *TokenResponse `json:"tokens"`
}

type SessionResponse struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsAuthenticated bool   `json:"is_authenticated"`
}
