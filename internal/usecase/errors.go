package usecase

import (
	"errors"
	"fmt"
)

// Identity errors carry the copy shown to the user.
var (
	ErrAccountExists   = errors.New("This email address is already registered. Please use a different email or try signing in.")
	ErrWeakCredential  = errors.New("Password is too weak. Please use at least 6 characters.")
	ErrInvalidEmail    = errors.New("Please enter a valid email address.")
	ErrAccountNotFound = errors.New("No account found with this email address.")
	ErrWrongCredential = errors.New("Incorrect password. Please try again.")
	ErrRateLimited     = errors.New("Too many failed attempts. Please try again later.")
	ErrNetworkFailure  = errors.New("Network error. Please check your internet connection.")
	ErrAuthFailed      = errors.New("An error occurred. Please try again.")
	ErrAccountInactive = errors.New("This account has been deactivated.")
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrNotAuthenticated = errors.New("no authenticated user found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrNotDoctor        = errors.New("only doctors can change availability")
	ErrDoctorNotFound   = errors.New("Doctor profile not found")
	ErrPatientNotFound  = errors.New("Patient profile not found")
	ErrInvalidImage     = errors.New("file is not a supported image")
)

// Action failure kinds, matched with errors.Is.
var (
	ErrUpdateFailed = errors.New("update failed")
	ErrUploadFailed = errors.New("upload failed")
)

// ActionError is a failed write that the client shows as a message.
type ActionError struct {
	Kind    error
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func updateFailed(target string, err error) error {
	return &ActionError{Kind: ErrUpdateFailed, Message: fmt.Sprintf("Failed to update %s", target), Err: err}
}

func uploadFailed(err error) error {
	return &ActionError{Kind: ErrUploadFailed, Message: "Failed to upload image to cloud storage", Err: err}
}
