package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cureconnect/internal/chatbot"
	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"exists", usecase.ErrAccountExists, http.StatusConflict, usecase.ErrAccountExists.Error()},
		{"weak", usecase.ErrWeakCredential, http.StatusBadRequest, usecase.ErrWeakCredential.Error()},
		{"not found", fmt.Errorf("lookup: %w", usecase.ErrAccountNotFound), http.StatusNotFound, "lookup: " + usecase.ErrAccountNotFound.Error()},
		{"wrong password", usecase.ErrWrongCredential, http.StatusUnauthorized, usecase.ErrWrongCredential.Error()},
		{"rate limited", usecase.ErrRateLimited, http.StatusTooManyRequests, usecase.ErrRateLimited.Error()},
		{"network", usecase.ErrNetworkFailure, http.StatusServiceUnavailable, usecase.ErrNetworkFailure.Error()},
		{"inactive", usecase.ErrAccountInactive, http.StatusForbidden, usecase.ErrAccountInactive.Error()},
		{"not doctor", usecase.ErrNotDoctor, http.StatusForbidden, usecase.ErrNotDoctor.Error()},
		{"permission", &media.PermissionError{Source: media.SourceCamera}, http.StatusForbidden, "Permission to access camera is required"},
		{"bad field", entity.ErrUnknownFieldPath, http.StatusBadRequest, entity.ErrUnknownFieldPath.Error()},
		{"upload", &usecase.ActionError{Kind: usecase.ErrUploadFailed, Message: "Failed to upload image to cloud storage"}, http.StatusBadGateway, "Failed to upload image to cloud storage"},
		{"update", &usecase.ActionError{Kind: usecase.ErrUpdateFailed, Message: "Failed to update phone", Err: errors.New("db down")}, http.StatusInternalServerError, "Failed to update phone"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "Failed to do the thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Failed to do the thing")

			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestChatHandler(t *testing.T) {
	h := NewChatHandler(validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Reply(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"How do I book an appointment?"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var reply struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &reply))
	assert.Equal(t, chatbot.Respond("appointment"), reply.Reply)

	rec = httptest.NewRecorder()
	h.Reply(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decode(t, rec).Message)

	rec = httptest.NewRecorder()
	h.Reply(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Welcome(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil))
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &reply))
	assert.Equal(t, chatbot.WelcomeMessage, reply.Reply)
}

type MockDirectoryUsecase struct {
	ListDoctorsFunc     func(ctx context.Context, filter usecase.DoctorFilter) ([]usecase.DirectoryDoctor, error)
	SpecializationsFunc func(ctx context.Context) ([]string, error)
	GetDoctorFunc       func(ctx context.Context, id string) (*usecase.DirectoryDoctor, error)
}

func (m *MockDirectoryUsecase) ListDoctors(ctx context.Context, filter usecase.DoctorFilter) ([]usecase.DirectoryDoctor, error) {
	return m.ListDoctorsFunc(ctx, filter)
}

func (m *MockDirectoryUsecase) Specializations(ctx context.Context) ([]string, error) {
	return m.SpecializationsFunc(ctx)
}

func (m *MockDirectoryUsecase) GetDoctor(ctx context.Context, id string) (*usecase.DirectoryDoctor, error) {
	return m.GetDoctorFunc(ctx, id)
}

func TestDoctorHandler(t *testing.T) {
	image := "https://res.cloudinary.com/demo/image/upload/v1/doctor_profiles/a.jpg"
	doctor := usecase.DirectoryDoctor{
		ID:             "d1",
		FullName:       "Dr. Zara Khan",
		Specialization: "Cardiology",
		IsAvailable:    true,
		ProfileImage:   &image,
	}

	var gotFilter usecase.DoctorFilter
	uc := &MockDirectoryUsecase{
		ListDoctorsFunc: func(ctx context.Context, filter usecase.DoctorFilter) ([]usecase.DirectoryDoctor, error) {
			gotFilter = filter
			return []usecase.DirectoryDoctor{doctor}, nil
		},
		SpecializationsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"All", "Cardiology"}, nil
		},
		GetDoctorFunc: func(ctx context.Context, id string) (*usecase.DirectoryDoctor, error) {
			if id == doctor.ID {
				return &doctor, nil
			}
			return nil, usecase.ErrDoctorNotFound
		},
	}

	h := NewDoctorHandler(uc)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	r := mux.NewRouter()
	r.HandleFunc("/doctors", h.ListDoctors).Methods(http.MethodGet)
	r.HandleFunc("/doctors/{id}", h.GetDoctor).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors?q=zara&specialization=All", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.DoctorFilter{Query: "zara", Specialization: "All"}, gotFilter)

	var list struct {
		Doctors []struct {
			Name          string `json:"name"`
			NextAvailable string `json:"next_available"`
			RatingDisplay string `json:"rating_display"`
			ThumbnailURL  string `json:"thumbnail_url"`
		} `json:"doctors"`
		Total           int      `json:"total"`
		Specializations []string `json:"specializations"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Len(t, list.Doctors, 1)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, []string{"All", "Cardiology"}, list.Specializations)
	assert.Equal(t, "Available today", list.Doctors[0].NextAvailable)
	assert.Equal(t, "No reviews yet", list.Doctors[0].RatingDisplay)
	assert.Equal(t, media.OptimizedImageURL(image, 150), list.Doctors[0].ThumbnailURL)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Doctor profile not found", decode(t, rec).Message)
}
