package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/docstore"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/repository"
	"cureconnect/internal/service"
	"cureconnect/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	requests []media.UploadRequest
}

func (u *recordingUploader) Upload(ctx context.Context, req media.UploadRequest) (*media.UploadResult, error) {
	u.requests = append(u.requests, req)
	return &media.UploadResult{URL: "https://cdn.example.com/doctor_profiles/d1.png", PublicID: "doctor_profiles/d1"}, nil
}

func TestRunPicture(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := docstore.NewMemoryStore()
	profileRepo := repository.NewProfileRepository(store)
	audit := service.NewAuditService(log, repository.NewAuditLogRepository(store))
	require.NoError(t, profileRepo.Create(context.Background(), "d1",
		entity.NewDoctorProfile("d1", "DOC1", "d1@example.com", "Dr. One", "+12015550123", time.Now().UTC())))

	uploader := &recordingUploader{}
	mediaUsecase := usecase.NewMediaUsecase(log, uploader, usecase.NewProfileUsecase(log, profileRepo, audit))
	session := &entity.Session{UserID: "d1", Role: entity.RoleDoctor}

	t.Run("no file cancels", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runPicture(context.Background(), &out, mediaUsecase, session, "", true))
		assert.Equal(t, "Photo capture cancelled\n", out.String())
		assert.Empty(t, uploader.requests)
	})

	t.Run("uploads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "me.png")
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
		require.NoError(t, os.WriteFile(path, png, 0o600))

		var out bytes.Buffer
		require.NoError(t, runPicture(context.Background(), &out, mediaUsecase, session, path, false))
		assert.Contains(t, out.String(), "https://cdn.example.com/doctor_profiles/d1.png")
		require.Len(t, uploader.requests, 1)
		assert.Equal(t, png, uploader.requests[0].Image.Data)
	})

	t.Run("missing file fails", func(t *testing.T) {
		var out bytes.Buffer
		err := runPicture(context.Background(), &out, mediaUsecase, session, filepath.Join(t.TempDir(), "nope.png"), false)
		assert.Error(t, err)
		assert.Empty(t, out.String())
	})
}

func TestPictureCommandRequiresUser(t *testing.T) {
	cmd := newPictureCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--file", "me.png"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
}
