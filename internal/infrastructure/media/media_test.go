package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cureconnect/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOptimizedImageURL(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/upload/v1712/doctor_profiles/a.jpg"
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_200,h_200,c_fill,q_auto,f_auto/v1712/doctor_profiles/a.jpg",
		OptimizedImageURL(in, 200))

	assert.Equal(t, "https://cdn.example.com/upload/a.jpg", OptimizedImageURL("https://cdn.example.com/upload/a.jpg", 200))
	assert.Equal(t, "", OptimizedImageURL("", 200))
	assert.Equal(t, "https://res.cloudinary.com/demo/raw/a.jpg", OptimizedImageURL("https://res.cloudinary.com/demo/raw/a.jpg", 200))
}

func TestSniffImage(t *testing.T) {
	contentType, err := SniffImage(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = SniffImage([]byte("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestCloudinaryUpload(t *testing.T) {
	var gotPath, gotPreset, gotFolder, gotTags string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")
		gotTags = r.FormValue("tags")
		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/doctor_profiles/x.jpg","public_id":"doctor_profiles/x"}`))
	}))
	defer server.Close()

	uploader, err := NewCloudinaryUploader(config.CloudinaryConfig{
		CloudName:    "demo",
		UploadPreset: "doctor_profiles",
		BaseURL:      server.URL,
	}, quietLogger())
	require.NoError(t, err)

	result, err := uploader.Upload(context.Background(), UploadRequest{
		Image:    &Image{Data: pngBytes, ContentType: "image/png"},
		Filename: "doctor_profile_1.jpg",
		Folder:   "doctor_profiles",
		Tags:     []string{"profile", "doctor"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/v1_1/demo/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, "/upload"), gotPath)
	assert.Equal(t, "doctor_profiles", gotPreset)
	assert.Equal(t, "doctor_profiles", gotFolder)
	assert.Contains(t, gotTags, "profile")
	assert.Equal(t, pngBytes, gotFile)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/doctor_profiles/x.jpg", result.URL)
	assert.Equal(t, "doctor_profiles/x", result.PublicID)
}

func TestCloudinaryUploadFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"error status", http.StatusBadRequest, `{"error":{"message":"Upload preset not found"}}`},
		{"missing secure url", http.StatusOK, `{"public_id":"x"}`},
		{"invalid body", http.StatusOK, `not json`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			uploader, err := NewCloudinaryUploader(config.CloudinaryConfig{
				CloudName:    "demo",
				UploadPreset: "doctor_profiles",
				BaseURL:      server.URL,
			}, quietLogger())
			require.NoError(t, err)

			_, err = uploader.Upload(context.Background(), UploadRequest{
				Image:    &Image{Data: pngBytes, ContentType: "image/png"},
				Filename: "a.jpg",
			})
			assert.ErrorIs(t, err, ErrUploadFailed)
		})
	}
}

func TestNewCloudinaryUploaderRequiresConfig(t *testing.T) {
	_, err := NewCloudinaryUploader(config.CloudinaryConfig{CloudName: "demo"}, quietLogger())
	assert.Error(t, err)
}

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/picture", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRequestPicker(t *testing.T) {
	ctx := context.Background()
	opts := DefaultPickOptions()

	result, err := NewRequestPicker(multipartRequest(t, nil, pngBytes), 0).Pick(ctx, SourceGallery, opts)
	require.NoError(t, err)
	require.False(t, result.Cancelled)
	assert.Equal(t, "image/png", result.Image.ContentType)
	assert.Equal(t, pngBytes, result.Image.Data)
	assert.Equal(t, opts, result.Options)

	result, err = NewRequestPicker(multipartRequest(t, map[string]string{"source": "camera"}, nil), 0).Pick(ctx, SourceCamera, opts)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)

	_, err = NewRequestPicker(multipartRequest(t, map[string]string{"permission": "denied"}, nil), 0).Pick(ctx, SourceCamera, opts)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.EqualError(t, err, "Permission to access camera is required")

	_, err = NewRequestPicker(multipartRequest(t, nil, []byte("plain text")), 0).Pick(ctx, SourceGallery, opts)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestRequestPickerSourceAndLimits(t *testing.T) {
	ctx := context.Background()

	picker := NewRequestPicker(multipartRequest(t, map[string]string{"source": "camera"}, pngBytes), 0)
	require.NoError(t, picker.Parse())
	assert.Equal(t, SourceCamera, picker.Source())
	result, err := picker.Pick(ctx, SourceCamera, DefaultPickOptions())
	require.NoError(t, err)
	assert.Equal(t, pngBytes, result.Image.Data)

	picker = NewRequestPicker(multipartRequest(t, map[string]string{"source": "drone"}, nil), 0)
	assert.Equal(t, SourceGallery, picker.Source())

	_, err = NewRequestPicker(multipartRequest(t, nil, pngBytes), 8).Pick(ctx, SourceGallery, DefaultPickOptions())
	assert.ErrorIs(t, err, ErrImageTooLarge)

	req := multipartRequest(t, map[string]string{"source": "camera"}, bytes.Repeat(pngBytes, 64))
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 256)
	picker = NewRequestPicker(req, 0)
	assert.ErrorIs(t, picker.Parse(), ErrImageTooLarge)
	assert.Equal(t, SourceGallery, picker.Source())
	_, err = picker.Pick(ctx, SourceGallery, DefaultPickOptions())
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestFilePicker(t *testing.T) {
	ctx := context.Background()

	result, err := (&FilePicker{}).Pick(ctx, SourceGallery, DefaultPickOptions())
	require.NoError(t, err)
	assert.True(t, result.Cancelled)

	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))

	result, err = (&FilePicker{Path: path}).Pick(ctx, SourceGallery, DefaultPickOptions())
	require.NoError(t, err)
	assert.Equal(t, "me.png", result.Image.Name)
	assert.Equal(t, "image/png", result.Image.ContentType)
}

func TestDefaultPickOptions(t *testing.T) {
	opts := DefaultPickOptions()
	assert.True(t, opts.AllowsEditing)
	assert.Equal(t, [2]int{1, 1}, opts.Aspect)
	assert.Equal(t, 0.8, opts.Quality)
	assert.False(t, opts.EXIF)
}
