package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// DefaultMaxImageBytes caps the size of an uploaded profile picture.
const DefaultMaxImageBytes = 10 << 20

// RequestPicker reads the image the device already picked from a multipart
// request. A missing "image" part means the user cancelled; a
// "permission=denied" field means the device refused access.
type RequestPicker struct {
	r        *http.Request
	maxBytes int64

	parsed   bool
	parseErr error
}

func NewRequestPicker(r *http.Request, maxBytes int64) *RequestPicker {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &RequestPicker{r: r, maxBytes: maxBytes}
}

// Parse reads the multipart form once. A body cut off by a size limit is
// reported as ErrImageTooLarge.
func (p *RequestPicker) Parse() error {
	if p.parsed {
		return p.parseErr
	}
	p.parsed = true

	err := p.r.ParseMultipartForm(p.maxBytes)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		return nil
	case errors.As(err, &tooLarge), errors.Is(err, multipart.ErrMessageTooLarge):
		p.parseErr = fmt.Errorf("%w: %v", ErrImageTooLarge, err)
	default:
		p.parseErr = fmt.Errorf("failed to parse upload: %w", err)
	}
	return p.parseErr
}

// Source is the picker source named by the "source" field. Anything other
// than camera means the gallery.
func (p *RequestPicker) Source() Source {
	if p.Parse() != nil {
		return SourceGallery
	}
	if Source(p.r.FormValue("source")) == SourceCamera {
		return SourceCamera
	}
	return SourceGallery
}

func (p *RequestPicker) Pick(ctx context.Context, source Source, opts PickOptions) (*PickResult, error) {
	if err := p.Parse(); err != nil {
		return nil, err
	}

	if p.r.FormValue("permission") == "denied" {
		return nil, &PermissionError{Source: source}
	}

	file, header, err := p.r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return &PickResult{Cancelled: true, Options: opts}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, p.maxBytes)
	}

	contentType, err := SniffImage(data)
	if err != nil {
		return nil, err
	}

	return &PickResult{
		Image:   &Image{Data: data, ContentType: contentType, Name: header.Filename},
		Options: opts,
	}, nil
}
