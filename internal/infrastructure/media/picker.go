package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotImage         = errors.New("file is not an image")
	ErrImageTooLarge    = errors.New("image is too large")
)

type Source string

const (
	SourceGallery Source = "gallery"
	SourceCamera  Source = "camera"
)

// PermissionMessage is the copy shown when access to source is refused.
func (s Source) PermissionMessage() string {
	if s == SourceCamera {
		return "Permission to access camera is required"
	}
	return "Permission to access media library is required"
}

// CancelMessage is the copy shown when the user backs out of the picker.
func (s Source) CancelMessage() string {
	if s == SourceCamera {
		return "Photo capture cancelled"
	}
	return "Image selection cancelled"
}

type PickOptions struct {
	AllowsEditing bool
	Aspect        [2]int
	Quality       float64
	EXIF          bool
}

// DefaultPickOptions asks for a square, editable, EXIF-free profile photo.
func DefaultPickOptions() PickOptions {
	return PickOptions{
		AllowsEditing: true,
		Aspect:        [2]int{1, 1},
		Quality:       0.8,
		EXIF:          false,
	}
}

type Image struct {
	Data        []byte
	ContentType string
	Name        string
}

// PickResult is either an image or a cancellation. Cancellation is not an error.
type PickResult struct {
	Image     *Image
	Cancelled bool
	Options   PickOptions
}

type Picker interface {
	Pick(ctx context.Context, source Source, opts PickOptions) (*PickResult, error)
}

// PermissionError is returned when the user refused access to a source.
type PermissionError struct {
	Source Source
}

func (e *PermissionError) Error() string {
	return e.Source.PermissionMessage()
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// SniffImage detects the content type of data and rejects anything that is
// not an image.
func SniffImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return mt.String(), nil
}
