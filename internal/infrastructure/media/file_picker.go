package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// FilePicker picks an image from the local filesystem. An empty path means
// the user cancelled.
type FilePicker struct {
	Path string
}

func (p *FilePicker) Pick(ctx context.Context, source Source, opts PickOptions) (*PickResult, error) {
	if p.Path == "" {
		return &PickResult{Cancelled: true, Options: opts}, nil
	}

	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrPermission) {
		return nil, &PermissionError{Source: source}
	}
	if err != nil {
		return nil, err
	}

	contentType, err := SniffImage(data)
	if err != nil {
		return nil, err
	}

	return &PickResult{
		Image:   &Image{Data: data, ContentType: contentType, Name: filepath.Base(p.Path)},
		Options: opts,
	}, nil
}
