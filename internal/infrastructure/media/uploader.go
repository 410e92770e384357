package media

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var ErrUploadFailed = errors.New("failed to upload image")

type UploadRequest struct {
	Image    *Image
	Filename string
	Folder   string
	Tags     []string
}

type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader stores an image on a CDN and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// OptimizedImageURL returns url resized to a size x size crop with automatic
// quality and format. Only Cloudinary delivery URLs are rewritten.
func OptimizedImageURL(url string, size int) string {
	return TransformURL(url, Transformation{Width: size, Height: size, Crop: "fill", Quality: "auto", Format: "auto"})
}

type Transformation struct {
	Width   int
	Height  int
	Crop    string
	Quality string
	Format  string
}

func (t Transformation) segment() string {
	parts := []string{}
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	return strings.Join(parts, ",")
}

// TransformURL inserts t after the "upload" path segment of a Cloudinary URL.
// Other URLs are returned unchanged.
func TransformURL(url string, t Transformation) string {
	if url == "" || !strings.Contains(url, "cloudinary.com") {
		return url
	}

	segment := t.segment()
	if segment == "" {
		return url
	}

	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part == "upload" {
			out := make([]string, 0, len(parts)+1)
			out = append(out, parts[:i+1]...)
			out = append(out, segment)
			out = append(out, parts[i+1:]...)
			return strings.Join(out, "/")
		}
	}
	return url
}
