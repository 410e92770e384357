package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cureconnect/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/sirupsen/logrus"
)

const defaultUploadTimeout = 30 * time.Second

// CloudinaryUploader performs unsigned uploads against an upload preset.
type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	preset  string
	timeout time.Duration
	log     *logrus.Logger
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig, log *logrus.Logger) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, errors.New("Invalid Cloudinary configuration. Please check cloudName and uploadPreset.")
	}

	conf, err := cldconfig.NewFromParams(cfg.CloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	if cfg.BaseURL != "" {
		conf.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}

	return &CloudinaryUploader{
		cld:     cld,
		preset:  cfg.UploadPreset,
		timeout: defaultUploadTimeout,
		log:     log,
	}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder: req.Folder,
		Tags:   req.Tags,
	}

	result, err := u.cld.Upload.UnsignedUpload(ctx, bytes.NewReader(req.Image.Data), u.preset, params)
	if err != nil {
		u.log.Warnf("Failed to reach Cloudinary: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if result.Error.Message != "" {
		u.log.Warnf("Cloudinary upload rejected: %s", result.Error.Message)
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, result.Error.Message)
	}
	if result.SecureURL == "" {
		u.log.Warn("Cloudinary upload returned no secure_url")
		return nil, fmt.Errorf("%w: missing secure_url", ErrUploadFailed)
	}

	return &UploadResult{URL: result.SecureURL, PublicID: result.PublicID}, nil
}
