package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/infrastructure/media"

	"github.com/sirupsen/logrus"
)

// PictureResult is the outcome of the pick-and-upload flow.
type PictureResult struct {
	Cancelled bool
	Message   string
	URL       string
}

type MediaUsecase interface {
	PickFromGallery(ctx context.Context, picker media.Picker) (*media.PickResult, error)
	CaptureFromCamera(ctx context.Context, picker media.Picker) (*media.PickResult, error)
	UploadAndAttach(ctx context.Context, image *media.Image) (string, error)
	UpdatePictureFlow(ctx context.Context, picker media.Picker, useCamera bool) (*PictureResult, error)
	RemoveProfilePicture(ctx context.Context) error
}

type mediaUsecase struct {
	log      *logrus.Logger
	uploader media.Uploader
	profile  ProfileUsecase
}

func NewMediaUsecase(log *logrus.Logger, uploader media.Uploader, profile ProfileUsecase) MediaUsecase {
	return &mediaUsecase{
		log:      log,
		uploader: uploader,
		profile:  profile,
	}
}

func (u *mediaUsecase) PickFromGallery(ctx context.Context, picker media.Picker) (*media.PickResult, error) {
	return u.pick(ctx, picker, media.SourceGallery)
}

func (u *mediaUsecase) CaptureFromCamera(ctx context.Context, picker media.Picker) (*media.PickResult, error) {
	return u.pick(ctx, picker, media.SourceCamera)
}

func (u *mediaUsecase) pick(ctx context.Context, picker media.Picker, source media.Source) (*media.PickResult, error) {
	result, err := picker.Pick(ctx, source, media.DefaultPickOptions())
	if err != nil {
		if errors.Is(err, media.ErrPermissionDenied) || errors.Is(err, media.ErrImageTooLarge) {
			return nil, err
		}
		if errors.Is(err, media.ErrNotImage) {
			return nil, ErrInvalidImage
		}
		u.log.Warnf("Failed to pick image from %s: %+v", source, err)
		return nil, fmt.Errorf("Failed to pick image: %w", err)
	}
	return result, nil
}

func (u *mediaUsecase) UploadAndAttach(ctx context.Context, image *media.Image) (string, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return "", ErrNotAuthenticated
	}

	if _, err := media.SniffImage(image.Data); err != nil {
		return "", ErrInvalidImage
	}

	result, err := u.uploader.Upload(ctx, media.UploadRequest{
		Image:    image,
		Filename: fmt.Sprintf("%s_profile_%d.jpg", session.Role, time.Now().UnixMilli()),
		Folder:   session.Role.MediaFolder(),
		Tags:     []string{"profile", string(session.Role)},
	})
	if err != nil {
		u.log.Warnf("Failed to upload profile picture: %+v", err)
		return "", uploadFailed(err)
	}

	if err := u.profile.UpdateField(ctx, entity.FieldProfileImage, result.URL); err != nil {
		return "", err
	}
	return result.URL, nil
}

func (u *mediaUsecase) UpdatePictureFlow(ctx context.Context, picker media.Picker, useCamera bool) (*PictureResult, error) {
	source := media.SourceGallery
	if useCamera {
		source = media.SourceCamera
	}

	picked, err := u.pick(ctx, picker, source)
	if err != nil {
		return nil, err
	}
	if picked.Cancelled {
		return &PictureResult{Cancelled: true, Message: source.CancelMessage()}, nil
	}

	url, err := u.UploadAndAttach(ctx, picked.Image)
	if err != nil {
		return nil, err
	}
	return &PictureResult{URL: url, Message: "Profile picture updated successfully"}, nil
}

// RemoveProfilePicture clears the stored URL. The CDN asset is not deleted.
func (u *mediaUsecase) RemoveProfilePicture(ctx context.Context) error {
	return u.profile.UpdateField(ctx, entity.FieldProfileImage, nil)
}
