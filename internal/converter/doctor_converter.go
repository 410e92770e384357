package converter

import (
	"time"

	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/usecase"
)

// ThumbnailSize is the edge length of directory card images.
const ThumbnailSize = 150

// DirectoryDoctorToResponse converts a directory entry to its list item DTO
func DirectoryDoctorToResponse(doctor *usecase.DirectoryDoctor, now time.Time) *dto.DoctorListItemResponse {
	if doctor == nil {
		return nil
	}

	languages := doctor.LanguagesSpoken
	if languages == nil {
		languages = []string{}
	}

	return &dto.DoctorListItemResponse{
		ID:              doctor.ID,
		DoctorID:        doctor.DoctorID,
		Name:            doctor.FullName,
		Specialization:  doctor.Specialization,
		Experience:      doctor.Experience,
		Rating:          doctor.Ratings,
		TotalReviews:    doctor.TotalReviews,
		RatingDisplay:   doctor.RatingDisplay(),
		ConsultationFee: doctor.ConsultationFee,
		Address:         doctor.Address,
		About:           doctor.About,
		Availability: dto.Hours{
			Weekdays: doctor.Availability.Weekdays,
			Saturday: doctor.Availability.Saturday,
			Sunday:   doctor.Availability.Sunday,
		},
		NextAvailable: doctor.NextAvailable(now),
		IsAvailable:   doctor.IsAvailable,
		Languages:     languages,
		ProfileImage:  doctor.ProfileImage,
		ThumbnailURL:  Thumbnail(doctor.ProfileImage, ThumbnailSize),
	}
}

// DirectoryDoctorsToResponses converts directory entries to list item DTOs
func DirectoryDoctorsToResponses(doctors []usecase.DirectoryDoctor, now time.Time) []dto.DoctorListItemResponse {
	responses := make([]dto.DoctorListItemResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DirectoryDoctorToResponse(&doctors[i], now)
	}
	return responses
}

// Thumbnail returns a resized CDN URL, or nil when there is no image.
func Thumbnail(url *string, size int) *string {
	if url == nil || *url == "" {
		return nil
	}
	optimized := media.OptimizedImageURL(*url, size)
	return &optimized
}
