package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// SpecializationAll disables the specialization filter.
const SpecializationAll = "All"

// DirectoryDoctor is an active doctor with display defaults applied.
type DirectoryDoctor struct {
	ID              string
	DoctorID        string
	FullName        string
	Specialization  string
	Experience      string
	Ratings         float64
	TotalReviews    int
	ConsultationFee string
	IsAvailable     bool
	LanguagesSpoken []string
	Address         string
	ProfileImage    *string
	Gender          string
	Education       string
	LicenseNumber   string
	Availability    entity.Availability
	About           string
}

type DoctorFilter struct {
	Query          string
	Specialization string
}

type DirectoryUsecase interface {
	ListDoctors(ctx context.Context, filter DoctorFilter) ([]DirectoryDoctor, error)
	Specializations(ctx context.Context) ([]string, error)
	GetDoctor(ctx context.Context, id string) (*DirectoryDoctor, error)
}

type directoryUsecase struct {
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
}

func NewDirectoryUsecase(log *logrus.Logger, profileRepo repository.ProfileRepository) DirectoryUsecase {
	return &directoryUsecase{
		log:         log,
		profileRepo: profileRepo,
	}
}

func (u *directoryUsecase) activeDoctors(ctx context.Context) ([]DirectoryDoctor, error) {
	profiles, err := u.profileRepo.FindActiveDoctors(ctx)
	if err != nil {
		u.log.Warnf("Failed to load doctors: %+v", err)
		return nil, fmt.Errorf("Failed to load doctors: %w", err)
	}

	doctors := make([]DirectoryDoctor, 0, len(profiles))
	for _, p := range profiles {
		doctors = append(doctors, toDirectoryDoctor(p))
	}

	sort.SliceStable(doctors, func(i, j int) bool {
		return strings.ToLower(doctors[i].FullName) < strings.ToLower(doctors[j].FullName)
	})
	return doctors, nil
}

func (u *directoryUsecase) ListDoctors(ctx context.Context, filter DoctorFilter) ([]DirectoryDoctor, error) {
	doctors, err := u.activeDoctors(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	specialization := strings.ToLower(strings.TrimSpace(filter.Specialization))
	if filter.Specialization == SpecializationAll {
		specialization = ""
	}

	filtered := make([]DirectoryDoctor, 0, len(doctors))
	for _, d := range doctors {
		if query != "" && !d.matches(query) {
			continue
		}
		if specialization != "" && !strings.Contains(strings.ToLower(d.Specialization), specialization) {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered, nil
}

func (d DirectoryDoctor) matches(query string) bool {
	if strings.Contains(strings.ToLower(d.FullName), query) ||
		strings.Contains(strings.ToLower(d.Specialization), query) ||
		strings.Contains(strings.ToLower(d.Address), query) {
		return true
	}
	for _, lang := range d.LanguagesSpoken {
		if strings.Contains(strings.ToLower(lang), query) {
			return true
		}
	}
	return false
}

// Specializations returns "All" followed by each specialization in first-seen order.
func (u *directoryUsecase) Specializations(ctx context.Context) ([]string, error) {
	doctors, err := u.activeDoctors(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := []string{SpecializationAll}
	for _, d := range doctors {
		if _, ok := seen[d.Specialization]; ok {
			continue
		}
		seen[d.Specialization] = struct{}{}
		out = append(out, d.Specialization)
	}
	return out, nil
}

func (u *directoryUsecase) GetDoctor(ctx context.Context, id string) (*DirectoryDoctor, error) {
	doctors, err := u.activeDoctors(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i], nil
		}
	}
	return nil, ErrDoctorNotFound
}

// RatingDisplay formats the rating line of a doctor card.
func (d DirectoryDoctor) RatingDisplay() string {
	if d.TotalReviews == 0 {
		return "No reviews yet"
	}
	return fmt.Sprintf("%.1f (%d reviews)", d.Ratings, d.TotalReviews)
}

// NextAvailable is a coarse hint based only on the availability flag and the hour of now.
func (d DirectoryDoctor) NextAvailable(now time.Time) string {
	if !d.IsAvailable {
		return "Currently unavailable"
	}
	if now.Hour() < 17 {
		return "Available today"
	}
	return "Available tomorrow"
}

func toDirectoryDoctor(p *entity.DoctorProfile) DirectoryDoctor {
	experience := "0"
	if p.Experience != nil && *p.Experience != 0 {
		experience = fmt.Sprint(*p.Experience)
	}
	fee := "0"
	if p.ConsultationFee != nil && !p.ConsultationFee.IsZero() {
		fee = p.ConsultationFee.String()
	}

	return DirectoryDoctor{
		ID:              p.UserID,
		DoctorID:        p.DoctorID,
		FullName:        orDefault(&p.FullName, "Dr. Unknown"),
		Specialization:  orDefault(p.Specialization, "General Medicine"),
		Experience:      experience,
		Ratings:         p.Ratings,
		TotalReviews:    p.TotalReviews,
		ConsultationFee: fee,
		IsAvailable:     p.IsAvailable,
		LanguagesSpoken: p.LanguagesSpoken,
		Address:         orDefault(p.Address, "Address not available"),
		ProfileImage:    p.ProfileImage,
		Gender:          orDefault(p.Gender, "Not specified"),
		Education:       orDefault(p.Education, "Not specified"),
		LicenseNumber:   orDefault(p.LicenseNumber, "Not specified"),
		Availability:    p.Availability,
		About:           orDefault(p.About, "No description available"),
	}
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
