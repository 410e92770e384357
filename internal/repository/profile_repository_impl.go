package repository

import (
	"context"
	"fmt"

	"cureconnect/internal/domain/entity"
	domainRepo "cureconnect/internal/domain/repository"
)

type profileRepository struct {
	store domainRepo.DocumentStore
}

func NewProfileRepository(store domainRepo.DocumentStore) domainRepo.ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) Create(ctx context.Context, userID string, profile entity.Profile) error {
	doc, err := profile.ToDocument()
	if err != nil {
		return err
	}
	return r.store.Set(ctx, profile.ProfileRole().Collection(), userID, doc)
}

func (r *profileRepository) FindByUserID(ctx context.Context, role entity.Role, userID string) (entity.Profile, error) {
	doc, err := r.store.Get(ctx, role.Collection(), userID)
	if err != nil {
		return nil, err
	}
	return DecodeProfile(role, doc)
}

func (r *profileRepository) FindAll(ctx context.Context, role entity.Role) ([]entity.Profile, error) {
	records, err := r.store.Query(ctx, role.Collection())
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.Profile, 0, len(records))
	for _, record := range records {
		profile, err := DecodeProfile(role, record.Data)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", role.Collection(), record.ID, err)
		}
		switch p := profile.(type) {
		case *entity.DoctorProfile:
			if p.UserID == "" {
				p.UserID = record.ID
			}
		case *entity.PatientProfile:
			if p.UserID == "" {
				p.UserID = record.ID
			}
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r *profileRepository) FindActiveDoctors(ctx context.Context) ([]*entity.DoctorProfile, error) {
	records, err := r.store.Query(ctx, entity.CollectionDoctors, domainRepo.Filter{Field: "isActive", Value: true})
	if err != nil {
		return nil, err
	}

	doctors := make([]*entity.DoctorProfile, 0, len(records))
	for _, record := range records {
		doctor, err := entity.DecodeDoctorProfile(record.Data)
		if err != nil {
			return nil, fmt.Errorf("doctors/%s: %w", record.ID, err)
		}
		if doctor.UserID == "" {
			doctor.UserID = record.ID
		}
		doctors = append(doctors, doctor)
	}
	return doctors, nil
}

func (r *profileRepository) Update(ctx context.Context, role entity.Role, userID string, fields domainRepo.Document) error {
	return r.store.Update(ctx, role.Collection(), userID, fields)
}

func (r *profileRepository) Merge(ctx context.Context, role entity.Role, userID string, fields domainRepo.Document) error {
	return r.store.Merge(ctx, role.Collection(), userID, fields)
}

func (r *profileRepository) Watch(ctx context.Context, role entity.Role, userID string) (domainRepo.Subscription, error) {
	return r.store.Watch(ctx, role.Collection(), userID)
}

// DecodeProfile decodes a stored document into the profile type for role.
func DecodeProfile(role entity.Role, doc domainRepo.Document) (entity.Profile, error) {
	if role == entity.RoleDoctor {
		return entity.DecodeDoctorProfile(doc)
	}
	return entity.DecodePatientProfile(doc)
}
