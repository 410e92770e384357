package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"
	"cureconnect/internal/service"

	"github.com/sirupsen/logrus"
)

// ProfileEvent is one observed state of the caller's profile. Exactly one of
// Doctor, Patient or Err is set.
type ProfileEvent struct {
	Role    entity.Role
	Doctor  *entity.DoctorProfile
	Patient *entity.PatientProfile
	Err     error
}

func (e ProfileEvent) Profile() entity.Profile {
	if e.Doctor != nil {
		return e.Doctor
	}
	if e.Patient != nil {
		return e.Patient
	}
	return nil
}

// ProfileSubscription delivers ProfileEvents until Close. Close is
// idempotent and no event is delivered after it returns.
type ProfileSubscription interface {
	Updates() <-chan ProfileEvent
	Close() error
}

type ProfileUsecase interface {
	Subscribe(ctx context.Context) (ProfileSubscription, error)
	GetProfile(ctx context.Context) (entity.Profile, error)
	UpdateField(ctx context.Context, path entity.FieldPath, value any) error
	UpdateLanguages(ctx context.Context, languages string) ([]string, error)
	ToggleAvailability(ctx context.Context) (bool, error)
	BatchUpdate(ctx context.Context, updates map[entity.FieldPath]any) error
	GetCompletion(ctx context.Context) (*entity.Completion, error)
}

type profileUsecase struct {
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	audit       service.AuditService
}

func NewProfileUsecase(log *logrus.Logger, profileRepo repository.ProfileRepository, audit service.AuditService) ProfileUsecase {
	return &profileUsecase{
		log:         log,
		profileRepo: profileRepo,
		audit:       audit,
	}
}

func (u *profileUsecase) Subscribe(ctx context.Context) (ProfileSubscription, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	inner, err := u.profileRepo.Watch(ctx, session.Role, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to subscribe to %s profile: %+v", session.Role, err)
		return nil, fmt.Errorf("Failed to subscribe to profile updates: %w", err)
	}

	sub := &profileSubscription{
		inner:   inner,
		updates: make(chan ProfileEvent),
		done:    make(chan struct{}),
	}
	sub.wg.Add(1)
	go sub.forward(session.Role)
	return sub, nil
}

type profileSubscription struct {
	inner     repository.Subscription
	updates   chan ProfileEvent
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	err       error
}

func (s *profileSubscription) forward(role entity.Role) {
	defer s.wg.Done()
	for snap := range s.inner.Updates() {
		select {
		case s.updates <- toProfileEvent(role, snap):
		case <-s.done:
			return
		}
	}
}

func (s *profileSubscription) Updates() <-chan ProfileEvent {
	return s.updates
}

func (s *profileSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.err = s.inner.Close()
		s.wg.Wait()
		close(s.updates)
	})
	return s.err
}

func toProfileEvent(role entity.Role, snap repository.Snapshot) ProfileEvent {
	event := ProfileEvent{Role: role}
	switch {
	case snap.Err != nil:
		event.Err = snap.Err
	case !snap.Exists:
		event.Err = profileNotFound(role)
	case role == entity.RoleDoctor:
		event.Doctor, event.Err = entity.DecodeDoctorProfile(snap.Data)
	default:
		event.Patient, event.Err = entity.DecodePatientProfile(snap.Data)
	}
	return event
}

func (u *profileUsecase) GetProfile(ctx context.Context) (entity.Profile, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return u.load(ctx, session)
}

func (u *profileUsecase) load(ctx context.Context, session *entity.Session) (entity.Profile, error) {
	profile, err := u.profileRepo.FindByUserID(ctx, session.Role, session.UserID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, profileNotFound(session.Role)
	}
	if err != nil {
		u.log.Warnf("Failed to find %s profile: %+v", session.Role, err)
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) UpdateField(ctx context.Context, path entity.FieldPath, value any) error {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	action := entity.AuditActionProfileUpdate
	switch path {
	case entity.FieldProfileImage:
		action = entity.AuditActionPictureUpdate
		if value == nil {
			action = entity.AuditActionPictureRemove
		}
	case entity.FieldIsAvailable:
		action = entity.AuditActionAvailability
	}

	return u.apply(ctx, session, map[entity.FieldPath]any{path: value}, path.String(), action)
}

func (u *profileUsecase) UpdateLanguages(ctx context.Context, languages string) ([]string, error) {
	list := entity.SplitCSV(languages)
	if err := u.UpdateField(ctx, entity.FieldLanguagesSpoken, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (u *profileUsecase) ToggleAvailability(ctx context.Context) (bool, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return false, ErrNotAuthenticated
	}
	if session.Role != entity.RoleDoctor {
		return false, ErrNotDoctor
	}

	profile, err := u.load(ctx, session)
	if err != nil {
		return false, err
	}

	next := !profile.(*entity.DoctorProfile).IsAvailable
	if err := u.apply(ctx, session, map[entity.FieldPath]any{entity.FieldIsAvailable: next}, "availability status", entity.AuditActionAvailability); err != nil {
		return false, err
	}
	return next, nil
}

func (u *profileUsecase) BatchUpdate(ctx context.Context, updates map[entity.FieldPath]any) error {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	return u.apply(ctx, session, updates, "multiple fields", entity.AuditActionProfileUpdate)
}

// apply validates and coerces updates, folds grouped paths into their
// current group and writes everything as one change.
func (u *profileUsecase) apply(ctx context.Context, session *entity.Session, updates map[entity.FieldPath]any, target, action string) error {
	coerced := make(map[entity.FieldPath]any, len(updates))
	for path, value := range updates {
		if !path.AllowedFor(session.Role) {
			return fmt.Errorf("%w: %q for %s", entity.ErrFieldNotAllowed, path, session.Role)
		}
		v, err := path.Coerce(value)
		if err != nil {
			return err
		}
		coerced[path] = v
	}

	fields, err := u.buildFields(ctx, session, coerced)
	if err != nil {
		u.log.Warnf("Failed to read %s profile before update: %+v", session.Role, err)
		return updateFailed(target, err)
	}

	if err := u.write(ctx, session, fields); err != nil {
		return updateFailed(target, err)
	}

	_ = u.audit.LogUpdate(ctx, session.UserID, session.Role, action, session.Role.Collection(), session.UserID, changedPaths(updates))
	return nil
}

func (u *profileUsecase) buildFields(ctx context.Context, session *entity.Session, updates map[entity.FieldPath]any) (repository.Document, error) {
	fields := repository.Document{}

	var current repository.Document
	for path, value := range updates {
		if !path.IsGrouped() {
			fields[path.String()] = value
			continue
		}

		if current == nil {
			profile, err := u.profileRepo.FindByUserID(ctx, session.Role, session.UserID)
			if err != nil {
				return nil, err
			}
			if current, err = profile.ToDocument(); err != nil {
				return nil, err
			}
		}

		group, ok := fields[path.Group()].(map[string]any)
		if !ok {
			group = copyGroup(current[path.Group()])
			fields[path.Group()] = group
		}
		group[path.Key()] = value
	}

	fields["lastUpdated"] = time.Now().UTC()
	return fields, nil
}

// write replaces the given keys and falls back to an upsert when the plain
// update is rejected.
func (u *profileUsecase) write(ctx context.Context, session *entity.Session, fields repository.Document) error {
	err := u.profileRepo.Update(ctx, session.Role, session.UserID, fields)
	if err == nil {
		return nil
	}

	u.log.Warnf("Failed to update %s profile, retrying as merge: %+v", session.Role, err)
	if err := u.profileRepo.Merge(ctx, session.Role, session.UserID, fields); err != nil {
		u.log.Warnf("Failed to merge %s profile: %+v", session.Role, err)
		return err
	}
	return nil
}

func (u *profileUsecase) GetCompletion(ctx context.Context) (*entity.Completion, error) {
	session, ok := entity.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	profile, err := u.load(ctx, session)
	if err != nil {
		return nil, err
	}

	completion := entity.ComputeCompletion(profile)

	if storedComplete(profile) != completion.IsComplete {
		fields := repository.Document{"profileComplete": completion.IsComplete}
		if err := u.profileRepo.Update(ctx, session.Role, session.UserID, fields); err != nil {
			u.log.Warnf("Failed to sync profile completion flag: %+v", err)
		}
	}

	return &completion, nil
}

func storedComplete(profile entity.Profile) bool {
	switch p := profile.(type) {
	case *entity.DoctorProfile:
		return p.ProfileComplete
	case *entity.PatientProfile:
		return p.ProfileComplete
	default:
		return false
	}
}

func copyGroup(v any) map[string]any {
	group := map[string]any{}
	if current, ok := v.(map[string]any); ok {
		for key, value := range current {
			group[key] = value
		}
	}
	return group
}

func changedPaths(updates map[entity.FieldPath]any) []string {
	paths := make([]string, 0, len(updates))
	for path := range updates {
		paths = append(paths, path.String())
	}
	sort.Strings(paths)
	return paths
}
