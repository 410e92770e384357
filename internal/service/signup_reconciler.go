package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cureconnect/internal/domain/entity"
	"cureconnect/internal/domain/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const reconcileTimeout = 2 * time.Minute

// ReconcileReport counts what one pass found and fixed.
type ReconcileReport struct {
	Scanned  int
	Missing  int
	Repaired int
	Failed   int
}

// SignupReconciler recreates users lookups for profiles whose sign-up
// stopped between the profile write and the lookup write.
type SignupReconciler struct {
	log         *logrus.Logger
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	audit       AuditService

	mu      sync.Mutex
	cron    *cron.Cron
	running sync.Mutex
}

func NewSignupReconciler(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	audit AuditService,
) *SignupReconciler {
	return &SignupReconciler{
		log:         log,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		audit:       audit,
	}
}

// Start schedules Run with a cron schedule such as "@every 15m".
func (s *SignupReconciler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("reconciler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.scheduled); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c

	s.log.Infof("Sign-up reconciler scheduled: %s", schedule)
	return nil
}

// Stop cancels the schedule and waits for a pass in progress.
func (s *SignupReconciler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info("Sign-up reconciler stopped")
}

func (s *SignupReconciler) scheduled() {
	// Skip this tick if the previous pass is still going.
	if !s.running.TryLock() {
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	report, err := s.Run(ctx)
	if err != nil {
		s.log.Warnf("Failed to reconcile sign-ups: %+v", err)
		return
	}
	if report.Missing > 0 {
		s.log.Infof("Sign-up reconcile: scanned=%d missing=%d repaired=%d failed=%d",
			report.Scanned, report.Missing, report.Repaired, report.Failed)
	}
}

// Run does a single pass over both profile collections.
func (s *SignupReconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	known, err := s.userRepo.FindAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var doctors, patients []entity.Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctors, err = s.profileRepo.FindAll(gctx, entity.RoleDoctor)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = s.profileRepo.FindAll(gctx, entity.RolePatient)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	report := &ReconcileReport{}
	for _, profile := range append(doctors, patients...) {
		report.Scanned++

		userID := profile.OwnerID()
		if _, ok := known[userID]; ok || userID == "" {
			continue
		}
		report.Missing++

		if err := s.userRepo.Create(ctx, userID, profile.Lookup()); err != nil {
			s.log.Warnf("Failed to repair users lookup for %s: %+v", userID, err)
			report.Failed++
			continue
		}
		report.Repaired++

		_ = s.audit.LogCreate(ctx, userID, profile.ProfileRole(), entity.AuditActionLookupRepair,
			entity.CollectionUsers, userID, nil)
	}

	return report, nil
}
