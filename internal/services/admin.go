package services

import (
	"fmt"
	"log"
	"time"

	"github.com/iwen-conf/DormDB/internal/grant"
	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/metrics"
	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/store"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// AdminService backs the authenticated dashboard: ledger browsing,
// aggregate stats, system status and grant deletion.
type AdminService struct {
	store     *store.Store
	engine    grant.Engine
	validator *identity.Validator
	recorder  metrics.Recorder

	startedAt time.Time
}

func NewAdminService(st *store.Store, eng grant.Engine, v *identity.Validator, rec metrics.Recorder) *AdminService {
	return &AdminService{
		store:     st,
		engine:    eng,
		validator: v,
		recorder:  rec,
		startedAt: time.Now(),
	}
}

func (s *AdminService) ListRecords() ([]models.GrantRecord, error) {
	return s.store.ListAll()
}

func (s *AdminService) ListActive() ([]models.GrantRecord, error) {
	return s.store.ListActive()
}

// DeleteGrant tears down the external resources for key and marks the
// ledger record deleted. The allowlist entry is reset so the key can be
// re-registered or re-provisioned.
func (s *AdminService) DeleteGrant(key, reason string) error {
	id, err := s.validator.NewIdentifier(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if err := s.engine.Teardown(id); err != nil {
		s.recorder.RecordTeardown(metrics.OutcomeFailed)
		return fmt.Errorf("teardown %s: %w", id.Key(), err)
	}

	if err := s.store.MarkDeleted(id.Key(), reason); err != nil {
		return err
	}
	if err := s.store.ClearApplied(id.Key()); err != nil {
		log.Printf("admin: clear applied for %s: %v", id.Key(), err)
	}

	s.recorder.RecordTeardown(metrics.OutcomeSuccess)
	return nil
}

// Stats aggregates the dashboard counters. Day boundaries use the server's
// local time zone.
func (s *AdminService) Stats() (*models.ApplicationStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &models.ApplicationStats{}
	var err error
	if stats.Total, err = s.store.CountTotal(); err != nil {
		return nil, err
	}
	if stats.Today, err = s.store.CountSince(dayStart); err != nil {
		return nil, err
	}
	if stats.Week, err = s.store.CountSince(weekStart); err != nil {
		return nil, err
	}
	if stats.Month, err = s.store.CountSince(monthStart); err != nil {
		return nil, err
	}
	if stats.Successful, err = s.store.CountByStatus(models.StatusSuccess); err != nil {
		return nil, err
	}
	if stats.Failed, err = s.store.CountByStatus(models.StatusFailed); err != nil {
		return nil, err
	}
	if stats.Deleted, err = s.store.CountByStatus(models.StatusDeleted); err != nil {
		return nil, err
	}
	if stats.Recent, err = s.store.ListRecent(10); err != nil {
		return nil, err
	}
	return stats, nil
}

// Status probes both stores and reports headline counters. Probe failures
// are reported in the payload, not as errors.
func (s *AdminService) Status() *models.SystemStatus {
	status := &models.SystemStatus{
		Uptime:       time.Since(s.startedAt).Round(time.Second).String(),
		LedgerStatus: "ok",
		MySQLStatus:  "ok",
		Version:      Version,
	}

	if err := s.store.Health(); err != nil {
		status.LedgerStatus = fmt.Sprintf("error: %v", err)
	}
	if err := s.engine.Ping(); err != nil {
		status.MySQLStatus = fmt.Sprintf("error: %v", err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if total, err := s.store.CountTotal(); err == nil {
		status.Total = total
	}
	if today, err := s.store.CountSince(dayStart); err == nil {
		status.Today = today
	}
	return status
}
