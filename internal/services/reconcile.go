package services

import (
	"fmt"
	"log"

	"github.com/iwen-conf/DormDB/internal/grant"
	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/metrics"
	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/store"
)

// ReconcileService repairs drift between the ledger and the external
// server. A success record whose database or user no longer exists is a
// dangling claim: the record is removed so the key becomes eligible again.
type ReconcileService struct {
	store     *store.Store
	engine    grant.Engine
	validator *identity.Validator
	recorder  metrics.Recorder
}

func NewReconcileService(st *store.Store, eng grant.Engine, v *identity.Validator, rec metrics.Recorder) *ReconcileService {
	return &ReconcileService{
		store:     st,
		engine:    eng,
		validator: v,
		recorder:  rec,
	}
}

// Run checks every active success record against the external server and
// removes records whose resources are gone. One bad record never aborts
// the pass; per-record problems are collected into the report.
func (s *ReconcileService) Run() (*models.ReconcileReport, error) {
	records, err := s.store.ListActive()
	if err != nil {
		return nil, fmt.Errorf("list active records: %w", err)
	}

	report := &models.ReconcileReport{}
	for _, record := range records {
		report.Checked++

		id, err := s.validator.NewIdentifier(record.IdentityKey)
		if err != nil {
			// A ledger key that no longer passes the format policy
			// cannot be checked safely. Leave it for the admin.
			report.Failed++
			report.Details = append(report.Details,
				fmt.Sprintf("%s: key fails current format policy: %v", record.IdentityKey, err))
			continue
		}

		dbExists, userExists, err := s.engine.ResourceExists(id)
		if err != nil {
			report.Failed++
			report.Details = append(report.Details,
				fmt.Sprintf("%s: existence check: %v", record.IdentityKey, err))
			continue
		}
		if dbExists && userExists {
			continue
		}

		report.Inconsistent++
		log.Printf("reconcile: %s is dangling (db=%v user=%v)", record.IdentityKey, dbExists, userExists)

		if err := s.store.Remove(record.IdentityKey); err != nil {
			report.Failed++
			report.Details = append(report.Details,
				fmt.Sprintf("%s: remove record: %v", record.IdentityKey, err))
			continue
		}
		// Sweep the surviving half of a partial grant, if any. Teardown
		// is idempotent and logs its own failures.
		if err := s.engine.Teardown(id); err != nil {
			log.Printf("reconcile: teardown for %s: %v", record.IdentityKey, err)
		}
		if err := s.store.ClearApplied(record.IdentityKey); err != nil {
			log.Printf("reconcile: clear applied for %s: %v", record.IdentityKey, err)
		}
		s.recorder.RecordTeardown(metrics.OutcomeSuccess)
		report.Repaired++
		report.Details = append(report.Details,
			fmt.Sprintf("%s: removed dangling record", record.IdentityKey))
	}

	s.recorder.RecordReconcileRun(report.Checked, report.Inconsistent, report.Repaired, report.Failed)
	return report, nil
}
