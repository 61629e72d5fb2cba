package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iwen-conf/DormDB/internal/grant"
	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/metrics"
	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/store"
)

// ProvisionService drives a provisioning run end to end: validate, check
// eligibility, create the external resources, record the grant. The ledger
// is the source of truth; any step that leaves external state without a
// matching success record triggers compensating teardown.
type ProvisionService struct {
	store     *store.Store
	engine    grant.Engine
	validator *identity.Validator
	recorder  metrics.Recorder

	passwordLength int
}

func NewProvisionService(st *store.Store, eng grant.Engine, v *identity.Validator, rec metrics.Recorder, passwordLength int) *ProvisionService {
	return &ProvisionService{
		store:          st,
		engine:         eng,
		validator:      v,
		recorder:       rec,
		passwordLength: passwordLength,
	}
}

// Provision runs the full state machine for one identity key and returns
// the credentials on success. The returned error is always one of the
// sentinel classes in errors.go (possibly wrapped with detail).
func (s *ProvisionService) Provision(key string) (*models.Credentials, error) {
	start := time.Now()
	defer func() {
		s.recorder.ObserveProvisionDuration(time.Since(start).Seconds())
	}()

	id, err := s.validator.NewIdentifier(key)
	if err != nil {
		s.recorder.RecordProvision(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	// Existence before eligibility: a key that already holds an active
	// grant reports the conflict even though its applied flag also makes
	// it ineligible.
	exists, err := s.store.ExistsActive(id.Key())
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	if exists {
		s.recorder.RecordProvision(metrics.OutcomeAlreadyExists)
		return nil, ErrAlreadyExists
	}

	allowed, err := s.store.IsAllowed(id.Key())
	if err != nil {
		return nil, fmt.Errorf("allowlist lookup: %w", err)
	}
	if !allowed {
		s.recorder.RecordProvision(metrics.OutcomeRejected)
		return nil, ErrNotAllowed
	}

	password := identity.GeneratePassword(s.passwordLength)

	creds, err := s.engine.CreateScopedResource(id, password)
	if err != nil {
		log.Printf("provision: grant failed for %s: %v", id.Key(), err)
		s.compensate(id, err.Error())
		s.recorder.RecordProvision(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	if err := s.store.InsertSuccess(id.Key(), id.DBName(), id.DBUser()); err != nil {
		// External resources exist but the ledger does not know about
		// them. Tear them down so the two stores stay consistent.
		if terr := s.engine.Teardown(id); terr != nil {
			log.Printf("provision: compensating teardown for %s: %v", id.Key(), terr)
		}
		if errors.Is(err, store.ErrDuplicateKey) {
			// A concurrent request won the race. Its record is the
			// truth; a failure row would collide with it under the
			// active-key index, so none is written.
			s.recorder.RecordProvision(metrics.OutcomeCompensated)
			return nil, ErrAlreadyExists
		}
		log.Printf("provision: ledger write failed for %s: %v", id.Key(), err)
		if ferr := s.store.InsertFailure(id.Key(), "ledger write failed: "+err.Error()); ferr != nil {
			log.Printf("provision: failure record for %s: %v", id.Key(), ferr)
		}
		s.recorder.RecordProvision(metrics.OutcomeCompensated)
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	// The grant is durable at this point. A failed allowlist flip is an
	// eligibility bookkeeping problem, not a provisioning failure.
	if err := s.store.MarkApplied(id.Key(), id.DBName()); err != nil {
		log.Printf("provision: mark applied failed for %s: %v", id.Key(), err)
	}

	s.recorder.RecordProvision(metrics.OutcomeSuccess)
	return creds, nil
}

// compensate rolls back external state after a failed grant and records
// the failure in the ledger. Both steps are best effort: the reconciler
// catches anything that slips through here.
func (s *ProvisionService) compensate(id identity.Identifier, reason string) {
	if err := s.engine.Teardown(id); err != nil {
		log.Printf("provision: compensating teardown for %s: %v", id.Key(), err)
	}
	if err := s.store.InsertFailure(id.Key(), reason); err != nil {
		log.Printf("provision: failure record for %s: %v", id.Key(), err)
	}
}
