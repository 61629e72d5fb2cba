package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/store"
)

// AllowlistService manages the registration roster behind admin endpoints.
// Only keys that pass the format policy enter the roster; everything that
// reaches the store has been validated here.
type AllowlistService struct {
	store     *store.Store
	validator *identity.Validator
}

func NewAllowlistService(st *store.Store, v *identity.Validator) *AllowlistService {
	return &AllowlistService{store: st, validator: v}
}

func (s *AllowlistService) List(limit, offset int) ([]models.AllowlistEntry, error) {
	return s.store.ListAllowlist(limit, offset)
}

func (s *AllowlistService) Add(key, displayName, groupInfo string) error {
	id, err := s.validator.NewIdentifier(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s.store.AddAllowlistEntry(id.Key(), displayName, groupInfo)
}

func (s *AllowlistService) Update(id int64, displayName, groupInfo string) error {
	return s.store.UpdateAllowlistEntry(id, displayName, groupInfo)
}

func (s *AllowlistService) Delete(id int64) error {
	return s.store.DeleteAllowlistEntry(id)
}

func (s *AllowlistService) Stats() (*models.AllowlistStats, error) {
	return s.store.AllowlistStats()
}

// BatchImport parses newline-separated roster data and registers every
// valid line. Each line is "key" or "key,display_name" or
// "key,display_name,group_info"; blank lines and lines starting with #
// are skipped. With overwrite set, existing keys get their descriptive
// fields rewritten instead of being reported as duplicates.
func (s *AllowlistService) BatchImport(data string, overwrite bool) (*models.BatchImportResult, error) {
	result := &models.BatchImportResult{}

	for i, line := range strings.Split(data, "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 3)
		key := strings.TrimSpace(parts[0])
		var displayName, groupInfo string
		if len(parts) > 1 {
			displayName = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			groupInfo = strings.TrimSpace(parts[2])
		}

		id, err := s.validator.NewIdentifier(key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}

		err = s.store.AddAllowlistEntry(id.Key(), displayName, groupInfo)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, store.ErrDuplicateKey) && overwrite:
			entry, gerr := s.store.GetAllowlistEntry(id.Key())
			if gerr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, gerr))
				continue
			}
			if uerr := s.store.UpdateAllowlistEntry(entry.ID, displayName, groupInfo); uerr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, uerr))
				continue
			}
			result.Updated++
		case errors.Is(err, store.ErrDuplicateKey):
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s already registered", lineNo, id.Key()))
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
		}
	}

	return result, nil
}
