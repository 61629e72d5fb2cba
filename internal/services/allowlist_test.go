package services

import (
	"testing"

	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAllowlist(t *testing.T) (*AllowlistService, *store.Store) {
	t.Helper()
	st, err := store.New("sqlite", ":memory:", store.Options{})
	require.NoError(t, err)
	return NewAllowlistService(st, identity.NewValidator(false, 50)), st
}

func TestAllowlistAddRejectsBadKey(t *testing.T) {
	svc, _ := setupAllowlist(t)

	assert.ErrorIs(t, svc.Add("_bad", "x", ""), ErrInvalidFormat)
	assert.NoError(t, svc.Add("USER123", "Alice", "dorm-3"))
}

func TestBatchImport(t *testing.T) {
	svc, st := setupAllowlist(t)

	data := "# roster export 2026\n" +
		"USER123,Alice,dorm-3\n" +
		"emp_001,Bob\n" +
		"ID-2024-001\n" +
		"\n" +
		"_invalid,Mallory\n"

	result, err := svc.BatchImport(data, false)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Zero(t, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 6")

	entry, err := st.GetAllowlistEntry("USER123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", entry.DisplayName)
	assert.Equal(t, "dorm-3", entry.GroupInfo)
}

func TestBatchImportDuplicates(t *testing.T) {
	svc, st := setupAllowlist(t)
	require.NoError(t, svc.Add("USER123", "Alice", "dorm-3"))

	result, err := svc.BatchImport("USER123,Alice2,dorm-4", false)
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "already registered")

	result, err = svc.BatchImport("USER123,Alice2,dorm-4", true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)

	entry, err := st.GetAllowlistEntry("USER123")
	require.NoError(t, err)
	assert.Equal(t, "Alice2", entry.DisplayName)
	assert.Equal(t, "dorm-4", entry.GroupInfo)
}

func TestAllowlistDeleteBlockedWhileApplied(t *testing.T) {
	svc, st := setupAllowlist(t)
	require.NoError(t, svc.Add("USER123", "", ""))
	require.NoError(t, st.MarkApplied("USER123", "db_USER123"))

	entry, err := st.GetAllowlistEntry("USER123")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(entry.ID), store.ErrEntryApplied)

	require.NoError(t, st.ClearApplied("USER123"))
	assert.NoError(t, svc.Delete(entry.ID))
}
