package services

import (
	"errors"
	"testing"

	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/metrics"
	"github.com/iwen-conf/DormDB/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReconcile(t *testing.T) (*ReconcileService, *store.Store, *fakeEngine) {
	t.Helper()
	st, err := store.New("sqlite", ":memory:", store.Options{})
	require.NoError(t, err)
	eng := newFakeEngine()
	v := identity.NewValidator(false, 50)
	svc := NewReconcileService(st, eng, v, metrics.NewNoopRecorder())
	return svc, st, eng
}

func TestReconcileCleanLedger(t *testing.T) {
	svc, st, eng := setupReconcile(t)
	require.NoError(t, st.InsertSuccess("USER123", "db_USER123", "user_USER123"))
	eng.existing["USER123"] = true

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Zero(t, report.Inconsistent)
	assert.Zero(t, report.Repaired)
	assert.Empty(t, eng.tornDown)
}

func TestReconcileRemovesDanglingRecord(t *testing.T) {
	svc, st, eng := setupReconcile(t)
	require.NoError(t, st.AddAllowlistEntry("USER123", "", ""))
	require.NoError(t, st.MarkApplied("USER123", "db_USER123"))
	require.NoError(t, st.InsertSuccess("USER123", "db_USER123", "user_USER123"))
	require.NoError(t, st.InsertSuccess("emp_001", "db_emp_001", "user_emp_001"))
	eng.existing["emp_001"] = true
	// USER123's resources are gone from the external server.

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Inconsistent)
	assert.Equal(t, 1, report.Repaired)
	assert.Zero(t, report.Failed)

	exists, err := st.ExistsActive("USER123")
	require.NoError(t, err)
	assert.False(t, exists)

	// The key is fully eligible again.
	allowed, err := st.IsAllowed("USER123")
	require.NoError(t, err)
	assert.True(t, allowed)

	// The intact record is untouched.
	exists, err = st.ExistsActive("emp_001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReconcileCheckErrorDoesNotAbortPass(t *testing.T) {
	svc, st, eng := setupReconcile(t)
	require.NoError(t, st.InsertSuccess("USER123", "db_USER123", "user_USER123"))
	require.NoError(t, st.InsertSuccess("emp_001", "db_emp_001", "user_emp_001"))
	eng.checkErrs["USER123"] = errors.New("connection refused")
	eng.existing["emp_001"] = true

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Repaired)
	require.Len(t, report.Details, 1)
	assert.Contains(t, report.Details[0], "USER123")

	// The unreachable record stays in the ledger.
	exists, err := st.ExistsActive("USER123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReconcileEmptyLedger(t *testing.T) {
	svc, _, _ := setupReconcile(t)

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
}
