package store

import (
	"testing"
	"time"

	"github.com/iwen-conf/DormDB/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	s, err := New("sqlite", ":memory:", Options{})
	require.NoError(t, err)
	return s
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New("oracle", "dsn", Options{})
	assert.Error(t, err)
}

func TestInsertSuccess_AndExistsActive(t *testing.T) {
	s := setupTestStore(t)

	exists, err := s.ExistsActive("USER123")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))

	exists, err = s.ExistsActive("USER123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertSuccess_DuplicateActiveKey(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))

	err := s.InsertSuccess("USER123", "db_USER123", "user_USER123")
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestInsertFailure_CountsAsActive(t *testing.T) {
	// A failed record still blocks re-use until it is deleted, matching
	// the uniqueness rule over non-deleted rows.
	s := setupTestStore(t)

	require.NoError(t, s.InsertFailure("USER123", "mysql unreachable"))

	exists, err := s.ExistsActive("USER123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMarkDeleted(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))

	require.NoError(t, s.MarkDeleted("USER123", "policy violation"))

	records, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusDeleted, records[0].Status)
	assert.Equal(t, "policy violation", records[0].DeletionReason)
	require.NotNil(t, records[0].DeletedAt)

	exists, err := s.ExistsActive("USER123")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMarkDeleted_AlreadyDeleted(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))
	require.NoError(t, s.MarkDeleted("USER123", "first"))

	err := s.MarkDeleted("USER123", "second")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMarkDeleted_UnknownKey(t *testing.T) {
	s := setupTestStore(t)
	assert.ErrorIs(t, s.MarkDeleted("ghost", "reason"), ErrRecordNotFound)
}

func TestReprovisionAfterDeletion(t *testing.T) {
	// The partial unique index only spans non-deleted rows, so a deleted
	// key can be provisioned again.
	s := setupTestStore(t)

	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))
	require.NoError(t, s.MarkDeleted("USER123", "cleanup"))
	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))

	records, err := s.ListAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRemove(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("USER123", "db_USER123", "user_USER123"))

	require.NoError(t, s.Remove("USER123"))

	records, err := s.ListAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListActive(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("alive", "db_alive", "user_alive"))
	require.NoError(t, s.InsertFailure("broken", "boom"))
	require.NoError(t, s.InsertSuccess("gone", "db_gone", "user_gone"))
	require.NoError(t, s.MarkDeleted("gone", "cleanup"))

	active, err := s.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "alive", active[0].IdentityKey)
}

func TestListRecent(t *testing.T) {
	s := setupTestStore(t)
	for _, key := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.InsertSuccess(key, "db_"+key, "user_"+key))
	}

	records, err := s.ListRecent(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListPublic_MasksKeys(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("USER12345", "db_USER12345", "user_USER12345"))
	require.NoError(t, s.InsertSuccess("ab", "db_ab", "user_ab"))

	public, err := s.ListPublic(10)
	require.NoError(t, err)
	require.Len(t, public, 2)
	for _, r := range public {
		assert.NotContains(t, r.IdentityKey, "USER12345")
	}
	assert.Contains(t, []string{public[0].IdentityKey, public[1].IdentityKey}, "USER****")
	assert.Contains(t, []string{public[0].IdentityKey, public[1].IdentityKey}, "****")
}

func TestCounters(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.InsertSuccess("ok1", "db_ok1", "user_ok1"))
	require.NoError(t, s.InsertSuccess("ok2", "db_ok2", "user_ok2"))
	require.NoError(t, s.InsertFailure("bad", "boom"))
	require.NoError(t, s.MarkDeleted("ok2", "cleanup"))

	total, err := s.CountTotal()
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	success, err := s.CountByStatus(models.StatusSuccess)
	require.NoError(t, err)
	assert.EqualValues(t, 1, success)

	failed, err := s.CountByStatus(models.StatusFailed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, failed)

	deleted, err := s.CountByStatus(models.StatusDeleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	recent, err := s.CountSince(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 3, recent)

	none, err := s.CountSince(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 0, none)
}

func TestHealth(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Health())
}
