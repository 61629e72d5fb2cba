package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFlexible_ValidKeys(t *testing.T) {
	v := NewValidator(false, 50)

	valid := []string{
		"USER123",
		"emp_001",
		"ID-2024-001",
		"A",
		"123",
		"2023010101",
		"student_2024",
		"user-456",
		"a1",
		strings.Repeat("a", 50),
	}
	for _, key := range valid {
		assert.NoError(t, v.Validate(key), "key %q should be valid", key)
	}
}

func TestValidateFlexible_InvalidKeys(t *testing.T) {
	v := NewValidator(false, 50)

	cases := []struct {
		key  string
		want error
	}{
		{"", ErrEmptyKey},
		{strings.Repeat("a", 51), ErrKeyTooLong},
		{"user@domain", ErrKeyCharset},
		{"user 123", ErrKeyCharset},
		{"user.123", ErrKeyCharset},
		{"_invalid", ErrKeyBoundary},
		{"invalid_", ErrKeyBoundary},
		{"-invalid", ErrKeyBoundary},
		{"invalid-", ErrKeyBoundary},
	}
	for _, tc := range cases {
		err := v.Validate(tc.key)
		require.Error(t, err, "key %q should be invalid", tc.key)
		assert.ErrorIs(t, err, tc.want, "key %q", tc.key)
	}
}

func TestValidateStrict(t *testing.T) {
	v := NewValidator(true, 50)

	assert.NoError(t, v.Validate("2023010101"))
	assert.ErrorIs(t, v.Validate("202301010"), ErrStrictKey)   // 9 digits
	assert.ErrorIs(t, v.Validate("20230101011"), ErrStrictKey) // 11 digits
	assert.ErrorIs(t, v.Validate("2023o10101"), ErrStrictKey)  // letter
	assert.ErrorIs(t, v.Validate(""), ErrStrictKey)
}

func TestNewIdentifier(t *testing.T) {
	v := NewValidator(false, 50)

	id, err := v.NewIdentifier("USER123")
	require.NoError(t, err)
	assert.Equal(t, "USER123", id.Key())
	assert.Equal(t, "db_USER123", id.DBName())
	assert.Equal(t, "user_USER123", id.DBUser())
	assert.False(t, id.Zero())

	_, err = v.NewIdentifier("bad key")
	assert.Error(t, err)
	assert.True(t, Identifier{}.Zero())
}

func TestNewValidator_DefaultsMaxLength(t *testing.T) {
	v := NewValidator(false, 0)
	assert.NoError(t, v.Validate(strings.Repeat("x", 50)))
	assert.Error(t, v.Validate(strings.Repeat("x", 51)))
}
