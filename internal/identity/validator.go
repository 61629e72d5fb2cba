package identity

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey    = errors.New("identity key must not be empty")
	ErrKeyTooLong  = errors.New("identity key exceeds maximum length")
	ErrKeyCharset  = errors.New("identity key may only contain letters, digits, underscore and hyphen")
	ErrKeyBoundary = errors.New("identity key must start and end with a letter or digit")
	ErrStrictKey   = errors.New("identity key must be exactly 10 digits")
)

// Validator checks identity keys against the configured format policy.
// The flexible policy is canonical; the strict policy preserves the legacy
// fixed-width numeric scheme for deployments that still enforce it.
type Validator struct {
	strict    bool
	maxLength int
}

func NewValidator(strict bool, maxLength int) *Validator {
	if maxLength < 1 {
		maxLength = 50
	}
	return &Validator{strict: strict, maxLength: maxLength}
}

// Validate returns nil when key conforms to the active policy.
func (v *Validator) Validate(key string) error {
	if v.strict {
		return validateStrict(key)
	}
	return v.validateFlexible(key)
}

func validateStrict(key string) error {
	if len(key) != 10 {
		return ErrStrictKey
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return ErrStrictKey
		}
	}
	return nil
}

func (v *Validator) validateFlexible(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > v.maxLength {
		return fmt.Errorf("%w (%d > %d)", ErrKeyTooLong, len(key), v.maxLength)
	}
	for i := 0; i < len(key); i++ {
		if !isKeyByte(key[i]) {
			return ErrKeyCharset
		}
	}
	if !isAlnum(key[0]) || !isAlnum(key[len(key)-1]) {
		return ErrKeyBoundary
	}
	return nil
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isKeyByte(b byte) bool {
	return isAlnum(b) || b == '_' || b == '-'
}
