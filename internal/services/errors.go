package services

import "errors"

// Terminal error classes of a provisioning run. Handlers map these onto
// business codes; anything not in this list is an internal error and its
// detail stays in server logs.
var (
	// ErrInvalidFormat: the identity key fails the format policy. No
	// resource was touched.
	ErrInvalidFormat = errors.New("invalid identity key format")

	// ErrNotAllowed: the key is not on the allowlist, or already applied.
	ErrNotAllowed = errors.New("identity key not eligible")

	// ErrAlreadyExists: an active grant record exists for the key.
	ErrAlreadyExists = errors.New("identity key already has an active grant")

	// ErrProvisionFailed: the external grant step failed. Compensating
	// teardown has already run by the time this is returned.
	ErrProvisionFailed = errors.New("provisioning failed")

	// ErrLedgerWrite: the ledger write failed after external success. The
	// external grant has been torn down: the ledger is the source of
	// truth for existence, so nothing may outlive a missing record.
	ErrLedgerWrite = errors.New("ledger write failed")

	// ErrBadCredentials: admin login with a wrong password.
	ErrBadCredentials = errors.New("invalid admin credentials")

	// ErrLoginDisabled: no admin password is configured.
	ErrLoginDisabled = errors.New("admin login is not configured")
)
