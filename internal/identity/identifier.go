package identity

const (
	dbPrefix   = "db_"
	userPrefix = "user_"
)

// Identifier is a validated identity key. It is the only value the grant
// engine will interpolate into structural SQL: MySQL cannot bind database
// or user names as parameters, so the defense is to make unvalidated
// strings unrepresentable at that boundary.
type Identifier struct {
	key string
}

// NewIdentifier validates key under the active policy and wraps it.
func (v *Validator) NewIdentifier(key string) (Identifier, error) {
	if err := v.Validate(key); err != nil {
		return Identifier{}, err
	}
	return Identifier{key: key}, nil
}

// Key returns the raw identity key.
func (id Identifier) Key() string { return id.key }

// DBName is the deterministic database name for this identity.
func (id Identifier) DBName() string { return dbPrefix + id.key }

// DBUser is the deterministic account name for this identity.
func (id Identifier) DBUser() string { return userPrefix + id.key }

// Zero reports whether id was never produced by a validator.
func (id Identifier) Zero() bool { return id.key == "" }
