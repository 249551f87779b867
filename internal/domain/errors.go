package domain

import "errors"

// Sentinel errors used across layers. The session action surface never
// returns errors for illegal transitions; these cover the collaborators.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
