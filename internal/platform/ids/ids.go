package ids

import "github.com/google/uuid"

// New returns a new opaque identifier.
func New() string {
	return uuid.NewString()
}
