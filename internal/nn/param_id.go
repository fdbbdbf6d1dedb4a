package nn

import "github.com/google/uuid"

// ParamID identifies a parameter across forward and backward passes.
//
// IDs are opaque strings, comparable and usable as map keys. Ordering is
// plain string comparison.
type ParamID string

// NewParamID returns a fresh random ParamID.
func NewParamID() ParamID {
	return ParamID(uuid.NewString())
}

// ParamIDFrom wraps an existing string, for deterministic ids.
func ParamIDFrom(s string) ParamID {
	return ParamID(s)
}

// String returns the id as a string.
func (id ParamID) String() string {
	return string(id)
}
