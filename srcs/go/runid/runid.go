// Package runid mints the correlation identifier the coordinator attaches
// to every log line coordinator.Run itself emits, so the lines of one run
// can be told apart from those of another run in the same process.
package runid

import "github.com/google/uuid"

// ID is a run-scoped correlation identifier.
type ID string

// New mints a fresh ID.
func New() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}
