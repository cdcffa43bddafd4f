package id

import (
	"github.com/oklog/ulid/v2"
)

// New returns a ULID string (time-sortable identifier).
//
// ULIDs are lexicographically sortable by generation time, which makes them
// a good fit for batch run records and SQLite indexes.
func New() string {
	return ulid.Make().String()
}
