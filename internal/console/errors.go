package console

import "github.com/cockroachdb/errors"

var (
	ErrAuth  = errors.New("console authentication failed")
	ErrFetch = errors.New("defender fetch failed")
	// ErrNoData is returned when the defenders endpoint answers with no list
	// at all. It is also marked ErrFetch.
	ErrNoData = errors.New("console returned no defender data")
)
