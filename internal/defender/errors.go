package defender

import "github.com/cockroachdb/errors"

var (
	ErrTimestampParse = errors.New("malformed scan timestamp")
	ErrMissingField   = errors.New("missing required field")
)
