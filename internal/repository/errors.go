package repository

import (
	"errors"

	"github.com/lib/pq"
)

// invalidTextRepresentation is raised when a value does not parse as its
// column type, e.g. "abc" compared against a UUID id.
const invalidTextRepresentation = "22P02"

// isMalformedID reports whether the store rejected a lookup value as malformed.
// Such an id cannot match any row.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}
