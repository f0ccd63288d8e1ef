package platform

import (
	"errors"
)

// ErrAttributeConflict is returned when an attribute insert hit a unique
// violation but re-querying by slug found no row either.
var ErrAttributeConflict = errors.New("attribute insert conflicted but no existing row found")

// ErrCheckpointMissing is returned when a checkpoint update matched no row.
var ErrCheckpointMissing = errors.New("no checkpoint row for category")
