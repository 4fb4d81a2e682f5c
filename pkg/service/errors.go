package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy surfaced to the HTTP boundary. Handlers map these to
// status codes; everything else is a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("already exists")
	ErrBadRequest = errors.New("bad request")
)

// translateNotFound folds gorm's record-not-found into the service
// taxonomy. Tenant-scoped lookups make cross-tenant access
// indistinguishable from a missing row, which is the intent.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
