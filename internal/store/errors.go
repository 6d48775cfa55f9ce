package store

import (
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
)

// Sentinel errors.
var (
	// ErrNotFound is returned by Get for a missing key.
	ErrNotFound = domainerrors.NotFound("key not found")

	// ErrReadOnly is returned by writes on a store opened read-only.
	ErrReadOnly = domainerrors.StoreUnavailable("store is read-only")
)

func unavailable(op, key string, err error) error {
	return domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "store %s %q", op, key)
}
