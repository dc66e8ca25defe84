package tickcache

import "errors"

// ErrInvalidMaxEntries is returned by New when maxEntries is not positive.
var ErrInvalidMaxEntries = errors.New("tickcache: maxEntries must be greater than 0")
