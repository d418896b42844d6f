package local

import "errors"

// ErrNoExtensions indicates WithExtensions was given an empty list.
var ErrNoExtensions = errors.New("at least one extension is required")
