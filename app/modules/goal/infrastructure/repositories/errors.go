package goaldb

import "errors"

// ErrNotFound indicates the referenced goal template does not exist.
var ErrNotFound = errors.New("goal not found")
