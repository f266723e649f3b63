package wastetypedb

import "errors"

// ErrNotFound indicates the requested waste type does not exist in the ledger.
var ErrNotFound = errors.New("waste type not found")
