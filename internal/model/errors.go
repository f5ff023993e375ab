package model

import "errors"

// ErrNotFound reports that the requested market or commodity has no data.
// Data sources wrap or match it so views can show "no data" instead of a failure.
var ErrNotFound = errors.New("not found")
