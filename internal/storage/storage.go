package storage

import "errors"

// ErrNotFound is returned by storage reads when the requested row does not
// exist. Handlers map it to 404 with errors.Is.
var ErrNotFound = errors.New("not found")
