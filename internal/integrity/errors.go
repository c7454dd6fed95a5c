package integrity

import "errors"

// ErrHashMismatch indicates a file or archive failed hash verification.
var ErrHashMismatch = errors.New("hash verification failed")
