package transport

import "github.com/pkg/errors"

// ErrTimeout indicates that no datagram arrived within the receive wait.
var ErrTimeout = errors.New("receive timed out")
