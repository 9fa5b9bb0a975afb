package client

import "github.com/pkg/errors"

// ErrAckTimeout indicates that a send stayed unacknowledged past the
// timeout threshold. The session is abandoned without a GOODBYE.
var ErrAckTimeout = errors.New("ack timeout")
