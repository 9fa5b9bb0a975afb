package wire

import "github.com/pkg/errors"

// ErrTooShort indicates that the datagram is smaller than the fixed header.
var ErrTooShort = errors.New("datagram too short")

// ErrBadMagic indicates that the magic field does not match the protocol constant.
var ErrBadMagic = errors.New("bad magic")

// ErrBadVersion indicates that the version field does not match the protocol version.
var ErrBadVersion = errors.New("bad version")
