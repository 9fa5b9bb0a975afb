// Package mocks provides a testify mock of the transport.Conn interface
// for engine tests.
package mocks

import (
	"net"
	"time"

	"github.com/stretchr/testify/mock"
)

// Conn is a mock transport.Conn.
type Conn struct {
	mock.Mock
}

func (m *Conn) Send(b []byte, addr net.Addr) error {
	args := m.Called(b, addr)
	return args.Error(0)
}

func (m *Conn) Receive(timeout time.Duration) ([]byte, net.Addr, error) {
	args := m.Called(timeout)
	var b []byte
	if args.Get(0) != nil {
		b = args.Get(0).([]byte)
	}
	var addr net.Addr
	if args.Get(1) != nil {
		addr = args.Get(1).(net.Addr)
	}
	return b, addr, args.Error(2)
}

func (m *Conn) LocalAddr() net.Addr {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(net.Addr)
}

func (m *Conn) Close() error {
	args := m.Called()
	return args.Error(0)
}
