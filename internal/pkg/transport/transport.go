// Package transport provides the raw datagram capability the protocol
// engines are written against: send a datagram to an address, receive
// one with a bounded wait.
package transport

import (
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// MaxDatagramSize bounds the size of a received datagram, and with it
// the payload of a single message.
const MaxDatagramSize = 1024

// Conn is a datagram endpoint. Receive returns ErrTimeout when no
// datagram arrives within the given wait.
type Conn interface {
	Send(b []byte, addr net.Addr) error
	Receive(timeout time.Duration) ([]byte, net.Addr, error)
	LocalAddr() net.Addr
	Close() error
}

// UDPConn implements Conn over a UDP socket.
type UDPConn struct {
	conn *net.UDPConn
}

// Listen opens a UDP socket on the given local port. Port 0 binds an
// ephemeral port, which clients use.
func Listen(port uint16) (*UDPConn, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return nil, errors.Wrapf(err, "listen on udp port %d failed", port)
	}
	return &UDPConn{conn: conn}, nil
}

// Resolve resolves a host/port pair into a UDP address.
func Resolve(host string, port uint16) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s:%d failed", host, port)
	}
	return addr, nil
}

// Send transmits one datagram to addr.
func (c *UDPConn) Send(b []byte, addr net.Addr) error {
	if _, err := c.conn.WriteTo(b, addr); err != nil {
		return errors.Wrap(err, "write datagram failed")
	}
	return nil
}

// Receive blocks until a datagram arrives or the timeout elapses.
func (c *UDPConn) Receive(timeout time.Duration) ([]byte, net.Addr, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, nil, errors.Wrap(err, "set read deadline failed")
	}
	buf := make([]byte, MaxDatagramSize)
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, nil, ErrTimeout
		}
		return nil, nil, errors.Wrap(err, "read datagram failed")
	}
	return buf[:n], addr, nil
}

// LocalAddr returns the bound local address.
func (c *UDPConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close closes the socket.
func (c *UDPConn) Close() error {
	return errors.Wrap(c.conn.Close(), "close udp socket failed")
}
