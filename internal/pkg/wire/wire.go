// Package wire implements the fixed-header datagram framing shared by
// the client and server.
package wire

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Protocol constants shared by both ends. A datagram whose magic or
// version does not match is dropped without a response.
const (
	Magic   uint16 = 0xC461
	Version uint8  = 1
)

// HeaderSize is the fixed header size in bytes:
// magic(2) + version(1) + command(1) + seq(4) + session(4) + clock(8) + timestamp(8).
const HeaderSize = 28

// Command identifies the message type.
type Command uint8

// Command values.
const (
	CmdHello Command = iota
	CmdData
	CmdAlive
	CmdGoodbye
)

func (c Command) String() string {
	switch c {
	case CmdHello:
		return "HELLO"
	case CmdData:
		return "DATA"
	case CmdAlive:
		return "ALIVE"
	case CmdGoodbye:
		return "GOODBYE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
}

// Message is one protocol message: the decoded header fields plus the
// opaque payload. One message occupies exactly one datagram.
type Message struct {
	Command   Command
	Seq       uint32
	SessionID uint32
	Clock     uint64
	Timestamp uint64
	Payload   []byte
}

// Encode serializes the message into header + payload, network byte order.
// Enum validity is the caller's responsibility.
func Encode(msg *Message) []byte {
	buf := make([]byte, HeaderSize+len(msg.Payload))
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	buf[2] = Version
	buf[3] = uint8(msg.Command)
	binary.BigEndian.PutUint32(buf[4:8], msg.Seq)
	binary.BigEndian.PutUint32(buf[8:12], msg.SessionID)
	binary.BigEndian.PutUint64(buf[12:20], msg.Clock)
	binary.BigEndian.PutUint64(buf[20:28], msg.Timestamp)
	copy(buf[HeaderSize:], msg.Payload)
	return buf
}

// Decode deserializes a datagram into a Message. It fails with
// ErrTooShort, ErrBadMagic or ErrBadVersion; callers drop such
// datagrams silently. Session filtering is not done here.
func Decode(data []byte) (*Message, error) {
	if len(data) < HeaderSize {
		return nil, ErrTooShort
	}
	if binary.BigEndian.Uint16(data[0:2]) != Magic {
		return nil, ErrBadMagic
	}
	if data[2] != Version {
		return nil, ErrBadVersion
	}
	msg := &Message{
		Command:   Command(data[3]),
		Seq:       binary.BigEndian.Uint32(data[4:8]),
		SessionID: binary.BigEndian.Uint32(data[8:12]),
		Clock:     binary.BigEndian.Uint64(data[12:20]),
		Timestamp: binary.BigEndian.Uint64(data[20:28]),
	}
	if len(data) > HeaderSize {
		msg.Payload = make([]byte, len(data)-HeaderSize)
		copy(msg.Payload, data[HeaderSize:])
	}
	return msg, nil
}

// NowMillis returns the sender wall clock in milliseconds, as carried
// in the timestamp header field.
func NowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
