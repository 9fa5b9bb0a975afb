package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	msg := &Message{
		Command:   CmdData,
		Seq:       42,
		SessionID: 0xdeadbeef,
		Clock:     1<<40 + 7,
		Timestamp: 1700000000123,
		Payload:   []byte("hello there"),
	}
	got, err := Decode(Encode(msg))
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestEncodeDecodeEmptyPayload(t *testing.T) {
	t.Parallel()
	msg := &Message{Command: CmdHello, SessionID: 1}
	b := Encode(msg)
	require.Len(t, b, HeaderSize)
	got, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, msg, got)
	require.Nil(t, got.Payload)
}

func TestDecodeTooShort(t *testing.T) {
	t.Parallel()
	_, err := Decode(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrTooShort)
}

func TestDecodeBadMagic(t *testing.T) {
	t.Parallel()
	b := Encode(&Message{Command: CmdHello})
	binary.BigEndian.PutUint16(b[0:2], 0x1234)
	_, err := Decode(b)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeBadVersion(t *testing.T) {
	t.Parallel()
	b := Encode(&Message{Command: CmdHello})
	b[2] = Version + 1
	_, err := Decode(b)
	require.ErrorIs(t, err, ErrBadVersion)
}

func TestHeaderLayout(t *testing.T) {
	t.Parallel()
	b := Encode(&Message{
		Command:   CmdGoodbye,
		Seq:       0x01020304,
		SessionID: 0x05060708,
		Clock:     0x1112131415161718,
		Timestamp: 0x2122232425262728,
	})
	require.Equal(t, uint16(0xC461), binary.BigEndian.Uint16(b[0:2]))
	require.Equal(t, uint8(1), b[2])
	require.Equal(t, uint8(CmdGoodbye), b[3])
	require.Equal(t, uint32(0x01020304), binary.BigEndian.Uint32(b[4:8]))
	require.Equal(t, uint32(0x05060708), binary.BigEndian.Uint32(b[8:12]))
	require.Equal(t, uint64(0x1112131415161718), binary.BigEndian.Uint64(b[12:20]))
	require.Equal(t, uint64(0x2122232425262728), binary.BigEndian.Uint64(b[20:28]))
}

func TestCommandString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "HELLO", CmdHello.String())
	require.Equal(t, "DATA", CmdData.String())
	require.Equal(t, "ALIVE", CmdAlive.String())
	require.Equal(t, "GOODBYE", CmdGoodbye.String())
	require.Equal(t, "UNKNOWN(9)", Command(9).String())
}
