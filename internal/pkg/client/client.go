package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/clock"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/log"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/transport"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Default timing parameters.
const (
	DefaultAckTimeout   = 5 * time.Second
	DefaultPollInterval = 500 * time.Millisecond

	watchdogInterval = 100 * time.Millisecond
	goodbyeGrace     = 500 * time.Millisecond
)

// State is a state of the client finite state machine.
type State uint8

// Client FSM states.
const (
	StateInit State = iota
	StateWaitHello
	StateReady
	StateWaitAlive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWaitHello:
		return "WAIT_HELLO"
	case StateReady:
		return "READY"
	case StateWaitAlive:
		return "WAIT_ALIVE"
	case StateTerminated:
		return "TERMINATED"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

// Client drives one interactive session against the server. All session
// state is owned by the Run loop; the receive and input goroutines only
// feed it through channels.
type Client struct {
	serverHost string
	serverPort uint16
	serverAddr net.Addr
	conn       transport.Conn
	input      io.Reader

	sessionID  uint32
	seqNum     uint32
	state      State
	clock      *clock.Clock
	pendingAck bool
	lastSent   time.Time

	ackTimeout   time.Duration
	pollInterval time.Duration
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerAddr sets the server host and port to talk to.
func WithServerAddr(host string, port uint16) Cfg {
	return func(c *Client) error {
		c.serverHost = host
		c.serverPort = port
		return nil
	}
}

// WithConn sets an already-open transport connection and peer address,
// bypassing Connect. Used by tests.
func WithConn(conn transport.Conn, serverAddr net.Addr) Cfg {
	return func(c *Client) error {
		c.conn = conn
		c.serverAddr = serverAddr
		return nil
	}
}

// WithInput sets the reader supplying user lines. Defaults to stdin.
func WithInput(r io.Reader) Cfg {
	return func(c *Client) error {
		c.input = r
		return nil
	}
}

// WithAckTimeout sets how long an unacknowledged send may stay pending.
func WithAckTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		c.ackTimeout = d
		return nil
	}
}

// WithPollInterval sets the receive poll timeout.
func WithPollInterval(d time.Duration) Cfg {
	return func(c *Client) error {
		c.pollInterval = d
		return nil
	}
}

// NewClient creates a new Client with the given configuration. The
// session id is chosen randomly here and never changes.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{
		input:        os.Stdin,
		sessionID:    uuid.New().ID(),
		state:        StateInit,
		clock:        clock.New(),
		ackTimeout:   DefaultAckTimeout,
		pollInterval: DefaultPollInterval,
	}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	return client, nil
}

// SessionID returns the client's session id.
func (c *Client) SessionID() uint32 {
	return c.sessionID
}

// State returns the current FSM state.
func (c *Client) State() State {
	return c.state
}

// Connect opens the UDP socket and resolves the server address.
func (c *Client) Connect(_ context.Context) error {
	if c.conn != nil {
		return nil
	}
	addr, err := transport.Resolve(c.serverHost, c.serverPort)
	if err != nil {
		return errors.Wrap(err, "resolve server address failed")
	}
	conn, err := transport.Listen(0)
	if err != nil {
		return errors.Wrap(err, "open udp socket failed")
	}
	c.serverAddr = addr
	c.conn = conn
	return nil
}

// Close closes the transport.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return errors.Wrap(c.conn.Close(), "close client connection failed")
}

// Run drives the session: HELLO handshake, one DATA per input line with
// an ALIVE acknowledgement in between, GOODBYE on quit. It returns
// ErrAckTimeout when the server stops answering; in that case no
// GOODBYE is sent.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := c.receive(ctx)
	lines := c.readInput(ctx)

	if err := c.send(wire.CmdHello, nil); err != nil {
		return err
	}
	c.state = StateWaitHello
	logger.WithField("session", fmt.Sprintf("%#x", c.sessionID)).Info("session started")

	watchdog := time.NewTicker(watchdogInterval)
	defer watchdog.Stop()

	for {
		// only consume input while an acknowledged send is possible
		var input <-chan string
		if c.state == StateReady {
			input = lines
		}
		select {
		case <-ctx.Done():
			return c.quit()
		case msg, ok := <-msgs:
			if !ok {
				return c.quit()
			}
			if c.handleMessage(msg) {
				return nil
			}
		case line, ok := <-input:
			if !ok || line == "" || strings.EqualFold(line, "q") {
				return c.quit()
			}
			c.state = StateWaitAlive
			if err := c.send(wire.CmdData, []byte(line)); err != nil {
				return err
			}
			logger.WithField("seq", c.seqNum).Info("sent: " + line)
		case <-watchdog.C:
			if c.pendingAck && time.Since(c.lastSent) > c.ackTimeout {
				// unilateral abort: no goodbye on this path
				c.state = StateTerminated
				logger.Warn("timeout, no response from server")
				return ErrAckTimeout
			}
		}
	}
}

// handleMessage applies one server message to the FSM. It reports true
// once the session is terminated.
func (c *Client) handleMessage(msg *wire.Message) bool {
	logger.WithFields(log.MessageToFields(msg)).Debug("received message")
	c.pendingAck = false
	c.clock.Witness(msg.Clock)

	switch {
	case msg.Command == wire.CmdHello && c.state == StateWaitHello:
		c.state = StateReady
		c.seqNum++
		logger.Info("connected to server")
	case msg.Command == wire.CmdAlive && c.state == StateWaitAlive:
		c.state = StateReady
		c.seqNum++
		latency := int64(wire.NowMillis()) - int64(msg.Timestamp)
		logger.WithField("latency_ms", latency).Info("alive received")
	case msg.Command == wire.CmdGoodbye:
		c.state = StateTerminated
		logger.Info("server sent goodbye")
		return true
	}
	return false
}

// quit terminates voluntarily: send GOODBYE, then wait a short grace
// period so the server's reply can drain before the socket closes.
func (c *Client) quit() error {
	if c.state == StateTerminated {
		return nil
	}
	if err := c.send(wire.CmdGoodbye, nil); err != nil {
		return err
	}
	time.Sleep(goodbyeGrace)
	c.state = StateTerminated
	logger.Info("session ended")
	return nil
}

// send encodes and transmits one message, arming the ack watchdog.
func (c *Client) send(cmd wire.Command, payload []byte) error {
	b := wire.Encode(&wire.Message{
		Command:   cmd,
		Seq:       c.seqNum,
		SessionID: c.sessionID,
		Clock:     c.clock.Tick(),
		Timestamp: wire.NowMillis(),
		Payload:   payload,
	})
	if err := c.conn.Send(b, c.serverAddr); err != nil {
		return errors.Wrap(err, "send message failed")
	}
	c.lastSent = time.Now()
	c.pendingAck = true
	return nil
}

// receive polls the transport, decodes datagrams and forwards messages
// belonging to this session. Anything malformed or addressed to another
// session is dropped without a response.
func (c *Client) receive(ctx context.Context) <-chan *wire.Message {
	out := make(chan *wire.Message)
	go func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}
			b, _, err := c.conn.Receive(c.pollInterval)
			if err != nil {
				if errors.Is(err, transport.ErrTimeout) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				logger.WithError(err).Debug("receive failed")
				return
			}
			msg, err := wire.Decode(b)
			if err != nil {
				continue
			}
			if msg.SessionID != c.sessionID {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// readInput scans user lines off the input reader. The channel closes
// on end of input.
func (c *Client) readInput(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(c.input)
		for scanner.Scan() {
			select {
			case out <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
