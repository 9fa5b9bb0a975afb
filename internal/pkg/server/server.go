package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/handler"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/log"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/session"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/transport"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Default timing parameters.
const (
	DefaultIdleTimeout = 10 * time.Second
	DefaultTick        = time.Second
)

// Server owns the session table and the single control flow that
// mutates it: receive one datagram (bounded by the tick), dispatch it,
// then sweep idle sessions. No locking is needed beyond the store's own.
type Server struct {
	conn        transport.Conn
	store       session.Store
	idleTimeout time.Duration
	tick        time.Duration
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithConn sets the datagram endpoint to serve on.
func WithConn(conn transport.Conn) Cfg {
	return func(s *Server) error {
		s.conn = conn
		return nil
	}
}

// WithSessionStore sets the session store for the server.
func WithSessionStore(store session.Store) Cfg {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithIdleTimeout sets how long a session may stay quiet before it is
// reclaimed.
func WithIdleTimeout(d time.Duration) Cfg {
	return func(s *Server) error {
		s.idleTimeout = d
		return nil
	}
}

// WithTick sets the receive wait bounding each event-loop iteration,
// and with it the sweep latency.
func WithTick(d time.Duration) Cfg {
	return func(s *Server) error {
		s.tick = d
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{
		store:       session.NewMemoryStore(),
		idleTimeout: DefaultIdleTimeout,
		tick:        DefaultTick,
	}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	return server, nil
}

// Addr returns the bound local address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Run drives the event loop until the context is cancelled. On shutdown
// every active session receives a final GOODBYE before the table is
// cleared. Protocol errors never stop the loop.
func (s *Server) Run(ctx context.Context) error {
	logger.WithField("addr", s.conn.LocalAddr().String()).Info("waiting for sessions")
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		default:
		}
		s.sweep()
		b, addr, err := s.conn.Receive(s.tick)
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				continue
			}
			if ctx.Err() != nil {
				s.shutdown()
				return nil
			}
			return errors.Wrap(err, "receive datagram failed")
		}
		s.dispatch(b, addr)
	}
}

// dispatch decodes one datagram and routes it to its session. Unknown
// sessions are created on HELLO only; anything else is dropped.
func (s *Server) dispatch(b []byte, addr net.Addr) {
	msg, err := wire.Decode(b)
	if err != nil {
		logger.WithError(err).Debug("dropping malformed datagram")
		return
	}
	logger.WithFields(log.MessageToFields(msg)).Debug("received message")
	rec, err := s.store.Get(msg.SessionID)
	if err != nil {
		if msg.Command != wire.CmdHello {
			logger.WithFields(logrus.Fields{
				"session": fmt.Sprintf("%#x", msg.SessionID),
				"command": msg.Command.String(),
			}).Debug("dropping message for unknown session")
			return
		}
		rec, err = s.store.New(msg.SessionID, addr)
		if err != nil {
			logger.WithError(err).Warn("create session failed")
			return
		}
	}
	h, err := handler.NewHandler(
		handler.WithSession(rec),
		handler.WithSender(s.sender(rec)),
	)
	if err != nil {
		logger.WithError(err).Warn("create handler failed")
		return
	}
	if err := h.Handle(msg); err != nil {
		logger.WithError(err).Warn("handle message failed")
	}
	if !rec.Active {
		if err := s.store.Clear(rec.ID); err != nil {
			logger.WithError(err).Warn("clear session failed")
		}
	}
}

// sweep reclaims sessions idle past the threshold, sending each exactly
// one unsolicited GOODBYE. The id snapshot tolerates removal mid-scan.
func (s *Server) sweep() {
	for _, id := range s.store.IDs() {
		rec, err := s.store.Get(id)
		if err != nil {
			continue
		}
		if !rec.Active || time.Since(rec.LastActivity) <= s.idleTimeout {
			continue
		}
		logger.WithField("session", fmt.Sprintf("%#x", rec.ID)).Info("session timed out")
		if err := s.sender(rec)(wire.CmdGoodbye, rec.ExpectedSeq, nil); err != nil {
			logger.WithError(err).Warn("send goodbye failed")
		}
		rec.Active = false
		if err := s.store.Clear(id); err != nil {
			logger.WithError(err).Warn("clear session failed")
		}
	}
}

// shutdown sends a final GOODBYE to every remaining session and clears
// the table.
func (s *Server) shutdown() {
	for _, id := range s.store.IDs() {
		rec, err := s.store.Get(id)
		if err != nil {
			continue
		}
		if rec.Active {
			if err := s.sender(rec)(wire.CmdGoodbye, rec.ExpectedSeq, nil); err != nil {
				logger.WithError(err).Warn("send goodbye failed")
			}
		}
		if err := s.store.Clear(id); err != nil {
			logger.WithError(err).Warn("clear session failed")
		}
	}
	logger.Info("server stopped")
}

// sender builds the reply path for one session: tick the session clock,
// stamp the wall clock, encode and transmit to the captured peer address.
func (s *Server) sender(rec *session.Record) handler.SendFunc {
	return func(cmd wire.Command, seq uint32, payload []byte) error {
		b := wire.Encode(&wire.Message{
			Command:   cmd,
			Seq:       seq,
			SessionID: rec.ID,
			Clock:     rec.Clock.Tick(),
			Timestamp: wire.NowMillis(),
			Payload:   payload,
		})
		return errors.Wrap(s.conn.Send(b, rec.Addr), "send reply failed")
	}
}
