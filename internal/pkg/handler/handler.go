package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/session"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SendFunc transmits a reply to the session peer. The server engine
// supplies an implementation that ticks the session clock, stamps the
// wall clock and encodes the message.
type SendFunc func(cmd wire.Command, seq uint32, payload []byte) error

// Handler applies one inbound message to one session record.
type Handler struct {
	sess *session.Record
	send SendFunc
}

// Cfg configures a Handler.
type Cfg func(*Handler) error

// WithSession sets the session record to operate on.
func WithSession(rec *session.Record) Cfg {
	return func(h *Handler) error {
		h.sess = rec
		return nil
	}
}

// WithSender sets the reply sender.
func WithSender(send SendFunc) Cfg {
	return func(h *Handler) error {
		h.send = send
		return nil
	}
}

// NewHandler creates a new Handler with the given configuration.
func NewHandler(cfgs ...Cfg) (*Handler, error) {
	h := &Handler{}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg failed")
		}
	}
	return h, nil
}

// Handle dispatches the message by command. Unknown commands are dropped.
func (h *Handler) Handle(msg *wire.Message) error {
	switch msg.Command {
	case wire.CmdHello:
		return h.handleHello(msg)
	case wire.CmdData:
		return h.handleData(msg)
	case wire.CmdAlive:
		h.sess.Clock.Witness(msg.Clock)
		h.sess.LastActivity = time.Now()
		return nil
	case wire.CmdGoodbye:
		return h.handleGoodbye(msg)
	}
	return nil
}

// handleHello accepts first contact only. A HELLO on a session that has
// already progressed is a protocol violation answered with GOODBYE.
func (h *Handler) handleHello(msg *wire.Message) error {
	if h.sess.ExpectedSeq != 0 {
		h.fields(msg.Seq).Warn("protocol violation: hello in wrong state")
		if err := h.send(wire.CmdGoodbye, h.sess.ExpectedSeq, nil); err != nil {
			return errors.Wrap(err, "send goodbye failed")
		}
		h.sess.Active = false
		return nil
	}
	h.fields(msg.Seq).Info("session created")
	h.sess.Clock.Witness(msg.Clock)
	if err := h.send(wire.CmdHello, h.sess.ExpectedSeq, nil); err != nil {
		return errors.Wrap(err, "send hello failed")
	}
	h.sess.ExpectedSeq++
	return nil
}

// handleData accepts the next fresh sequence number, reporting and
// skipping over any gap in front of it. Duplicates are reported and
// draw no reply.
func (h *Handler) handleData(msg *wire.Message) error {
	if msg.Seq < h.sess.ExpectedSeq {
		h.fields(msg.Seq).Warn("duplicate packet")
		return nil
	}
	for h.sess.ExpectedSeq < msg.Seq {
		h.fields(h.sess.ExpectedSeq).Warn("lost packet")
		h.sess.ExpectedSeq++
	}
	if text := strings.TrimSpace(string(msg.Payload)); text != "" {
		h.fields(msg.Seq).Info(text)
	}
	h.sess.Clock.Witness(msg.Clock)
	if err := h.send(wire.CmdAlive, h.sess.ExpectedSeq, nil); err != nil {
		return errors.Wrap(err, "send alive failed")
	}
	h.sess.ExpectedSeq++
	h.sess.LastActivity = time.Now()
	h.fields(msg.Seq).WithField("latency_ms", int64(wire.NowMillis())-int64(msg.Timestamp)).Debug("data accepted")
	return nil
}

// handleGoodbye answers with GOODBYE and deactivates the session. The
// engine removes the record afterwards.
func (h *Handler) handleGoodbye(msg *wire.Message) error {
	h.fields(msg.Seq).Info("goodbye from client")
	h.sess.Clock.Witness(msg.Clock)
	if err := h.send(wire.CmdGoodbye, h.sess.ExpectedSeq, nil); err != nil {
		return errors.Wrap(err, "send goodbye failed")
	}
	h.sess.Active = false
	h.fields(msg.Seq).Info("session closed")
	return nil
}

func (h *Handler) fields(seq uint32) logrus.FieldLogger {
	return logger.WithFields(logrus.Fields{
		"session": fmt.Sprintf("%#x", h.sess.ID),
		"seq":     seq,
	})
}
