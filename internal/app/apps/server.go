package apps

import (
	"context"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/server"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/session"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/transport"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the protocol server application.
type ServerApp struct {
	Port uint16 `validate:"required"`

	IdleTimeoutMS int `validate:"min=1"`
	TickMS        int `validate:"min=1"`
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		IdleTimeoutMS: int(server.DefaultIdleTimeout / time.Millisecond),
		TickMS:        int(server.DefaultTick / time.Millisecond),
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run serves sessions until the context is cancelled.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	conn, err := transport.Listen(app.Port)
	if err != nil {
		return errors.Wrap(err, "open server socket failed")
	}
	defer func() { _ = conn.Close() }()
	s, err := server.NewServer(
		server.WithConn(conn),
		server.WithSessionStore(session.NewMemoryStore()),
		server.WithIdleTimeout(time.Duration(app.IdleTimeoutMS)*time.Millisecond),
		server.WithTick(time.Duration(app.TickMS)*time.Millisecond),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	return errors.Wrap(s.Run(ctx), "run server failed")
}
