package apps

import (
	"context"
	"io"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/client"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is the interactive protocol client application.
type ClientApp struct {
	Host string `validate:"required"`
	Port uint16 `validate:"required"`

	AckTimeoutMS int `validate:"min=1"`
	PollMS       int `validate:"min=1"`

	Input io.Reader
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{
		AckTimeoutMS: int(client.DefaultAckTimeout / time.Millisecond),
		PollMS:       int(client.DefaultPollInterval / time.Millisecond),
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run drives one interactive session until quit, goodbye or timeout.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	cfgs := []client.Cfg{
		client.WithServerAddr(app.Host, app.Port),
		client.WithAckTimeout(time.Duration(app.AckTimeoutMS) * time.Millisecond),
		client.WithPollInterval(time.Duration(app.PollMS) * time.Millisecond),
	}
	if app.Input != nil {
		cfgs = append(cfgs, client.WithInput(app.Input))
	}
	c, err := client.NewClient(cfgs...)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer func() { _ = c.Close() }()
	return errors.Wrap(c.Run(ctx), "run client failed")
}
