// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types.
//
// In order to add support for a new type, the configuration
// need only implement an ApplyX method.
package cfg

import (
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/app/apps"
)

// AddrCfg is configuration for the server address a client talks to.
type AddrCfg struct {
	host string
	port uint16
}

// NewAddrCfg creates a new AddrCfg from the given host and port.
func NewAddrCfg(host string, port uint16) *AddrCfg {
	return &AddrCfg{
		host: host,
		port: port,
	}
}

// ApplyClientApp applies the AddrCfg to a ClientApp.
func (cfg AddrCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Host = cfg.host
	app.Port = cfg.port
	return nil
}

// PortCfg is configuration for the server listen port.
type PortCfg struct {
	port uint16
}

// NewPortCfg creates a new PortCfg from the given port.
func NewPortCfg(port uint16) *PortCfg {
	return &PortCfg{
		port: port,
	}
}

// ApplyServerApp applies the PortCfg to a ServerApp.
func (cfg PortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Port = cfg.port
	return nil
}

// TuningCfg carries the timing flags into an app.
type TuningCfg struct {
	ackTimeoutMS  int
	pollMS        int
	idleTimeoutMS int
	tickMS        int
}

// TuningFromFlags creates a new TuningCfg from the registered CLI flags.
func TuningFromFlags() *TuningCfg {
	return &TuningCfg{
		ackTimeoutMS:  internal.AckTimeoutMS,
		pollMS:        internal.PollMS,
		idleTimeoutMS: internal.IdleTimeoutMS,
		tickMS:        internal.TickMS,
	}
}

// ApplyClientApp applies the TuningCfg to a ClientApp.
func (cfg TuningCfg) ApplyClientApp(app *apps.ClientApp) error {
	if cfg.ackTimeoutMS > 0 {
		app.AckTimeoutMS = cfg.ackTimeoutMS
	}
	if cfg.pollMS > 0 {
		app.PollMS = cfg.pollMS
	}
	return nil
}

// ApplyServerApp applies the TuningCfg to a ServerApp.
func (cfg TuningCfg) ApplyServerApp(app *apps.ServerApp) error {
	if cfg.idleTimeoutMS > 0 {
		app.IdleTimeoutMS = cfg.idleTimeoutMS
	}
	if cfg.tickMS > 0 {
		app.TickMS = cfg.tickMS
	}
	return nil
}
