// Package internal holds the CLI flag table shared by the commands.
// All tuning is flag-based; there are no environment variables or
// configuration files.
package internal

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Flag describes one CLI flag bound to a package-level variable.
type Flag struct {
	Name    string
	Usage   string
	Default interface{}
	Target  interface{}
}

// Bound flag variables with the protocol's default tuning.
var (
	LogLevel     string
	LogLevelFlag = Flag{
		Name:    "log-level",
		Usage:   "log level (trace, debug, info, warn, error)",
		Default: "info",
		Target:  &LogLevel,
	}

	AckTimeoutMS     int
	AckTimeoutMSFlag = Flag{
		Name:    "ack-timeout-ms",
		Usage:   "how long the client waits for an acknowledgement before aborting",
		Default: 5000,
		Target:  &AckTimeoutMS,
	}

	PollMS     int
	PollMSFlag = Flag{
		Name:    "poll-ms",
		Usage:   "client receive poll timeout",
		Default: 500,
		Target:  &PollMS,
	}

	IdleTimeoutMS     int
	IdleTimeoutMSFlag = Flag{
		Name:    "idle-timeout-ms",
		Usage:   "how long a session may stay quiet before the server reclaims it",
		Default: 10000,
		Target:  &IdleTimeoutMS,
	}

	TickMS     int
	TickMSFlag = Flag{
		Name:    "tick-ms",
		Usage:   "server event-loop tick bounding receive waits and sweep latency",
		Default: 1000,
		Target:  &TickMS,
	}
)

// RegisterCommandFlags registers the given flags on the command.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		switch target := f.Target.(type) {
		case *string:
			def, ok := f.Default.(string)
			if !ok {
				return errors.Errorf("flag %s: default is not a string", f.Name)
			}
			cmd.PersistentFlags().StringVar(target, f.Name, def, f.Usage)
		case *int:
			def, ok := f.Default.(int)
			if !ok {
				return errors.Errorf("flag %s: default is not an int", f.Name)
			}
			cmd.PersistentFlags().IntVar(target, f.Name, def, f.Usage)
		default:
			return errors.Errorf("flag %s: unsupported target type", f.Name)
		}
	}
	return nil
}
