// Package main is the session protocol application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/app/apps"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/app/cfg"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use:   "usp",
		Short: "A minimal session protocol over UDP.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client <host> <port>",
		Short: "Starts an interactive protocol client.",
		Args:  argsWithPort(2, 1),
		RunE:  runCmd,
	}

	serverCmd = &cobra.Command{
		Use:   "server <port>",
		Short: "Starts a protocol server.",
		Args:  argsWithPort(1, 0),
		RunE:  runCmd,
	}
)

// argsWithPort enforces the positional argument count and checks that
// the argument at portIndex parses as a port.
func argsWithPort(count, portIndex int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(count)(cmd, args); err != nil {
			return err
		}
		if _, err := strconv.ParseUint(args[portIndex], 10, 16); err != nil {
			return errors.Wrap(err, "parse port argument failed")
		}
		return nil
	}
}

func newApp(cmd *cobra.Command, args []string) (apps.App, error) {
	switch cmd.Name() {
	case "client":
		port, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return nil, errors.Wrap(err, "parse port argument failed")
		}
		app, err := apps.NewClientApp(
			cfg.NewAddrCfg(args[0], uint16(port)),
			cfg.TuningFromFlags(),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new client app failed")
		}
		return app, nil
	case "server":
		port, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return nil, errors.Wrap(err, "parse port argument failed")
		}
		app, err := apps.NewServerApp(
			cfg.NewPortCfg(uint16(port)),
			cfg.TuningFromFlags(),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new server app failed")
		}
		return app, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	log.SetLogger(internal.LogLevel)
	app, err := newApp(cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(cmd.Context(), args), "run app failed")
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.LogLevelFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(clientCmd, []*internal.Flag{
		&internal.AckTimeoutMSFlag,
		&internal.PollMSFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(serverCmd, []*internal.Flag{
		&internal.IdleTimeoutMSFlag,
		&internal.TickMSFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
