// Package log adds logging utilities.
package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/wire"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level and formatter.
func SetLogger(level string) {
	logrus.SetLevel(logrus.InfoLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// MessageToFields converts a protocol message into log fields.
func MessageToFields(msg *wire.Message) logrus.Fields {
	return logrus.Fields{
		"command": msg.Command.String(),
		"seq":     msg.Seq,
		"session": fmt.Sprintf("%#x", msg.SessionID),
		"clock":   msg.Clock,
	}
}
