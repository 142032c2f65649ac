package utils

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Log is the process-wide logger used by the CLI.
var Log = log.New()

// SetLogLevel sets the level of Log from its name.
func SetLogLevel(level string) error {
	// trace and panic are not exposed
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info", "":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q", level)
	}
	return nil
}
