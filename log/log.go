package log

import (
	"io/ioutil"
	"os"
	"strings"

	logging "github.com/op/go-logging"
)

var (
	logger      = logging.MustGetLogger("netinv")
	logfile     *os.File
	initialized = false

	// Debug proxy
	Debug = logger.Debug
	// Debugf proxy
	Debugf = logger.Debugf
	// Infof proxy
	Infof = logger.Infof
	// Warningf proxy
	Warningf = logger.Warningf
	// Errorf proxy
	Errorf = logger.Errorf
)

const stderrFormat = `%{level:.4s} %{module}: %{message}`

// Initialize logger. An empty filename sends messages to stderr.
func Initialize(logFilename string, level string) error {
	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		lvl = logging.WARNING
	}

	if logFilename == "" {
		setupStderrLogger(lvl)
		return nil
	}

	logfile, err = os.OpenFile(logFilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		setupStderrLogger(lvl)
		return err
	}
	backend := logging.NewLogBackend(logfile, "", 0)
	format := logging.MustStringFormatter(
		`[%{time:15:04:05.000}] %{level:.4s} %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(backendFormatter)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	logger.Debug("logger initialized")
	initialized = true
	return nil
}

// Close closes the log file if one is open
func Close() {
	if logfile != nil {
		logfile.Close()
		logfile = nil
	}
	initialized = false
}

func setupStderrLogger(lvl logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	backendFormatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(stderrFormat))
	leveled := logging.AddModuleLevel(backendFormatter)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
}

// SetupNullLogger discards all log messages. Used by tests.
func SetupNullLogger() {
	backend := logging.NewLogBackend(ioutil.Discard, "", 0)
	logging.SetBackend(backend)
}

// SetLevel changes the level of the active backend
func SetLevel(level string) error {
	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return err
	}
	logging.SetLevel(lvl, "")
	return nil
}

// RaiseLevel makes the active backend at least as verbose as level
func RaiseLevel(level string) error {
	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return err
	}
	if logging.GetLevel("netinv") < lvl {
		logging.SetLevel(lvl, "")
	}
	return nil
}
