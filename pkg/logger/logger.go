// Package logger provides leveled loggers writing to stdout and optionally a file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	InfoLog  *log.Logger
	WarnLog  *log.Logger
	ErrorLog *log.Logger
	DebugLog *log.Logger

	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

// Init sets up the loggers. When filename is set output goes to both stdout
// and the file. Debug output is discarded unless debugEnabled.
func Init(filename string, debugEnabled bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeFile()

	var out io.Writer = os.Stdout
	errOut := io.Writer(os.Stderr)

	if filename != "" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}

		logFile = f
		out = io.MultiWriter(os.Stdout, f)
		errOut = io.MultiWriter(os.Stderr, f)
	}

	debug = debugEnabled

	setup(out, errOut)

	return nil
}

// SetOutput sends every level to w. Used by tests.
func SetOutput(w io.Writer, debugEnabled bool) {
	mu.Lock()
	defer mu.Unlock()

	debug = debugEnabled
	setup(w, w)
}

// Close closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()

	return debug
}

func closeFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func setup(out, errOut io.Writer) {
	InfoLog = log.New(out, "INFO: ", flags)
	WarnLog = log.New(out, "WARN: ", flags)
	ErrorLog = log.New(errOut, "ERROR: ", flags)

	if debug {
		DebugLog = log.New(out, "DEBUG: ", flags)
	} else {
		DebugLog = log.New(io.Discard, "", 0)
	}
}

func ensure() {
	mu.Lock()
	defer mu.Unlock()

	if InfoLog == nil {
		setup(os.Stdout, os.Stderr)
	}
}

func Info(format string, v ...any) {
	ensure()
	InfoLog.Output(2, sprintf(format, v...))
}

func Warn(format string, v ...any) {
	ensure()
	WarnLog.Output(2, sprintf(format, v...))
}

func Error(format string, v ...any) {
	ensure()
	ErrorLog.Output(2, sprintf(format, v...))
}

func Debug(format string, v ...any) {
	ensure()
	DebugLog.Output(2, sprintf(format, v...))
}

func sprintf(format string, v ...any) string {
	if len(v) == 0 {
		return format
	}

	return fmt.Sprintf(format, v...)
}
