package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Fields are rendered as sorted key=value pairs after the message.
type Fields map[string]interface{}

var (
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput redirects the loggers, tests use it to silence or capture output.
func SetOutput(out, errOut io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLogger = log.New(out, "INFO: ", flags)
	WarnLogger = log.New(out, "WARN: ", flags)
	ErrorLogger = log.New(errOut, "ERROR: ", flags)
}

func Info(msg string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(msg, v...))
}

func Warn(msg string, v ...interface{}) {
	WarnLogger.Output(2, fmt.Sprintf(msg, v...))
}

// Error logs msg with the error appended, followed by any fields.
func Error(msg string, err error, fields ...Fields) {
	line := msg
	if err != nil {
		line += ": " + err.Error()
	}
	if f := render(fields); f != "" {
		line += " " + f
	}
	ErrorLogger.Output(2, line)
}

func render(fields []Fields) string {
	var parts []string
	for _, f := range fields {
		for k, v := range f {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
