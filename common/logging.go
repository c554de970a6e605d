package common

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging utilities
// Use as: LogInfo.Printf(...)
// Until InitLogging is called all output is discarded

type LoggingLevel int

var loggingLevel LoggingLevel = LogLevelUnknown
var logWriter *lumberjack.Logger

const (
	LogLevelUnknown LoggingLevel = iota
	LogLevelTrace
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

var (
	LogDebug   = log.New(ioutil.Discard, "", 0)
	LogTrace   = log.New(ioutil.Discard, "", 0)
	LogInfo    = log.New(ioutil.Discard, "", 0)
	LogWarning = log.New(ioutil.Discard, "", 0)
	LogError   = log.New(ioutil.Discard, "", 0)
)

// logAndPrint logs and also writes to the standard output
type logAndPrint struct {
	logger *lumberjack.Logger
	level  LoggingLevel
}

func (l *logAndPrint) Write(data []byte) (int, error) {
	if l.level >= loggingLevel {
		fmt.Print(string(data))
		return l.logger.Write(data)
	}
	return len(data), nil
}

func newLogAndPrint(level LoggingLevel) *logAndPrint {
	return &logAndPrint{
		logger: logWriter,
		level:  level,
	}
}

func loggingInitialized() bool {
	return logWriter != nil
}

// InitLogging initializes a rotating logger. This should be done once by the executable
// filePath is the full path of the log file
func InitLogging(filePath string) {
	logWriter = &lumberjack.Logger{
		Filename: filePath,
		MaxSize:  20, // megabytes
		MaxAge:   90, // days
		Compress: false,
	}

	// Make sure the directory exists
	err := os.MkdirAll(path.Dir(filePath), os.ModeDir|os.ModePerm)
	Abort(err)

	log.SetOutput(newLogAndPrint(LogLevelTrace))
	LogTrace = log.New(newLogAndPrint(LogLevelTrace), "Trace: ", log.LstdFlags)
	LogDebug = log.New(newLogAndPrint(LogLevelDebug), "Debug: ", log.LstdFlags)
	LogInfo = log.New(newLogAndPrint(LogLevelInfo), "Info: ", log.LstdFlags)
	LogWarning = log.New(newLogAndPrint(LogLevelWarning), "Warning: ", log.LstdFlags)
	LogError = log.New(newLogAndPrint(LogLevelError), "Error: ", log.LstdFlags)
	SetLoggingLevel(LogLevelInfo)
}

// CloseLogging flushes and closes the log file
func CloseLogging() {
	if logWriter != nil {
		_ = logWriter.Close()
	}
}

func GetLoggingLevel() LoggingLevel {
	return loggingLevel
}

func (l LoggingLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelTrace:
		return "trace"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	}
	return "unknown"
}

func SetLoggingLevel(level LoggingLevel) {
	if level != loggingLevel {
		loggingLevel = level
		LogDebug.Printf("Logging level is %q\n", loggingLevel)
	}
}

// LoggingLevelFromName returns LogLevelUnknown for unrecognized names
func LoggingLevelFromName(level string) LoggingLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "trace":
		return LogLevelTrace
	case "info":
		return LogLevelInfo
	case "warning":
		return LogLevelWarning
	case "error":
		return LogLevelError
	}
	return LogLevelUnknown
}

func SetLoggingLevelFromName(level string) {
	if l := LoggingLevelFromName(level); l != LogLevelUnknown {
		SetLoggingLevel(l)
	}
}
