// Package logger provides a comprehensive logging system with multiple outputs.
// It supports console logging with colors, file logging through logrus, and
// Discord webhook logging.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m" // Red
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelDebug:
		return "\033[35m" // Magenta
	case LevelSystem:
		return "\033[34m" // Blue
	default:
		return "\033[0m" // Reset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000 // Red
	case LevelWarn:
		return 0xFFFF00 // Yellow
	case LevelSuccess:
		return 0x00FF00 // Green
	case LevelInfo:
		return 0x0000FF // Blue
	case LevelDebug:
		return 0x800080 // Purple
	case LevelSystem:
		return 0x808080 // Grey
	default:
		return 0xFFFFFF // White
	}
}

// logrusLevel maps a level onto logrus. Critical is written at FatalLevel,
// which Entry.Log records without exiting.
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical:
		return logrus.FatalLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

const colorReset = "\033[0m"

// WebhookFooter is the footer text of every webhook embed
const WebhookFooter = "💫 Developed by PancyStudios | MultiGame Bot"

// Options configures a Logger
type Options struct {
	Dir             string    // log directory, "logs" when empty
	ErrorWebhookURL string    // receives Critical and Error
	LogsWebhookURL  string    // receives everything else
	Console         io.Writer // os.Stdout when nil
}

// Logger is the main logging structure
type Logger struct {
	combined        *logrus.Logger
	errors          *logrus.Logger
	console         io.Writer
	errorWebhookURL string
	logsWebhookURL  string
	logFile         *os.File
	errorFile       *os.File
	http            *http.Client
	mu              sync.Mutex
}

// logger is the global logger instance
var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger instance
func Get() *Logger {
	// Use sync.Once to ensure thread-safe initialization if Init wasn't called
	once.Do(func() {
		logger = NewLogger("", "")
	})
	return logger
}

// NewLogger creates a new Logger writing to ./logs
func NewLogger(errorWebhook, logsWebhook string) *Logger {
	return New(Options{ErrorWebhookURL: errorWebhook, LogsWebhookURL: logsWebhook})
}

// New creates a Logger from opts
func New(opts Options) *Logger {
	if opts.Dir == "" {
		opts.Dir = filepath.Join(".", "logs")
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}

	l := &Logger{
		combined:        newFileLogger(),
		errors:          newFileLogger(),
		console:         opts.Console,
		errorWebhookURL: opts.ErrorWebhookURL,
		logsWebhookURL:  opts.LogsWebhookURL,
		http:            &http.Client{Timeout: 5 * time.Second},
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		fmt.Fprintf(l.console, "Error creating logs directory: %v\n", err)
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(opts.Dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(l.console, "Error opening combined log file: %v\n", err)
	} else {
		l.combined.SetOutput(l.logFile)
	}

	l.errorFile, err = os.OpenFile(filepath.Join(opts.Dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(l.console, "Error opening error log file: %v\n", err)
	} else {
		l.errors.SetOutput(l.errorFile)
	}

	return l
}

func newFileLogger() *logrus.Logger {
	lr := logrus.New()
	lr.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	lr.SetLevel(logrus.DebugLevel)
	lr.SetOutput(io.Discard)
	return lr
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	fmt.Fprintf(l.console, "[%s] [%s%s%s] [%s]: %s\n",
		now.Format("2006-01-02 15:04:05"),
		level.Color(),
		level.String(),
		colorReset,
		prefix,
		message,
	)

	fields := logrus.Fields{"prefix": prefix, "severity": level.String()}
	l.combined.WithFields(fields).WithTime(now).Log(level.logrusLevel(), message)
	if level <= LevelError {
		l.errors.WithFields(fields).WithTime(now).Log(level.logrusLevel(), message)
	}

	if url := l.webhookFor(level); url != "" {
		go l.sendToWebhook(url, level, message, prefix)
	}
}

func (l *Logger) webhookFor(level LogLevel) string {
	if level <= LevelError {
		return l.errorWebhookURL
	}
	return l.logsWebhookURL
}

// webhookPayload builds the Discord webhook body for a log line
func webhookPayload(level LogLevel, message, prefix string) ([]byte, error) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", message),
		"color":       level.DiscordColor(),
		"timestamp":   time.Now().Format(time.RFC3339),
		"footer": map[string]string{
			"text": WebhookFooter,
		},
	}

	return json.Marshal(map[string]interface{}{
		"embeds": []interface{}{embed},
	})
}

// sendToWebhook sends the log message to a Discord webhook
func (l *Logger) sendToWebhook(webhookURL string, level LogLevel, message, prefix string) {
	jsonData, err := webhookPayload(level, message, prefix)
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// Close closes the log files
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.combined.SetOutput(io.Discard)
	}
	if l.errorFile != nil {
		l.errorFile.Close()
		l.errors.SetOutput(io.Discard)
	}
}

// Logging methods

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level functions for convenience

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
