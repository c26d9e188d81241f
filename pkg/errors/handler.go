// Package errors counts recovered panics and reported errors. A burst above
// the threshold trips the handler: the shutdown hook runs and, unless the
// process stops on its own within the grace period, it is terminated.
package errors

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/goccy/go-json"
)

const (
	defaultMaxErrors = 15
	defaultWindow    = 5 * time.Second
	defaultGrace     = 30 * time.Second
	checkInterval    = time.Second
)

// ErrorHandler manages error counting and reporting
type ErrorHandler struct {
	count   atomic.Int32
	tripped atomic.Bool

	webhookURL string
	onShutdown func()
	exit       func(code int)
	maxErrors  int32
	window     time.Duration
	grace      time.Duration
	http       *http.Client

	stop     chan struct{}
	stopOnce sync.Once
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler. onShutdown must not block: it
// should start the graceful shutdown and return.
func Init(webhookURL string, onShutdown func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, onShutdown)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a handler and starts its monitor
func NewErrorHandler(webhookURL string, onShutdown func()) *ErrorHandler {
	h := newErrorHandler(webhookURL, onShutdown)
	go h.monitor()
	return h
}

func newErrorHandler(webhookURL string, onShutdown func()) *ErrorHandler {
	return &ErrorHandler{
		webhookURL: webhookURL,
		onShutdown: onShutdown,
		exit:       os.Exit,
		maxErrors:  defaultMaxErrors,
		window:     defaultWindow,
		grace:      defaultGrace,
		http:       &http.Client{Timeout: 10 * time.Second},
		stop:       make(chan struct{}),
	}
}

// monitor resets the counter every window and trips once it is exceeded
func (h *ErrorHandler) monitor() {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	windowStart := time.Now()
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			if h.overThreshold() {
				h.trip()
				return
			}
			if now.Sub(windowStart) >= h.window {
				h.count.Store(0)
				windowStart = now
			}
		}
	}
}

func (h *ErrorHandler) overThreshold() bool {
	return h.count.Load() > h.maxErrors
}

// trip starts the shutdown and waits for Stop; the process is killed when
// the grace period runs out first
func (h *ErrorHandler) trip() {
	if !h.tripped.CompareAndSwap(false, true) {
		return
	}
	logger.Warn(fmt.Sprintf("Se detectaron más de %d errores en %v, apagando...", h.maxErrors, h.window), "CRITICAL")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Número inusual de errores. Apagando...",
	})

	start := time.Now()
	if h.onShutdown != nil {
		h.onShutdown()
	}

	select {
	case <-h.stop:
		logger.Warn(fmt.Sprintf("Apagado ordenado en %v", time.Since(start)), "CRITICAL")
	case <-time.After(h.grace):
		logger.Critical(fmt.Sprintf("El apagado superó %v, forzando la salida", h.grace), "CRITICAL")
		h.exit(1)
	}
}

// Tripped reports whether the error threshold forced a shutdown
func (h *ErrorHandler) Tripped() bool {
	return h.tripped.Load()
}

// Stop ends the monitor. Called once the process has shut down cleanly.
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Count returns the number of errors in the current window
func (h *ErrorHandler) Count() int32 {
	return h.count.Load()
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	n := h.count.Add(1)
	logger.Error(fmt.Sprintf("Error count: %d", n), "AntiCrash")
}

// HandlePanic counts a recovered panic and logs its stack
func (h *ErrorHandler) HandlePanic(recovered interface{}) {
	h.IncrementError()
	logger.Error(fmt.Sprintf("%v", recovered), "SYS")
	logger.Debug(string(debug.Stack()), "AntiCrash")
}

type webhookEmbed struct {
	Author      webhookText `json:"author"`
	Description string      `json:"description"`
	Color       int         `json:"color"`
	Footer      webhookText `json:"footer"`
	Timestamp   string      `json:"timestamp"`
}

type webhookText struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhookURL == "" {
		return
	}

	payload := map[string][]webhookEmbed{
		"embeds": {{
			Author:      webhookText{Name: "Error " + data.Error},
			Description: data.Message,
			Color:       0xFF0000,
			Footer:      webhookText{Text: "MultiGame Bot"},
			Timestamp:   time.Now().Format(time.RFC3339),
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshal error report: %v", err), "AntiCrash")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.http.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(body))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create webhook request: %v", err), "AntiCrash")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send error report: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Warn(fmt.Sprintf("Sent ErrorReport to Webhook, Status: %d", resp.StatusCode), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			if handler != nil {
				handler.HandlePanic(r)
			} else {
				logger.Error(fmt.Sprintf("Panic recovered (no handler): %v", r), "AntiCrash")
			}
		}
	}
}

// Go runs fn in a new goroutine guarded by RecoverMiddleware
func Go(fn func()) {
	go func() {
		defer RecoverMiddleware()()
		fn()
	}()
}
