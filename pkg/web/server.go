// Package web provides an HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	mu               sync.Mutex
	httpServer       *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	webhookClient    *http.Client
	rateLimit        RateLimitConfig
}

// Options configures a Server
type Options struct {
	// WebhookURL receives a log embed per request; empty disables it
	WebhookURL string
	// AllowedHosts is a regular expression matched against the Host header.
	// Empty allows every host.
	AllowedHosts string
	RateLimit    RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowMs    time.Duration
	MaxRequests int
}

// DefaultRateLimit allows 100 requests per client per minute
var DefaultRateLimit = RateLimitConfig{
	WindowMs:    60 * time.Second,
	MaxRequests: 100,
}

var (
	server *Server
)

// Init initializes the global web server
func Init(opts Options) (*Server, error) {
	s, err := NewServer(opts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:        engine,
		webhookURL:    opts.WebhookURL,
		webhookClient: &http.Client{Timeout: 5 * time.Second},
		rateLimit:     opts.RateLimit,
	}
	if s.rateLimit.MaxRequests <= 0 || s.rateLimit.WindowMs <= 0 {
		s.rateLimit = DefaultRateLimit
	}
	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("allowedHosts inválido: %w", err)
		}
		s.allowedHostRegex = re
	}

	// Apply middlewares
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	// Set up error handlers
	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) hostAllowed(host string) bool {
	return s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host)
}

// logsMiddleware logs all incoming requests to the webhook
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.hostAllowed(c.Request.Host) {
			logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")

			go s.sendLogToWebhook(requestLog(c, false))

			c.Next()
		} else {
			logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")

			go s.sendLogToWebhook(requestLog(c, true))

			c.AbortWithStatus(http.StatusForbidden)
		}
	}
}

// requestLog builds the webhook embed for a request. It runs on the request
// goroutine since the gin context must not be read after the handler returns.
func requestLog(c *gin.Context, suspicious bool) map[string]interface{} {
	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", c.Request.Method)
	color := 0x00AE86 // Green

	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", c.Request.Method, c.Request.URL.Path)
		color = 0xFFA500 // Orange
	}

	headers, _ := json.Marshal(c.Request.Header)
	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	return map[string]interface{}{
		"title": title,
		"description": fmt.Sprintf(
			"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
			c.Request.URL.Path,
			c.ClientIP(),
			string(headers),
			query,
		),
		"color":     color,
		"timestamp": time.Now().Format(time.RFC3339),
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(embed map[string]interface{}) {
	if s.webhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.webhookClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// rateLimitMiddleware implements a simple fixed-window rate limiter
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	type clientInfo struct {
		count   int
		resetAt time.Time
	}
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)
	config := s.rateLimit

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		info, exists := clients[ip]
		if !exists || now.After(info.resetAt) {
			info = &clientInfo{resetAt: now.Add(config.WindowMs)}
			clients[ip] = info
		}
		info.count++
		count := info.count
		mu.Unlock()

		if count > config.MaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	// 404 handler
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	// 405 handler
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Start starts the web server and blocks until it stops
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
