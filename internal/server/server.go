// Package server publishes the latest rendered highlights over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-onthisday/internal/auth"
	"github.com/tartampluch/go-onthisday/internal/config"
)

// Snapshot holds every artifact produced by one refresh.
type Snapshot struct {
	HTML []byte // standalone page with the highlight box
	JSON []byte // {"date","today","tomorrow"}
	ICS  []byte // anniversary calendar
}

// cacheItem stores one rendered artifact and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// cacheSet maps a route to the artifact it serves.
type cacheSet map[string]*cacheItem

// Server serves the highlight page, its JSON form and the anniversary calendar.
type Server struct {
	// cache uses atomic.Pointer for lock-free reads.
	// Artifacts are read on every request but only replaced on refresh.
	cache atomic.Pointer[cacheSet]
	Port  string

	// Credentials enables Basic auth on every route except the health check.
	Credentials *auth.Credentials

	now func() time.Time
}

// New creates a server listening on the loopback interface at port.
func New(port string, creds *auth.Credentials) *Server {
	return &Server{
		Port:        port,
		Credentials: creds,
		now:         time.Now,
	}
}

// Handler returns the routing table, wrapped with authentication when enabled.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(config.RouteRoot, s.requireAuth(s.artifactHandler(config.RouteRoot)))
	mux.Handle(config.RouteJSON, s.requireAuth(s.artifactHandler(config.RouteJSON)))
	mux.Handle(config.RouteCalendar, s.requireAuth(s.artifactHandler(config.RouteCalendar)))
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	if s.Credentials != nil {
		slog.Info(config.MsgAuthEnabled,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyUser, s.Credentials.User,
		)
	} else {
		slog.Warn(config.MsgAuthDisabled, config.LogKeyComponent, config.CompServer)
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces every served artifact.
// An artifact whose content did not change keeps its Last-Modified date.
func (s *Server) Update(snap Snapshot) {
	lastMod := s.clock().UTC().Format(http.TimeFormat)

	var next cacheSet
	for {
		prev := s.cache.Load()
		next = cacheSet{
			config.RouteRoot:     newItem(snap.HTML, config.MimeTextHTML, lastMod),
			config.RouteJSON:     newItem(snap.JSON, config.MimeJSONUTF8, lastMod),
			config.RouteCalendar: newItem(snap.ICS, config.MimeTextCalendar, lastMod),
		}
		if prev != nil {
			for route, item := range next {
				if old, ok := (*prev)[route]; ok && old.etag == item.etag {
					item.lastModified = old.lastModified
				}
			}
		}

		// Readers see either the old or the new complete set, never a mix.
		// A concurrent Update in between forces a retry against its result.
		if s.cache.CompareAndSwap(prev, &next) {
			break
		}
	}

	for route, item := range next {
		slog.Debug(config.MsgCacheUpdated,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRoute, route,
			config.LogKeySizeBytes, len(item.data),
			config.LogKeyETag, item.etag,
		)
	}
}

func newItem(data []byte, contentType, lastMod string) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: lastMod,
	}
}

func (s *Server) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// artifactHandler serves the artifact bound to route with HTTP caching support.
func (s *Server) artifactHandler(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != route {
			http.NotFound(w, r)
			return
		}

		// 1. Method Validation
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		// 2. Readiness Check
		set := s.cache.Load()
		if set == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		item := (*set)[route]

		// 3. Response Headers
		w.Header().Set(config.HeaderContentType, item.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		// 4. Conditional Requests
		if notModified(r, item) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		// 5. Content
		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyRoute, route,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified applies If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, item *cacheItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, config.HTTPMsgHealthy)
	}
}

// requireAuth enforces Basic auth when credentials are configured.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Credentials == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !s.Credentials.Check(user, pass) {
			slog.Warn(config.MsgAuthFailed,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyRoute, r.URL.Path,
				config.LogKeyUser, user,
			)
			w.Header().Set(config.HeaderAuthenticate, config.AuthRealm)
			http.Error(w, config.HTTPMsgUnauthorized, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
