package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/engine"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// Server exposes the birthday calendar as an ICS feed plus small JSON views
// of the derived engine output, bound to localhost only.
type Server struct {
	// cache uses atomic.Pointer for lock-free reads. The calendar is read
	// frequently by subscribed clients but updated only on refresh, so this
	// avoids RWMutex contention on the hot path (HTTP GET).
	cache atomic.Pointer[cacheItem]
	Port  string

	Birthdays *engine.Birthdays
	Followups *engine.Followups
}

// New creates a server for the given port.
func New(port string, birthdays *engine.Birthdays, followups *engine.Followups) *Server {
	return &Server{
		Port:      port,
		Birthdays: birthdays,
		Followups: followups,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	mux.HandleFunc(config.RouteUpcoming, s.handleUpcoming)
	mux.HandleFunc(config.RouteDue, s.handleDue)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// Update atomically replaces the served calendar content.
func (s *Server) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	lastMod := time.Now().UTC().Format(http.TimeFormat)

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: lastMod,
	}

	// Atomic store ensures that any concurrent reader sees either the old or
	// the new complete item, never a partial state.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *Server) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if !allowReadMethods(w, r) {
		return
	}

	// Load data (atomic / lock-free).
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// Conditional headers (client caching).
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// upcomingEntry is the JSON shape for one upcoming birthday.
type upcomingEntry struct {
	PersonID       string `json:"personId"`
	Name           string `json:"name"`
	Birthday       string `json:"birthday"`
	NextOccurrence string `json:"nextOccurrence"`
	DaysUntil      int    `json:"daysUntil"`
	Age            *int   `json:"age,omitempty"`
	IsToday        bool   `json:"isToday"`
	IsTomorrow     bool   `json:"isTomorrow"`
	IsThisWeek     bool   `json:"isThisWeek"`
	Emoji          string `json:"emoji"`
}

// handleUpcoming serves the derived upcoming-birthday list as JSON.
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if !allowReadMethods(w, r) {
		return
	}
	if s.Birthdays == nil {
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	views := s.Birthdays.UpcomingWithInfo(config.UpcomingNoHorizon)
	out := make([]upcomingEntry, 0, len(views))
	for _, v := range views {
		e := upcomingEntry{
			PersonID:       v.Person.ID,
			Name:           v.Name,
			Birthday:       v.DisplayText,
			NextOccurrence: v.NextOccurrence.Format(config.DateFormatFullDash),
			DaysUntil:      v.DaysUntil,
			IsToday:        v.IsToday,
			IsTomorrow:     v.IsTomorrow,
			IsThisWeek:     v.IsThisWeek,
			Emoji:          v.Emoji,
		}
		if v.AgeKnown {
			age := v.Age
			e.Age = &age
		}
		out = append(out, e)
	}
	writeJSON(w, out)
}

// dueEntry is the JSON shape for one due or overdue follow-up.
type dueEntry struct {
	PersonID    string `json:"personId"`
	Name        string `json:"name"`
	CadenceDays int    `json:"cadenceDays"`
	NextDue     string `json:"nextDue"`
	DaysOverdue int    `json:"daysOverdue"`
	IsOverdue   bool   `json:"isOverdue"`
	IsDueToday  bool   `json:"isDueToday"`
	IsDueSoon   bool   `json:"isDueSoon"`
	Score       int    `json:"priorityScore"`
	Status      string `json:"status"`
}

// handleDue serves the derived due/overdue follow-up list as JSON, highest
// priority first.
func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	if !allowReadMethods(w, r) {
		return
	}
	if s.Followups == nil {
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	views := s.Followups.DueAndOverdue()
	engine.SortByPriority(views)

	out := make([]dueEntry, 0, len(views))
	for _, v := range views {
		out = append(out, dueEntry{
			PersonID:    v.Person.ID,
			Name:        v.Name,
			CadenceDays: v.CadenceDays,
			NextDue:     v.NextDue.Format(config.DateFormatFullDash),
			DaysOverdue: v.DaysOverdue,
			IsOverdue:   v.IsOverdue,
			IsDueToday:  v.IsDueToday,
			IsDueSoon:   v.IsDueSoon,
			Score:       engine.PriorityScore(v),
			Status:      s.Followups.StatusLabel(v).Text,
		})
	}
	writeJSON(w, out)
}

func allowReadMethods(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
