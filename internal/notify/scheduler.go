package notify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/engine"
)

// Payload travels with a notification so the response handler can resolve
// it even after the process was restarted.
type Payload struct {
	Type             string // config.CategoryBirthday or config.CategoryFollowup
	PersonID         string
	NotificationType string // Offset kind for birthdays; empty otherwise.
}

// Content is the platform-facing notification body.
type Content struct {
	Title              string
	Body               string
	Data               Payload
	CategoryIdentifier string
}

// Pending is a scheduled, not-yet-delivered notification.
type Pending struct {
	ID      string
	Date    time.Time
	Content Content
}

// Sender delivers a notification immediately through the platform
// notification facility.
type Sender interface {
	Send(title, body string)
}

// Scheduler is the contract consumed by the reminder planner. Callers are
// responsible for canceling prior notifications for the same person and
// category before scheduling new ones, to avoid duplicates.
type Scheduler interface {
	// Schedule registers a notification for the given date. Dates not in
	// the future are ignored; the second return value reports whether the
	// notification was actually scheduled.
	Schedule(date time.Time, c Content) (string, bool)

	// CancelAllForPerson removes pending notifications matching the person
	// and category.
	CancelAllForPerson(personID, category string)

	// Scheduled lists pending notifications, soonest first.
	Scheduled() []Pending
}

// LocalScheduler keeps pending notifications in process memory and delivers
// due ones through a Sender. It mirrors a platform notification center for
// a process-local desktop app: nothing survives a restart, which is why the
// planner replans everything on each refresh.
type LocalScheduler struct {
	clock  engine.Clock
	sender Sender

	mu      sync.Mutex
	pending map[string]Pending
}

// NewLocalScheduler creates an empty scheduler.
func NewLocalScheduler(clock engine.Clock, sender Sender) *LocalScheduler {
	return &LocalScheduler{
		clock:   clock,
		sender:  sender,
		pending: make(map[string]Pending),
	}
}

// Schedule implements Scheduler. Only future dates are scheduled.
func (s *LocalScheduler) Schedule(date time.Time, c Content) (string, bool) {
	if !date.After(s.clock.Now()) {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pending{
		ID:      uuid.NewString(),
		Date:    date,
		Content: c,
	}
	s.pending[p.ID] = p

	slog.Debug(config.MsgNotifScheduled,
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyNotifID, p.ID,
		config.LogKeyPersonID, c.Data.PersonID,
		config.LogKeyCategory, c.CategoryIdentifier,
		config.LogKeyKind, c.Data.NotificationType,
		config.LogKeyDue, date,
	)
	return p.ID, true
}

// CancelAllForPerson implements Scheduler.
func (s *LocalScheduler) CancelAllForPerson(personID, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, p := range s.pending {
		if p.Content.Data.PersonID == personID && p.Content.Data.Type == category {
			delete(s.pending, id)
			count++
		}
	}
	if count > 0 {
		slog.Debug(config.MsgNotifCancelled,
			config.LogKeyComponent, config.CompNotify,
			config.LogKeyPersonID, personID,
			config.LogKeyCategory, category,
			config.LogKeyCount, count,
		)
	}
}

// CancelAll removes every pending notification. Used when the user turns
// notifications off.
func (s *LocalScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.pending)
	s.pending = make(map[string]Pending)
	if count > 0 {
		slog.Debug(config.MsgNotifCancelled,
			config.LogKeyComponent, config.CompNotify,
			config.LogKeyCount, count,
		)
	}
}

// Scheduled implements Scheduler.
func (s *LocalScheduler) Scheduled() []Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Pending, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// DeliverDue sends every notification whose date has arrived and removes it
// from the pending set. Returns the number delivered. Idempotent: a second
// call in the same instant delivers nothing.
func (s *LocalScheduler) DeliverDue() int {
	now := s.clock.Now()

	s.mu.Lock()
	var due []Pending
	for id, p := range s.pending {
		if !p.Date.After(now) {
			due = append(due, p)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].Date.Before(due[j].Date) })
	for _, p := range due {
		if s.sender != nil {
			s.sender.Send(p.Content.Title, p.Content.Body)
		}
		slog.Info(config.MsgNotifDelivered,
			config.LogKeyComponent, config.CompNotify,
			config.LogKeyNotifID, p.ID,
			config.LogKeyPersonID, p.Content.Data.PersonID,
			config.LogKeyCategory, p.Content.CategoryIdentifier,
		)
	}
	return len(due)
}

// Run delivers due notifications once per tick until the context is
// cancelled.
func (s *LocalScheduler) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.DeliverDue()
		}
	}
}
