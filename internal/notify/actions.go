package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-keepintouch/internal/config"
)

// Response is a user's reaction to a delivered notification: either a tap
// on a quick-action button, or a plain tap (empty ActionID).
type Response struct {
	ActionID string
	Content  Content
}

// HandleResponse performs the bounded, idempotent action tied to a
// quick-action identifier. It runs independently of any window lifecycle
// and must tolerate a cold-started process: everything it needs travels in
// the notification payload. Actions never mutate rule state; at most they
// reschedule one notification or log one marker.
func (s *LocalScheduler) HandleResponse(r Response) error {
	log := slog.With(
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyAction, r.ActionID,
		config.LogKeyPersonID, r.Content.Data.PersonID,
	)

	switch r.ActionID {
	case config.ActionSnooze:
		if r.Content.Data.Type != config.CategoryBirthday {
			return nil
		}
		s.snooze(r.Content)
		log.Info(config.MsgNotifSnoozed)
		return nil

	case config.ActionSnoozeFollowup:
		if r.Content.Data.Type != config.CategoryFollowup {
			return nil
		}
		s.snooze(r.Content)
		log.Info(config.MsgNotifSnoozed)
		return nil

	case config.ActionMarkDone, config.ActionContacted:
		// The user handled it; resolve silently without rescheduling.
		log.Info(config.MsgNotifResolved)
		return nil

	case "":
		// Plain tap just opens the app.
		return nil

	default:
		return fmt.Errorf("%s: %q", config.ErrUnknownAction, r.ActionID)
	}
}

// snooze reschedules the same content for tomorrow at the notification hour.
func (s *LocalScheduler) snooze(c Content) {
	t := s.clock.Now().AddDate(0, 0, config.SnoozeDays)
	at := time.Date(t.Year(), t.Month(), t.Day(), config.NotificationHour, 0, 0, 0, t.Location())
	s.Schedule(at, c)
}
