package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

const hoursPerDay = 24

// occurrenceDate returns the concrete calendar date on which an annual
// (month, day) event falls in the given year. Feb 29 is substituted with
// Feb 28 when the target year is not a leap year, so leaplings are
// celebrated in February rather than sliding into March.
func occurrenceDate(year, month, day int, loc *time.Location) time.Time {
	if month == 2 && day == 29 && !store.IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// NextOccurrence returns the next calendar date (today or future) matching
// month/day, evaluated in the location of 'now'. Birthdays are defined by
// the local calendar date of the person, not an absolute UTC timestamp.
func NextOccurrence(now time.Time, month, day int) time.Time {
	loc := now.Location()

	// Compare against the start of today so that a birthday still counts as
	// "today" for the whole day, not just at midnight.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	candidate := occurrenceDate(now.Year(), month, day, loc)
	if candidate.Before(todayStart) {
		candidate = occurrenceDate(now.Year()+1, month, day, loc)
	}
	return candidate
}

// DaysUntil returns the number of whole days (ceiling) until the next
// occurrence of month/day. Zero means today; the result never exceeds 366.
func DaysUntil(now time.Time, month, day int) int {
	next := NextOccurrence(now, month, day)
	days := int(math.Ceil(next.Sub(now).Hours() / hoursPerDay))
	if days < 0 {
		days = 0
	}
	return days
}

// Age returns the person's current age. The second return value is false
// when the birth year is unknown (zero).
func Age(now time.Time, month, day, birthYear int) (int, bool) {
	if birthYear == 0 {
		return 0, false
	}
	age := now.Year() - birthYear
	if int(now.Month()) < month || (int(now.Month()) == month && now.Day() < day) {
		age--
	}
	return age, true
}

// DisplayText formats a birthday as "January 2" or "January 2, 1990" when
// the year is known.
func DisplayText(month, day, year int) string {
	name := time.Month(month).String()
	if year != 0 {
		return fmt.Sprintf("%s %d, %d", name, day, year)
	}
	return fmt.Sprintf("%s %d", name, day)
}

// Emoji picks a glyph reflecting how soon the birthday is.
func Emoji(daysUntil int) string {
	switch {
	case daysUntil == 0:
		return config.EmojiBdayToday
	case daysUntil == 1:
		return config.EmojiBdayTomorrow
	case daysUntil <= config.OffsetOneWeek:
		return config.EmojiBdayWeek
	case daysUntil <= config.OffsetTwoWeeks:
		return config.EmojiBdayFortnite
	default:
		return config.EmojiBdayLater
	}
}

// BirthdayView is the derived, never-persisted view of a person's upcoming
// birthday. Recomputed on every read.
type BirthdayView struct {
	store.BirthdayPerson

	NextOccurrence time.Time
	DaysUntil      int
	Age            int
	AgeKnown       bool
	IsToday        bool
	IsTomorrow     bool
	IsThisWeek     bool
	DisplayText    string
	Emoji          string
}

// Reminder is a single scheduled lead-time notification slot for a birthday.
type Reminder struct {
	Date    time.Time
	Kind    string
	Message string
}

// Birthdays derives upcoming-birthday information from the record store.
type Birthdays struct {
	Clock Clock
	Store *store.Store

	// FormatReminder allows the UI to inject localized reminder messages,
	// keyed by notification kind. Nil falls back to English.
	FormatReminder func(kind string) string
}

// UpcomingWithInfo returns every birthday with derived fields attached,
// sorted by days-until ascending. When daysAhead is positive it is enforced
// as an upper bound; config.UpcomingNoHorizon disables the cutoff.
func (b *Birthdays) UpcomingWithInfo(daysAhead int) []BirthdayView {
	now := b.Clock.Now()

	var out []BirthdayView
	for _, p := range b.Store.BirthdayPeople() {
		v := b.view(now, p)
		if daysAhead > config.UpcomingNoHorizon && v.DaysUntil > daysAhead {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out
}

// TodayCount returns how many birthdays fall on the current day.
func (b *Birthdays) TodayCount() int {
	count := 0
	for _, v := range b.UpcomingWithInfo(config.UpcomingNoHorizon) {
		if v.IsToday {
			count++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, v.Name,
				config.LogKeyPersonID, v.Person.ID,
			)
		}
	}
	return count
}

func (b *Birthdays) view(now time.Time, p store.BirthdayPerson) BirthdayView {
	daysUntil := DaysUntil(now, p.Month, p.Day)
	age, known := Age(now, p.Month, p.Day, p.Year)

	return BirthdayView{
		BirthdayPerson: p,
		NextOccurrence: NextOccurrence(now, p.Month, p.Day),
		DaysUntil:      daysUntil,
		Age:            age,
		AgeKnown:       known,
		IsToday:        daysUntil == 0,
		IsTomorrow:     daysUntil == 1,
		IsThisWeek:     daysUntil <= config.OffsetOneWeek,
		DisplayText:    DisplayText(p.Month, p.Day, p.Year),
		Emoji:          Emoji(daysUntil),
	}
}

// ReminderOffsets computes the three fixed lead-time reminder slots
// (14, 7 and 1 days before the next occurrence), each at 09:00 local time.
// Slots already in the past are included; the scheduler filters them.
func (b *Birthdays) ReminderOffsets(month, day int) []Reminder {
	next := NextOccurrence(b.Clock.Now(), month, day)

	offsets := []struct {
		days int
		kind string
	}{
		{config.OffsetTwoWeeks, config.KindTwoWeeks},
		{config.OffsetOneWeek, config.KindOneWeek},
		{config.OffsetOneDay, config.KindOneDay},
	}

	out := make([]Reminder, 0, len(offsets))
	for _, o := range offsets {
		d := next.AddDate(0, 0, -o.days)
		at := time.Date(d.Year(), d.Month(), d.Day(), config.NotificationHour, 0, 0, 0, d.Location())
		out = append(out, Reminder{
			Date:    at,
			Kind:    o.kind,
			Message: b.reminderMessage(o.kind),
		})
	}
	return out
}

func (b *Birthdays) reminderMessage(kind string) string {
	if b.FormatReminder != nil {
		if msg := b.FormatReminder(kind); msg != "" {
			return msg
		}
	}
	switch kind {
	case config.KindTwoWeeks:
		return config.FallbackBdayTwoWeeks
	case config.KindOneWeek:
		return config.FallbackBdayOneWeek
	default:
		return config.FallbackBdayTomorrow
	}
}
