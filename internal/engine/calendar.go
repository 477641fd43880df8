package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

// Calendar renders the tracked birthdays as an iCalendar feed so external
// calendar clients can subscribe to them.
type Calendar struct {
	Clock Clock

	// FormatSummary allows the UI to inject localized event summaries.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Generate builds the ICS document for the given birthday people and
// returns it together with the number of birthdays falling today.
func (c *Calendar) Generate(people []store.BirthdayPerson, reminderTrigger string) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local time drives the logic; UTC is only used for ICS stamping.
	// Birthdays are defined by the local calendar date of the person.
	now := c.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	countToday := 0
	for _, p := range people {
		events, isToday := c.createEvents(p, reminderTrigger, now)
		if isToday {
			countToday++
		}
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// A valid (empty) VCALENDAR is still returned when nothing is tracked,
	// so subscribed clients never flag the feed as broken.
	if len(cal.Children) == 0 {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, config.StubVCalendar)
		c.logSuccess(len(people), countToday)
		return buf.Bytes(), countToday, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	c.logSuccess(len(people), countToday)
	return buf.Bytes(), countToday, nil
}

func (c *Calendar) logSuccess(found, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, found),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// createEvents generates one event per year for CurrentYear-1, CurrentYear,
// and CurrentYear+1, so calendar clients scrolling backward or forward see
// events without an immediate re-sync. No event is created before the
// person is born.
func (c *Calendar) createEvents(p store.BirthdayPerson, reminderTrigger string, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()

	yearKnown := p.Year != 0
	uidBase := calendarUID(p)

	var events []*ical.Event
	isToday := false

	todayYear, todayMonth, todayDay := now.Date()

	for _, y := range targetYears {
		if yearKnown && y < p.Year {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := 0
		if yearKnown {
			age = y - p.Year
		}

		summary := fmt.Sprintf(config.FallbackSummary, p.Name)
		if c.FormatSummary != nil {
			summary = c.FormatSummary(p.Name, age, yearKnown && age >= 0)
		}
		event.Props.SetText(config.PropSummary, summary)

		// Leap-day birthdays land on Feb 28 in non-leap years, matching the
		// next-occurrence logic used everywhere else.
		eventDate := occurrenceDate(y, p.Month, p.Day, loc)

		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// calendarUID derives a deterministic event UID base from the person's name
// and birthday. Store ids regenerate on every process start (the store is
// in-memory), so hashing stable fields keeps UIDs stable across restarts
// for subscribed calendar clients.
func calendarUID(p store.BirthdayPerson) string {
	birthday := fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, p.Day)
	input := fmt.Sprintf(config.FormatHashInput, p.Name, birthday, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
