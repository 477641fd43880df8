package notify

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/engine"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

// Planner maps engine-derived reminder dates onto the scheduler. The store
// is in-memory, so every refresh replans from scratch: cancel, then
// reschedule whatever is still in the future.
type Planner struct {
	Clock     engine.Clock
	Store     *store.Store
	Scheduler Scheduler
	Birthdays *engine.Birthdays

	// FormatFollowupBody allows the UI to inject a localized notification
	// body. Nil falls back to English.
	FormatFollowupBody func(name, company string) string
}

// Refresh replans every birthday and follow-up notification. When the user
// has disabled notifications, all pending ones are cancelled instead.
func (p *Planner) Refresh() {
	if !p.Store.Settings().NotificationsEnabled {
		if local, ok := p.Scheduler.(*LocalScheduler); ok {
			local.CancelAll()
		}
		return
	}

	for _, bp := range p.Store.BirthdayPeople() {
		p.PlanBirthday(bp)
	}
	for _, rp := range p.Store.EnabledRules() {
		p.PlanFollowup(rp.Person, rp.NextDue)
	}
}

// PlanBirthday replaces the lead-time reminders for one person's birthday.
// Prior notifications are cancelled first so a reschedule never duplicates.
func (p *Planner) PlanBirthday(bp store.BirthdayPerson) {
	p.Scheduler.CancelAllForPerson(bp.Person.ID, config.CategoryBirthday)

	for _, r := range p.Birthdays.ReminderOffsets(bp.Month, bp.Day) {
		p.Scheduler.Schedule(r.Date, Content{
			Title: fmt.Sprintf(config.FormatBirthdayTitle, bp.Name),
			Body:  r.Message,
			Data: Payload{
				Type:             config.CategoryBirthday,
				PersonID:         bp.Person.ID,
				NotificationType: r.Kind,
			},
			CategoryIdentifier: config.CategoryBirthday,
		})
	}
}

// PlanFollowup replaces the follow-up reminder for one person. The
// notification fires at 09:00 local on the due date; past due dates are
// not scheduled (the due list surfaces them instead).
func (p *Planner) PlanFollowup(person store.Person, dueDate time.Time) {
	p.Scheduler.CancelAllForPerson(person.ID, config.CategoryFollowup)

	at := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(),
		config.NotificationHour, 0, 0, 0, dueDate.Location())

	p.Scheduler.Schedule(at, Content{
		Title: fmt.Sprintf(config.FormatFollowupTitle, person.Name),
		Body:  p.followupBody(person),
		Data: Payload{
			Type:     config.CategoryFollowup,
			PersonID: person.ID,
		},
		CategoryIdentifier: config.CategoryFollowup,
	})
}

func (p *Planner) followupBody(person store.Person) string {
	if p.FormatFollowupBody != nil {
		if msg := p.FormatFollowupBody(person.Name, person.Company); msg != "" {
			return msg
		}
	}
	if person.Company != "" {
		return fmt.Sprintf(config.FallbackFollowupOrg, person.Name, person.Company)
	}
	return fmt.Sprintf(config.FallbackFollowup, person.Name)
}
