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

// FollowupView is the derived due/overdue view of a person's cadence rule.
// Recomputed on every read, never persisted.
type FollowupView struct {
	store.RulePerson

	// DaysOverdue is floor((now - next_due) / 1 day). Negative values mean
	// the rule is due within the next few days.
	DaysOverdue int
	IsOverdue   bool
	IsDueToday  bool
	IsDueSoon   bool
}

// StatusLabel is a presentable summary of a follow-up's due state.
type StatusLabel struct {
	Text     string
	ColorHex string
	Emoji    string
}

// CadenceOption is a preset choice for follow-up frequency.
type CadenceOption struct {
	Label string
	Days  int
	Emoji string
}

// ChannelOption describes an interaction channel for pickers.
type ChannelOption struct {
	Label   string
	Channel store.Channel
	Emoji   string
}

// Followups derives due/overdue follow-up information from the record store
// and advances cadence rules when interactions are logged.
type Followups struct {
	Clock Clock
	Store *store.Store

	// FormatStatus allows the UI to inject localized status text, keyed by
	// translation key with a day count. Nil falls back to English.
	FormatStatus func(key string, days int) string
}

// DueAndOverdue returns every enabled rule that is due, overdue, or due
// within the next three days, most overdue first. Callers that want only
// strictly-due items filter on DaysOverdue >= 0.
func (f *Followups) DueAndOverdue() []FollowupView {
	now := f.Clock.Now()
	horizon := now.AddDate(0, 0, config.DueSoonWindowDays)

	var out []FollowupView
	for _, rp := range f.Store.DueRules(horizon) {
		out = append(out, f.view(now, rp))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out
}

// DueCount returns how many rules are strictly due (today or overdue).
func (f *Followups) DueCount() int {
	count := 0
	for _, v := range f.DueAndOverdue() {
		if v.DaysOverdue >= 0 {
			count++
		}
	}
	return count
}

func (f *Followups) view(now time.Time, rp store.RulePerson) FollowupView {
	days := daysOverdue(now, rp.NextDue)
	return FollowupView{
		RulePerson:  rp,
		DaysOverdue: days,
		IsOverdue:   days > 0,
		IsDueToday:  days == 0,
		IsDueSoon:   days >= -config.DueSoonWindowDays && days < 0,
	}
}

// daysOverdue is floor((now - due) / 1 day).
func daysOverdue(now, due time.Time) int {
	return int(math.Floor(now.Sub(due).Hours() / hoursPerDay))
}

// LogInteractionAndAdvance records an interaction at the current time and
// restarts the person's cadence from that moment: next_due becomes
// now + cadence_days regardless of the previous due date. Returns the new
// interaction id.
func (f *Followups) LogInteractionAndAdvance(personID string, channel store.Channel, summary string) (string, error) {
	now := f.Clock.Now()

	id, err := f.Store.CreateInteraction(store.Interaction{
		PersonID:   personID,
		HappenedAt: now,
		Channel:    channel,
		Summary:    summary,
	})
	if err != nil {
		return "", err
	}

	if rule, ok := f.Store.RuleByPersonID(personID); ok {
		nextDue := now.AddDate(0, 0, rule.CadenceDays)
		if err := f.Store.SetRuleNextDue(personID, nextDue); err != nil {
			return "", err
		}
		slog.Info(config.MsgRuleAdvanced,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyPersonID, personID,
			config.LogKeyDue, nextDue,
		)
	}
	return id, nil
}

// UpsertRule creates or overwrites the person's single cadence rule.
// The next due date is anchored on the last interaction time, or on the
// current time when no interaction was ever logged. Calling it again with
// the same arguments and no intervening interaction yields the same
// next_due.
func (f *Followups) UpsertRule(personID string, cadenceDays int, enabled bool) (string, error) {
	base := f.Clock.Now()
	if last, ok := f.Store.LastInteraction(personID); ok {
		base = last.HappenedAt
	}

	return f.Store.PutRule(store.FollowupRule{
		PersonID:    personID,
		CadenceDays: cadenceDays,
		NextDue:     base.AddDate(0, 0, cadenceDays),
		Enabled:     enabled,
	})
}

// PriorityScore ranks a follow-up for sorting. The person's priority tier
// dominates; the overdue component breaks ties within a tier.
func PriorityScore(v FollowupView) int {
	score := int(v.Priority) * config.ScoreTierWeight

	switch {
	case v.IsOverdue:
		score += v.DaysOverdue * config.ScorePerDayLate
	case v.IsDueToday:
		score += config.ScoreDueToday
	case v.IsDueSoon:
		score += config.ScoreDueSoon
	default:
		score += config.ScoreNotDue
	}
	return score
}

// SortByPriority orders views highest priority score first, in place.
func SortByPriority(views []FollowupView) {
	sort.SliceStable(views, func(i, j int) bool {
		return PriorityScore(views[i]) > PriorityScore(views[j])
	})
}

// StatusLabel renders the discrete due-state band for a view.
func (f *Followups) StatusLabel(v FollowupView) StatusLabel {
	switch {
	case v.IsOverdue:
		return StatusLabel{
			Text:     f.statusText(config.TKeyStatusOverdue, v.DaysOverdue, "%d day overdue", "%d days overdue"),
			ColorHex: config.ColorOverdue,
			Emoji:    config.EmojiOverdue,
		}
	case v.IsDueToday:
		return StatusLabel{
			Text:     f.statusText(config.TKeyStatusDueToday, 0, "Due today", "Due today"),
			ColorHex: config.ColorDueToday,
			Emoji:    config.EmojiDueToday,
		}
	case v.IsDueSoon:
		return StatusLabel{
			Text:     f.statusText(config.TKeyStatusDueIn, -v.DaysOverdue, "Due in %d day", "Due in %d days"),
			ColorHex: config.ColorDueSoon,
			Emoji:    config.EmojiDueSoon,
		}
	default:
		return StatusLabel{
			Text:     f.statusText(config.TKeyStatusDueIn, -v.DaysOverdue, "Due in %d day", "Due in %d days"),
			ColorHex: config.ColorDueLater,
			Emoji:    config.EmojiDueLater,
		}
	}
}

func (f *Followups) statusText(key string, days int, singular, plural string) string {
	if f.FormatStatus != nil {
		if msg := f.FormatStatus(key, days); msg != "" {
			return msg
		}
	}
	if days == 1 {
		return fmt.Sprintf(singular, days)
	}
	if days == 0 {
		return singular
	}
	return fmt.Sprintf(plural, days)
}

// CadenceOptions lists the preset follow-up frequencies offered by pickers.
func CadenceOptions() []CadenceOption {
	return []CadenceOption{
		{Label: "Every 2 weeks", Days: 14, Emoji: "📅"},
		{Label: "Every month", Days: 30, Emoji: "🗓️"},
		{Label: "Every 2 months", Days: 60, Emoji: "📆"},
		{Label: "Every quarter", Days: 90, Emoji: "📋"},
		{Label: "Every 6 months", Days: 180, Emoji: "📃"},
	}
}

// ChannelOptions lists the interaction channels offered by pickers.
func ChannelOptions() []ChannelOption {
	return []ChannelOption{
		{Label: "Email", Channel: store.ChannelEmail, Emoji: "📧"},
		{Label: "Phone Call", Channel: store.ChannelPhone, Emoji: "📞"},
		{Label: "Text Message", Channel: store.ChannelSMS, Emoji: "💬"},
		{Label: "In Person", Channel: store.ChannelInPerson, Emoji: "🤝"},
		{Label: "Video Call", Channel: store.ChannelVideo, Emoji: "📹"},
		{Label: "Social Media", Channel: store.ChannelSocial, Emoji: "📱"},
		{Label: "Other", Channel: store.ChannelOther, Emoji: "💼"},
	}
}

// SuggestedSummaries proposes canned interaction summaries varying by the
// person's category and the channel used.
func SuggestedSummaries(p store.Person, channel store.Channel) []string {
	var out []string

	if p.Category == store.CategoryClient {
		if p.Company != "" && p.Role != "" {
			out = append(out, fmt.Sprintf("Checked in with %s (%s at %s)", p.Name, p.Role, p.Company))
		} else {
			out = append(out, fmt.Sprintf("Checked in with %s", p.Name))
		}

		switch channel {
		case store.ChannelEmail:
			out = append(out,
				"Sent follow-up email",
				"Discussed project updates",
				"Shared resources and updates")
		case store.ChannelPhone:
			out = append(out,
				"Had a phone check-in",
				"Discussed upcoming projects",
				"Caught up on business matters")
		case store.ChannelInPerson:
			out = append(out,
				"Met in person",
				"Had coffee meeting",
				"Attended networking event together")
		}
		return out
	}

	return append(out,
		fmt.Sprintf("Caught up with %s", p.Name),
		"Had a good conversation",
		"Checked in to see how they're doing")
}
