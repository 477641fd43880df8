package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

// mockClock pins time for deterministic engine tests.
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

// TestNextOccurrence verifies the core temporal logic: standard dates,
// year boundaries, and leap day handling.
func TestNextOccurrence(t *testing.T) {
	// Reference "Now": June 15th, 2025, mid-morning (Non-Leap Year)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		month    int
		day      int
		expected time.Time
		desc     string
	}{
		{
			name:     "date already passed this year",
			month:    1, day: 1,
			expected: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			desc:     "Jan 1 is before June 15, so next occurrence is 2026",
		},
		{
			name:     "date still ahead this year",
			month:    12, day: 31,
			expected: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			desc:     "Dec 31 is after June 15, so next occurrence is 2025",
		},
		{
			name:     "birthday is today",
			month:    6, day: 15,
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			desc:     "today counts as the next occurrence for the whole day, even past midnight",
		},
		{
			name:     "leap day in a non-leap year",
			month:    2, day: 29,
			expected: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			desc:     "Feb 29 falls back to Feb 28, never slides into March",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextOccurrence(now, tt.month, tt.day), tt.desc)
		})
	}
}

// TestNextOccurrence_LeapYearContext verifies that Feb 29 is preserved when
// the target year actually has one.
func TestNextOccurrence_LeapYearContext(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, NextOccurrence(now, 2, 29))
}

// TestNextOccurrence_LeaplingAfterSubstitutedDate covers the window between
// the substituted Feb 28 and March: the occurrence must move to next year.
func TestNextOccurrence_LeaplingAfterSubstitutedDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	expected := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, NextOccurrence(now, 2, 29))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(now, 6, 15), "today is zero days away all day long")
	assert.Equal(t, 1, DaysUntil(now, 6, 16), "partial days round up")
	assert.Equal(t, 30, DaysUntil(now, 7, 15))

	// The furthest any annual date can be.
	worst := DaysUntil(now, 6, 14)
	assert.LessOrEqual(t, worst, config.MaxDaysUntilBirth)
	assert.GreaterOrEqual(t, worst, 364)
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	age, known := Age(now, 1, 1, 1990)
	assert.True(t, known)
	assert.Equal(t, 35, age, "birthday already passed this year")

	age, known = Age(now, 12, 31, 1990)
	assert.True(t, known)
	assert.Equal(t, 34, age, "birthday still ahead this year")

	age, known = Age(now, 6, 15, 1990)
	assert.True(t, known)
	assert.Equal(t, 35, age, "age increments on the day itself")

	age, known = Age(now, 3, 1, 0)
	assert.False(t, known, "zero birth year means unknown")
	assert.Zero(t, age)

	// Leapling born Feb 29, 2000 is 25 on March 1st, 2025.
	age, known = Age(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 2, 29, 2000)
	assert.True(t, known)
	assert.Equal(t, 25, age)
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "January 2", DisplayText(1, 2, 0))
	assert.Equal(t, "January 2, 1990", DisplayText(1, 2, 1990))
}

func TestEmoji_Bands(t *testing.T) {
	assert.Equal(t, config.EmojiBdayToday, Emoji(0))
	assert.Equal(t, config.EmojiBdayTomorrow, Emoji(1))
	assert.Equal(t, config.EmojiBdayWeek, Emoji(7))
	assert.Equal(t, config.EmojiBdayFortnite, Emoji(14))
	assert.Equal(t, config.EmojiBdayLater, Emoji(15))
}

func newBirthdayFixture(t *testing.T, now time.Time) (*Birthdays, *store.Store) {
	t.Helper()
	clock := &mockClock{now: now}
	st := store.New(clock)
	return &Birthdays{Clock: clock, Store: st}, st
}

func addBirthday(t *testing.T, st *store.Store, name string, month, day, year int) string {
	t.Helper()
	id, err := st.CreatePerson(store.Person{Name: name})
	require.NoError(t, err)
	_, err = st.CreateEvent(store.BirthdayEvent{PersonID: id, Month: month, Day: day, Year: year})
	require.NoError(t, err)
	return id
}

func TestUpcomingWithInfo_SortAndDerivedFields(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	b, st := newBirthdayFixture(t, now)

	addBirthday(t, st, "Later", 8, 1, 0)
	addBirthday(t, st, "Today", 6, 15, 1990)
	addBirthday(t, st, "Tomorrow", 6, 16, 0)

	views := b.UpcomingWithInfo(config.UpcomingNoHorizon)
	require.Len(t, views, 3)

	assert.Equal(t, "Today", views[0].Name)
	assert.True(t, views[0].IsToday)
	assert.True(t, views[0].AgeKnown)
	assert.Equal(t, 35, views[0].Age)
	assert.Equal(t, config.EmojiBdayToday, views[0].Emoji)
	assert.Equal(t, "June 15, 1990", views[0].DisplayText)

	assert.Equal(t, "Tomorrow", views[1].Name)
	assert.True(t, views[1].IsTomorrow)
	assert.True(t, views[1].IsThisWeek)
	assert.False(t, views[1].AgeKnown)

	assert.Equal(t, "Later", views[2].Name)
	assert.False(t, views[2].IsThisWeek)
}

func TestUpcomingWithInfo_HorizonCutoff(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	b, st := newBirthdayFixture(t, now)

	addBirthday(t, st, "Inside", 6, 20, 0)
	addBirthday(t, st, "Outside", 7, 20, 0)

	views := b.UpcomingWithInfo(7)
	require.Len(t, views, 1)
	assert.Equal(t, "Inside", views[0].Name)

	assert.Len(t, b.UpcomingWithInfo(config.UpcomingNoHorizon), 2, "zero disables the cutoff")
}

func TestTodayCount(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	b, st := newBirthdayFixture(t, now)

	addBirthday(t, st, "A", 6, 15, 0)
	addBirthday(t, st, "B", 6, 15, 1980)
	addBirthday(t, st, "C", 6, 16, 0)

	assert.Equal(t, 2, b.TodayCount())
}

// TestReminderOffsets verifies the three fixed lead-time slots, each at the
// notification hour.
func TestReminderOffsets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, _ := newBirthdayFixture(t, now)

	reminders := b.ReminderOffsets(6, 20)
	require.Len(t, reminders, 3)

	assert.Equal(t, time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC), reminders[0].Date)
	assert.Equal(t, config.KindTwoWeeks, reminders[0].Kind)

	assert.Equal(t, time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC), reminders[1].Date)
	assert.Equal(t, config.KindOneWeek, reminders[1].Kind)

	assert.Equal(t, time.Date(2025, 6, 19, 9, 0, 0, 0, time.UTC), reminders[2].Date)
	assert.Equal(t, config.KindOneDay, reminders[2].Kind)

	assert.Equal(t, config.FallbackBdayTomorrow, reminders[2].Message)
}

func TestReminderOffsets_LocalizedMessages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, _ := newBirthdayFixture(t, now)
	b.FormatReminder = func(kind string) string {
		if kind == config.KindOneDay {
			return "demain !"
		}
		return ""
	}

	reminders := b.ReminderOffsets(6, 20)
	require.Len(t, reminders, 3)
	assert.Equal(t, config.FallbackBdayTwoWeeks, reminders[0].Message, "empty localization falls back to English")
	assert.Equal(t, "demain !", reminders[2].Message)
}
