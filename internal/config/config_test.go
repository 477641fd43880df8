package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-keepintouch/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required for runtime or UI logic.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultPort", config.DefaultPort},
		{"RouteCalendar", config.RouteCalendar},
		{"RouteUpcoming", config.RouteUpcoming},
		{"RouteDue", config.RouteDue},
		{"CategoryBirthday", config.CategoryBirthday},
		{"CategoryFollowup", config.CategoryFollowup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Equal(t, 30, config.DefaultCadenceDays)
	assert.Equal(t, 7, config.DefaultReminderDays)

	// Verify Timeout parsing works as expected
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestReminderSchedule ensures the notification timing model stays coherent.
func TestReminderSchedule(t *testing.T) {
	assert.GreaterOrEqual(t, config.NotificationHour, 0)
	assert.Less(t, config.NotificationHour, 24)

	// Lead-time offsets must be strictly decreasing so slots never collide.
	assert.Greater(t, config.OffsetTwoWeeks, config.OffsetOneWeek)
	assert.Greater(t, config.OffsetOneWeek, config.OffsetOneDay)
	assert.Greater(t, config.OffsetOneDay, 0)

	assert.Greater(t, config.SnoozeDays, 0)
	assert.Greater(t, config.DueSoonWindowDays, 0)
	assert.Equal(t, 366, config.MaxDaysUntilBirth)
}

// TestScoreWeights ensures the priority formula keeps its intended shape:
// the tier component dominates a single overdue day, and being due today
// outranks merely being due soon.
func TestScoreWeights(t *testing.T) {
	assert.Greater(t, config.ScoreTierWeight, config.ScorePerDayLate)
	assert.Greater(t, config.ScoreDueToday, config.ScoreDueSoon)
	assert.GreaterOrEqual(t, config.ScoreDueSoon, 0)
	assert.Zero(t, config.ScoreNotDue)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-KeepInTouch/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	// Timeouts
	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	// Limits
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	// The limit should be generous enough for photos but prevent infinite streams.
	assert.GreaterOrEqual(t, int64(config.MaxHTTPResponseSize), int64(50*1024*1024), "MaxHTTPResponseSize should be at least 50MB for real-world usage")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}
