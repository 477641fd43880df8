package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-keepintouch/internal/config"
)

// keysToCheck is every translation key referenced from Go code. Keep it in
// sync with the TKey block in config.go.
var keysToCheck = []string{
	config.TKeyMenuRefresh,
	config.TKeyMenuSettings,
	config.TKeyMenuPeople,
	config.TKeyTrayStatus,
	config.TKeyTrayStatusZero,
	config.TKeyTrayFollowups,
	config.TKeyNotifStart,
	config.TKeyNotifSuccess,
	config.TKeyNotifError,
	config.TKeyEvtSummary,
	config.TKeyEvtSummaryAge,
	config.TKeyEvtSummaryBirth,
	config.TKeyBdayTwoWeeks,
	config.TKeyBdayOneWeek,
	config.TKeyBdayTomorrow,
	config.TKeyFollowupBody,
	config.TKeyFollowupBodyOrg,
	config.TKeyStatusOverdue,
	config.TKeyStatusDueToday,
	config.TKeyStatusDueIn,
	config.TKeyStatusNoRule,
	config.TKeyWinSettings,
	config.TKeyWinPeople,
	config.TKeyTabBirthdays,
	config.TKeyTabFollowups,
	config.TKeyColName,
	config.TKeyColDate,
	config.TKeyColAge,
	config.TKeyColStatus,
	config.TKeyColDue,
	config.TKeyFormatDate,
	config.TKeyAgeBirth,
	config.TKeyModeCardDAV,
	config.TKeyModeLocal,
	config.TKeyModeNone,
	config.TKeyLblLanguage,
	config.TKeyLblSource,
	config.TKeyLblGeneral,
	config.TKeyLblNotif,
	config.TKeyLblURL,
	config.TKeyLblUser,
	config.TKeyLblPass,
	config.TKeyLblRefresh,
	config.TKeyLblMinutes,
	config.TKeyLblPort,
	config.TKeyLblClientsTab,
	config.TKeyLblNotifEnabled,
	config.TKeyLblReminderDays,
	config.TKeyLblDays,
	config.TKeyLblFooter,
	config.TKeyBtnBrowse,
	config.TKeyBtnSave,
	config.TKeyBtnCancel,
	config.TKeyHelpLanguage,
	config.TKeyHelpInterval,
	config.TKeyHelpPort,
	config.TKeyHelpURL,
	config.TKeyErrPortReq,
	config.TKeyErrPortNum,
	config.TKeyErrPortRange,
}

func loadLocale(t *testing.T, filename string) map[string]interface{} {
	t.Helper()

	// Adjust path if running test from internal/ui or root
	path := filepath.Join("locales", filename)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		path = filepath.Join("..", "..", "internal", "ui", "locales", filename)
		content, err = os.ReadFile(path)
	}
	require.NoError(t, err, "Must load %s", filename)

	var jsonMap map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")
	return jsonMap
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// actually exists in every locale JSON file.
func TestI18nIntegrity(t *testing.T) {
	for _, locale := range []string{"active.en.json", "active.fr.json"} {
		t.Run(locale, func(t *testing.T) {
			jsonMap := loadLocale(t, locale)

			for _, key := range keysToCheck {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in %s", key, locale)
			}

			// Check for orphan keys in JSON (keys that exist in JSON but not in Go)
			defined := make(map[string]bool, len(keysToCheck))
			for _, k := range keysToCheck {
				defined[k] = true
			}
			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				if !defined[jsonKey] {
					t.Logf("Warning: Key '%s' exists in %s but is not checked in the test suite (might be unused)", jsonKey, locale)
				}
			}
		})
	}
}

// TestI18nLocalesAligned ensures both locales translate exactly the same set
// of keys, so switching languages never produces raw key names.
func TestI18nLocalesAligned(t *testing.T) {
	en := loadLocale(t, "active.en.json")
	fr := loadLocale(t, "active.fr.json")

	for key := range en {
		_, exists := fr[key]
		assert.Truef(t, exists, "Key '%s' is in active.en.json but missing in active.fr.json", key)
	}
	for key := range fr {
		_, exists := en[key]
		assert.Truef(t, exists, "Key '%s' is in active.fr.json but missing in active.en.json", key)
	}
}
