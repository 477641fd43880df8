package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-KeepInTouch/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go KeepInTouch"
	AppID             = "com.github.tartampluch.go-keepintouch"
	KeyringService    = "com.github.tartampluch.go-keepintouch"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Preference Keys
// -----------------------------------------------------------------------------

const (
	PrefCardDAVURL          = "carddav_url"
	PrefUsername            = "username"
	PrefLanguage            = "language"
	PrefInterval            = "refresh_interval_min"
	PrefServerPort          = "server_port"
	PrefSourceMode          = "source_mode"
	PrefLocalPath           = "local_path"
	PrefShowClientsTab      = "show_clients_tab"
	PrefNotifEnabled        = "notifications_enabled"
	PrefDefaultReminderDays = "default_reminder_days"
	PrefLastRun             = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyMenuRefresh    = "menu_refresh"
	TKeyTrayStatus     = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero = "tray_status_zero" // Explicit key for 0
	TKeyTrayFollowups  = "tray_followups"   // Requires Count > 0
	TKeyNotifStart     = "notif_refresh_start"
	TKeyNotifSuccess   = "notif_refresh_success"
	TKeyNotifError     = "notif_err_refresh"

	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)

	TKeyBdayTwoWeeks = "bday_two_weeks"
	TKeyBdayOneWeek  = "bday_one_week"
	TKeyBdayTomorrow = "bday_tomorrow"

	TKeyFollowupBody    = "followup_body"     // Requires Name
	TKeyFollowupBodyOrg = "followup_body_org" // Requires Name, Company

	TKeyStatusOverdue  = "status_overdue" // Requires Days, pluralized
	TKeyStatusDueToday = "status_due_today"
	TKeyStatusDueIn    = "status_due_in" // Requires Days, pluralized
	TKeyStatusNoRule   = "status_no_rule"

	TKeyMenuSettings = "menu_settings"
	TKeyMenuPeople   = "menu_people"
	TKeyWinSettings  = "win_settings"
	TKeyWinPeople    = "win_people"

	TKeyTabBirthdays = "tab_birthdays"
	TKeyTabFollowups = "tab_followups"

	TKeyColName   = "col_name"
	TKeyColDate   = "col_date"
	TKeyColAge    = "col_age"
	TKeyColStatus = "col_status"
	TKeyColDue    = "col_due"
	TKeyFormatDate = "format_date"
	TKeyAgeBirth   = "age_birth"

	TKeyModeCardDAV = "mode_carddav"
	TKeyModeLocal   = "mode_local"
	TKeyModeNone    = "mode_none"

	TKeyLblLanguage     = "lbl_language"
	TKeyLblSource       = "lbl_source"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblNotif        = "lbl_notifications"
	TKeyLblURL          = "lbl_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblRefresh      = "lbl_refresh"
	TKeyLblMinutes      = "lbl_minutes"
	TKeyLblPort         = "lbl_port"
	TKeyLblClientsTab   = "lbl_clients_tab"
	TKeyLblNotifEnabled = "lbl_notif_enabled"
	TKeyLblReminderDays = "lbl_reminder_days"
	TKeyLblDays         = "lbl_days"
	TKeyLblFooter       = "lbl_footer"
	TKeyBtnBrowse       = "btn_browse"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyHelpLanguage    = "help_language"
	TKeyHelpInterval    = "help_interval"
	TKeyHelpPort        = "help_port"
	TKeyHelpURL         = "help_url"
	TKeyErrPortReq      = "err_port_required"
	TKeyErrPortNum      = "err_port_numeric"
	TKeyErrPortRange    = "err_port_range"
)

// -----------------------------------------------------------------------------
// UI Layout
// -----------------------------------------------------------------------------

const (
	// People window: birthday tab columns.
	ColIDName = 0
	ColIDDate = 1
	ColIDAge  = 2

	// People window: follow-up tab columns.
	ColIDStatus = 1
	ColIDDue    = 2

	ColWidthName   float32 = 220
	ColWidthDate   float32 = 160
	ColWidthAge    float32 = 110
	ColWidthStatus float32 = 190

	PeopleWinWidth      float32 = 520
	PeopleWinHeight     float32 = 420
	SettingsWindowWidth float32 = 460

	LayoutColumnsDouble = 2

	SortIconAsc      = " ↑"
	SortIconDesc     = " ↓"
	TablePlaceholder = "wide placeholder text"
	AgeUnknown       = "—"

	DateFormatDisplay = "Jan 2, 2006"
	PlaceholderURL    = "https://example.com/contacts.vcf"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	DefaultPort         = "18080"
	DefaultRefreshMin   = 60
	DefaultLanguage     = "en"
	DefaultLeapYear     = 2000 // Leap year fallback for dates like --02-29
	DefaultCadenceDays  = 30
	DefaultReminderDays = 7
	UIDSalt             = "go-keepintouch-v1-" // Salt for deterministic UID generation
	DisabledInterval    = 0

	// NotificationHour is the local hour of day at which reminders fire.
	NotificationHour = 9

	// Fixed lead offsets (in days) for birthday reminder notifications.
	OffsetTwoWeeks = 14
	OffsetOneWeek  = 7
	OffsetOneDay   = 1

	// UpcomingNoHorizon disables the daysAhead cutoff in upcoming queries.
	UpcomingNoHorizon = 0

	// DueSoonWindowDays is the horizon for the "due soon" follow-up band.
	DueSoonWindowDays = 3

	// SnoozeDays is how far a snoozed notification is pushed forward.
	SnoozeDays = 1

	// Priority score weights. Tier weight dominates; overdue days break ties.
	ScoreTierWeight = 10
	ScorePerDayLate = 5
	ScoreDueToday   = 15
	ScoreDueSoon    = 5
	ScoreNotDue     = 0

	// MaxDaysUntilBirth bounds DaysUntil for any valid month/day pair.
	MaxDaysUntilBirth = 366
)

// -----------------------------------------------------------------------------
// Notification Categories, Kinds & Actions
// -----------------------------------------------------------------------------

const (
	CategoryBirthday = "birthday"
	CategoryFollowup = "followup"

	// Birthday notification kinds (which lead offset produced them).
	KindTwoWeeks = "14_days"
	KindOneWeek  = "7_days"
	KindOneDay   = "1_day"
	KindDue      = "due"

	// Quick-action identifiers attached to delivered notifications.
	ActionSnooze         = "snooze"
	ActionMarkDone       = "mark_done"
	ActionContacted      = "contacted"
	ActionSnoozeFollowup = "snooze_followup"

	PayloadKeyType      = "type"
	PayloadKeyPersonID  = "personId"
	PayloadKeyNotifType = "notificationType"
)

// -----------------------------------------------------------------------------
// Display Glyphs & Status Colors
// -----------------------------------------------------------------------------

const (
	EmojiBdayToday    = "🎉"
	EmojiBdayTomorrow = "🎂"
	EmojiBdayWeek     = "🎈"
	EmojiBdayFortnite = "📅"
	EmojiBdayLater    = "🗓️"

	EmojiOverdue  = "🚨"
	EmojiDueToday = "⚠️"
	EmojiDueSoon  = "📅"
	EmojiDueLater = "✅"

	ColorOverdue  = "#FF3B30"
	ColorDueToday = "#FF9500"
	ColorDueSoon  = "#007AFF"
	ColorDueLater = "#34C759"
	ColorNeutral  = "#666666"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go KeepInTouch//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gokeepintouch"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY  = "BDAY"
	VCardFN    = "FN"
	VCardN     = "N"
	VCardUID   = "UID"
	VCardORG   = "ORG"
	VCardTITLE = "TITLE"

	DefaultICalRefresh = 1 * time.Hour

	// ICSReminderTrigger is the VALARM trigger for birthday events (1 day before).
	ICSReminderTrigger = "-P1D"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	MinMonth = 1
	MaxMonth = 12
	MinDay   = 1

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/"
	RouteUpcoming       = "/upcoming"
	RouteDue            = "/due"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrTrayUnsupported = "system tray not supported on this platform/driver"
	ErrLocNotInit      = "localizer not initialized"

	ErrNameRequired    = "person name must not be empty"
	ErrBadCategory     = "unknown person category"
	ErrBadChannel      = "unknown interaction channel"
	ErrBadPriority     = "unknown priority tier"
	ErrBadStatus       = "unknown followup status"
	ErrBadMonth        = "month out of range"
	ErrBadDay          = "day invalid for month"
	ErrBadCadence      = "cadence days must be positive"
	ErrPersonNotFound  = "person not found"
	ErrRecordNotFound  = "record not found"
	ErrSchedulerNil    = "internal error: notification scheduler is not initialized"
	ErrStoreNil        = "internal error: record store is not initialized"
	ErrUnknownAction   = "unknown notification action"
	ErrUnknownCategory = "unknown notification category"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayError    = "Go KeepInTouch: Refresh Error"
	FallbackTrayDefault  = "Go KeepInTouch (%d today)"
	FallbackTrayLabel    = "Go KeepInTouch"
	FallbackTrayDue      = "%d follow-ups due"
	FallbackName         = "Unknown"

	FallbackBdayTwoWeeks = "Birthday coming up in 2 weeks"
	FallbackBdayOneWeek  = "Birthday coming up in 1 week"
	FallbackBdayTomorrow = "Birthday is tomorrow!"

	FormatBirthdayTitle = "🎂 %s"
	FormatFollowupTitle = "💼 Follow up with %s"
	FallbackFollowup    = "Time to check in with %s"
	FallbackFollowupOrg = "Time to check in with %s at %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	// Using a constant avoids hardcoded magic strings in the engine logic.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleRefreshError = "Refresh Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgRefreshStarted = "Refresh started..."
	MsgRefreshFailed  = "Refresh failed. Check logs."
	MsgRefreshReq     = "Refresh requested"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateInterval = "Updating refresh interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgGenSuccess     = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgImportStarted  = "Contact import started"
	MsgImportDone     = "Contact import finished"
	MsgImportSkipDup  = "Skipping duplicate contact"
	MsgImportLinked   = "Linked existing person to contact"
	MsgRuleAdvanced   = "Follow-up rule advanced"
	MsgNotifScheduled = "Notification scheduled"
	MsgNotifCancelled = "Notifications cancelled"
	MsgNotifDelivered = "Notification delivered"
	MsgNotifSnoozed   = "Notification snoozed"
	MsgNotifResolved  = "Notification resolved"
	MsgPersonDeleted  = "Person deleted with cascading records"
	MsgOpenWin        = "Opening window"
	MsgTableSorted    = "Table sorted"
	MsgSavePrefs      = "Saving preferences"
	MsgKeyringFail    = "Failed to save credentials to keyring"
	MsgImportSkipped  = "No contact source configured, skipping import"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyPersonID  = "person_id"
	LogKeyRuleID    = "rule_id"
	LogKeyNotifID   = "notification_id"
	LogKeyCategory  = "category"
	LogKeyKind      = "kind"
	LogKeyAction    = "action"
	LogKeyDue       = "next_due"
	LogKeyCadence   = "cadence_days"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyFailed    = "failed"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeyDueCount  = "followups_due"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_ascending"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompImporter = "importer"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompStore    = "store"
	CompNotify   = "notify"
	CompUISet    = "ui_settings"
)
