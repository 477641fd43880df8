package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/engine"
	"github.com/tartampluch/go-keepintouch/internal/notify"
	"github.com/tartampluch/go-keepintouch/internal/server"
	"github.com/tartampluch/go-keepintouch/internal/store"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.png
var appIconData []byte

// Deps groups the wired services the UI drives.
type Deps struct {
	Store     *store.Store
	Birthdays *engine.Birthdays
	Followups *engine.Followups
	Calendar  *engine.Calendar
	Importer  *engine.Importer
	Planner   *notify.Planner
	Scheduler *notify.LocalScheduler
	Server    *server.Server
	Clock     engine.Clock
}

// KeepInTouchApp encapsulates the UI state, preferences, and background logic.
type KeepInTouchApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Store     *store.Store
	Birthdays *engine.Birthdays
	Followups *engine.Followups
	Calendar  *engine.Calendar
	Importer  *engine.Importer
	Planner   *notify.Planner
	Scheduler *notify.LocalScheduler
	Server    *server.Server
	Clock     engine.Clock // Injected clock for testability (e.g. mocking time travel)

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayDueItem      *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	peopleWindow fyne.Window
}

// NewKeepInTouchApp constructs the application and wires dependencies.
func NewKeepInTouchApp(a fyne.App, ctx context.Context, deps Deps) *KeepInTouchApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &KeepInTouchApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Store:              deps.Store,
		Birthdays:          deps.Birthdays,
		Followups:          deps.Followups,
		Calendar:           deps.Calendar,
		Importer:           deps.Importer,
		Planner:            deps.Planner,
		Scheduler:          deps.Scheduler,
		Server:             deps.Server,
		Clock:              deps.Clock,
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
	if app.Clock == nil {
		app.Clock = engine.RealClock{}
	}
	return app
}

// Run launches the application services and the main UI loop.
func (app *KeepInTouchApp) Run() {
	app.SetupI18n()
	app.bindFormatters()
	app.applySettings()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayUnsupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	go app.Scheduler.Run(app.Ctx, time.Minute)
	app.App.Run()
}

// bindFormatters injects localized text producers into the engines. The
// engines stay free of i18n machinery; they call back into the UI layer.
func (app *KeepInTouchApp) bindFormatters() {
	app.Calendar.FormatSummary = app.buildSummaryFormatter()
	app.Birthdays.FormatReminder = app.buildReminderFormatter()
	app.Followups.FormatStatus = app.buildStatusFormatter()
	app.Planner.FormatFollowupBody = app.buildFollowupBodyFormatter()
}

// applySettings pushes the persisted preferences into the record store so
// engine queries observe the user's choices from the first refresh on.
func (app *KeepInTouchApp) applySettings() {
	app.Store.UpdateSettings(store.Settings{
		ShowClientsTab:       app.Preferences.BoolWithFallback(config.PrefShowClientsTab, true),
		NotificationsEnabled: app.Preferences.BoolWithFallback(config.PrefNotifEnabled, true),
		DefaultReminderDays:  app.Preferences.IntWithFallback(config.PrefDefaultReminderDays, config.DefaultReminderDays),
	})
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *KeepInTouchApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *KeepInTouchApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowPeopleWindow()
	})

	app.TrayDueItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuPeople), func() {
		app.ShowPeopleWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performRefresh(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		app.TrayDueItem,
		fyne.NewMenuItemSeparator(),
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *KeepInTouchApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// backgroundWorker manages the periodic refresh schedule.
func (app *KeepInTouchApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performRefresh(false)

	getInterval := func() time.Duration {
		val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
		if val <= 0 {
			val = config.DefaultRefreshMin
		}
		return time.Duration(val) * time.Minute
	}

	currentDuration := getInterval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := getInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateInterval, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				ticker.Reset(currentDuration)
			}

		case <-ticker.C:
			app.performRefresh(false)
		}
	}
}

// performRefresh executes the pipeline: import contacts (when a source is
// configured), regenerate the calendar feed, and replan notifications.
func (app *KeepInTouchApp) performRefresh(manual bool) {
	slog.Info(config.MsgRefreshReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	app.applySettings()

	if cfg := app.loadImportConfig(); cfg.Mode != "" {
		// Import failures are not fatal: the store still holds whatever was
		// imported before, and the feed regenerates from it.
		if _, err := app.Importer.Run(app.Ctx, cfg); err != nil {
			slog.Error(config.MsgRefreshFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
			if manual {
				app.App.SendNotification(fyne.NewNotification(config.TitleRefreshError, app.GetMsg(config.TKeyNotifError)))
			}
		}
	} else {
		slog.Debug(config.MsgImportSkipped, config.LogKeyComponent, config.CompUI)
	}

	icsData, countToday, err := app.Calendar.Generate(app.Store.BirthdayPeople(), app.reminderTrigger())
	if err != nil {
		slog.Error(config.MsgRefreshFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleRefreshError, app.GetMsg(config.TKeyNotifError)))
		}
		app.updateTrayStatus(-1, -1)
		return
	}

	app.Server.Update(icsData)
	app.Planner.Refresh()
	app.updateTrayStatus(countToday, app.Followups.DueCount())

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// reminderTrigger builds the ISO 8601 VALARM trigger from the configured
// default reminder lead time.
func (app *KeepInTouchApp) reminderTrigger() string {
	days := app.Store.Settings().DefaultReminderDays
	if days <= 0 {
		return config.ICSReminderTrigger
	}
	return fmt.Sprintf("-P%dD", days)
}

// updateTrayStatus updates the top menu items to show how many birthdays are
// today and how many follow-ups are due.
func (app *KeepInTouchApp) updateTrayStatus(bdayCount, dueCount int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	if bdayCount < 0 {
		label = config.FallbackTrayError
	} else if bdayCount == 0 {
		label = app.GetMsg(config.TKeyTrayStatusZero)
		if label == config.TKeyTrayStatusZero {
			label = fmt.Sprintf(config.FallbackTrayDefault, 0)
		}
	} else {
		label = app.pluralMsg(config.TKeyTrayStatus, bdayCount)
		if label == "" {
			label = fmt.Sprintf(config.FallbackTrayDefault, bdayCount)
		}
	}
	app.TrayStatusItem.Label = label

	if dueCount >= 0 && app.TrayDueItem != nil {
		due := app.pluralMsg(config.TKeyTrayFollowups, dueCount)
		if due == "" {
			due = fmt.Sprintf(config.FallbackTrayDue, dueCount)
		}
		app.TrayDueItem.Label = due
	}

	app.Menu.Refresh()
}

// pluralMsg localizes a count-carrying message, returning "" when the
// localizer cannot produce it.
func (app *KeepInTouchApp) pluralMsg(key string, count int) string {
	if app.Localizer == nil {
		return ""
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]interface{}{"Count": count},
		PluralCount:  count,
	})
	if err != nil {
		return ""
	}
	return msg
}

// loadImportConfig assembles the importer configuration from UI preferences
// and Keyring.
func (app *KeepInTouchApp) loadImportConfig() engine.ImportConfig {
	cfg := engine.ImportConfig{
		Mode:      app.Preferences.String(config.PrefSourceMode),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// buildSummaryFormatter returns a closure that localizes the event summary.
func (app *KeepInTouchApp) buildSummaryFormatter() func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		var msg string
		var err error

		if app.Localizer != nil {
			if yearKnown {
				// Special Case: Age 0 means "Birth"
				if age == 0 {
					msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
						MessageID:    config.TKeyEvtSummaryBirth,
						TemplateData: map[string]interface{}{"Name": name},
					})
				} else {
					msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
						MessageID:    config.TKeyEvtSummaryAge,
						TemplateData: map[string]interface{}{"Name": name, "Age": age},
					})
				}
			} else {
				msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
					MessageID:    config.TKeyEvtSummary,
					TemplateData: map[string]interface{}{"Name": name},
				})
			}
		} else {
			err = fmt.Errorf(config.ErrLocNotInit)
		}

		if err != nil || msg == "" {
			if yearKnown {
				if age == 0 {
					return fmt.Sprintf(config.FallbackSummaryBirth, name)
				}
				return fmt.Sprintf(config.FallbackSummaryAge, name, age)
			}
			return fmt.Sprintf(config.FallbackSummary, name)
		}
		return msg
	}
}

// buildReminderFormatter localizes birthday reminder bodies by lead offset.
func (app *KeepInTouchApp) buildReminderFormatter() func(kind string) string {
	return func(kind string) string {
		var key, fallback string
		switch kind {
		case config.KindTwoWeeks:
			key, fallback = config.TKeyBdayTwoWeeks, config.FallbackBdayTwoWeeks
		case config.KindOneWeek:
			key, fallback = config.TKeyBdayOneWeek, config.FallbackBdayOneWeek
		default:
			key, fallback = config.TKeyBdayTomorrow, config.FallbackBdayTomorrow
		}
		if msg := app.GetMsg(key); msg != key {
			return msg
		}
		return fallback
	}
}

// buildStatusFormatter localizes follow-up status labels with pluralized
// day counts.
func (app *KeepInTouchApp) buildStatusFormatter() func(key string, days int) string {
	return func(key string, days int) string {
		if app.Localizer == nil {
			return ""
		}
		msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    key,
			TemplateData: map[string]interface{}{"Days": days},
			PluralCount:  days,
		})
		if err != nil {
			return ""
		}
		return msg
	}
}

// buildFollowupBodyFormatter localizes follow-up notification bodies.
func (app *KeepInTouchApp) buildFollowupBodyFormatter() func(name, company string) string {
	return func(name, company string) string {
		if app.Localizer == nil {
			return ""
		}
		var msg string
		var err error
		if company != "" {
			msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyFollowupBodyOrg,
				TemplateData: map[string]interface{}{"Name": name, "Company": company},
			})
		} else {
			msg, err = app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyFollowupBody,
				TemplateData: map[string]interface{}{"Name": name},
			})
		}
		if err != nil {
			return ""
		}
		return msg
	}
}
