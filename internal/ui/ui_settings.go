package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/store"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	modeSelect    *widget.Select
	urlEntry      *widget.Entry
	userEntry     *widget.Entry
	passEntry     *widget.Entry
	pathEntry     *widget.Entry
	entryInterval *NumericalEntry
	entryPort     *NumericalEntry
	checkClients  *widget.Check
	checkNotif    *widget.Check
	entryRemDays  *NumericalEntry
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *KeepInTouchApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug(config.MsgOpenWin, config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenWin, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.Window = w

	sw := &settingsWidgets{}

	// refreshLayout triggers a window resize based on content visibility.
	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	// --- 1. Language ---
	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	// --- 2. Contact Source Section ---
	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeNone),
		app.GetMsg(config.TKeyModeCardDAV),
		app.GetMsg(config.TKeyModeLocal),
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefCardDAVURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	// Attempt to pre-fill password from secure storage
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))

	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)

	// --- 3. General Section (Interval & Port) ---
	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	// Port: Numerical only, but requires strict Validation (Range 1-65535).
	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}

	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	sw.checkClients = widget.NewCheck(app.GetMsg(config.TKeyLblClientsTab), nil)
	sw.checkClients.Checked = app.Preferences.BoolWithFallback(config.PrefShowClientsTab, true)

	generalForm := widget.NewForm(itemLang, itemInterval, itemPort)
	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "",
		container.NewVBox(generalForm, sw.checkClients))

	// --- 4. Notification Section ---
	notifCard := app.buildNotifCard(sw, onLayoutChange)

	// --- Actions ---
	saveAction := func() {
		// Only the Port field has a strict requirement that blocks saving if invalid.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw, w)
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerText := fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version)
	footerLabel := widget.NewLabel(footerText)
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		sourceCard,
		generalCard,
		notifCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })

	refreshLayout()
	w.Show()
}

// buildSourceCard constructs the contact source selection UI.
func (app *KeepInTouchApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	// Web Form
	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)

	itemUser := widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry)
	itemPass := widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry)

	webForm := widget.NewForm(itemURL, itemUser, itemPass)

	// Local Form
	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	// Dynamic visibility based on mode
	updateVis := func(mode string) {
		switch mode {
		case app.GetMsg(config.TKeyModeLocal):
			webForm.Hide()
			localForm.Show()
		case app.GetMsg(config.TKeyModeCardDAV):
			webForm.Show()
			localForm.Hide()
		default:
			webForm.Hide()
			localForm.Hide()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}
	sw.modeSelect.OnChanged = updateVis

	// Set initial state
	switch app.Preferences.String(config.PrefSourceMode) {
	case config.SourceModeLocal:
		sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeLocal))
	case config.SourceModeWeb:
		sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeCardDAV))
	default:
		sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeNone))
	}
	updateVis(sw.modeSelect.Selected)

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(sw.modeSelect, webForm, localForm))
}

// buildNotifCard constructs the notification settings UI.
func (app *KeepInTouchApp) buildNotifCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	sw.checkNotif = widget.NewCheck(app.GetMsg(config.TKeyLblNotifEnabled), nil)
	sw.checkNotif.Checked = app.Preferences.BoolWithFallback(config.PrefNotifEnabled, true)

	sw.entryRemDays = NewNumericalEntry()
	sw.entryRemDays.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefDefaultReminderDays, config.DefaultReminderDays)))

	lblDays := widget.NewLabel(app.GetMsg(config.TKeyLblDays))
	row := container.NewBorder(nil, nil,
		widget.NewLabel(app.GetMsg(config.TKeyLblReminderDays)), lblDays, sw.entryRemDays)

	sw.checkNotif.OnChanged = func(b bool) {
		if b {
			row.Show()
		} else {
			row.Hide()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	if sw.checkNotif.Checked {
		row.Show()
	} else {
		row.Hide()
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkNotif, row))
}

// saveSettings persists the data, pushes it into the record store, and
// triggers a refresh.
func (app *KeepInTouchApp) saveSettings(sw *settingsWidgets, w fyne.Window) {
	slog.Info(config.MsgSavePrefs, config.LogKeyComponent, config.CompUISet)

	// Helper to map UI strings back to config constants
	modeMap := map[string]string{
		app.GetMsg(config.TKeyModeCardDAV): config.SourceModeWeb,
		app.GetMsg(config.TKeyModeLocal):   config.SourceModeLocal,
	}

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	app.Preferences.SetString(config.PrefSourceMode, modeMap[sw.modeSelect.Selected])
	app.Preferences.SetString(config.PrefCardDAVURL, sw.urlEntry.Text)
	app.Preferences.SetString(config.PrefUsername, sw.userEntry.Text)
	app.Preferences.SetString(config.PrefLocalPath, sw.pathEntry.Text)

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error(config.MsgKeyringFail, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	// Interval: empty or 0 disables auto-refresh.
	intervalText := sw.entryInterval.Text
	if intervalText == "" || intervalText == "0" {
		app.Preferences.SetInt(config.PrefInterval, config.DisabledInterval)
	} else if i, err := strconv.Atoi(intervalText); err == nil {
		app.Preferences.SetInt(config.PrefInterval, i)
	}

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	app.Preferences.SetBool(config.PrefShowClientsTab, sw.checkClients.Checked)

	// Notifications: an empty reminder-days field forces them off, even if
	// the checkbox is checked.
	remDays := config.DefaultReminderDays
	if sw.entryRemDays.Text == "" {
		app.Preferences.SetBool(config.PrefNotifEnabled, false)
	} else {
		app.Preferences.SetBool(config.PrefNotifEnabled, sw.checkNotif.Checked)
		if v, err := strconv.Atoi(sw.entryRemDays.Text); err == nil {
			remDays = v
		}
	}
	app.Preferences.SetInt(config.PrefDefaultReminderDays, remDays)

	app.Store.UpdateSettings(store.Settings{
		ShowClientsTab:       sw.checkClients.Checked,
		NotificationsEnabled: app.Preferences.Bool(config.PrefNotifEnabled),
		DefaultReminderDays:  remDays,
	})

	// Trigger system-wide updates
	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	go app.performRefresh(true)

	w.Close()
}
