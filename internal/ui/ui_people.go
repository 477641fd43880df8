package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/engine"
)

// ShowPeopleWindow displays upcoming birthdays and due follow-ups in one
// tabbed window. It implements a singleton pattern: if the window is already
// open, it requests focus.
func (app *KeepInTouchApp) ShowPeopleWindow() {
	if app.peopleWindow != nil {
		app.peopleWindow.RequestFocus()
		return
	}

	title := app.GetMsg(config.TKeyWinPeople)
	app.peopleWindow = app.App.NewWindow(title)
	app.peopleWindow.Resize(fyne.NewSize(config.PeopleWinWidth, config.PeopleWinHeight))

	birthdays := app.Birthdays.UpcomingWithInfo(config.UpcomingNoHorizon)
	followups := app.Followups.DueAndOverdue()
	engine.SortByPriority(followups)

	slog.Info(config.MsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(birthdays),
		config.LogKeyDueCount, len(followups))

	tabs := container.NewAppTabs(
		container.NewTabItem(app.GetMsg(config.TKeyTabBirthdays), app.buildBirthdayTable(birthdays)),
		container.NewTabItem(app.GetMsg(config.TKeyTabFollowups), app.buildFollowupTable(followups)),
	)

	app.peopleWindow.SetContent(tabs)
	app.peopleWindow.SetOnClosed(func() {
		app.peopleWindow = nil
	})
	app.peopleWindow.Show()
}

// buildBirthdayTable constructs the sortable birthday list. Sorting state is
// window-local; the default order mirrors the engine output (soonest first).
func (app *KeepInTouchApp) buildBirthdayTable(rows []engine.BirthdayView) fyne.CanvasObject {
	currentSortCol := config.ColIDDate
	sortAsc := true

	var refreshTable func()

	performSort := func() {
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			var less bool
			switch currentSortCol {
			case config.ColIDName:
				less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
			case config.ColIDAge:
				// Unknown birth years sink to the bottom in ascending order.
				if !a.AgeKnown && b.AgeKnown {
					less = false
				} else if a.AgeKnown && !b.AgeKnown {
					less = true
				} else {
					less = a.Age < b.Age
				}
			default: // config.ColIDDate
				if a.DaysUntil == b.DaysUntil {
					less = a.Name < b.Name
				} else {
					less = a.DaysUntil < b.DaysUntil
				}
			}
			if !sortAsc {
				return !less
			}
			return less
		})

		slog.Debug(config.MsgTableSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
	}

	performSort()

	table := widget.NewTable(
		func() (int, int) {
			return len(rows), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(rows) {
				return
			}
			v := rows[id.Row]

			switch id.Col {
			case config.ColIDName:
				label.SetText(fmt.Sprintf("%s %s", v.Emoji, v.Name))
			case config.ColIDDate:
				format := app.GetMsg(config.TKeyFormatDate)
				if format == config.TKeyFormatDate {
					format = config.DateFormatDisplay
				}
				label.SetText(v.NextOccurrence.Format(format))
			case config.ColIDAge:
				if !v.AgeKnown {
					label.SetText(config.AgeUnknown)
					return
				}
				// Show the age the person turns on the next occurrence. When
				// the birthday is today the current age already reflects it.
				turning := v.Age + 1
				if v.IsToday {
					turning = v.Age
				}
				if turning == 0 {
					birthText := app.GetMsg(config.TKeyAgeBirth)
					if birthText == config.TKeyAgeBirth {
						birthText = "Birth"
					}
					label.SetText(birthText)
				} else {
					label.SetText(fmt.Sprintf("%d → %d", turning-1, turning))
				}
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		var titleKey string
		switch id.Col {
		case config.ColIDName:
			titleKey = config.TKeyColName
		case config.ColIDDate:
			titleKey = config.TKeyColDate
		case config.ColIDAge:
			titleKey = config.TKeyColAge
		}

		text := app.GetMsg(titleKey)
		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			refreshTable()
		}
	}

	table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	table.SetColumnWidth(config.ColIDAge, config.ColWidthAge)

	refreshTable = func() {
		performSort()
		table.Refresh()
	}

	return container.NewBorder(nil, nil, nil, nil, table)
}

// buildFollowupTable constructs the due/overdue follow-up list, highest
// priority first. The status column carries the localized urgency label.
func (app *KeepInTouchApp) buildFollowupTable(rows []engine.FollowupView) fyne.CanvasObject {
	table := widget.NewTable(
		func() (int, int) {
			return len(rows), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(rows) {
				return
			}
			v := rows[id.Row]

			switch id.Col {
			case config.ColIDName:
				label.SetText(v.Name)
			case config.ColIDStatus:
				status := app.Followups.StatusLabel(v)
				label.SetText(fmt.Sprintf("%s %s", status.Emoji, status.Text))
			case config.ColIDDue:
				format := app.GetMsg(config.TKeyFormatDate)
				if format == config.TKeyFormatDate {
					format = config.DateFormatDisplay
				}
				label.SetText(v.NextDue.Format(format))
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabel(config.TablePlaceholder)
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		label := o.(*widget.Label)
		switch id.Col {
		case config.ColIDName:
			label.SetText(app.GetMsg(config.TKeyColName))
		case config.ColIDStatus:
			label.SetText(app.GetMsg(config.TKeyColStatus))
		case config.ColIDDue:
			label.SetText(app.GetMsg(config.TKeyColDue))
		}
	}

	table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	table.SetColumnWidth(config.ColIDStatus, config.ColWidthStatus)
	table.SetColumnWidth(config.ColIDDue, config.ColWidthDate)

	return container.NewBorder(nil, nil, nil, nil, table)
}
