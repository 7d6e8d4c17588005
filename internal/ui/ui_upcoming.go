package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
)

// sortEntries orders the upcoming view by the given column.
// Ties on the date column fall back to the name.
func sortEntries(entries []engine.BirthdayEntry, col int, asc bool) {
	less := func(a, b engine.BirthdayEntry) bool {
		switch col {
		case config.ColIDName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case config.ColIDAge:
			return a.AgeNext < b.AgeNext
		default: // config.ColIDDate
			if a.NextOccurrence.Equal(b.NextOccurrence) {
				return a.Name < b.Name
			}
			return a.NextOccurrence.Before(b.NextOccurrence)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return less(entries[i], entries[j])
		}
		return less(entries[j], entries[i])
	})
}

// formatAge renders the age transition, e.g. "25 → 26".
func (app *FriendsApp) formatAge(e engine.BirthdayEntry) string {
	if e.AgeNext <= 0 {
		return config.AgeBirth
	}
	prev := e.AgeNext - 1
	if prev == 0 {
		birth := app.GetMsg(config.TKeyAgeBirth)
		if birth == config.TKeyAgeBirth {
			birth = config.AgeBirth
		}
		return fmt.Sprintf("%s → %d", birth, e.AgeNext)
	}
	return fmt.Sprintf("%d → %d", prev, e.AgeNext)
}

// ShowUpcomingWindow lists every friend by next birthday.
// Only one instance is open at a time; it follows registry changes while open.
func (app *FriendsApp) ShowUpcomingWindow() {
	if app.upcomingWindow != nil {
		app.upcomingWindow.RequestFocus()
		return
	}

	app.upcomingWindow = app.App.NewWindow(app.GetMsg(config.TKeyWinUpcoming))
	app.upcomingWindow.Resize(fyne.NewSize(config.UpcomingWinWidth, config.UpcomingWinHeight))

	currentSortCol := config.ColIDDate
	sortAsc := true
	var entries []engine.BirthdayEntry

	load := func() {
		entries = engine.Upcoming(app.Clock.Now(), app.Registry.List())
		sortEntries(entries, currentSortCol, sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
	}
	load()

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(entries))

	table := widget.NewTable(
		func() (int, int) {
			return len(entries), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(entries) {
				return
			}
			e := entries[id.Row]

			switch id.Col {
			case config.ColIDName:
				label.SetText(e.Name)
			case config.ColIDDate:
				format := app.GetMsg(config.TKeyFormatDate)
				if format == config.TKeyFormatDate {
					format = config.BirthdayLayout
				}
				label.SetText(e.NextOccurrence.Format(format))
			case config.ColIDAge:
				label.SetText(app.formatAge(e))
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton(config.TablePlaceholder, func() {})
	}

	refreshTable := func() {
		load()
		table.Refresh()
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

	app.refreshUpcoming = refreshTable

	app.upcomingWindow.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	app.upcomingWindow.SetOnClosed(func() {
		app.upcomingWindow = nil
		app.refreshUpcoming = nil
	})
	app.upcomingWindow.Show()
}
