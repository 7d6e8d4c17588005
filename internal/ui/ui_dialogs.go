package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
)

// entryDialog is one open add or edit dialog.
// It owns its date selection; nothing outlives the dialog except the friend it confirms.
type entryDialog struct {
	app  *FriendsApp
	kind string // config.DialogAdd or config.DialogEdit

	selection *engine.Selection

	nameEntry  *widget.Entry
	dateButton *widget.Button
	notice     *widget.Label
	confirmBtn *widget.Button
	cancelBtn  *widget.Button
	dlg        *dialog.CustomDialog

	// onConfirm applies the validated friend to the registry.
	onConfirm func(engine.Friend)
}

// ShowAddFriendDialog opens an empty entry dialog that appends on confirm.
func (app *FriendsApp) ShowAddFriendDialog() *entryDialog {
	d := app.newEntryDialog(config.DialogAdd, config.TKeyDlgAddTitle, config.TKeyBtnAdd, "", engine.NewSelection())
	d.onConfirm = func(f engine.Friend) {
		app.AddFriend(f)
		app.notify(app.GetMsg(config.TKeyNoticeAdded))
	}
	d.dlg.Show()
	return d
}

// ShowEditFriendDialog opens an entry dialog prefilled with the friend at index.
// It returns nil if the index is stale.
func (app *FriendsApp) ShowEditFriendDialog(index int) *entryDialog {
	f, err := app.Registry.At(index)
	if err != nil {
		app.logRejected(err, index)
		return nil
	}

	d := app.newEntryDialog(config.DialogEdit, config.TKeyDlgEditTitle, config.TKeyBtnSave, f.Name, engine.SelectionFromBirthday(f.Birthday))
	d.onConfirm = func(updated engine.Friend) {
		if app.UpdateFriend(index, updated) {
			app.notify(app.GetMsg(config.TKeyNoticeUpdated))
		}
	}
	d.dlg.Show()
	return d
}

func (app *FriendsApp) newEntryDialog(kind, titleKey, confirmKey, name string, sel *engine.Selection) *entryDialog {
	d := &entryDialog{app: app, kind: kind, selection: sel}

	d.nameEntry = widget.NewEntry()
	d.nameEntry.PlaceHolder = app.GetMsg(config.TKeyHintName)
	d.nameEntry.SetText(name)
	d.nameEntry.OnSubmitted = func(string) { d.confirm() }

	dateLabel := app.GetMsg(config.TKeyBtnSelectDate)
	if sel.IsSet() {
		dateLabel = sel.Birthday()
	}
	d.dateButton = widget.NewButtonWithIcon(dateLabel, theme.CalendarIcon(), func() { d.showDatePicker() })

	d.notice = widget.NewLabel("")
	d.notice.Importance = widget.DangerImportance
	d.notice.Hide()

	d.confirmBtn = widget.NewButton(app.GetMsg(confirmKey), func() { d.confirm() })
	d.confirmBtn.Importance = widget.HighImportance
	d.cancelBtn = widget.NewButton(app.GetMsg(config.TKeyBtnCancel), d.cancel)

	content := container.NewVBox(d.nameEntry, d.dateButton, d.notice)
	d.dlg = dialog.NewCustomWithoutButtons(app.GetMsg(titleKey), content, app.MainWindow)
	d.dlg.SetButtons([]fyne.CanvasObject{d.cancelBtn, d.confirmBtn})
	d.dlg.Resize(fyne.NewSize(config.EntryDialogWidth, content.MinSize().Height))
	return d
}

// confirm validates the inputs. On failure the dialog stays open with a notice
// and the registry is untouched.
func (d *entryDialog) confirm() bool {
	f, err := engine.ValidateEntry(d.nameEntry.Text, d.selection)
	if err != nil {
		slog.Info(config.MsgEntryRejected,
			config.LogKeyComponent, config.CompUIDialog,
			config.LogKeyDialog, d.kind,
			config.LogKeyError, err)
		d.showNotice(err)
		return false
	}

	d.dlg.Hide()
	d.onConfirm(f)
	return true
}

// cancel closes the dialog and drops its selection.
func (d *entryDialog) cancel() {
	slog.Debug(config.MsgDialogCancelled,
		config.LogKeyComponent, config.CompUIDialog,
		config.LogKeyDialog, d.kind)
	d.dlg.Hide()
}

func (d *entryDialog) showNotice(err error) {
	key := config.TKeyErrMissingName
	if errors.Is(err, engine.ErrMissingBirthday) {
		key = config.TKeyErrMissingDate
	}
	d.notice.SetText(d.app.GetMsg(key))
	d.notice.Show()
}

// pickDate stores a date confirmed in the picker and shows it on the date button.
func (d *entryDialog) pickDate(t time.Time) {
	d.selection.Set(t)
	d.dateButton.SetText(d.selection.Birthday())
	d.notice.Hide()
	slog.Debug(config.MsgDateSelected,
		config.LogKeyComponent, config.CompUIDialog,
		config.LogKeyDialog, d.kind,
		config.LogKeyBirthday, d.selection.Birthday())
}

// datePicker is one open date picker. It belongs to an entry dialog and only
// writes into that dialog's selection, and only on OK.
type datePicker struct {
	owner *entryDialog

	picked   time.Time
	havePick bool
	shown    time.Time // first day of the month the calendar displays

	holder     *fyne.Container
	yearSelect *widget.Select
	dlg        *dialog.ConfirmDialog
}

// showDatePicker opens a calendar on the current selection (or today).
func (d *entryDialog) showDatePicker() *datePicker {
	start := d.selection.PickerStart(d.app.Clock)
	p := &datePicker{
		owner: d,
		shown: time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.Local),
	}
	p.holder = container.NewStack(widget.NewCalendar(start, p.selectDay))

	p.yearSelect = widget.NewSelect(yearOptions(d.app.Clock.Now().Year()), nil)
	p.yearSelect.SetSelected(strconv.Itoa(start.Year()))
	p.yearSelect.OnChanged = func(s string) {
		if year, err := strconv.Atoi(s); err == nil {
			p.changeYear(year)
		}
	}

	top := container.NewBorder(nil, nil, widget.NewLabel(d.app.GetMsg(config.TKeyLblYear)), nil, p.yearSelect)
	p.dlg = dialog.NewCustomConfirm(
		d.app.GetMsg(config.TKeyDlgDateTitle),
		d.app.GetMsg(config.TKeyBtnOK),
		d.app.GetMsg(config.TKeyBtnCancel),
		container.NewBorder(top, nil, nil, nil, p.holder),
		p.finish,
		d.app.MainWindow,
	)
	p.dlg.Show()
	return p
}

func (p *datePicker) selectDay(t time.Time) {
	p.picked, p.havePick = t, true
	p.shown = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}

// changeYear redraws the calendar for year, keeping the shown month.
// A tapped day moves along with it; a day the new year lacks (29 February)
// is dropped so OK cannot commit a date that was never shown.
func (p *datePicker) changeYear(year int) {
	if p.havePick {
		moved := time.Date(year, p.picked.Month(), p.picked.Day(), 0, 0, 0, 0, p.picked.Location())
		if moved.Month() == p.picked.Month() {
			p.picked = moved
		} else {
			p.havePick = false
		}
	}
	p.shown = time.Date(year, p.shown.Month(), 1, 0, 0, 0, 0, time.Local)

	calStart := p.shown
	if p.havePick {
		calStart = p.picked
	}
	p.holder.Objects = []fyne.CanvasObject{widget.NewCalendar(calStart, p.selectDay)}
	p.holder.Refresh()
}

func (p *datePicker) finish(ok bool) {
	if ok && p.havePick {
		p.owner.pickDate(p.picked)
	}
}

// yearOptions lists years from newest to config.PickerMinYear.
func yearOptions(newest int) []string {
	if newest < config.PickerMinYear {
		newest = config.PickerMinYear
	}
	years := make([]string, 0, newest-config.PickerMinYear+1)
	for y := newest; y >= config.PickerMinYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// actionDialog asks what to do with the tapped friend.
type actionDialog struct {
	index     int
	editBtn   *widget.Button
	deleteBtn *widget.Button
	cancelBtn *widget.Button
	dlg       *dialog.CustomDialog
}

// ShowActionDialog offers Edit, Delete and Cancel for the friend at index.
func (app *FriendsApp) ShowActionDialog(index int) *actionDialog {
	f, err := app.Registry.At(index)
	if err != nil {
		app.logRejected(err, index)
		return nil
	}

	d := &actionDialog{index: index}

	d.editBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnEdit), theme.DocumentCreateIcon(), func() {
		d.dlg.Hide()
		app.ShowEditFriendDialog(index)
	})
	d.deleteBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnDelete), theme.DeleteIcon(), func() {
		d.dlg.Hide()
		if app.RemoveFriend(index) {
			app.notify(app.GetMsg(config.TKeyNoticeRemoved))
		}
	})
	d.deleteBtn.Importance = widget.DangerImportance
	d.cancelBtn = widget.NewButton(app.GetMsg(config.TKeyBtnCancel), func() {
		slog.Debug(config.MsgDialogCancelled,
			config.LogKeyComponent, config.CompUIDialog,
			config.LogKeyDialog, config.DialogAction)
		d.dlg.Hide()
	})

	d.dlg = dialog.NewCustomWithoutButtons(app.GetMsg(config.TKeyDlgActionTitle), widget.NewLabel(f.String()), app.MainWindow)
	d.dlg.SetButtons([]fyne.CanvasObject{d.cancelBtn, d.deleteBtn, d.editBtn})
	d.dlg.Show()
	return d
}
