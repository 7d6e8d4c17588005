package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
)

func TestAddDialog_AppendsFriend(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowAddFriendDialog()
	require.NotNil(t, d)
	assert.Equal(t, "Select date of birth", d.dateButton.Text)

	test.Type(d.nameEntry, "Anna")
	d.pickDate(time.Date(1995, 5, 10, 0, 0, 0, 0, time.Local))
	assert.Equal(t, "10.05.1995", d.dateButton.Text)

	test.Tap(d.confirmBtn)

	require.Equal(t, 4, app.Registry.Len())
	f, err := app.Registry.At(3)
	require.NoError(t, err)
	assert.Equal(t, engine.Friend{Name: "Anna", Birthday: "10.05.1995"}, f)
	assert.Equal(t, "Friend added", app.statusLabel.Text)
}

func TestAddDialog_TrimsName(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowAddFriendDialog()
	d.nameEntry.SetText("  Anna  ")
	d.pickDate(time.Date(1995, 5, 10, 0, 0, 0, 0, time.Local))
	require.True(t, d.confirm())

	f, _ := app.Registry.At(3)
	assert.Equal(t, "Anna", f.Name)
}

func TestAddDialog_RejectsIncompleteEntry(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		pick       bool
		wantNotice string
	}{
		{"Empty name", "", true, "Please enter a name"},
		{"Whitespace name", "   ", true, "Please enter a name"},
		{"No date", "Anna", false, "Please select date of birth"},
		{"Nothing at all", "", false, "Please enter a name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := setupTestApp(t)
			calls := 0
			app.OnRender = func() { calls++ }

			d := app.ShowAddFriendDialog()
			d.nameEntry.SetText(tt.input)
			if tt.pick {
				d.pickDate(time.Date(1995, 5, 10, 0, 0, 0, 0, time.Local))
			}

			assert.False(t, d.confirm())
			assert.True(t, d.notice.Visible())
			assert.Equal(t, tt.wantNotice, d.notice.Text)

			assert.Equal(t, 0, calls)
			assert.Equal(t, []string{"Ivan", "Petr", "Sergey"}, names(app.Registry))
		})
	}
}

func TestAddDialog_RetryAfterNotice(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowAddFriendDialog()
	d.nameEntry.SetText("Anna")
	require.False(t, d.confirm())
	require.True(t, d.notice.Visible())

	d.pickDate(time.Date(1995, 5, 10, 0, 0, 0, 0, time.Local))
	assert.False(t, d.notice.Visible(), "Picking a date clears the notice")
	assert.True(t, d.confirm())
	assert.Equal(t, 4, app.Registry.Len())
}

// TestDialogs_SelectionIsPerDialog checks a cancelled dialog's date never reaches the next one.
func TestDialogs_SelectionIsPerDialog(t *testing.T) {
	app, _, _ := setupTestApp(t)

	first := app.ShowAddFriendDialog()
	first.nameEntry.SetText("Anna")
	first.pickDate(time.Date(1995, 5, 10, 0, 0, 0, 0, time.Local))
	test.Tap(first.cancelBtn)

	second := app.ShowAddFriendDialog()
	assert.False(t, second.selection.IsSet())
	assert.Equal(t, "Select date of birth", second.dateButton.Text)

	second.nameEntry.SetText("Boris")
	assert.False(t, second.confirm())
	assert.Equal(t, "Please select date of birth", second.notice.Text)
	assert.Equal(t, 3, app.Registry.Len())

	edit := app.ShowEditFriendDialog(1)
	assert.Equal(t, "02.02.2000", edit.selection.Birthday())
	edit.pickDate(time.Date(2001, 7, 7, 0, 0, 0, 0, time.Local))
	assert.False(t, second.selection.IsSet())
}

func TestEditDialog_PrefillsAndUpdates(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowEditFriendDialog(1)
	require.NotNil(t, d)
	assert.Equal(t, "Petr", d.nameEntry.Text)
	assert.Equal(t, "02.02.2000", d.dateButton.Text)
	assert.Equal(t, "Save", d.confirmBtn.Text)

	d.nameEntry.SetText("Pyotr")
	test.Tap(d.confirmBtn)

	assert.Equal(t, []string{"Ivan", "Pyotr", "Sergey"}, names(app.Registry))
	f, _ := app.Registry.At(1)
	assert.Equal(t, "02.02.2000", f.Birthday, "An untouched date is kept")
	assert.Equal(t, "Friend updated", app.statusLabel.Text)
}

func TestEditDialog_NewDate(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowEditFriendDialog(2)
	d.pickDate(time.Date(1999, 12, 31, 0, 0, 0, 0, time.Local))
	require.True(t, d.confirm())

	f, _ := app.Registry.At(2)
	assert.Equal(t, engine.Friend{Name: "Sergey", Birthday: "31.12.1999"}, f)
}

func TestEditDialog_EmptyNameRejected(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowEditFriendDialog(0)
	d.nameEntry.SetText("")
	assert.False(t, d.confirm())

	f, _ := app.Registry.At(0)
	assert.Equal(t, "Ivan", f.Name)
}

// TestEditDialog_IndexGoneBeforeConfirm removes the edited friend while the dialog is open.
func TestEditDialog_IndexGoneBeforeConfirm(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowEditFriendDialog(2)
	require.True(t, app.RemoveFriend(2))

	d.nameEntry.SetText("Ghost")
	d.confirm()
	assert.Equal(t, []string{"Ivan", "Petr"}, names(app.Registry))
}

func TestActionDialog_Delete(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowActionDialog(0)
	require.NotNil(t, d)
	test.Tap(d.deleteBtn)

	assert.Equal(t, []string{"Petr", "Sergey"}, names(app.Registry))
	assert.Equal(t, "Removing a friend", app.statusLabel.Text)
}

func TestActionDialog_Cancel(t *testing.T) {
	app, _, _ := setupTestApp(t)
	calls := 0
	app.OnRender = func() { calls++ }

	d := app.ShowActionDialog(1)
	test.Tap(d.cancelBtn)

	assert.Equal(t, 0, calls)
	assert.Equal(t, []string{"Ivan", "Petr", "Sergey"}, names(app.Registry))
}

func TestActionDialog_Labels(t *testing.T) {
	app, _, _ := setupTestApp(t)

	d := app.ShowActionDialog(1)
	assert.Equal(t, "Edit", d.editBtn.Text)
	assert.Equal(t, "Delete", d.deleteBtn.Text)
	assert.Equal(t, "Cancel", d.cancelBtn.Text)

	// Edit only opens the next dialog.
	test.Tap(d.editBtn)
	assert.Equal(t, 3, app.Registry.Len())
}

func TestYearOptions(t *testing.T) {
	years := yearOptions(2025)
	require.NotEmpty(t, years)
	assert.Equal(t, "2025", years[0])
	assert.Equal(t, "1900", years[len(years)-1])
	assert.Len(t, years, 2025-config.PickerMinYear+1)

	assert.Equal(t, []string{"1900"}, yearOptions(1850))
}

// findButton walks a rendered tree for the first visible button labelled text.
func findButton(o fyne.CanvasObject, text string) *widget.Button {
	if o == nil || !o.Visible() {
		return nil
	}
	var children []fyne.CanvasObject
	switch v := o.(type) {
	case *widget.Button:
		if v.Text == text {
			return v
		}
		return nil
	case *fyne.Container:
		children = v.Objects
	case fyne.Widget:
		children = test.WidgetRenderer(v).Objects()
	}
	for _, c := range children {
		if b := findButton(c, text); b != nil {
			return b
		}
	}
	return nil
}

func tapDay(t *testing.T, p *datePicker, day string) {
	t.Helper()
	b := findButton(p.holder, day)
	require.NotNil(t, b, "day %s not on the calendar", day)
	test.Tap(b)
}

func tapPickerButton(t *testing.T, app *FriendsApp, key string) {
	t.Helper()
	top := app.MainWindow.Canvas().Overlays().Top()
	require.NotNil(t, top)
	b := findButton(top, app.GetMsg(key))
	require.NotNil(t, b, "no %q button on the picker", app.GetMsg(key))
	test.Tap(b)
}

func TestDatePicker_OKCommitsTappedDay(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()

	p := d.showDatePicker()
	assert.Equal(t, "2025", p.yearSelect.Selected, "opens on today")

	tapDay(t, p, "15")
	assert.False(t, d.selection.IsSet(), "tapping a day alone commits nothing")

	tapPickerButton(t, app, config.TKeyBtnOK)
	assert.Equal(t, "15.01.2025", d.selection.Birthday())
	assert.Equal(t, "15.01.2025", d.dateButton.Text)
}

func TestDatePicker_CancelKeepsSelection(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()
	d.pickDate(time.Date(2000, time.March, 10, 0, 0, 0, 0, time.Local))

	p := d.showDatePicker()
	assert.Equal(t, "2000", p.yearSelect.Selected, "opens on the selection")
	tapDay(t, p, "20")
	tapPickerButton(t, app, config.TKeyBtnCancel)

	assert.Equal(t, "10.03.2000", d.selection.Birthday())
	assert.Equal(t, "10.03.2000", d.dateButton.Text)
}

func TestDatePicker_OKWithoutTapKeepsSelection(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()

	d.showDatePicker()
	tapPickerButton(t, app, config.TKeyBtnOK)

	assert.False(t, d.selection.IsSet())
	assert.Equal(t, "Select date of birth", d.dateButton.Text)
}

func TestDatePicker_YearChangeCarriesPick(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()

	p := d.showDatePicker()
	tapDay(t, p, "15")
	p.yearSelect.SetSelected("1990")

	assert.Equal(t, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.Local), p.shown)
	_, ok := p.holder.Objects[0].(*widget.Calendar)
	assert.True(t, ok)

	tapPickerButton(t, app, config.TKeyBtnOK)
	assert.Equal(t, "15.01.1990", d.selection.Birthday())
}

func TestDatePicker_YearChangeKeepsPickedMonth(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()
	d.pickDate(time.Date(2000, time.March, 10, 0, 0, 0, 0, time.Local))

	p := d.showDatePicker()
	tapDay(t, p, "5")
	p.yearSelect.SetSelected("1985")
	assert.Equal(t, time.March, p.shown.Month())

	// A day tapped after the year change wins.
	tapDay(t, p, "7")
	tapPickerButton(t, app, config.TKeyBtnOK)
	assert.Equal(t, "07.03.1985", d.selection.Birthday())
}

func TestDatePicker_LeapDayDroppedInCommonYear(t *testing.T) {
	app, _, _ := setupTestApp(t)
	d := app.ShowAddFriendDialog()
	d.pickDate(time.Date(2000, time.February, 10, 0, 0, 0, 0, time.Local))

	p := d.showDatePicker()
	tapDay(t, p, "29")
	p.yearSelect.SetSelected("2001")

	assert.False(t, p.havePick)
	assert.Equal(t, time.Date(2001, time.February, 1, 0, 0, 0, 0, time.Local), p.shown)

	tapPickerButton(t, app, config.TKeyBtnOK)
	assert.Equal(t, "10.02.2000", d.selection.Birthday(), "nothing new was picked")
}

func TestDatePicker_BelongsToItsDialog(t *testing.T) {
	app, _, _ := setupTestApp(t)
	first := app.ShowAddFriendDialog()
	second := app.ShowAddFriendDialog()

	p := second.showDatePicker()
	tapDay(t, p, "3")
	tapPickerButton(t, app, config.TKeyBtnOK)

	assert.Equal(t, "03.01.2025", second.selection.Birthday())
	assert.False(t, first.selection.IsSet())
}
