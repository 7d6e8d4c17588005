package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// Validation errors reported to the dialog that produced the entry.
var (
	ErrMissingName     = errors.New(config.ErrMissingName)
	ErrMissingBirthday = errors.New(config.ErrMissingBirthday)
)

// FormatBirthday renders a calendar date as dd.mm.yyyy.
func FormatBirthday(t time.Time) string {
	return t.Format(config.BirthdayLayout)
}

// ParseBirthday reads a dd.mm.yyyy string back into a local calendar date.
// Strings the calendar rejects (31.02.2000) return an error.
func ParseBirthday(s string) (time.Time, error) {
	t, err := time.ParseInLocation(config.BirthdayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q: %w", config.ErrBirthdayParse, s, err)
	}
	return t, nil
}

// Selection holds the date chosen in one open dialog until the dialog is confirmed.
// Each dialog owns its own Selection; the zero value is unset.
type Selection struct {
	date   time.Time
	hasCal bool   // date holds a real calendar value
	text   string // dd.mm.yyyy as it will be stored
}

// NewSelection returns an unset selection, as used by the add dialog.
func NewSelection() *Selection {
	return &Selection{}
}

// SelectionFromBirthday seeds a selection with a stored birthday, as used by the edit dialog.
// The string stays selected even if it is not a real calendar date; in that
// case Date reports false and the picker opens on today.
func SelectionFromBirthday(birthday string) *Selection {
	s := &Selection{text: birthday}
	if t, err := ParseBirthday(birthday); err == nil {
		s.date = t
		s.hasCal = true
	}
	return s
}

// Set records a date confirmed in the picker.
func (s *Selection) Set(t time.Time) {
	s.date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	s.hasCal = true
	s.text = FormatBirthday(s.date)
}

// IsSet reports whether a date has been chosen.
func (s *Selection) IsSet() bool {
	return s != nil && s.text != ""
}

// Date returns the selected calendar date, if it is one.
func (s *Selection) Date() (time.Time, bool) {
	if s == nil || !s.hasCal {
		return time.Time{}, false
	}
	return s.date, true
}

// Birthday returns the dd.mm.yyyy text, or "" when unset.
func (s *Selection) Birthday() string {
	if s == nil {
		return ""
	}
	return s.text
}

// PickerStart is the date the picker should open on.
func (s *Selection) PickerStart(clock Clock) time.Time {
	if t, ok := s.Date(); ok {
		return t
	}
	return nowFrom(clock)
}

// ValidateEntry checks a dialog's inputs before add or update.
// The name is trimmed; an empty name wins over a missing date.
func ValidateEntry(name string, sel *Selection) (Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Friend{}, ErrMissingName
	}
	if !sel.IsSet() {
		return Friend{}, ErrMissingBirthday
	}
	return Friend{Name: name, Birthday: sel.Birthday()}, nil
}
