package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry accepts typed digits only, up to MaxDigits of them.
// Text set programmatically or pasted is not filtered; pair it with a Validator.
type NumericalEntry struct {
	widget.Entry

	// MaxDigits stops typing once reached. Zero means no limit.
	MaxDigits int
}

func NewNumericalEntry(maxDigits int) *NumericalEntry {
	e := &NumericalEntry{MaxDigits: maxDigits}
	e.ExtendBaseWidget(e)
	return e
}

func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if e.MaxDigits > 0 && len(e.Text) >= e.MaxDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard asks mobile drivers for the number pad.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
