package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// BirthdayEntry is a friend projected onto the calendar for the upcoming view.
type BirthdayEntry struct {
	// Index is the friend's position in the registry at projection time.
	Index int

	Name string

	// DateOfBirth is the parsed Friend.Birthday.
	DateOfBirth time.Time

	// NextOccurrence is the birthday in the current or next year.
	// This is the primary sorting key for the "Upcoming Birthdays" view.
	NextOccurrence time.Time

	// AgeNext is the age the friend turns at NextOccurrence.
	AgeNext int
}

// Upcoming projects the friends onto the calendar relative to now.
// Friends whose birthday is not a real date are left out.
func Upcoming(now time.Time, friends []Friend) []BirthdayEntry {
	entries := make([]BirthdayEntry, 0, len(friends))
	for i, f := range friends {
		dob, err := ParseBirthday(f.Birthday)
		if err != nil {
			slog.Debug(config.MsgSkippedFriend,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyIndex, i,
				config.LogKeyBirthday, f.Birthday)
			continue
		}
		next, age := calculateNextOccurrence(now, dob)
		entries = append(entries, BirthdayEntry{
			Index:          i,
			Name:           f.Name,
			DateOfBirth:    dob,
			NextOccurrence: next,
			AgeNext:        age,
		})
	}
	return entries
}

// calculateNextOccurrence determines the next birthday date relative to 'now'.
func calculateNextOccurrence(now time.Time, birthDate time.Time) (time.Time, int) {
	currentYear := now.Year()
	loc := now.Location()

	// time.Date normalizes Feb 29 to March 1st when currentYear is not a leap year.
	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	return candidate, candidate.Year() - birthDate.Year()
}

// isToday reports whether the birthday falls on now's calendar day.
func isToday(now time.Time, birthDate time.Time) bool {
	_, m, d := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, now.Location()).Date()
	return m == now.Month() && d == now.Day()
}
