package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// uidNamespace scopes the name-based UUIDs of calendar events to this application.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(config.UIDNamespace))

// CalendarBuilder renders the friends list as an iCalendar feed.
type CalendarBuilder struct {
	Clock Clock

	// FormatSummary allows the UI to inject localized strings into the logic layer.
	FormatSummary func(name string, age int) string
}

// Build renders one all-day event per friend for the previous, current and next year.
// It returns the ICS data and the number of friends whose birthday is today.
func (b *CalendarBuilder) Build(ctx context.Context, friends []Friend) ([]byte, int, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar day; only the stamp is UTC.
	now := nowFrom(b.Clock)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ total, rendered, today int }{len(friends), 0, 0}

	for i, f := range friends {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		birthDate, err := ParseBirthday(f.Birthday)
		if err != nil {
			slog.Debug(config.MsgSkippedFriend,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyIndex, i,
				config.LogKeyBirthday, f.Birthday)
			continue
		}
		stats.rendered++

		if isToday(now, birthDate) {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, f.Name,
				config.LogKeyBirthday, f.Birthday)
		}

		for _, e := range b.createEvents(eventUID(i, f), f.Name, birthDate, now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// A VCALENDAR without children fails encoding; clients still expect a valid feed.
	if len(cal.Children) == 0 {
		b.logSuccess(stats, start)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	b.logSuccess(stats, start)
	return buf.Bytes(), stats.today, nil
}

func (b *CalendarBuilder) logSuccess(stats struct{ total, rendered, today int }, start time.Time) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFriends, stats.total),
			slog.Int(config.LogKeyCount, stats.rendered),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

// eventUID derives a stable identifier from the friend's position and contents.
// The position keeps identical duplicates apart.
func eventUID(index int, f Friend) string {
	input := fmt.Sprintf(config.FormatUIDInput, index, f.Name, f.Birthday)
	return uuid.NewSHA1(uidNamespace, []byte(input)).String()
}

// createEvents generates events for CurrentYear-1, CurrentYear and CurrentYear+1,
// never before the birth year.
func (b *CalendarBuilder) createEvents(uidBase, name string, birthDate, now time.Time) []*ical.Event {
	currentYear := now.Year()
	loc := now.Location()

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < birthDate.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := y - birthDate.Year()
		summary := fallbackSummary(name, age)
		if b.FormatSummary != nil {
			summary = b.FormatSummary(name, age)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc))
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events
}

func fallbackSummary(name string, age int) string {
	if age == 0 {
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	}
	return fmt.Sprintf(config.FallbackSummaryAge, name, age)
}
