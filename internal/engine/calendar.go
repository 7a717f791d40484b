package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/go-onthisday/internal/config"
)

// BuildCalendar renders the events as an iCalendar feed of all-day anniversaries.
// Each event yields one VEVENT per yearly occurrence in the previous, current and
// next year relative to now; nothing is generated before the original date.
// reminderTrigger, when set, is an ISO8601 duration such as "-P1D".
func BuildCalendar(events []Event, now time.Time, reminderTrigger string) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	loc := now.Location()
	windowStart := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
	windowEnd := time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, loc)

	seen := make(map[string]struct{})
	for _, ev := range events {
		occurrences, err := anniversaries(ev.Date, loc, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}

		for _, occ := range occurrences {
			uid := eventUID(ev, occ)
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}

			e := newAnniversaryEvent(ev, occ, uid, reminderTrigger)
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// anniversaries lists the yearly recurrences of d inside [from, to].
// A day that does not exist in its month (30 Feb) has no anniversaries;
// 29 Feb recurs in leap years only.
func anniversaries(d ExactDate, loc *time.Location, from, to time.Time) ([]time.Time, error) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	if start.Month() != d.Month {
		return nil, nil
	}
	if start.After(to) {
		return nil, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: start,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRecurrence, err)
	}
	return r.Between(from, to, true), nil
}

// newAnniversaryEvent builds one all-day VEVENT for the occurrence of ev on day.
func newAnniversaryEvent(ev Event, day time.Time, uid, reminderTrigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, ev.Sentence)
	event.Props.SetText(config.PropCategories, string(ev.Kind))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, ev.Sentence)
	}
	return event
}

// eventUID derives a stable name-based UUID so refreshes keep the same identifiers.
func eventUID(ev Event, day time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, ev.Kind, ev.Sentence, day.Format(config.ReferenceDateFmt))
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(input))
	return fmt.Sprintf(config.FormatUID, id.String(), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
