package engine

import (
	"fmt"

	"github.com/tartampluch/go-onthisday/internal/config"
)

// EventKind identifies the life event a sentence describes.
type EventKind string

const (
	KindBirth    EventKind = "birth"
	KindDeath    EventKind = "death"
	KindMarriage EventKind = "marriage"
)

// Event is one exactly dated life event derived from a Person.
type Event struct {
	Kind     EventKind
	PersonID string
	Person   string // display name
	Spouse   string // marriages only
	Date     ExactDate
	Sentence string
}

// Highlights holds the de-duplicated sentences for the reference day and the next one.
type Highlights struct {
	Date     CalendarDate
	Today    []string
	Tomorrow []string
}

// Events walks the dataset in order and returns every event with an exact date:
// per person the birth, then the death, then each marriage.
func Events(ds *Dataset) []Event {
	if ds == nil {
		return nil
	}

	var events []Event
	for _, gen := range ds.Generations {
		if gen == nil {
			continue
		}
		for _, p := range gen.Persons {
			if p == nil {
				continue
			}
			events = appendPersonEvents(events, p)
		}
	}
	return events
}

func appendPersonEvents(events []Event, p *Person) []Event {
	name := p.DisplayName()
	base := Event{PersonID: string(p.ID), Person: name}

	if b, ok := ParseExactDate(p.birthDate()); ok {
		ev := base
		ev.Kind, ev.Date = KindBirth, b
		ev.Sentence = fmt.Sprintf(config.SentenceBirth, name, b.Year)
		events = append(events, ev)
	}

	if d, ok := ParseExactDate(p.deathDate()); ok {
		ev := base
		ev.Kind, ev.Date = KindDeath, d
		ev.Sentence = fmt.Sprintf(config.SentenceDeath, name, d.Year)
		events = append(events, ev)
	}

	for _, m := range p.Marriages {
		if m == nil {
			continue
		}
		md, ok := ParseExactDate(string(m.MarriageDate))
		if !ok {
			continue
		}
		spouse := string(m.SpouseName)
		if spouse == "" {
			spouse = config.UnknownName
		}
		ev := base
		ev.Kind, ev.Date, ev.Spouse = KindMarriage, md, spouse
		ev.Sentence = fmt.Sprintf(config.SentenceMarriage, name, spouse, md.Year)
		events = append(events, ev)
	}
	return events
}

// Collect buckets the dataset's events by the month/day of today and of the day after.
// The year of an event is ignored. Each bucket keeps the first occurrence of a sentence.
func Collect(ds *Dataset, today CalendarDate) Highlights {
	return CollectEvents(Events(ds), today)
}

// CollectEvents is Collect over an already derived event list.
func CollectEvents(events []Event, today CalendarDate) Highlights {
	todayKey := today.MatchKey()
	tomorrowKey := today.AddDays(1).MatchKey()

	var todays, tomorrows []string
	for _, ev := range events {
		key := ev.Date.MatchKey()
		// Two independent checks: a key equal to both lands in both buckets.
		if key == todayKey {
			todays = append(todays, ev.Sentence)
		}
		if key == tomorrowKey {
			tomorrows = append(tomorrows, ev.Sentence)
		}
	}

	return Highlights{
		Date:     today,
		Today:    uniqueStrings(todays),
		Tomorrow: uniqueStrings(tomorrows),
	}
}

// uniqueStrings drops repeated values, keeping first-occurrence order.
func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
