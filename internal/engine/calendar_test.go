package engine_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
)

func eventsFor(t *testing.T, persons ...*engine.Person) []engine.Event {
	t.Helper()
	return engine.Events(dataset(persons...))
}

func TestBuildCalendar_GeneratesYearRange(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := eventsFor(t, person("Range", "Test", "31 Dec 1990"))

	data, err := engine.BuildCalendar(events, now, "")
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20241231", "Should include previous year")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20251231", "Should include current year")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20261231", "Should include next year")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "SUMMARY:Range Test was born in 1990.")
	assert.Contains(t, ics, "CATEGORIES:birth")
}

func TestBuildCalendar_NothingBeforeOriginalDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := eventsFor(t, person("Baby", "Born", "1 May 2025"))

	data, err := engine.BuildCalendar(events, now, "")
	require.NoError(t, err)

	ics := string(data)
	assert.NotContains(t, ics, "DTSTART;VALUE=DATE:2024")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250501")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260501")
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestBuildCalendar_LeapDayAndImpossibleDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := eventsFor(t,
		person("Leap", "Day", "29 Feb 1904"),
		person("No", "Day", "30 Feb 1900"),
	)

	data, err := engine.BuildCalendar(events, now, "")
	require.NoError(t, err)

	ics := string(data)
	// Only 2024 is a leap year in 2024..2026.
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240229")
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "No Day")
}

func TestBuildCalendar_WithReminder(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := eventsFor(t, person("Alarm", "Test", "1 Jan 1990"))

	data, err := engine.BuildCalendar(events, now, "-P1D")
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VALARM")
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "ACTION:DISPLAY")
}

func TestBuildCalendar_StableAndUniqueUIDs(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := eventsFor(t,
		person("Twin", "Smith", "2 Mar 1900"),
		person("Twin", "Smith", "2 Mar 1900"),
		person("Other", "Smith", "2 Mar 1900"),
	)

	first, err := engine.BuildCalendar(events, now, "")
	require.NoError(t, err)
	second, err := engine.BuildCalendar(events, now.Add(time.Hour), "")
	require.NoError(t, err)

	uids := func(data []byte) []string {
		cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
		require.NoError(t, err)
		var out []string
		for _, ev := range cal.Events() {
			uid, err := ev.Props.Text(config.PropUID)
			require.NoError(t, err)
			out = append(out, uid)
		}
		return out
	}

	a, b := uids(first), uids(second)
	assert.Len(t, a, 6, "duplicate sentences collapse to one series")
	assert.Equal(t, a, b, "UIDs must not depend on the generation time")

	seen := map[string]bool{}
	for _, uid := range a {
		assert.False(t, seen[uid], "duplicate UID %s", uid)
		seen[uid] = true
		assert.True(t, strings.HasSuffix(uid, "@"+config.ICalDomain))
	}
}

func TestBuildCalendar_NoEvents(t *testing.T) {
	data, err := engine.BuildCalendar(nil, time.Now(), "")
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}
