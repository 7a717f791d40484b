package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-onthisday/internal/engine"
)

func person(first, last, birth string) *engine.Person {
	return &engine.Person{
		FirstName: engine.Text(first),
		LastName:  engine.Text(last),
		Birth:     &engine.Vital{Date: engine.Text(birth)},
	}
}

func dataset(persons ...*engine.Person) *engine.Dataset {
	return &engine.Dataset{Generations: []*engine.Generation{{Persons: persons}}}
}

// TestCollect_AdaLovelace is the reference end-to-end scenario.
func TestCollect_AdaLovelace(t *testing.T) {
	ds := dataset(person("Ada", "Lovelace", "14 Feb 1825"))

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})

	assert.Equal(t, []string{"Ada Lovelace was born in 1825."}, h.Today)
	assert.Empty(t, h.Tomorrow)
	assert.NotNil(t, h.Tomorrow, "empty buckets are empty slices, not nil")
}

// TestCollect_IgnoresReferenceYear checks that only month and day take part in matching.
func TestCollect_IgnoresReferenceYear(t *testing.T) {
	ds := dataset(person("Ada", "Lovelace", "14 Feb 1825"))

	for _, year := range []int{1825, 1900, 2023, 2024, 2100} {
		h := engine.Collect(ds, engine.CalendarDate{Year: year, Month: time.February, Day: 14})
		assert.Equal(t, []string{"Ada Lovelace was born in 1825."}, h.Today, "year %d", year)
	}
}

func TestCollect_TomorrowBucket(t *testing.T) {
	ds := dataset(person("Ada", "Lovelace", "15 Feb 1825"))

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})

	assert.Empty(t, h.Today)
	assert.Equal(t, []string{"Ada Lovelace was born in 1825."}, h.Tomorrow)
}

// TestCollect_YearBoundary verifies Dec 31 looks ahead to Jan 1.
func TestCollect_YearBoundary(t *testing.T) {
	ds := dataset(
		person("New", "Year", "1 Jan 1901"),
		person("Old", "Year", "31 Dec 1900"),
	)

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.December, Day: 31})

	assert.Equal(t, []string{"Old Year was born in 1900."}, h.Today)
	assert.Equal(t, []string{"New Year was born in 1901."}, h.Tomorrow)
}

// TestCollect_Deduplicates keeps one sentence for identical names and dates.
func TestCollect_Deduplicates(t *testing.T) {
	ds := &engine.Dataset{Generations: []*engine.Generation{
		{Persons: []*engine.Person{person("John", "Smith", "14 Feb 1825")}},
		{Persons: []*engine.Person{
			person("John", "Smith", "14 Feb 1825"),
			person("Jane", "Smith", "14 Feb 1830"),
		}},
	}}

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})

	assert.Equal(t, []string{
		"John Smith was born in 1825.",
		"Jane Smith was born in 1830.",
	}, h.Today)
}

// TestCollect_AllEventKinds exercises birth, death and marriages in dataset order.
func TestCollect_AllEventKinds(t *testing.T) {
	ds := dataset(&engine.Person{
		FirstName:  "Augusta",
		MiddleName: "Ada",
		LastName:   "King",
		Birth:      &engine.Vital{Date: "10 Dec 1815"},
		Death:      &engine.Vital{Date: "27 Nov 1852"},
		Marriages: []*engine.Marriage{
			nil,
			{MarriageDate: "8 Jul 1835", SpouseName: "William King"},
			{MarriageDate: "10 Dec 1840"},
			{MarriageDate: "Jul 1835", SpouseName: "Nobody"},
		},
	})

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.December, Day: 10})
	assert.Equal(t, []string{
		"Augusta Ada King was born in 1815.",
		"Augusta Ada King married Unknown in 1840.",
	}, h.Today)

	h = engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.November, Day: 26})
	assert.Equal(t, []string{"Augusta Ada King died in 1852."}, h.Tomorrow)

	h = engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.July, Day: 8})
	assert.Equal(t, []string{"Augusta Ada King married William King in 1835."}, h.Today)
}

func TestCollect_SkipsInexactDates(t *testing.T) {
	ds := dataset(
		person("A", "One", "Feb 1825"),
		person("B", "Two", "abt 14 Feb 1825"),
		person("C", "Three", "1825"),
		person("D", "Four", ""),
	)

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})

	assert.Empty(t, h.Today)
	assert.Empty(t, h.Tomorrow)
}

// TestCollect_ToleratesMissingStructure treats absent levels as empty.
func TestCollect_ToleratesMissingStructure(t *testing.T) {
	today := engine.CalendarDate{Year: 2024, Month: time.February, Day: 14}

	cases := map[string]*engine.Dataset{
		"nil dataset":     nil,
		"no generations":  {},
		"nil generation":  {Generations: []*engine.Generation{nil}},
		"no persons":      {Generations: []*engine.Generation{{}}},
		"nil person":      {Generations: []*engine.Generation{{Persons: []*engine.Person{nil}}}},
		"no vital fields": dataset(&engine.Person{FirstName: "Solo"}),
	}

	for name, ds := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				h := engine.Collect(ds, today)
				assert.Empty(t, h.Today)
				assert.Empty(t, h.Tomorrow)
			})
		})
	}
}

// TestCollect_InvalidCalendarDayNeverMatches documents that 31 Feb is parsed but has no real day.
func TestCollect_InvalidCalendarDayNeverMatches(t *testing.T) {
	ds := dataset(person("Odd", "Date", "31 Feb 1900"))

	day := engine.CalendarDate{Year: 2024, Month: time.January, Day: 1}
	for i := 0; i < 366; i++ {
		h := engine.Collect(ds, day)
		require.Empty(t, h.Today, day.String())
		day = day.AddDays(1)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		p    engine.Person
		want string
	}{
		{"first and last", engine.Person{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"all parts", engine.Person{FirstName: "Augusta", MiddleName: "Ada", LastName: "King"}, "Augusta Ada King"},
		{"middle only", engine.Person{MiddleName: "Ada"}, "Ada"},
		{"whitespace parts", engine.Person{FirstName: " ", ID: "I42"}, "I42"},
		{"id fallback", engine.Person{ID: "I42"}, "I42"},
		{"unknown", engine.Person{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.DisplayName())
		})
	}
}

func TestEvents_Order(t *testing.T) {
	ds := dataset(&engine.Person{
		ID:        "p1",
		FirstName: "Ada",
		Birth:     &engine.Vital{Date: "10 Dec 1815"},
		Death:     &engine.Vital{Date: "27 Nov 1852"},
		Marriages: []*engine.Marriage{{MarriageDate: "8 Jul 1835", SpouseName: "William"}},
	})

	events := engine.Events(ds)
	require.Len(t, events, 3)
	assert.Equal(t, engine.KindBirth, events[0].Kind)
	assert.Equal(t, engine.KindDeath, events[1].Kind)
	assert.Equal(t, engine.KindMarriage, events[2].Kind)
	assert.Equal(t, "William", events[2].Spouse)
	assert.Equal(t, "p1", events[0].PersonID)
	assert.Equal(t, "Ada", events[0].Person)
}
