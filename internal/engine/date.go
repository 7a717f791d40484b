package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-onthisday/internal/config"
)

// ExactDate is a fully specified day/month/year parsed from text such as "14 Feb 1825".
// Day is only checked against 1..31, so "31 Feb 1900" is a valid ExactDate.
type ExactDate struct {
	Month time.Month
	Day   int
	Year  int
}

// MatchKey returns the zero-padded "MM-DD" key, ignoring the year.
func (d ExactDate) MatchKey() string {
	return matchKey(d.Month, d.Day)
}

var (
	reApproximate = regexp.MustCompile(`(?i)^(abt\.?|about|bef\.?|before|aft\.?|after|circa|ca\.?)\b`)
	// Separators also accept Unicode spaces such as NBSP.
	reMonthYear  = regexp.MustCompile(`^[A-Za-z]{3,9}[\s\p{Zs}]+\d{3,4}$`)
	reYearOnly   = regexp.MustCompile(`^\d{3,4}$`)
	reDayMonYear = regexp.MustCompile(`^(\d{1,2})[\s\p{Zs}]+([A-Za-z]{3,9})[\s\p{Zs}]+(\d{3,4})$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseExactDate accepts only "<day> <month> <year>" strings.
// Approximate ("Abt. 1900"), partial ("May 1892") and bare-year ("1894") values
// are rejected. It never panics; ok is false for anything that is not exact.
func ParseExactDate(raw string) (ExactDate, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ExactDate{}, false
	}

	if reApproximate.MatchString(s) || reMonthYear.MatchString(s) || reYearOnly.MatchString(s) {
		return ExactDate{}, false
	}

	m := reDayMonYear.FindStringSubmatch(s)
	if m == nil {
		return ExactDate{}, false
	}

	// The regexp bounds both numbers to four digits, so Atoi cannot fail.
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month := lookupMonth(m[2])

	if month == 0 || day < 1 || day > 31 || year < 0 {
		return ExactDate{}, false
	}
	return ExactDate{Month: month, Day: day, Year: year}, true
}

// lookupMonth resolves a month token by full name first, then by its first three letters.
func lookupMonth(token string) time.Month {
	t := strings.ToLower(token)
	if m, ok := monthNames[t]; ok {
		return m
	}
	return monthNames[t[:3]]
}

// CalendarDate is a local calendar day used as the matching reference.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(config.ReferenceDateFmt, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%s: %w", config.ErrReferenceDate, err)
	}
	return DateOf(t), nil
}

// AddDays moves the date by n days, rolling months and years as needed.
func (c CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(time.Date(c.Year, c.Month, c.Day+n, 0, 0, 0, 0, time.UTC))
}

// MatchKey returns the zero-padded "MM-DD" key of the date.
func (c CalendarDate) MatchKey() string {
	return matchKey(c.Month, c.Day)
}

func (c CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}

func matchKey(month time.Month, day int) string {
	return fmt.Sprintf(config.MatchKeyFormat, int(month), day)
}
