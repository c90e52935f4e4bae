package attendance

import (
	"math"
	"sort"
	"time"
)

// FallbackTimezone is used when neither the acting user nor the company has a zone.
const FallbackTimezone = "America/Asuncion"

// Shift is one weekly working slot. Hours are fractional, 8.5 means 08:30.
type Shift struct {
	Weekday  time.Weekday
	HourFrom float64
	HourTo   float64
}

// Window is a calendar leave. A nil Resource marks a company-wide holiday.
type Window struct {
	Resource *uint
	Start    time.Time
	End      time.Time
}

func (w Window) global() bool { return w.Resource == nil }

func (w Window) appliesTo(resource uint) bool {
	return w.global() || *w.Resource == resource
}

// Calendar is a weekly schedule with its exceptions.
type Calendar struct {
	Name    string
	Shifts  []Shift
	Windows []Window
}

// WorkIntervals returns the scheduled intervals of resource on day, midnight to
// midnight in loc, ordered by start. An empty result means a non-work day.
func (c *Calendar) WorkIntervals(resource uint, day Date, loc *time.Location) []Interval {
	if c == nil {
		return nil
	}

	var intervals []Interval
	weekday := day.Weekday()
	for _, s := range c.Shifts {
		if s.Weekday != weekday || s.HourTo <= s.HourFrom {
			continue
		}
		intervals = append(intervals, Interval{
			Start: clockTime(day, s.HourFrom, loc),
			End:   clockTime(day, s.HourTo, loc),
		})
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	for _, w := range c.Windows {
		if !w.appliesTo(resource) {
			continue
		}
		intervals = subtract(intervals, Interval{Start: w.Start, End: w.End})
		if len(intervals) == 0 {
			return nil
		}
	}
	return intervals
}

// IsWorkDay reports whether resource has any scheduled time on day.
func (c *Calendar) IsWorkDay(resource uint, day Date, loc *time.Location) bool {
	return len(c.WorkIntervals(resource, day, loc)) > 0
}

// Holidays lists the days of month touched by company-wide windows.
func (c *Calendar) Holidays(month Month, loc *time.Location) DateSet {
	days := DateSet{}
	if c == nil {
		return days
	}
	for _, w := range c.Windows {
		if !w.global() || !w.End.After(w.Start) {
			continue
		}
		from := maxDate(DateOf(w.Start, loc), month.FirstDay())
		to := minDate(DateOf(w.End.Add(-time.Nanosecond), loc), month.LastDay())
		for d := from; !d.After(to); d = d.AddDays(1) {
			days.Add(d)
		}
	}
	return days
}

func clockTime(day Date, hours float64, loc *time.Location) time.Time {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	return time.Date(day.Year, day.Month, day.Day, h, m, 0, 0, loc)
}

// ResolveLocation returns the first zone in names that loads, in order of
// precedence, then FallbackTimezone, then UTC.
func ResolveLocation(names ...string) *time.Location {
	for _, name := range names {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(FallbackTimezone); err == nil {
		return loc
	}
	return time.UTC
}
