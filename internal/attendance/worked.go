package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyCap is the most worked time credited for a single day.
const DailyCap = 9 * time.Hour

var (
	two       = decimal.NewFromInt(2)
	hourNanos = decimal.NewFromInt(int64(time.Hour))
)

// Event is one clock-in/clock-out record. A nil CheckOut marks an open event.
type Event struct {
	CheckIn  time.Time
	CheckOut *time.Time
}

// Complete reports whether the event has a check-out.
func (e Event) Complete() bool {
	return e.CheckOut != nil && !e.CheckOut.IsZero()
}

// WorkedResult is the worked-time side of an employee month.
type WorkedResult struct {
	Total   decimal.Decimal
	Daily   map[Date]decimal.Decimal
	Covered DateSet
}

// WorkedHours groups complete events by their local check-in day inside month,
// merges each day and sums the credited hours.
func WorkedHours(events []Event, month Month, cal *Calendar, resource uint, loc *time.Location) WorkedResult {
	byDay := make(map[Date][]Interval)
	for _, e := range events {
		if !e.Complete() {
			continue
		}
		day := DateOf(e.CheckIn, loc)
		if !month.Contains(day) {
			continue
		}
		byDay[day] = append(byDay[day], Interval{Start: e.CheckIn, End: *e.CheckOut})
	}

	res := WorkedResult{
		Total:   decimal.Zero,
		Daily:   make(map[Date]decimal.Decimal, len(byDay)),
		Covered: DateSet{},
	}
	for day, intervals := range byDay {
		hours := DailyWorkedHours(day, MergeIntervals(intervals), cal, resource, loc)
		res.Daily[day] = hours
		res.Covered.Add(day)
		res.Total = res.Total.Add(hours)
	}
	return res
}

// DailyWorkedHours credits the merged intervals of one day.
//
// With a calendar only the first scheduled shift of the day is considered: the
// start is moved up to the shift start, the end is never clipped. Days without
// a scheduled shift credit nothing. Without a calendar the raw time is used.
// The total is capped at DailyCap and rounded to the nearest half hour.
func DailyWorkedHours(day Date, merged []Interval, cal *Calendar, resource uint, loc *time.Location) decimal.Decimal {
	var worked time.Duration

	if cal == nil {
		for _, iv := range merged {
			worked += iv.Duration()
		}
		return roundHalfHour(capDay(worked))
	}

	scheduled := cal.WorkIntervals(resource, day, loc)
	if len(scheduled) == 0 {
		return decimal.Zero
	}
	shiftStart := scheduled[0].Start

	for _, iv := range merged {
		start := iv.Start
		if shiftStart.After(start) {
			start = shiftStart
		}
		worked += Interval{Start: start, End: iv.End}.Duration()
	}
	return roundHalfHour(capDay(worked))
}

func capDay(d time.Duration) time.Duration {
	if d > DailyCap {
		return DailyCap
	}
	return d
}

// roundHalfHour converts d to hours rounded half-up to a multiple of 0.5.
func roundHalfHour(d time.Duration) decimal.Decimal {
	hours := decimal.NewFromInt(int64(d)).Div(hourNanos)
	return hours.Mul(two).Round(0).Div(two)
}
