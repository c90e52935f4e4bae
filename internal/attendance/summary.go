package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSector  = "SIN DEPARTAMENTO"
	DefaultSurname = "Sin nombre"
)

// DayKind tells how a day of the month was accounted.
type DayKind string

const (
	DayWorked    DayKind = "worked"
	DayLeave     DayKind = "leave"
	DayHoliday   DayKind = "holiday"
	DayNonWork   DayKind = "non_work"
	DayUncovered DayKind = "uncovered"
)

// DailyAggregate describes one employee day.
type DailyAggregate struct {
	Date   Date
	Kind   DayKind
	Bucket Bucket
	Hours  decimal.Decimal
}

// Row is the monthly line of one employee.
type Row struct {
	EmployeeID   uint
	Sector       string
	Surname      string
	Worked       decimal.Decimal
	Sick         decimal.Decimal
	OtherLeave   decimal.Decimal
	Vacation     decimal.Decimal
	Unjustified  decimal.Decimal
	Presence     decimal.Decimal
	Compensation decimal.Decimal
}

// Total is the sum of the six hour columns. Presence is a score, not hours.
func (r Row) Total() decimal.Decimal {
	return decimal.Sum(r.Worked, r.Sick, r.OtherLeave, r.Vacation, r.Unjustified, r.Compensation)
}

// EmployeeInput is the snapshot one employee month is computed from.
type EmployeeInput struct {
	EmployeeID uint
	Name       string
	Department string
	// Calendar is the employee calendar, or the company one. Nil when neither exists.
	Calendar *Calendar
	Holidays DateSet
	Events   []Event
	Leaves   []Leave
	Month    Month
	Location *time.Location
	// Log receives per-day details at debug level. Optional.
	Log *logrus.Entry
}

// Summary is the computed month of one employee.
type Summary struct {
	Row  Row
	Days []DailyAggregate
}

// Summarize computes worked time, leave buckets and presence for one employee.
func Summarize(in EmployeeInput) Summary {
	loc := in.Location
	if loc == nil {
		loc = ResolveLocation()
	}

	isWorkDay := func(d Date) bool {
		if in.Calendar == nil {
			return true
		}
		return in.Calendar.IsWorkDay(in.EmployeeID, d, loc)
	}

	worked := WorkedHours(in.Events, in.Month, in.Calendar, in.EmployeeID, loc)
	leaves := ClassifyLeaves(in.Leaves, in.Month, worked.Covered, isWorkDay, loc)

	row := Row{
		EmployeeID:   in.EmployeeID,
		Sector:       in.Department,
		Surname:      in.Name,
		Worked:       worked.Total,
		Sick:         leaves.Get(BucketSick),
		OtherLeave:   leaves.Get(BucketOther),
		Vacation:     leaves.Get(BucketVacation),
		Unjustified:  leaves.Get(BucketUnjustified),
		Presence:     PresenceScore(leaves.UnjustifiedDates, in.Month),
		Compensation: leaves.Get(BucketCompensation),
	}
	if row.Sector == "" {
		row.Sector = DefaultSector
	}
	if row.Surname == "" {
		row.Surname = DefaultSurname
	}

	days := make([]DailyAggregate, 0, in.Month.NumDays())
	for _, d := range in.Month.Days() {
		agg := DailyAggregate{Date: d, Hours: decimal.Zero}
		switch {
		case worked.Covered.Has(d):
			agg.Kind = DayWorked
			agg.Hours = worked.Daily[d]
		case leaves.Days[d] != "":
			agg.Kind = DayLeave
			agg.Bucket = leaves.Days[d]
			agg.Hours = LeaveDayCredit
		case in.Holidays.Has(d):
			agg.Kind = DayHoliday
		case !isWorkDay(d):
			agg.Kind = DayNonWork
		default:
			agg.Kind = DayUncovered
		}
		days = append(days, agg)

		if in.Log != nil {
			in.Log.WithFields(logrus.Fields{
				"date":   d.String(),
				"kind":   agg.Kind,
				"bucket": agg.Bucket,
				"hours":  agg.Hours.String(),
			}).Debug("Employee day accounted")
		}
	}

	return Summary{Row: row, Days: days}
}
