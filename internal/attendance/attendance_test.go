package attendance

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asuncion = ResolveLocation("America/Asuncion")

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.February, day, hour, minute, 0, 0, asuncion)
}

func ptr(t time.Time) *time.Time { return &t }

func weekCalendar(from, to float64, weekdays ...time.Weekday) *Calendar {
	if len(weekdays) == 0 {
		weekdays = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday}
	}
	cal := &Calendar{Name: "test"}
	for _, wd := range weekdays {
		cal.Shifts = append(cal.Shifts, Shift{Weekday: wd, HourFrom: from, HourTo: to})
	}
	return cal
}

func assertHours(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromFloat(want).Equal(got), "want %v hours, got %s", want, got)
}

func february() Month {
	m, _ := NewMonth(2024, 2)
	return m
}

func TestMergeIntervals(t *testing.T) {
	t.Run("overlapping intervals are folded", func(t *testing.T) {
		in := []Interval{
			{Start: at(1, 14, 0), End: at(1, 15, 0)},
			{Start: at(1, 9, 0), End: at(1, 12, 0)},
			{Start: at(1, 11, 0), End: at(1, 13, 0)},
		}
		got := MergeIntervals(in)
		assert.Equal(t, []Interval{
			{Start: at(1, 9, 0), End: at(1, 13, 0)},
			{Start: at(1, 14, 0), End: at(1, 15, 0)},
		}, got)
		assert.Equal(t, at(1, 14, 0), in[0].Start, "input must not be reordered")
	})

	t.Run("sorted disjoint input is unchanged", func(t *testing.T) {
		in := []Interval{
			{Start: at(1, 8, 0), End: at(1, 10, 0)},
			{Start: at(1, 11, 0), End: at(1, 12, 0)},
			{Start: at(1, 13, 0), End: at(1, 17, 0)},
		}
		assert.Equal(t, in, MergeIntervals(in))
		assert.Equal(t, in, MergeIntervals(MergeIntervals(in)))
	})

	t.Run("touching intervals are joined", func(t *testing.T) {
		got := MergeIntervals([]Interval{
			{Start: at(1, 8, 0), End: at(1, 10, 0)},
			{Start: at(1, 10, 0), End: at(1, 12, 0)},
		})
		assert.Equal(t, []Interval{{Start: at(1, 8, 0), End: at(1, 12, 0)}}, got)
	})

	t.Run("contained interval does not shrink the end", func(t *testing.T) {
		got := MergeIntervals([]Interval{
			{Start: at(1, 8, 0), End: at(1, 18, 0)},
			{Start: at(1, 9, 0), End: at(1, 10, 0)},
		})
		assert.Equal(t, []Interval{{Start: at(1, 8, 0), End: at(1, 18, 0)}}, got)
	})

	assert.Nil(t, MergeIntervals(nil))
}

func TestRoundHalfHour(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want float64
	}{
		{"exact hours", 8 * time.Hour, 8},
		{"quarter past rounds up", 7*time.Hour + 15*time.Minute, 7.5},
		{"quarter to rounds up", 7*time.Hour + 45*time.Minute, 8},
		{"just below quarter past rounds down", 7*time.Hour + 14*time.Minute, 7},
		{"7.74 hours", time.Duration(7.74 * float64(time.Hour)), 7.5},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertHours(t, tt.want, roundHalfHour(tt.in))
		})
	}
}

func TestDailyWorkedHours(t *testing.T) {
	day := NewDate(2024, time.February, 1)
	shift := weekCalendar(8, 17)

	t.Run("early check-in is clipped, late check-out is kept", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 7, 30), End: at(1, 17, 30)}}
		// 08:00-17:30 is credited, 9.5h, then capped.
		assertHours(t, 9, DailyWorkedHours(day, merged, shift, 1, asuncion))
	})

	t.Run("clipped start is the shift start", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 7, 30), End: at(1, 12, 0)}}
		assertHours(t, 4, DailyWorkedHours(day, merged, shift, 1, asuncion))
	})

	t.Run("late arrival staying late gets full credit", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 10, 0), End: at(1, 18, 0)}}
		assertHours(t, 8, DailyWorkedHours(day, merged, shift, 1, asuncion))
	})

	t.Run("interval entirely before shift credits nothing", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 6, 0), End: at(1, 7, 0)}}
		assertHours(t, 0, DailyWorkedHours(day, merged, shift, 1, asuncion))
	})

	t.Run("no calendar uses raw time and caps", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 7, 30), End: at(1, 17, 30)}}
		assertHours(t, 9, DailyWorkedHours(day, merged, nil, 1, asuncion))
	})

	t.Run("no calendar below cap", func(t *testing.T) {
		merged := []Interval{{Start: at(1, 8, 0), End: at(1, 12, 20)}}
		assertHours(t, 4.5, DailyWorkedHours(day, merged, nil, 1, asuncion))
	})

	t.Run("several intervals above cap", func(t *testing.T) {
		merged := []Interval{
			{Start: at(1, 8, 0), End: at(1, 13, 0)},
			{Start: at(1, 14, 0), End: at(1, 20, 0)},
		}
		assertHours(t, 9, DailyWorkedHours(day, merged, shift, 1, asuncion))
	})

	t.Run("non-work day credits nothing", func(t *testing.T) {
		weekdays := weekCalendar(8, 17, time.Monday, time.Tuesday)
		// 2024-02-01 is a Thursday.
		merged := []Interval{{Start: at(1, 8, 0), End: at(1, 17, 0)}}
		assertHours(t, 0, DailyWorkedHours(day, merged, weekdays, 1, asuncion))
	})

	t.Run("only the first shift bounds the day", func(t *testing.T) {
		split := &Calendar{Shifts: []Shift{
			{Weekday: time.Thursday, HourFrom: 13, HourTo: 17},
			{Weekday: time.Thursday, HourFrom: 8, HourTo: 12},
		}}
		merged := []Interval{{Start: at(1, 7, 0), End: at(1, 12, 0)}}
		assertHours(t, 4, DailyWorkedHours(day, merged, split, 1, asuncion))
	})
}

func TestWorkedHours(t *testing.T) {
	events := []Event{
		{CheckIn: at(1, 8, 0), CheckOut: ptr(at(1, 12, 0))},
		{CheckIn: at(1, 11, 0), CheckOut: ptr(at(1, 13, 0))},
		{CheckIn: at(2, 8, 0), CheckOut: nil},
		{CheckIn: time.Date(2024, time.March, 1, 8, 0, 0, 0, asuncion), CheckOut: ptr(time.Date(2024, time.March, 1, 12, 0, 0, 0, asuncion))},
	}

	res := WorkedHours(events, february(), weekCalendar(8, 17), 1, asuncion)

	assertHours(t, 5, res.Total)
	assert.True(t, res.Covered.Has(NewDate(2024, time.February, 1)))
	assert.False(t, res.Covered.Has(NewDate(2024, time.February, 2)), "open events are dropped")
	assert.Len(t, res.Covered, 1)
}

func TestCalendarWorkIntervals(t *testing.T) {
	day := NewDate(2024, time.February, 1)
	employee := uint(7)
	other := uint(8)

	t.Run("shifts are ordered", func(t *testing.T) {
		cal := &Calendar{Shifts: []Shift{
			{Weekday: time.Thursday, HourFrom: 13, HourTo: 17.5},
			{Weekday: time.Thursday, HourFrom: 8.5, HourTo: 12},
		}}
		got := cal.WorkIntervals(employee, day, asuncion)
		require.Len(t, got, 2)
		assert.Equal(t, at(1, 8, 30), got[0].Start)
		assert.Equal(t, at(1, 17, 30), got[1].End)
	})

	t.Run("global holiday removes the day", func(t *testing.T) {
		cal := weekCalendar(8, 17)
		cal.Windows = []Window{{Start: at(1, 0, 0), End: at(2, 0, 0)}}
		assert.Empty(t, cal.WorkIntervals(employee, day, asuncion))
		assert.False(t, cal.IsWorkDay(other, day, asuncion))
	})

	t.Run("employee window only affects that employee", func(t *testing.T) {
		cal := weekCalendar(8, 17)
		cal.Windows = []Window{{Resource: &employee, Start: at(1, 0, 0), End: at(2, 0, 0)}}
		assert.False(t, cal.IsWorkDay(employee, day, asuncion))
		assert.True(t, cal.IsWorkDay(other, day, asuncion))
	})

	t.Run("partial window trims the shift", func(t *testing.T) {
		cal := weekCalendar(8, 17)
		cal.Windows = []Window{{Start: at(1, 8, 0), End: at(1, 12, 0)}}
		got := cal.WorkIntervals(employee, day, asuncion)
		require.Len(t, got, 1)
		assert.Equal(t, at(1, 12, 0), got[0].Start)
	})

	t.Run("nil calendar has no intervals", func(t *testing.T) {
		var cal *Calendar
		assert.Empty(t, cal.WorkIntervals(employee, day, asuncion))
	})
}

func TestCalendarHolidays(t *testing.T) {
	employee := uint(3)
	cal := weekCalendar(8, 17)
	cal.Windows = []Window{
		{Start: time.Date(2024, time.January, 31, 0, 0, 0, 0, asuncion), End: at(3, 0, 0)},
		{Start: at(14, 0, 0), End: at(14, 23, 59)},
		{Resource: &employee, Start: at(20, 0, 0), End: at(21, 0, 0)},
	}

	got := cal.Holidays(february(), asuncion).Sorted()
	assert.Equal(t, []Date{
		NewDate(2024, time.February, 1),
		NewDate(2024, time.February, 2),
		NewDate(2024, time.February, 14),
	}, got)
}

func TestResolveLocation(t *testing.T) {
	assert.Equal(t, "Europe/Madrid", ResolveLocation("Europe/Madrid", "America/Asuncion").String())
	assert.Equal(t, "America/Bogota", ResolveLocation("", "America/Bogota").String())
	assert.Equal(t, FallbackTimezone, ResolveLocation("", "Not/AZone").String())
	assert.Equal(t, FallbackTimezone, ResolveLocation().String())
}

func TestLegacyBucket(t *testing.T) {
	tests := []struct {
		label string
		want  Bucket
	}{
		{"Licencia por Enfermedad", BucketSick},
		{"VACACIONES", BucketVacation},
		{"Falta sin justificar", BucketUnjustified},
		{"Ausencia no justificada", BucketUnjustified},
		{"Ausencia por paro", BucketUnjustified},
		{"ART - accidente laboral", BucketCompensation},
		{"Maternidad", BucketOther},
		{"", BucketOther},
		{"Vacaciones por enfermedad", BucketSick},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyBucket(tt.label))
		})
	}
}

func TestLeaveBucketPrefersKind(t *testing.T) {
	l := Leave{Kind: "vacation", Label: "Licencia por enfermedad"}
	assert.Equal(t, BucketVacation, l.Bucket())

	l = Leave{Kind: "unknown", Label: "Licencia por enfermedad"}
	assert.Equal(t, BucketSick, l.Bucket())
}

func TestClassifyLeaves(t *testing.T) {
	month := february()
	allDays := func(Date) bool { return true }

	t.Run("attendance days win over leave", func(t *testing.T) {
		worked := DateSet{}
		worked.Add(NewDate(2024, time.February, 6))

		leaves := []Leave{{From: at(5, 0, 0), To: at(7, 23, 0), Kind: "sick"}}
		got := ClassifyLeaves(leaves, month, worked, allDays, asuncion)

		assertHours(t, 18, got.Get(BucketSick))
		_, counted := got.Days[NewDate(2024, time.February, 6)]
		assert.False(t, counted)
	})

	t.Run("a day is credited to the first leave only", func(t *testing.T) {
		leaves := []Leave{
			{From: at(5, 0, 0), To: at(6, 23, 0), Label: "Vacaciones"},
			{From: at(6, 0, 0), To: at(7, 23, 0), Label: "Licencia por enfermedad"},
		}
		got := ClassifyLeaves(leaves, month, DateSet{}, allDays, asuncion)

		assertHours(t, 18, got.Get(BucketVacation))
		assertHours(t, 9, got.Get(BucketSick))
	})

	t.Run("non-work days are skipped without penalty", func(t *testing.T) {
		cal := weekCalendar(8, 17, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
		isWorkDay := func(d Date) bool { return cal.IsWorkDay(1, d, asuncion) }
		// Friday 2 to Monday 5.
		leaves := []Leave{{From: at(2, 0, 0), To: at(5, 23, 0), Kind: "other"}}
		got := ClassifyLeaves(leaves, month, DateSet{}, isWorkDay, asuncion)

		assertHours(t, 18, got.Get(BucketOther))
		assert.Len(t, got.Days, 2)
	})

	t.Run("leave is clipped to the month", func(t *testing.T) {
		leaves := []Leave{{
			From:  time.Date(2024, time.January, 25, 0, 0, 0, 0, asuncion),
			To:    at(2, 23, 0),
			Label: "ART",
		}}
		got := ClassifyLeaves(leaves, month, DateSet{}, allDays, asuncion)
		assertHours(t, 18, got.Get(BucketCompensation))
	})

	t.Run("leave outside the month is ignored", func(t *testing.T) {
		leaves := []Leave{{
			From: time.Date(2024, time.March, 2, 0, 0, 0, 0, asuncion),
			To:   time.Date(2024, time.March, 3, 0, 0, 0, 0, asuncion),
		}}
		got := ClassifyLeaves(leaves, month, DateSet{}, allDays, asuncion)
		assert.Empty(t, got.Days)
	})

	t.Run("unjustified dates are recorded", func(t *testing.T) {
		leaves := []Leave{{From: at(20, 0, 0), To: at(20, 23, 0), Label: "Falta sin justificar"}}
		got := ClassifyLeaves(leaves, month, DateSet{}, allDays, asuncion)
		assertHours(t, 9, got.Get(BucketUnjustified))
		assert.True(t, got.UnjustifiedDates.Has(NewDate(2024, time.February, 20)))
	})
}

func TestPresenceScore(t *testing.T) {
	april, err := NewMonth(2024, 4)
	require.NoError(t, err)

	set := func(days ...int) DateSet {
		s := DateSet{}
		for _, d := range days {
			s.Add(NewDate(2024, time.April, d))
		}
		return s
	}

	tests := []struct {
		name string
		days []int
		want float64
	}{
		{"no unjustified days", nil, 1},
		{"first half only", []int{5}, 0.5},
		{"second half only", []int{16, 30}, 0.5},
		{"day 15 belongs to the first half", []int{15}, 0.5},
		{"both halves", []int{5, 20}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertHours(t, tt.want, PresenceScore(set(tt.days...), april))
		})
	}
}

func TestNewMonth(t *testing.T) {
	_, err := NewMonth(24, 2)
	assert.Error(t, err)
	_, err = NewMonth(2024, 13)
	assert.Error(t, err)

	m, err := NewMonth(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 29, m.NumDays())
	assert.Equal(t, at(1, 0, 0), m.Start(asuncion))
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, asuncion), m.End(asuncion))
}

func TestSummarizeFullMonth(t *testing.T) {
	month := february()
	var events []Event
	for _, d := range month.Days() {
		in := d.Midnight(asuncion).Add(9 * time.Hour)
		events = append(events, Event{CheckIn: in, CheckOut: ptr(in.Add(9 * time.Hour))})
	}

	sum := Summarize(EmployeeInput{
		EmployeeID: 1,
		Name:       "Gómez",
		Calendar:   weekCalendar(9, 18),
		Events:     events,
		Month:      month,
		Location:   asuncion,
	})

	assertHours(t, 261, sum.Row.Worked)
	assertHours(t, 0, sum.Row.Sick)
	assertHours(t, 0, sum.Row.OtherLeave)
	assertHours(t, 0, sum.Row.Vacation)
	assertHours(t, 0, sum.Row.Unjustified)
	assertHours(t, 0, sum.Row.Compensation)
	assertHours(t, 1, sum.Row.Presence)
	assertHours(t, 261, sum.Row.Total())
	assert.Equal(t, DefaultSector, sum.Row.Sector)
	assert.Len(t, sum.Days, 29)
}

func TestSummarizeMixedMonth(t *testing.T) {
	month := february()
	cal := weekCalendar(8, 17, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	cal.Windows = []Window{{Start: at(12, 0, 0), End: at(13, 0, 0)}}

	sum := Summarize(EmployeeInput{
		EmployeeID: 4,
		Name:       "Benítez",
		Department: "Ventas",
		Calendar:   cal,
		Holidays:   cal.Holidays(month, asuncion),
		Events: []Event{
			{CheckIn: at(1, 7, 45), CheckOut: ptr(at(1, 16, 10))},
			{CheckIn: at(5, 8, 0), CheckOut: ptr(at(5, 17, 0))},
		},
		Leaves: []Leave{
			{From: at(5, 0, 0), To: at(6, 23, 0), Label: "Falta sin justificar"},
			{From: at(19, 0, 0), To: at(19, 23, 0), Label: "No justificada"},
			{From: at(12, 0, 0), To: at(12, 23, 0), Label: "Vacaciones"},
			{From: at(26, 0, 0), To: at(27, 23, 0), Kind: "compensation"},
		},
		Month:    month,
		Location: asuncion,
	})

	row := sum.Row
	assertHours(t, 17, row.Worked) // 8.0 (08:00-16:10 → 8.17) + 9.0
	assertHours(t, 18, row.Unjustified)
	assertHours(t, 0, row.Vacation) // the 12th is a holiday
	assertHours(t, 18, row.Compensation)
	assertHours(t, 0, row.Presence)
	assert.True(t, row.Total().Equal(decimal.Sum(row.Worked, row.Sick, row.OtherLeave, row.Vacation, row.Unjustified, row.Compensation)))
	assertHours(t, 53, row.Total())

	kinds := map[Date]DayKind{}
	for _, d := range sum.Days {
		kinds[d.Date] = d.Kind
	}
	assert.Equal(t, DayWorked, kinds[NewDate(2024, time.February, 5)])
	assert.Equal(t, DayLeave, kinds[NewDate(2024, time.February, 6)])
	assert.Equal(t, DayHoliday, kinds[NewDate(2024, time.February, 12)])
	assert.Equal(t, DayNonWork, kinds[NewDate(2024, time.February, 3)])
	assert.Equal(t, DayUncovered, kinds[NewDate(2024, time.February, 7)])
}
