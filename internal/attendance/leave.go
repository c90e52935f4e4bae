package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveDayCredit is the flat number of hours credited per leave day.
var LeaveDayCredit = decimal.NewFromInt(9)

// Bucket is the report column a leave day is credited to.
type Bucket string

const (
	BucketSick         Bucket = "sick"
	BucketVacation     Bucket = "vacation"
	BucketUnjustified  Bucket = "unjustified"
	BucketCompensation Bucket = "compensation"
	BucketOther        Bucket = "other"
)

// ParseBucket maps a stored leave kind to its bucket.
func ParseBucket(kind string) (Bucket, bool) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(kind))); b {
	case BucketSick, BucketVacation, BucketUnjustified, BucketCompensation, BucketOther:
		return b, true
	}
	return "", false
}

// Leave is one validated leave with its type.
type Leave struct {
	From time.Time
	To   time.Time
	// Kind is the explicit leave-type tag. Empty for leave types that were
	// never tagged; those fall back to LegacyBucket.
	Kind  string
	Label string
}

// Bucket resolves the bucket of the leave.
func (l Leave) Bucket() Bucket {
	if b, ok := ParseBucket(l.Kind); ok {
		return b
	}
	return LegacyBucket(l.Label)
}

// LegacyBucket classifies untagged leave types by keywords in their name.
// Kept for compatibility with leave types created before kinds existed.
func LegacyBucket(label string) Bucket {
	name := strings.ToLower(label)
	switch {
	case strings.Contains(name, "enfermedad"):
		return BucketSick
	case strings.Contains(name, "vacaci"):
		return BucketVacation
	case strings.Contains(name, "sin just"),
		strings.Contains(name, "no just"),
		strings.Contains(name, "ausencia por"):
		return BucketUnjustified
	case strings.Contains(name, "art"):
		return BucketCompensation
	default:
		return BucketOther
	}
}

// LeaveTotals holds the credited hours per bucket.
type LeaveTotals struct {
	Hours            map[Bucket]decimal.Decimal
	Days             map[Date]Bucket
	UnjustifiedDates DateSet
}

func (t LeaveTotals) Get(b Bucket) decimal.Decimal {
	if h, ok := t.Hours[b]; ok {
		return h
	}
	return decimal.Zero
}

// WorkDayFunc reports whether a day is scheduled.
type WorkDayFunc func(Date) bool

// ClassifyLeaves expands leaves into days of month. A day is credited once:
// days worked, days already credited to an earlier leave and non-work days
// are skipped.
func ClassifyLeaves(leaves []Leave, month Month, worked DateSet, isWorkDay WorkDayFunc, loc *time.Location) LeaveTotals {
	totals := LeaveTotals{
		Hours:            make(map[Bucket]decimal.Decimal),
		Days:             make(map[Date]Bucket),
		UnjustifiedDates: DateSet{},
	}

	for _, l := range leaves {
		from := maxDate(DateOf(l.From, loc), month.FirstDay())
		to := minDate(DateOf(l.To, loc), month.LastDay())
		if from.After(to) {
			continue
		}

		bucket := l.Bucket()
		for d := from; !d.After(to); d = d.AddDays(1) {
			if _, done := totals.Days[d]; done || worked.Has(d) {
				continue
			}
			if !isWorkDay(d) {
				continue
			}
			totals.Days[d] = bucket
			totals.Hours[bucket] = totals.Get(bucket).Add(LeaveDayCredit)
			if bucket == BucketUnjustified {
				totals.UnjustifiedDates.Add(d)
			}
		}
	}
	return totals
}
