package attendance

import "github.com/shopspring/decimal"

// lastDayFirstHalf closes the first half of the month (quincena).
const lastDayFirstHalf = 15

var (
	presenceFull = decimal.NewFromInt(1)
	presenceHalf = decimal.NewFromFloat(0.5)
)

// PresenceScore is 1 when neither half of month has an unjustified absence,
// 0.5 when exactly one half has one and 0 when both do.
func PresenceScore(unjustified DateSet, month Month) decimal.Decimal {
	var firstHalf, secondHalf bool
	for d := range unjustified {
		if !month.Contains(d) {
			continue
		}
		if d.Day <= lastDayFirstHalf {
			firstHalf = true
		} else {
			secondHalf = true
		}
	}

	switch {
	case firstHalf && secondHalf:
		return decimal.Zero
	case firstHalf || secondHalf:
		return presenceHalf
	default:
		return presenceFull
	}
}
