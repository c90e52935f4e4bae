package weekends

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON is the production calendar file format:
// {"year":2024,"months":[{"month":1,"days":"1,6+,7*"}]}.
type CalendarJSON struct {
	Year   int             `json:"year"`
	Months []MonthHolidays `json:"months"`
}

type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// NonWorkingDay is one day off, midnight in the location it was parsed for.
type NonWorkingDay struct {
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
}

// ParseFile reads a calendar file and returns its days off.
func ParseFile(filePath string, loc *time.Location) ([]NonWorkingDay, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	defer f.Close()
	return Parse(f, loc)
}

// Parse decodes a calendar document. Day markers "+" and "*" are ignored.
func Parse(r io.Reader, loc *time.Location) ([]NonWorkingDay, error) {
	if loc == nil {
		loc = time.UTC
	}

	var doc CalendarJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if doc.Year < 1000 || doc.Year > 9999 {
		return nil, fmt.Errorf("invalid year %d", doc.Year)
	}

	days := []NonWorkingDay{}
	for _, m := range doc.Months {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", m.Month)
		}
		for _, dayStr := range strings.Split(m.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			dayStr = strings.TrimRight(dayStr, "+*")
			if dayStr == "" {
				continue
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", dayStr, m.Month, err)
			}

			date := time.Date(doc.Year, time.Month(m.Month), day, 0, 0, 0, 0, loc)
			if date.Day() != day {
				return nil, fmt.Errorf("day %d out of range in month %d", day, m.Month)
			}

			days = append(days, NonWorkingDay{
				Date:  date,
				Year:  doc.Year,
				Month: m.Month,
				Day:   day,
			})
		}
	}
	return days, nil
}
