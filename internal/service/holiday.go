package service

import (
	"context"
	"fmt"
	"time"

	"attendance-report/internal/attendance"
	"attendance-report/internal/models"
	"attendance-report/internal/repository"
	"attendance-report/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// HolidayService keeps the company-wide days off of a work calendar.
type HolidayService struct {
	calendarRepo repository.CalendarRepository
	logger       *logrus.Logger
}

func NewHolidayService(calendarRepo repository.CalendarRepository, logger *logrus.Logger) *HolidayService {
	return &HolidayService{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// LoadFromJSON replaces the imported holidays of a calendar with the days of a
// production calendar file. Each day becomes a midnight-to-midnight window in loc.
func (s *HolidayService) LoadFromJSON(ctx context.Context, path string, calendarID uint, loc *time.Location) (int, error) {
	cal, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return 0, fmt.Errorf("failed to get calendar: %w", err)
	}
	if cal == nil {
		return 0, fmt.Errorf("calendar %d not found", calendarID)
	}

	days, err := weekends.ParseFile(path, loc)
	if err != nil {
		return 0, err
	}

	return s.Import(ctx, calendarID, days)
}

// Import stores days as the imported holidays of a calendar.
func (s *HolidayService) Import(ctx context.Context, calendarID uint, days []weekends.NonWorkingDay) (int, error) {
	holidays := make([]models.CalendarLeave, 0, len(days))
	for _, d := range days {
		holidays = append(holidays, models.CalendarLeave{
			Name:     fmt.Sprintf("Feriado %s", d.Date.Format("2006-01-02")),
			DateFrom: d.Date,
			DateTo:   d.Date.AddDate(0, 0, 1),
		})
	}

	if err := s.calendarRepo.ReplaceImportedHolidays(ctx, calendarID, holidays); err != nil {
		return 0, fmt.Errorf("failed to save holidays: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"calendar_id": calendarID,
		"days":        len(holidays),
	}).Info("Holidays imported")

	return len(holidays), nil
}

// ListForMonth returns the holiday dates of a calendar in month.
func (s *HolidayService) ListForMonth(ctx context.Context, calendarID uint, month attendance.Month, loc *time.Location) ([]attendance.Date, error) {
	leaves, err := s.calendarRepo.GetHolidays(ctx, calendarID, month.Start(loc), month.End(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	return (&attendance.Calendar{Windows: toWindows(leaves)}).Holidays(month, loc).Sorted(), nil
}
