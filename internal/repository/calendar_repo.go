package repository

import (
	"context"
	"errors"
	"time"

	"attendance-report/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CalendarRepository interface {
	Create(ctx context.Context, calendar *models.WorkCalendar) error
	GetByID(ctx context.Context, id uint) (*models.WorkCalendar, error)
	CreateLeave(ctx context.Context, leave *models.CalendarLeave) error
	GetLeaves(ctx context.Context, calendarID uint, from, to time.Time) ([]models.CalendarLeave, error)
	GetHolidays(ctx context.Context, calendarID uint, from, to time.Time) ([]models.CalendarLeave, error)
	ReplaceImportedHolidays(ctx context.Context, calendarID uint, holidays []models.CalendarLeave) error
}

type GormCalendarRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormCalendarRepository(db *gorm.DB, logger *logrus.Logger) (*GormCalendarRepository, error) {
	logger = loggerOrDefault(logger)

	err := db.AutoMigrate(&models.WorkCalendar{}, &models.CalendarAttendance{}, &models.CalendarLeave{})
	if err != nil {
		logger.WithError(err).Error("Failed to auto-migrate calendar tables")
		return nil, err
	}

	return &GormCalendarRepository{db: db, logger: logger}, nil
}

func (r *GormCalendarRepository) Create(ctx context.Context, calendar *models.WorkCalendar) error {
	for i := range calendar.Attendances {
		if !calendar.Attendances[i].IsValid() {
			return errors.New("invalid calendar attendance")
		}
	}
	return r.db.WithContext(ctx).Create(calendar).Error
}

// GetByID loads the calendar with its weekly slots. Leaves are loaded per
// period through GetLeaves.
func (r *GormCalendarRepository) GetByID(ctx context.Context, id uint) (*models.WorkCalendar, error) {
	var calendar models.WorkCalendar
	err := r.db.WithContext(ctx).
		Preload("Attendances", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, hour_from ASC")
		}).
		First(&calendar, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calendar, nil
}

func (r *GormCalendarRepository) CreateLeave(ctx context.Context, leave *models.CalendarLeave) error {
	if leave.DateTo.Before(leave.DateFrom) {
		return errors.New("calendar leave ends before it starts")
	}
	return r.db.WithContext(ctx).Create(leave).Error
}

// GetLeaves returns every leave of the calendar overlapping [from, to].
func (r *GormCalendarRepository) GetLeaves(ctx context.Context, calendarID uint, from, to time.Time) ([]models.CalendarLeave, error) {
	var leaves []models.CalendarLeave
	err := r.db.WithContext(ctx).
		Where("calendar_id = ? AND date_to >= ? AND date_from <= ?", calendarID, from.UTC(), to.UTC()).
		Order("date_from ASC").
		Find(&leaves).Error
	return leaves, err
}

// GetHolidays returns the company-wide leaves of the calendar overlapping [from, to].
func (r *GormCalendarRepository) GetHolidays(ctx context.Context, calendarID uint, from, to time.Time) ([]models.CalendarLeave, error) {
	var leaves []models.CalendarLeave
	err := r.db.WithContext(ctx).
		Where("calendar_id = ? AND employee_id IS NULL AND date_to >= ? AND date_from <= ?",
			calendarID, from.UTC(), to.UTC()).
		Order("date_from ASC").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).WithField("calendar_id", calendarID).Error("Failed to get holidays")
	}
	return leaves, err
}

// ReplaceImportedHolidays drops previously imported holidays of the calendar
// and stores the new ones in one transaction.
func (r *GormCalendarRepository) ReplaceImportedHolidays(ctx context.Context, calendarID uint, holidays []models.CalendarLeave) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("calendar_id = ? AND imported = ?", calendarID, true).
			Delete(&models.CalendarLeave{}).Error; err != nil {
			return err
		}
		if len(holidays) == 0 {
			return nil
		}
		for i := range holidays {
			holidays[i].CalendarID = calendarID
			holidays[i].EmployeeID = nil
			holidays[i].Imported = true
		}
		return tx.Create(&holidays).Error
	})
}
