package repository

import (
	"context"
	"errors"
	"time"

	"attendance-report/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, event *models.AttendanceEvent) error
	BulkCreate(ctx context.Context, events []models.AttendanceEvent) error
	GetByEmployeeAndPeriod(ctx context.Context, employeeID uint, from, to time.Time) ([]models.AttendanceEvent, error)
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB, logger *logrus.Logger) (*GormAttendanceRepository, error) {
	logger = loggerOrDefault(logger)

	if err := db.AutoMigrate(&models.AttendanceEvent{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance_events table")
		return nil, err
	}

	return &GormAttendanceRepository{db: db, logger: logger}, nil
}

func (r *GormAttendanceRepository) Create(ctx context.Context, event *models.AttendanceEvent) error {
	if !event.IsValid() {
		r.logger.WithField("employee_id", event.EmployeeID).Warn("Invalid attendance event")
		return errors.New("invalid attendance event")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormAttendanceRepository) BulkCreate(ctx context.Context, events []models.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		if !events[i].IsValid() {
			return errors.New("invalid attendance event")
		}
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

// GetByEmployeeAndPeriod returns events with check-in in [from, to), open
// events included, ordered by check-in.
func (r *GormAttendanceRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID uint, from, to time.Time) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND check_in >= ? AND check_in < ?", employeeID, from.UTC(), to.UTC()).
		Order("check_in ASC").
		Find(&events).Error
	if err != nil {
		r.logger.WithError(err).WithField("employee_id", employeeID).Error("Failed to get attendance events")
		return nil, err
	}
	return events, nil
}
