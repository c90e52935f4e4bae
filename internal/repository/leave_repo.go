package repository

import (
	"context"
	"errors"
	"time"

	"attendance-report/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LeaveRepository interface {
	CreateType(ctx context.Context, leaveType *models.LeaveType) error
	Create(ctx context.Context, leave *models.LeaveRecord) error
	GetValidatedOverlapping(ctx context.Context, employeeID uint, from, to time.Time) ([]models.LeaveRecord, error)
}

type GormLeaveRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveRepository(db *gorm.DB, logger *logrus.Logger) (*GormLeaveRepository, error) {
	logger = loggerOrDefault(logger)

	if err := db.AutoMigrate(&models.LeaveType{}, &models.LeaveRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate leave tables")
		return nil, err
	}

	return &GormLeaveRepository{db: db, logger: logger}, nil
}

func (r *GormLeaveRepository) CreateType(ctx context.Context, leaveType *models.LeaveType) error {
	if leaveType.Name == "" {
		return errors.New("leave type name is required")
	}
	return r.db.WithContext(ctx).Create(leaveType).Error
}

func (r *GormLeaveRepository) Create(ctx context.Context, leave *models.LeaveRecord) error {
	if !leave.IsValid() {
		r.logger.WithField("employee_id", leave.EmployeeID).Warn("Invalid leave record")
		return errors.New("invalid leave record")
	}
	return r.db.WithContext(ctx).Create(leave).Error
}

// GetValidatedOverlapping returns validated leaves ending at or after from and
// starting before to, oldest first.
func (r *GormLeaveRepository) GetValidatedOverlapping(ctx context.Context, employeeID uint, from, to time.Time) ([]models.LeaveRecord, error) {
	var leaves []models.LeaveRecord
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND state = ? AND date_to >= ? AND date_from < ?",
			employeeID, models.LeaveStateValidated, from.UTC(), to.UTC()).
		Order("date_from ASC, id ASC").
		Find(&leaves).Error
	if err != nil {
		r.logger.WithError(err).WithField("employee_id", employeeID).Error("Failed to get validated leaves")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"count":       len(leaves),
	}).Debug("Retrieved validated leaves")

	return leaves, nil
}
