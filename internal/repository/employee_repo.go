package repository

import (
	"context"
	"errors"

	"attendance-report/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetActiveByCompany(ctx context.Context, companyID uint) ([]models.Employee, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB, logger *logrus.Logger) (*GormEmployeeRepository, error) {
	logger = loggerOrDefault(logger)

	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	return &GormEmployeeRepository{db: db, logger: logger}, nil
}

func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if !employee.IsValid() {
		return errors.New("employee must belong to a company")
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *GormEmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Preload("Department").First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetActiveByCompany returns the active employees of a company ordered by id.
func (r *GormEmployeeRepository) GetActiveByCompany(ctx context.Context, companyID uint) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("company_id = ? AND active = ?", companyID, true).
		Order("id ASC").
		Find(&employees).Error
	if err != nil {
		r.logger.WithError(err).WithField("company_id", companyID).Error("Failed to get active employees")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"company_id": companyID,
		"count":      len(employees),
	}).Debug("Retrieved active employees")

	return employees, nil
}

func (r *GormEmployeeRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("employee not found")
	}
	return nil
}
