package repository

import (
	"context"
	"errors"

	"attendance-report/internal/models"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	CreateDepartment(ctx context.Context, department *models.Department) error
}

type GormCompanyRepository struct {
	db *gorm.DB
}

func NewGormCompanyRepository(db *gorm.DB) (*GormCompanyRepository, error) {
	if err := db.AutoMigrate(&models.Company{}, &models.Department{}); err != nil {
		return nil, err
	}
	return &GormCompanyRepository{db: db}, nil
}

func (r *GormCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.Name == "" {
		return errors.New("company name is required")
	}
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *GormCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// GetByID returns nil, nil when the company does not exist.
func (r *GormCompanyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *GormCompanyRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}
