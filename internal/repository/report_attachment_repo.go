package repository

import (
	"context"
	"errors"

	"attendance-report/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReportAttachmentRepository interface {
	Create(ctx context.Context, attachment *models.ReportAttachment) error
	GetByID(ctx context.Context, id string) (*models.ReportAttachment, error)
	GetByCompany(ctx context.Context, companyID uint, limit int) ([]models.ReportAttachment, error)
}

type GormReportAttachmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormReportAttachmentRepository(db *gorm.DB, logger *logrus.Logger) (*GormReportAttachmentRepository, error) {
	logger = loggerOrDefault(logger)

	if err := db.AutoMigrate(&models.ReportAttachment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate report_attachments table")
		return nil, err
	}

	return &GormReportAttachmentRepository{db: db, logger: logger}, nil
}

func (r *GormReportAttachmentRepository) Create(ctx context.Context, attachment *models.ReportAttachment) error {
	if !attachment.IsValid() {
		r.logger.WithField("name", attachment.Name).Warn("Invalid report attachment")
		return errors.New("invalid report attachment")
	}

	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create report attachment")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":         attachment.ID,
		"name":       attachment.Name,
		"company_id": attachment.CompanyID,
	}).Info("Report attachment created")

	return nil
}

func (r *GormReportAttachmentRepository) GetByID(ctx context.Context, id string) (*models.ReportAttachment, error) {
	var attachment models.ReportAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *GormReportAttachmentRepository) GetByCompany(ctx context.Context, companyID uint, limit int) ([]models.ReportAttachment, error) {
	var attachments []models.ReportAttachment
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attachments).Error
	return attachments, err
}
