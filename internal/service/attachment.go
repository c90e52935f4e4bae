package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"attendance-report/internal/attendance"
	"attendance-report/internal/models"
	"attendance-report/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FileStorage stores document bytes under a key.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, key string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type AttachmentService struct {
	repo    repository.ReportAttachmentRepository
	storage FileStorage
	baseURL string
	logger  *logrus.Logger
}

func NewAttachmentService(repo repository.ReportAttachmentRepository, storage FileStorage, baseURL string, logger *logrus.Logger) *AttachmentService {
	return &AttachmentService{
		repo:    repo,
		storage: storage,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Save stores a spreadsheet and records it as an attachment of the company.
func (s *AttachmentService) Save(ctx context.Context, name string, companyID uint, month attendance.Month, data []byte) (*models.ReportAttachment, error) {
	id := uuid.NewString()
	key := fmt.Sprintf("reports/%d/%s.xlsx", companyID, id)

	storedKey, err := s.storage.Upload(ctx, bytes.NewReader(data), key)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := &models.ReportAttachment{
		ID:         id,
		Name:       name,
		Mimetype:   models.SpreadsheetMimetype,
		Size:       int64(len(data)),
		StorageKey: storedKey,
		CompanyID:  companyID,
		Year:       month.Year,
		Month:      int(month.Month),
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		if delErr := s.storage.Delete(ctx, storedKey); delErr != nil {
			s.logger.WithError(delErr).WithField("key", storedKey).Warn("Failed to remove orphaned attachment file")
		}
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"attachment_id": attachment.ID,
		"company_id":    companyID,
		"size":          attachment.Size,
	}).Info("Report attachment stored")

	return attachment, nil
}

// Open returns the attachment and a reader over its content. The caller closes it.
func (s *AttachmentService) Open(ctx context.Context, id string) (*models.ReportAttachment, io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, ErrAttachmentNotFound
	}

	attachment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	if attachment == nil {
		return nil, nil, ErrAttachmentNotFound
	}

	file, err := s.storage.Download(ctx, attachment.StorageKey)
	if err != nil {
		s.logger.WithError(err).WithField("attachment_id", id).Error("Attachment file is missing")
		return nil, nil, ErrAttachmentNotFound
	}
	return attachment, file, nil
}

func (s *AttachmentService) ListByCompany(ctx context.Context, companyID uint, limit int) ([]models.ReportAttachment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetByCompany(ctx, companyID, limit)
}

// URL is the download link of an attachment.
func (s *AttachmentService) URL(attachment *models.ReportAttachment) string {
	return fmt.Sprintf("%s/api/attachments/%s?download=true", s.baseURL, attachment.ID)
}
