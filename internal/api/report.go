package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"attendance-report/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ReportRequest is the body of POST /api/reports/attendance.
type ReportRequest struct {
	CompanyID uint `json:"company_id" validate:"required,gt=0"`
	Year      int  `json:"year" validate:"required,gte=1000,lte=9999"`
	Month     int  `json:"month" validate:"required,gte=1,lte=12"`
	UserID    uint `json:"user_id"`
}

type ReportResponse struct {
	AttachmentID string `json:"attachment_id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Employees    int    `json:"employees"`
}

type ReportHandler struct {
	reportService     *service.ReportService
	attachmentService *service.AttachmentService
	validate          *validator.Validate
	logger            *logrus.Logger
}

func NewReportHandler(reportService *service.ReportService, attachmentService *service.AttachmentService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reportService:     reportService,
		attachmentService: attachmentService,
		validate:          validator.New(),
		logger:            logger,
	}
}

// CreateAttendanceReport handles POST /api/reports/attendance
func (h *ReportHandler) CreateAttendanceReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(w, "validation failed", validationDetails(err))
		return
	}

	result, err := h.reportService.Export(r.Context(), service.ReportRequest{
		CompanyID:    req.CompanyID,
		Year:         req.Year,
		Month:        req.Month,
		ActingUserID: req.UserID,
	})
	if err != nil {
		h.logger.WithError(err).WithField("company_id", req.CompanyID).Warn("Report request failed")
		handleError(w, err)
		return
	}

	created(w, "report generated", ReportResponse{
		AttachmentID: result.Attachment.ID,
		Name:         result.Attachment.Name,
		URL:          result.URL,
		Employees:    len(result.Report.Rows),
	})
}

// ListCompanyReports handles GET /api/companies/{companyID}/reports
func (h *ReportHandler) ListCompanyReports(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseUint(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		badRequest(w, "invalid company id", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attachments, err := h.attachmentService.ListByCompany(r.Context(), uint(companyID), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	out := make([]ReportResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, ReportResponse{
			AttachmentID: attachments[i].ID,
			Name:         attachments[i].Name,
			URL:          h.attachmentService.URL(&attachments[i]),
		})
	}
	success(w, out)
}

// DownloadAttachment handles GET /api/attachments/{id}
func (h *ReportHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, file, err := h.attachmentService.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	defer file.Close()

	disposition := "inline"
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", attachment.Mimetype)
	w.Header().Set("Content-Length", fmt.Sprint(attachment.Size))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": attachment.Name}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file); err != nil {
		h.logger.WithError(err).WithField("attachment_id", attachment.ID).Error("Failed to stream attachment")
	}
}
