package models

import "time"

const SpreadsheetMimetype = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportAttachment is a generated document kept for download.
type ReportAttachment struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Mimetype   string    `gorm:"not null" json:"mimetype"`
	Size       int64     `gorm:"not null" json:"size"`
	StorageKey string    `gorm:"not null" json:"-"`
	CompanyID  uint      `gorm:"not null;index" json:"company_id"`
	Year       int       `gorm:"not null" json:"year"`
	Month      int       `gorm:"not null;check:month >= 1 AND month <= 12" json:"month"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReportAttachment) TableName() string {
	return "report_attachments"
}

func (r *ReportAttachment) IsValid() bool {
	if r.ID == "" || r.Name == "" || r.StorageKey == "" {
		return false
	}
	return r.Month >= 1 && r.Month <= 12
}
