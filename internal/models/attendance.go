package models

import (
	"time"

	"gorm.io/gorm"
)

// AttendanceEvent is a check-in/check-out pair. Timestamps are stored in UTC.
type AttendanceEvent struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	EmployeeID uint       `gorm:"not null;index" json:"employee_id"`
	CheckIn    time.Time  `gorm:"not null;index" json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

func (a *AttendanceEvent) BeforeSave(tx *gorm.DB) error {
	a.CheckIn = a.CheckIn.UTC()
	if a.CheckOut != nil {
		out := a.CheckOut.UTC()
		a.CheckOut = &out
	}
	return nil
}

// IsComplete reports whether the event has been closed.
func (a *AttendanceEvent) IsComplete() bool {
	return a.CheckOut != nil && !a.CheckOut.IsZero()
}

func (a *AttendanceEvent) IsValid() bool {
	if a.EmployeeID == 0 || a.CheckIn.IsZero() {
		return false
	}
	if a.IsComplete() && a.CheckOut.Before(a.CheckIn) {
		return false
	}
	return true
}
