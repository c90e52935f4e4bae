package models

import (
	"time"

	"gorm.io/gorm"
)

// Leave states. Only validated leaves are reported.
const (
	LeaveStateDraft     = "draft"
	LeaveStateConfirmed = "confirm"
	LeaveStateValidated = "validate"
	LeaveStateRefused   = "refuse"
)

// Leave kinds. An empty kind means the type was never tagged.
const (
	LeaveKindSick         = "sick"
	LeaveKindVacation     = "vacation"
	LeaveKindUnjustified  = "unjustified"
	LeaveKindCompensation = "compensation"
	LeaveKindOther        = "other"
)

type LeaveType struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Kind string `gorm:"type:varchar(20)" json:"kind"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	EmployeeID  uint      `gorm:"not null;index" json:"employee_id"`
	LeaveTypeID uint      `gorm:"not null" json:"leave_type_id"`
	State       string    `gorm:"type:varchar(20);not null;default:'draft';index" json:"state"`
	DateFrom    time.Time `gorm:"not null" json:"date_from"`
	DateTo      time.Time `gorm:"not null" json:"date_to"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	LeaveType LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type"`
}

func (LeaveRecord) TableName() string {
	return "leave_records"
}

func (l *LeaveRecord) BeforeSave(tx *gorm.DB) error {
	l.DateFrom = l.DateFrom.UTC()
	l.DateTo = l.DateTo.UTC()
	return nil
}

func (l *LeaveRecord) IsValidated() bool {
	return l.State == LeaveStateValidated
}

func (l *LeaveRecord) IsValid() bool {
	if l.EmployeeID == 0 || l.DateFrom.IsZero() || l.DateTo.IsZero() {
		return false
	}
	return !l.DateTo.Before(l.DateFrom)
}
