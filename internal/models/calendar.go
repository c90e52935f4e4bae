package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkCalendar is a weekly schedule shared by a company or assigned to employees.
type WorkCalendar struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	CompanyID uint   `gorm:"index" json:"company_id"`

	Attendances []CalendarAttendance `gorm:"foreignKey:CalendarID" json:"attendances"`
	Leaves      []CalendarLeave      `gorm:"foreignKey:CalendarID" json:"leaves"`
}

func (WorkCalendar) TableName() string {
	return "work_calendars"
}

// CalendarAttendance is one weekly slot. DayOfWeek follows time.Weekday
// (0 is Sunday), hours are fractional (8.5 is 08:30).
type CalendarAttendance struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	CalendarID uint    `gorm:"not null;index" json:"calendar_id"`
	DayOfWeek  int     `gorm:"not null;check:day_of_week >= 0 AND day_of_week <= 6" json:"day_of_week"`
	HourFrom   float64 `gorm:"not null" json:"hour_from"`
	HourTo     float64 `gorm:"not null" json:"hour_to"`
}

func (CalendarAttendance) TableName() string {
	return "calendar_attendances"
}

func (a *CalendarAttendance) IsValid() bool {
	if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
		return false
	}
	return a.HourFrom >= 0 && a.HourTo <= 24 && a.HourFrom < a.HourTo
}

// CalendarLeave closes part of a calendar. A nil EmployeeID makes it a
// company-wide holiday.
type CalendarLeave struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CalendarID uint      `gorm:"not null;index" json:"calendar_id"`
	EmployeeID *uint     `gorm:"index" json:"employee_id"`
	Name       string    `json:"name"`
	DateFrom   time.Time `gorm:"not null" json:"date_from"`
	DateTo     time.Time `gorm:"not null" json:"date_to"`
	Imported   bool      `gorm:"not null;default:false" json:"imported"`
}

func (CalendarLeave) TableName() string {
	return "calendar_leaves"
}

func (l *CalendarLeave) BeforeSave(tx *gorm.DB) error {
	l.DateFrom = l.DateFrom.UTC()
	l.DateTo = l.DateTo.UTC()
	return nil
}

func (l *CalendarLeave) IsHoliday() bool {
	return l.EmployeeID == nil
}
