package models

import "time"

type Employee struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `json:"name"`
	CompanyID    uint      `gorm:"not null;index" json:"company_id"`
	DepartmentID *uint     `json:"department_id"`
	CalendarID   *uint     `json:"calendar_id"`
	Active       bool      `gorm:"not null;index" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}

// DepartmentName returns the department name or an empty string.
func (e *Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}

func (e *Employee) IsValid() bool {
	return e.CompanyID != 0
}
