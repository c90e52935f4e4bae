package models

import "time"

type Company struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Timezone   string    `json:"timezone"`
	CalendarID *uint     `json:"calendar_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

type Department struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
}

func (Department) TableName() string {
	return "departments"
}
