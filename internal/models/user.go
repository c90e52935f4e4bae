package models

const (
	RoleClient string = "client"
	RoleAdmin  string = "admin"
)

// User is someone who can request reports from the bot or the API.
type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	ChatID    int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `gorm:"not null" json:"first_name"`
	Role      string `gorm:"default:'client'" json:"role"`
	Timezone  string `json:"timezone"`
	CompanyID *uint  `json:"company_id"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
