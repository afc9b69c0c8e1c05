package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`

	Role         string `gorm:"type:varchar(20);not null;default:'staff'" json:"role"` // 'admin' or 'staff'
	NotifyOnSave bool   `gorm:"default:false" json:"notifyOnSave"`

	LastLogin *time.Time     `json:"lastLogin"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the id. Password must already be hashed.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Caller is the verified identity behind a request.
type Caller struct {
	UserID   string
	Username string
	Role     string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
