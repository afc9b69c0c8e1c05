package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationHistorySaved = "history_saved"

type NotificationTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *NotificationTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type NotificationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TemplateID   *uuid.UUID `gorm:"type:uuid;index" json:"templateId"`
	HistoryID    string     `gorm:"type:varchar(64);index" json:"historyId"`
	Recipient    string     `gorm:"type:varchar(40)" json:"recipient"`
	Message      string     `gorm:"type:text" json:"message"`
	Status       string     `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string     `gorm:"type:text" json:"errorMessage"`
	Channel      string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time  `json:"sentAt"`
}

func (l *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}
