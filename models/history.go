package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HistoryRecord is an immutable snapshot of one consultation session.
type HistoryRecord struct {
	ID       string                                `gorm:"type:uuid;primary_key" json:"id"`
	Customer datatypes.JSONType[CustomerSnapshot] `gorm:"type:jsonb;not null" json:"customerFormData"`
	Consult  datatypes.JSONType[ConsultLine]      `gorm:"type:jsonb;not null" json:"consultFormData"`
	Rows     datatypes.JSONSlice[LedgerRow]       `gorm:"type:jsonb;not null" json:"tableData"`

	UserID    string    `gorm:"type:varchar(64);index" json:"userId"`
	Username  string    `gorm:"type:varchar(100);index;not null" json:"username"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (HistoryRecord) TableName() string {
	return "consulting_history"
}

func (h *HistoryRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return
}

func NewHistoryRecord(customer CustomerSnapshot, consult ConsultLine, rows []LedgerRow) HistoryRecord {
	return HistoryRecord{
		Customer: datatypes.NewJSONType(customer),
		Consult:  datatypes.NewJSONType(consult),
		Rows:     datatypes.JSONSlice[LedgerRow](rows),
	}
}

// GrandTotal sums the grand totals of the embedded ledger.
func (h HistoryRecord) GrandTotal() int64 {
	var sum int64
	for _, r := range h.Rows {
		sum += r.GrandTotal
	}
	return sum
}
