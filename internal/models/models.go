package models

import (
	"time"
)

// Visit is one visitor's presence interval, from entry to (optional) exit.
// The exit fields are either both nil or both set; they transition together
// when the exit is registered.
type Visit struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Company        *string    `gorm:"type:varchar(200)" json:"company"`
	HostLastName   string     `gorm:"type:varchar(100);not null" json:"host_last_name"`
	EntryTime      time.Time  `gorm:"index;not null" json:"entry_time"`
	EntrySignature string     `gorm:"type:text;not null" json:"entry_signature"`
	ExitTime       *time.Time `gorm:"index" json:"exit_time"`
	ExitSignature  *string    `gorm:"type:text" json:"exit_signature"`
}

// AuditLog records one sensitive action or view. Rows are append-only and are
// never updated or deleted. VisitID is nil for actions not tied to a single
// visit (list views, exports).
type AuditLog struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VisitID     *uint     `gorm:"index" json:"visit_id"`
	Action      string    `gorm:"type:varchar(100);not null" json:"action"`
	Details     *string   `gorm:"type:text" json:"details"`
	PerformedBy string    `gorm:"type:varchar(100);not null" json:"performed_by"`
	IPAddress   string    `gorm:"type:varchar(45);not null" json:"ip_address"`
	CreatedAt   time.Time `gorm:"index;not null" json:"created_at"`
}

func (Visit) TableName() string {
	return "visits"
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
