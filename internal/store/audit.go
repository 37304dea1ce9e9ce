package store

import (
	"context"

	"github.com/receptio/visitlog/internal/models"
	"gorm.io/gorm"
)

const defaultAuditLimit = 100

type Audit struct {
	db *gorm.DB
}

func NewAudit(db *gorm.DB) *Audit {
	return &Audit{db: db}
}

// Append inserts one audit row. Action and details are free text; an empty
// details string is stored as null.
func (s *Audit) Append(ctx context.Context, visitID *uint, action, details, performedBy, ipAddress string) error {
	entry := models.AuditLog{
		VisitID:     visitID,
		Action:      action,
		PerformedBy: performedBy,
		IPAddress:   ipAddress,
	}
	if details != "" {
		entry.Details = &details
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// Latest returns up to limit entries, newest first. The id tiebreak keeps
// insertion order among rows sharing a creation timestamp.
func (s *Audit) Latest(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	var result []models.AuditLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
