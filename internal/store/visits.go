// Package store holds the gorm-backed persistence for visits and the audit
// trail. It relies on the database engine's own statement atomicity; there is
// no locking or retry logic at this layer.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/receptio/visitlog/internal/models"
	"github.com/receptio/visitlog/internal/visits"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Visits struct {
	db *gorm.DB
}

func NewVisits(db *gorm.DB) *Visits {
	return &Visits{db: db}
}

func (s *Visits) Create(ctx context.Context, visit *models.Visit) error {
	return s.db.WithContext(ctx).Create(visit).Error
}

// CloseVisit stamps the exit fields for the given id. There is deliberately
// no already-closed guard: calling it twice overwrites both fields, and the
// last write wins.
func (s *Visits) CloseVisit(ctx context.Context, id uint, exitTime time.Time, exitSignature string) error {
	return s.db.WithContext(ctx).Model(&models.Visit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"exit_time":      exitTime,
			"exit_signature": exitSignature,
		}).Error
}

// FindByID returns nil, nil for a well-formed but absent id.
func (s *Visits) FindByID(ctx context.Context, id uint) (*models.Visit, error) {
	var visit models.Visit
	err := s.db.WithContext(ctx).First(&visit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (s *Visits) FindActive(ctx context.Context, filter visits.Filter) ([]models.Visit, error) {
	query := applyFilter(s.db.WithContext(ctx).Model(&models.Visit{}), filter).
		Where("exit_time IS NULL")

	var result []models.Visit
	if err := query.Order("entry_time DESC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Visits) FindHistory(ctx context.Context, filter visits.HistoryFilter) ([]models.Visit, error) {
	query := applyFilter(s.db.WithContext(ctx).Model(&models.Visit{}), filter.Filter)

	switch filter.Status {
	case visits.StatusActive:
		query = query.Where("exit_time IS NULL")
	case visits.StatusClosed:
		query = query.Where("exit_time IS NOT NULL")
	}

	var result []models.Visit
	if err := query.Order("entry_time DESC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// applyFilter AND-combines the optional clauses. The search term matches
// case-insensitively against names, company and host; date bounds cover the
// whole day on both ends. Unparseable dates impose no constraint.
func applyFilter(query *gorm.DB, filter visits.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(host_last_name) LIKE ?",
			term, term, term, term)
	}

	if from, ok := parseDate(filter.From); ok {
		query = query.Where("entry_time >= ?", from)
	}
	if to, ok := parseDate(filter.To); ok {
		query = query.Where("entry_time <= ?", to.Add(24*time.Hour-time.Second))
	}

	return query
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
