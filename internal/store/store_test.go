package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/receptio/visitlog/internal/models"
	"github.com/receptio/visitlog/internal/visits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Visit{}, &models.AuditLog{}))
	return db
}

func createVisit(t *testing.T, s *Visits, first, last, company, host string, entry time.Time) uint {
	t.Helper()

	visit := &models.Visit{
		FirstName:      first,
		LastName:       last,
		HostLastName:   host,
		EntryTime:      entry,
		EntrySignature: "data:image/png;base64,stub",
	}
	if company != "" {
		visit.Company = &company
	}
	require.NoError(t, s.Create(context.Background(), visit))
	return visit.ID
}

func TestFindByID(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	id := createVisit(t, s, "Mario", "Rossi", "Acme", "Bianchi", time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local))

	visit, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, visit)
	assert.Equal(t, "Mario", visit.FirstName)
	require.NotNil(t, visit.Company)
	assert.Equal(t, "Acme", *visit.Company)

	absent, err := s.FindByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, absent, "absent id is not an error")
}

func TestActiveExcludesClosedVisits(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	open := createVisit(t, s, "Anna", "Verdi", "", "Bianchi", time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local))
	closed := createVisit(t, s, "Luca", "Neri", "", "Bianchi", time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local))

	require.NoError(t, s.CloseVisit(ctx, closed, time.Date(2024, 1, 2, 11, 0, 0, 0, time.Local), "data:image/png;base64,stub"))

	active, err := s.FindActive(ctx, visits.Filter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open, active[0].ID)

	closedOnly, err := s.FindHistory(ctx, visits.HistoryFilter{Status: visits.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closedOnly, 1)
	assert.Equal(t, closed, closedOnly[0].ID)
	require.NotNil(t, closedOnly[0].ExitTime)
	require.NotNil(t, closedOnly[0].ExitSignature)

	all, err := s.FindHistory(ctx, visits.HistoryFilter{Status: visits.StatusAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := s.FindHistory(ctx, visits.HistoryFilter{Status: visits.StatusActive})
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, open, activeOnly[0].ID)
}

func TestDateWindowFilter(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	createVisit(t, s, "A", "One", "", "Host", time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local))
	inWindow := createVisit(t, s, "B", "Two", "", "Host", time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local))
	createVisit(t, s, "C", "Three", "", "Host", time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local))

	result, err := s.FindHistory(ctx, visits.HistoryFilter{
		Filter: visits.Filter{From: "2024-01-10", To: "2024-01-31"},
		Status: visits.StatusAll,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, inWindow, result[0].ID)
}

func TestSearchFilterIsCaseInsensitive(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	match := createVisit(t, s, "Mario", "Rossi", "Acme S.p.A.", "Bianchi", time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	createVisit(t, s, "Anna", "Verdi", "", "Neri", time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local))

	for _, term := range []string{"acme", "ROSSI", "mar", "bianchi"} {
		result, err := s.FindActive(ctx, visits.Filter{Search: term})
		require.NoError(t, err)
		require.Len(t, result, 1, "search %q", term)
		assert.Equal(t, match, result[0].ID)
	}

	none, err := s.FindActive(ctx, visits.Filter{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestActiveOrderedByEntryTimeDescending(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	early := createVisit(t, s, "A", "One", "", "Host", time.Date(2024, 4, 1, 8, 0, 0, 0, time.Local))
	late := createVisit(t, s, "B", "Two", "", "Host", time.Date(2024, 4, 1, 12, 0, 0, 0, time.Local))

	result, err := s.FindActive(ctx, visits.Filter{})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, late, result[0].ID)
	assert.Equal(t, early, result[1].ID)
}

func TestCloseVisitOverwritesOnReclose(t *testing.T) {
	s := NewVisits(newTestDB(t))
	ctx := context.Background()

	id := createVisit(t, s, "Mario", "Rossi", "", "Bianchi", time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local))

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	second := time.Date(2024, 5, 1, 11, 0, 0, 0, time.Local)

	require.NoError(t, s.CloseVisit(ctx, id, first, "data:image/png;base64,first"))
	require.NoError(t, s.CloseVisit(ctx, id, second, "data:image/png;base64,second"))

	visit, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, visit.ExitTime)
	assert.True(t, visit.ExitTime.Equal(second), "last write wins on re-close")
	require.NotNil(t, visit.ExitSignature)
	assert.Equal(t, "data:image/png;base64,second", *visit.ExitSignature)
}

func TestAuditAppendAndLatest(t *testing.T) {
	s := NewAudit(newTestDB(t))
	ctx := context.Background()

	visitID := uint(7)
	require.NoError(t, s.Append(ctx, &visitID, "Entry registered", "Entry at 2024-01-01 10:00:00", "system", "10.0.0.1"))
	require.NoError(t, s.Append(ctx, &visitID, "Exit registered", "Exit at 2024-01-01 11:00:00", "system", "10.0.0.1"))
	require.NoError(t, s.Append(ctx, nil, "Viewed audit log", "", "system", "10.0.0.1"))

	latest, err := s.Latest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Viewed audit log", latest[0].Action)
	assert.Equal(t, "Exit registered", latest[1].Action)
	assert.Nil(t, latest[0].Details, "empty details stored as null")
	assert.Nil(t, latest[0].VisitID)

	all, err := s.Latest(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default")
}
