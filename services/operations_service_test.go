package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

func newTestOperations(t *testing.T) *OperationsService {
	t.Helper()
	s, err := NewOperationsService(&config.Config{LogDir: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestLogCreatesEntryWithIdentity(t *testing.T) {
	s := newTestOperations(t)

	entry := s.LogBackup("hourly_backup", models.OpStatusSuccess, "flights_hourly_20260829.db")

	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.Timestamp)
	assert.NotEmpty(t, entry.Date)
	assert.Equal(t, models.OpCategoryBackup, entry.Category)
	assert.Equal(t, "hourly_backup", entry.Operation)
	assert.Equal(t, models.OpStatusSuccess, entry.Status)
}

func TestGetOperationsReturnsNewestFirst(t *testing.T) {
	s := newTestOperations(t)

	s.LogDataFetch("fetch_radar", models.OpStatusSuccess, "42 contacts")
	s.LogDataFetch("fetch_board", models.OpStatusError, "timeout")
	s.LogMonitoring("health_check", models.OpStatusSuccess, "")

	entries, err := s.GetOperations("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "health_check", entries[0].Operation)
	assert.Equal(t, "fetch_radar", entries[2].Operation)
}

func TestGetOperationsHonorsLimit(t *testing.T) {
	s := newTestOperations(t)

	for i := 0; i < 5; i++ {
		s.LogSystem("startup", models.OpStatusSuccess, "")
	}

	entries, err := s.GetOperations("", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetOperationsFiltersByDate(t *testing.T) {
	s := newTestOperations(t)

	s.LogSystem("startup", models.OpStatusSuccess, "")

	entries, err := s.GetOperations("1999-01-01", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogRollsOffAtCap(t *testing.T) {
	s := newTestOperations(t)

	for i := 0; i < operationsLogCap+25; i++ {
		s.LogDataFetch("fetch_weather", models.OpStatusSuccess, "")
	}

	entries, err := s.GetOperations("", 0)
	require.NoError(t, err)
	assert.Len(t, entries, operationsLogCap)
}

func TestGetRecentIncludesFreshEntries(t *testing.T) {
	s := newTestOperations(t)

	s.LogBackup("hourly_backup", models.OpStatusSuccess, "")

	entries, err := s.GetRecent(1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetSummaryAggregates(t *testing.T) {
	s := newTestOperations(t)

	s.LogBackup("hourly_backup", models.OpStatusSuccess, "")
	s.LogBackup("prune", models.OpStatusSuccess, "")
	s.LogDataFetch("fetch_radar", models.OpStatusError, "timeout")

	summary, err := s.GetSummary("")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, 2, summary.ByCategory[models.OpCategoryBackup])
	assert.Equal(t, 1, summary.ByCategory[models.OpCategoryDataFetch])
	assert.Equal(t, 2, summary.ByStatus[models.OpStatusSuccess])
	assert.Equal(t, 1, summary.ByStatus[models.OpStatusError])
	assert.Len(t, summary.Timeline, 3)
}

func TestCleanupOldEntriesDropsAgedEntries(t *testing.T) {
	s := newTestOperations(t)

	old := time.Now().AddDate(0, 0, -45)
	aged := []models.OperationEntry{
		{
			ID:        uuid.New().String(),
			Timestamp: old.Format(time.RFC3339),
			Date:      old.Format("2006-01-02"),
			Time:      old.Format("15:04:05"),
			Category:  models.OpCategoryBackup,
			Operation: "hourly_backup",
			Status:    models.OpStatusSuccess,
		},
	}
	require.NoError(t, s.save(aged))
	s.LogSystem("startup", models.OpStatusSuccess, "")

	removed, err := s.CleanupOldEntries(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := s.GetOperations("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "startup", entries[0].Operation)
}

func TestCleanupOldEntriesKeepsFreshLog(t *testing.T) {
	s := newTestOperations(t)

	s.LogBackup("hourly_backup", models.OpStatusSuccess, "")

	removed, err := s.CleanupOldEntries(30)
	require.NoError(t, err)
	assert.Zero(t, removed)

	entries, err := s.GetOperations("", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{LogDir: dir}

	first, err := NewOperationsService(cfg)
	require.NoError(t, err)
	first.LogSystem("startup", models.OpStatusSuccess, "")

	second, err := NewOperationsService(cfg)
	require.NoError(t, err)
	entries, err := second.GetOperations("", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
