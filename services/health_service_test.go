package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

func TestRollupStatus(t *testing.T) {
	cases := []struct {
		name     string
		checks   map[string]HealthCheck
		expected string
	}{
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"database": {Status: HealthStatusHealthy},
				"cache":    {Status: HealthStatusHealthy},
			},
			expected: HealthStatusHealthy,
		},
		{
			name: "single warning",
			checks: map[string]HealthCheck{
				"database": {Status: HealthStatusHealthy},
				"cache":    {Status: HealthStatusWarning},
			},
			expected: HealthStatusWarning,
		},
		{
			name: "two warnings degrade",
			checks: map[string]HealthCheck{
				"cache":   {Status: HealthStatusWarning},
				"backups": {Status: HealthStatusWarning},
			},
			expected: HealthStatusDegraded,
		},
		{
			name: "critical wins over warnings",
			checks: map[string]HealthCheck{
				"database": {Status: HealthStatusCritical},
				"cache":    {Status: HealthStatusWarning},
				"backups":  {Status: HealthStatusWarning},
			},
			expected: HealthStatusCritical,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, rollupStatus(tc.checks))
		})
	}
}

func TestCheckAllReportsAndPersists(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		ArchivePath:           t.TempDir(),
		LogDir:                t.TempDir(),
		BackupIntervalMinutes: 60,
	}

	// Seed one flight so the database probe passes clean
	require.NoError(t, db.Create(&models.Flight{
		FlightNumber:  "AA1234",
		FlightType:    models.FlightTypeArrival,
		ScheduledTime: time.Now().Format("2006-01-02T15:04:05"),
		Status:        "En Route",
	}).Error)

	s := NewHealthService(db, nil, nil, nil, cfg)
	report := s.CheckAll()

	require.NotNil(t, report)
	require.Len(t, report.Checks, 5)
	assert.Equal(t, HealthStatusHealthy, report.Checks["database"].Status)
	assert.Equal(t, HealthStatusHealthy, report.Checks["archive"].Status)
	assert.Equal(t, HealthStatusHealthy, report.Checks["runtime"].Status)
	// Cache and backups are unconfigured, which is two warnings
	assert.Equal(t, HealthStatusWarning, report.Checks["cache"].Status)
	assert.Equal(t, HealthStatusWarning, report.Checks["backups"].Status)
	assert.Equal(t, HealthStatusDegraded, report.Status)

	persisted, err := s.LastReport()
	require.NoError(t, err)
	assert.Equal(t, report.Status, persisted.Status)
}

func TestCheckDatabaseWarnsWhenQuietToday(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		ArchivePath:           t.TempDir(),
		LogDir:                t.TempDir(),
		BackupIntervalMinutes: 60,
	}

	s := NewHealthService(db, nil, nil, nil, cfg)
	check := s.checkDatabase()
	assert.Equal(t, HealthStatusWarning, check.Status)
	assert.Contains(t, check.Message, "no flights recorded today")
}

func TestCheckArchiveMissingDirectory(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		ArchivePath:           "/nonexistent/archive/path",
		LogDir:                t.TempDir(),
		BackupIntervalMinutes: 60,
	}

	s := NewHealthService(db, nil, nil, nil, cfg)
	check := s.checkArchive()
	assert.Equal(t, HealthStatusWarning, check.Status)
}

func TestCheckBackupsFlagsStaleSnapshot(t *testing.T) {
	db := newTestDB(t)
	backupSvc, backupCfg := newTestBackup(t)
	_, err := backupSvc.RunBackup(BackupTierHourly)
	require.NoError(t, err)

	cfg := &config.Config{
		ArchivePath:           backupCfg.ArchivePath,
		LogDir:                t.TempDir(),
		BackupIntervalMinutes: 60,
	}
	s := NewHealthService(db, nil, backupSvc, nil, cfg)

	check := s.checkBackups()
	assert.Equal(t, HealthStatusHealthy, check.Status)

	// Shrink the allowed age below the snapshot's age
	s.backupMaxAge = -time.Minute
	check = s.checkBackups()
	assert.Equal(t, HealthStatusWarning, check.Status)
}
