package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services"
)

func TestDueTiers(t *testing.T) {
	cases := []struct {
		name     string
		at       time.Time
		expected []string
	}{
		{
			name:     "midday runs hourly only",
			at:       time.Date(2026, 8, 28, 13, 0, 0, 0, time.Local),
			expected: []string{services.BackupTierHourly},
		},
		{
			name: "weekday midnight adds daily",
			at:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local), // a Friday
			expected: []string{
				services.BackupTierHourly,
				services.BackupTierDaily,
			},
		},
		{
			name: "sunday midnight adds weekly",
			at:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local),
			expected: []string{
				services.BackupTierHourly,
				services.BackupTierDaily,
				services.BackupTierWeekly,
			},
		},
		{
			name: "first of month midnight adds monthly",
			at:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), // a Tuesday
			expected: []string{
				services.BackupTierHourly,
				services.BackupTierDaily,
				services.BackupTierMonthly,
			},
		},
		{
			name: "sunday the first gets all four",
			at:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.Local),
			expected: []string{
				services.BackupTierHourly,
				services.BackupTierDaily,
				services.BackupTierWeekly,
				services.BackupTierMonthly,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, dueTiers(tc.at))
		})
	}
}
