package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupUnitID(t *testing.T) {
	assert.Equal(t, "20240229_Daily_Backup_Job", BackupUnitID(civil.Date{Year: 2024, Month: time.February, Day: 29}))
	assert.Equal(t, "00010101_Daily_Backup_Job", BackupUnitID(civil.Date{Year: 1, Month: time.January, Day: 1}))
}

func TestParseBackupUnit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		unit, err := ParseBackupUnit("20240229_Daily_Backup_Job")
		require.NoError(t, err)
		assert.Equal(t, "20240229_Daily_Backup_Job", unit.ID)
		assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, unit.Date)
	})

	t.Run("trailing slash from object prefix", func(t *testing.T) {
		unit, err := ParseBackupUnit("20231231_Daily_Backup_Job/")
		require.NoError(t, err)
		assert.Equal(t, "20231231_Daily_Backup_Job", unit.ID)
		assert.Equal(t, civil.Date{Year: 2023, Month: time.December, Day: 31}, unit.Date)
	})

	t.Run("round trip", func(t *testing.T) {
		date := civil.Date{Year: 2025, Month: time.July, Day: 4}
		unit, err := ParseBackupUnit(BackupUnitID(date))
		require.NoError(t, err)
		assert.Equal(t, date, unit.Date)
	})

	malformed := []string{
		"not-a-date_Daily_Backup_Job",
		"2024022_Daily_Backup_Job",
		"202402290_Daily_Backup_Job",
		"20240229_Weekly_Backup_Job",
		"20240229",
		"2024-02-29_Daily_Backup_Job",
		"",
		"x20240229_Daily_Backup_Job",
	}
	for _, id := range malformed {
		t.Run("malformed "+id, func(t *testing.T) {
			_, err := ParseBackupUnit(id)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBackupName)
		})
	}

	impossible := []string{
		"20230229_Daily_Backup_Job",
		"20241301_Daily_Backup_Job",
		"20240431_Daily_Backup_Job",
		"20240100_Daily_Backup_Job",
	}
	for _, id := range impossible {
		t.Run("impossible date "+id, func(t *testing.T) {
			_, err := ParseBackupUnit(id)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBackupDate)
		})
	}
}
