package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// BackupUnitSuffix follows the date in every backup folder name.
const BackupUnitSuffix = "_Daily_Backup_Job"

const unitDateDigits = 8

// BackupUnitID returns the folder name of the unit created on date.
func BackupUnitID(date civil.Date) string {
	return fmt.Sprintf("%04d%02d%02d%s", date.Year, int(date.Month), date.Day, BackupUnitSuffix)
}

// ParseBackupUnit extracts the embedded date of a folder name of the form
// YYYYMMDD_Daily_Backup_Job. A trailing "/" is ignored.
func ParseBackupUnit(id string) (BackupUnit, error) {
	name := strings.TrimSuffix(id, "/")
	if len(name) != unitDateDigits+len(BackupUnitSuffix) || !strings.HasSuffix(name, BackupUnitSuffix) {
		return BackupUnit{}, fmt.Errorf("%w: %q", ErrInvalidBackupName, id)
	}

	digits := name[:unitDateDigits]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return BackupUnit{}, fmt.Errorf("%w: %q", ErrInvalidBackupName, id)
		}
	}

	year, _ := strconv.Atoi(digits[0:4])
	month, _ := strconv.Atoi(digits[4:6])
	day, _ := strconv.Atoi(digits[6:8])

	date := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !date.IsValid() {
		return BackupUnit{}, fmt.Errorf("%w: %q", ErrInvalidBackupDate, id)
	}

	return BackupUnit{ID: name, Date: date}, nil
}
