package access

import (
	"fmt"
	"time"

	"mockquiz-service/internal/models"
)

// PeriodKey names the usage bucket a quota counter lives in. Counters are
// never reset in place; a new period simply produces a new key and stale
// counters are ignored on read.
//
// Weekly keys combine the calendar year with the ISO week number, so the
// few days around new year can fall under the previous ISO week with the
// new calendar year.
func PeriodKey(freq models.LimitFrequency, now time.Time) string {
	switch freq {
	case models.FrequencyDaily:
		return fmt.Sprintf("daily-%s", now.Format("2006-01-02"))
	case models.FrequencyWeekly:
		_, week := now.ISOWeek()
		return fmt.Sprintf("weekly-%d-W%d", now.Year(), week)
	case models.FrequencyMonthly:
		return fmt.Sprintf("monthly-%s", now.Format("2006-01"))
	case models.FrequencyLifetime:
		return "lifetime"
	default:
		return "lifetime"
	}
}
