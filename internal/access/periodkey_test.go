package access

import (
	"testing"
	"time"

	"mockquiz-service/internal/models"
)

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		name string
		freq models.LimitFrequency
		now  time.Time
		want string
	}{
		{
			name: "daily",
			freq: models.FrequencyDaily,
			now:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			want: "daily-2026-03-15",
		},
		{
			name: "weekly",
			freq: models.FrequencyWeekly,
			now:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			want: "weekly-2026-W11",
		},
		{
			name: "weekly single digit week unpadded",
			freq: models.FrequencyWeekly,
			now:  time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
			want: "weekly-2026-W4",
		},
		{
			name: "weekly around new year uses calendar year",
			freq: models.FrequencyWeekly,
			// 2027-01-01 is a Friday, ISO week 53 of 2026.
			now:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "weekly-2027-W53",
		},
		{
			name: "monthly",
			freq: models.FrequencyMonthly,
			now:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			want: "monthly-2026-03",
		},
		{
			name: "lifetime ignores time",
			freq: models.FrequencyLifetime,
			now:  time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "lifetime",
		},
		{
			name: "unknown frequency falls back to lifetime",
			freq: models.LimitFrequency("fortnightly"),
			now:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want: "lifetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodKey(tt.freq, tt.now)
			if got != tt.want {
				t.Errorf("PeriodKey(%q, %v) = %q, want %q", tt.freq, tt.now, got, tt.want)
			}
		})
	}
}

func TestPeriodKeyDistinctAcrossDays(t *testing.T) {
	d1 := PeriodKey(models.FrequencyDaily, time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC))
	d2 := PeriodKey(models.FrequencyDaily, time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC))
	if d1 == d2 {
		t.Errorf("adjacent days produced the same daily key %q", d1)
	}
}
