package helpers

import (
	"context"
	"time"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// ToDate обнуляет время, оставляя дату в UTC
func ToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateLeaveDays - число удерживаемых дней периода, границы
// включительно. При excludeWeekends суббота и воскресенье не учитываются
func CalculateLeaveDays(start, end time.Time, excludeWeekends bool) int {
	start = ToDate(start)
	end = ToDate(end)
	if end.Before(start) {
		return 0
	}
	if !excludeWeekends {
		return int(end.Sub(start).Hours()/24) + 1
	}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}
