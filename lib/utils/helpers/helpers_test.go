package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateLeaveDays(t *testing.T) {
	t.Run(`границы периода включительно`, func(t *testing.T) {
		require.Equal(t, 3, CalculateLeaveDays(date("2026-03-02"), date("2026-03-04"), false))
		require.Equal(t, 1, CalculateLeaveDays(date("2026-03-02"), date("2026-03-02"), false))
	})

	t.Run(`окончание раньше начала`, func(t *testing.T) {
		require.Equal(t, 0, CalculateLeaveDays(date("2026-03-04"), date("2026-03-02"), false))
	})

	t.Run(`исключение выходных`, func(t *testing.T) {
		// 2026-03-02 понедельник, 2026-03-08 воскресенье
		require.Equal(t, 7, CalculateLeaveDays(date("2026-03-02"), date("2026-03-08"), false))
		require.Equal(t, 5, CalculateLeaveDays(date("2026-03-02"), date("2026-03-08"), true))
	})

	t.Run(`период только из выходных`, func(t *testing.T) {
		// суббота и воскресенье
		require.Equal(t, 0, CalculateLeaveDays(date("2026-03-07"), date("2026-03-08"), true))
	})
}
