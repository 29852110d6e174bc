package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	start, end := DayWindow(time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC), loc)

	require.True(t, start.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, loc)))
	require.Equal(t, 24*time.Hour, end.Sub(start))
	require.Equal(t, "2024-03-05", DayKey(time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC), loc))
}

func TestDayWindowExcludesNextMidnight(t *testing.T) {
	start, end := DayWindow(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), time.UTC)
	next, _ := DayWindow(end, time.UTC)

	require.True(t, next.Equal(end))
	require.False(t, start.Equal(next))
}
