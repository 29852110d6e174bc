package service

import "time"

// DayWindow returns the half-open window [start, start+24h) of the day containing t in loc
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats the day containing t in loc as YYYY-MM-DD
func DayKey(t time.Time, loc *time.Location) string {
	start, _ := DayWindow(t, loc)
	return start.Format(time.DateOnly)
}
