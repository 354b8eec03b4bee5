package service

import "time"

const dayFormat = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayFormat, s)
}

// today returns the current calendar day in local time.
func today() string {
	return time.Now().Format(dayFormat)
}

// weekStart returns the Monday of the current week.
func weekStart(now time.Time) string {
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return now.AddDate(0, 0, -offset).Format(dayFormat)
}

// monthStart returns the first day of the current month.
func monthStart(now time.Time) string {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dayFormat)
}
