package domain

import "time"

// DaysOverdue returns how many whole calendar days now is past due, and zero
// when the due date has not passed. Overdue state depends on dates only;
// a loan due today at 09:00 is not overdue at 17:00.
func DaysOverdue(due, now time.Time) int {
	d := int(dateOnly(now).Sub(dateOnly(due)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
