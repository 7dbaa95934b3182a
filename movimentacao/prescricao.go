package movimentacao

import "time"

// prescriptionYears is the statute-of-limitations period applied after a
// penhora event.
const prescriptionYears = 6

// prescriptionDeadline returns the statute-of-limitations date for an event
// occurring at data: the same day and month, prescriptionYears later.
//
// time.AddDate normalizes Feb 29 into Mar 1 on non-leap years; the legal
// deadline must instead fall back to Feb 28, so the addition is done on the
// date components directly.
func prescriptionDeadline(data time.Time) time.Time {
	year, month, day := data.Date()
	year += prescriptionYears
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
