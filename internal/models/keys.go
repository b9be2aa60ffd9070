package models

import "time"

const (
	MonthKeyLayout = "2006-01"
	DayKeyLayout   = "2006-01-02"
)

// MonthKey возвращает ключ месяца вида YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// DayKey возвращает ключ дня вида YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}
