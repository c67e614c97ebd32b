package utils

import (
	"fmt"
	"time"
)

var dayNames = [...]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsSameDay compares calendar dates only, ignoring the time of day.
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsYesterday reports whether date is the calendar day before today.
func IsYesterday(today, date time.Time) bool {
	return IsSameDay(today.AddDate(0, 0, -1), date)
}

// IsConsecutiveDay reports whether current is exactly one calendar day after previous.
func IsConsecutiveDay(current, previous time.Time) bool {
	return IsSameDay(previous.AddDate(0, 0, 1), current)
}

// DateKey is the canonical calendar-date string used in store keys.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDate renders dd/mm/yyyy, the pt-BR short date.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders dd/mm/yyyy hh:mm:ss.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// FormatTime renders hh:mm:ss.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// DayName returns the pt-BR weekday name.
func DayName(t time.Time) string {
	return dayNames[int(t.Weekday())]
}

// MonthName returns the pt-BR month name.
func MonthName(t time.Time) string {
	return monthNames[int(t.Month())-1]
}

// TodayLabel renders a heading like "Segunda, 02/03/2026".
func TodayLabel(t time.Time) string {
	return fmt.Sprintf("%s, %s", DayName(t), FormatDate(t))
}
