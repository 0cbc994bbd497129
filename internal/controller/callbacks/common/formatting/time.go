package formatting

import (
	"time"
)

const isoDate = "2006-01-02"

// FormatDisplayDate форматирует дату YYYY-MM-DD для показа: "Tue, 20 Oct 2026".
// Нераспознанная строка возвращается как есть.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 02 Jan 2006")
}

// FormatDateButton короткая подпись даты для кнопки: "Tue 20.10"
func FormatDateButton(t time.Time) string {
	return t.Format("Mon 02.01")
}

// ISODate форматирует дату в YYYY-MM-DD
func ISODate(t time.Time) string {
	return t.Format(isoDate)
}

// UpcomingDates возвращает days дат начиная с сегодняшней (по часовому поясу now).
// Прошедшие даты не предлагаются.
func UpcomingDates(now time.Time, days int) []time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

// IsPastDate сообщает что дата YYYY-MM-DD раньше сегодняшней
func IsPastDate(date string, now time.Time) bool {
	t, err := time.ParseInLocation(isoDate, date, now.Location())
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.Before(today)
}
