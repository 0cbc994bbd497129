package slots

import (
	"fmt"
	"strings"
	"time"
)

// TimeLabel отображаемое время в 12-часовом формате, например "09:00 AM"
type TimeLabel string

// catalog фиксированная сетка времени, которую интерфейс показывает всегда,
// независимо от данных бэкенда
var catalog = []TimeLabel{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

// Catalog возвращает копию сетки в порядке отображения
func Catalog() []TimeLabel {
	out := make([]TimeLabel, len(catalog))
	copy(out, catalog)
	return out
}

// InCatalog проверяет что метка входит в сетку
func InCatalog(label TimeLabel) bool {
	for _, l := range catalog {
		if l == label {
			return true
		}
	}
	return false
}

// ToLabel переводит "HH:MM:SS" (24 часа) в "hh:mm AM/PM".
// Полночь даёт "12:xx AM", полдень "12:xx PM". Секунды необязательны,
// каждое поле ровно две цифры.
func ToLabel(hhmmss string) (TimeLabel, error) {
	s := strings.TrimSpace(hhmmss)
	layout := "15:04:05"
	if len(s) == len("15:04") {
		layout = "15:04"
	}
	if len(s) != len(layout) || s[0] < '0' || s[0] > '9' {
		return "", fmt.Errorf("invalid time %q", hhmmss)
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", hhmmss, err)
	}
	return TimeLabel(t.Format("03:04 PM")), nil
}

// MustLabel как ToLabel, но паникует на некорректном вводе
func MustLabel(hhmmss string) TimeLabel {
	label, err := ToLabel(hhmmss)
	if err != nil {
		panic(err)
	}
	return label
}
