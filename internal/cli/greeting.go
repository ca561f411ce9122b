package cli

import "time"

// greeting возвращает приветствие по часу локального времени:
// с 18 до 5 — ночь, с 15 — вечер, с 12 — день, иначе утро.
func greeting(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 18 || h < 5:
		return "Good Night"
	case h >= 15:
		return "Good Evening"
	case h >= 12:
		return "Good Afternoon"
	default:
		return "Good Morning"
	}
}
