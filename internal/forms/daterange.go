package forms

import (
	"fmt"
	"time"
)

// DateLayout — формат дат фильтров (yyyy-MM-dd).
const DateLayout = time.DateOnly

// DateRange — выбранный диапазон дат. Нулевое время — граница не выбрана.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange разбирает сохранённые границы. Диапазон восстанавливается,
// только если заданы обе; иначе возвращается пустой диапазон.
func ParseDateRange(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, nil
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("начало диапазона %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("конец диапазона %q: %w", end, err)
	}
	return DateRange{Start: s, End: e}, nil
}

// Complete сообщает, что выбраны обе границы.
func (r DateRange) Complete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Strings возвращает границы в формате yyyy-MM-dd; ok = false, если диапазон неполный.
func (r DateRange) Strings() (start, end string, ok bool) {
	if !r.Complete() {
		return "", "", false
	}
	return r.Start.Format(DateLayout), r.End.Format(DateLayout), true
}
