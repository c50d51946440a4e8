package rules

import (
	"errors"
	"time"

	"ratedesk/internal/domain/shared/dates"
)

var ErrInvalidWindow = errors.New("rules: window end must not precede start")

// Window is an inclusive [Start, End] day range. Both bounds are
// normalized to UTC day boundaries; a rule with a start date must carry
// an end date as well, so the zero-window case is represented by the
// absence of the window, not by open bounds.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: dates.Day(start), End: dates.Day(end)}
	if w.End.Before(w.Start) {
		return Window{}, ErrInvalidWindow
	}
	return w, nil
}

// Contains reports whether the given day falls inside the window,
// bounds included.
func (w Window) Contains(t time.Time) bool {
	day := dates.Day(t)
	return !day.Before(w.Start) && !day.After(w.End)
}
