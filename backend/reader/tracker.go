// Package reader tracks a student's position in a paginated document.
package reader

import "errors"

var (
	ErrNoPages    = errors.New("document has no pages")
	ErrOutOfRange = errors.New("page out of range")
)

// Tracker holds the current page, always within [1, Total].
type Tracker struct {
	page      int
	total     int
	completed bool
}

// NewTracker opens a document on its first page. A single-page document is
// complete as soon as it is opened.
func NewTracker(total int) (*Tracker, error) {
	if total < 1 {
		return nil, ErrNoPages
	}
	return &Tracker{page: 1, total: total, completed: total == 1}, nil
}

// Restore rebuilds a tracker from stored values, clamping the page into range.
func Restore(page, total int, completed bool) (*Tracker, error) {
	if total < 1 {
		return nil, ErrNoPages
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	return &Tracker{page: page, total: total, completed: completed || total == 1}, nil
}

func (t *Tracker) Page() int { return t.page }

func (t *Tracker) Total() int { return t.total }

// Completed is sticky: once the last page has been reached it stays true.
func (t *Tracker) Completed() bool { return t.completed }

// Progress is the share of pages reached, in percent.
func (t *Tracker) Progress() int {
	return t.page * 100 / t.total
}

// Move shifts the page by offset. Moves that would leave [1, Total] are
// rejected and leave the tracker unchanged. It reports whether the move
// landed on the last page going forward, which is the completion signal.
func (t *Tracker) Move(offset int) (bool, error) {
	return t.Goto(t.page + offset)
}

// Goto jumps straight to page, with the same rules as Move.
func (t *Tracker) Goto(page int) (bool, error) {
	if page < 1 || page > t.total {
		return false, ErrOutOfRange
	}
	forward := page > t.page
	t.page = page
	if forward && page == t.total {
		t.completed = true
		return true, nil
	}
	return false, nil
}
