// Package progress tracks how much of an input a run has consumed.
//
// Progress is measured in raw input bytes against a total that is either
// the exact input size or an estimate for compressed input. Estimates can
// undershoot, so the running count is clamped to the total.
package progress

import (
	"time"

	"github.com/kbukum/linepar/logger"
)

// Update is one progress report.
type Update struct {
	// Bytes consumed so far, clamped to Total when Total is known.
	Bytes int64
	// Total is the exact or estimated input size, or 0 when unknown.
	Total int64
	// Exact reports whether Total is the true size.
	Exact bool
	// Percent is 0..100, or -1 when Total is unknown.
	Percent float64
	// Final marks the report sent by Finish.
	Final bool
}

// Func receives progress updates on the run's goroutine.
type Func func(Update)

// Tracker accumulates consumed bytes. It is not safe for concurrent use.
type Tracker struct {
	total int64
	exact bool
	done  int64
	step  int
	fn    Func
}

// NewTracker returns a tracker against total bytes. total <= 0 means the
// size is unknown. fn may be nil.
func NewTracker(total int64, exact bool, fn Func) *Tracker {
	if total < 0 {
		total = 0
	}
	return &Tracker{total: total, exact: exact, step: -1, fn: fn}
}

// Add records n consumed bytes and notifies fn when the whole percentage
// advances. With an unknown total fn is notified on every call.
func (t *Tracker) Add(n int64) Update {
	t.done += n
	if t.total > 0 && t.done > t.total {
		t.done = t.total
	}
	u := t.update()
	if t.fn == nil {
		return u
	}
	if t.total <= 0 {
		t.fn(u)
		return u
	}
	if step := int(u.Percent); step > t.step {
		t.step = step
		t.fn(u)
	}
	return u
}

// Finish sends a final report. A known total is reported as complete even
// if the estimate was larger than the input turned out to be.
func (t *Tracker) Finish() Update {
	u := t.update()
	u.Final = true
	if t.total > 0 {
		u.Percent = 100
	}
	if t.fn != nil {
		t.fn(u)
	}
	return u
}

// Done returns the consumed byte count.
func (t *Tracker) Done() int64 { return t.done }

// Total returns the total the tracker measures against.
func (t *Tracker) Total() int64 { return t.total }

// Percent returns the completed percentage, or -1 when the total is unknown.
func (t *Tracker) Percent() float64 {
	if t.total <= 0 {
		return -1
	}
	return float64(t.done) * 100 / float64(t.total)
}

func (t *Tracker) update() Update {
	return Update{Bytes: t.done, Total: t.total, Exact: t.exact, Percent: t.Percent()}
}

// Throttle forwards at most one update per interval to fn. The first
// update and the final one are always forwarded.
func Throttle(fn Func, interval time.Duration) Func {
	var lastEmit time.Time
	return func(u Update) {
		now := time.Now()
		if u.Final || lastEmit.IsZero() || now.Sub(lastEmit) >= interval {
			lastEmit = now
			fn(u)
		}
	}
}

// Chain calls each non-nil fn in order.
func Chain(fns ...Func) Func {
	return func(u Update) {
		for _, fn := range fns {
			if fn != nil {
				fn(u)
			}
		}
	}
}

// LogReporter logs every update at info level.
func LogReporter(log *logger.Logger) Func {
	if log == nil {
		log = logger.Get("progress")
	}
	return func(u Update) {
		fields := logger.Fields(
			logger.FieldBytes, u.Bytes,
			logger.FieldTotal, u.Total,
			"exact", u.Exact,
		)
		if u.Percent >= 0 {
			fields[logger.FieldPercent] = int(u.Percent)
		}
		msg := "progress"
		if u.Final {
			msg = "input consumed"
		}
		log.Info(msg, fields)
	}
}
