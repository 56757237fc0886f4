package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/linepar/logger"
)

func TestTracker_ClampsToTotal(t *testing.T) {
	tr := NewTracker(100, false, nil)
	tr.Add(60)
	u := tr.Add(60)
	if u.Bytes != 100 || tr.Done() != 100 {
		t.Errorf("Bytes = %d, want clamped to 100", u.Bytes)
	}
	if u.Percent != 100 {
		t.Errorf("Percent = %v, want 100", u.Percent)
	}
}

func TestTracker_UnknownTotal(t *testing.T) {
	var calls int
	tr := NewTracker(0, false, func(u Update) {
		calls++
		if u.Percent != -1 {
			t.Errorf("Percent = %v, want -1", u.Percent)
		}
	})
	tr.Add(10)
	tr.Add(10)
	if calls != 2 || tr.Done() != 20 {
		t.Errorf("calls = %d, done = %d", calls, tr.Done())
	}
	if u := tr.Finish(); u.Percent != -1 || !u.Final {
		t.Errorf("Finish = %+v", u)
	}
}

func TestTracker_NotifiesOnWholePercentSteps(t *testing.T) {
	var got []int
	tr := NewTracker(1000, true, func(u Update) { got = append(got, int(u.Percent)) })
	for i := 0; i < 40; i++ {
		tr.Add(5)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	if len(got) != len(want) {
		t.Fatalf("notified %d times (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTracker_FinishReportsComplete(t *testing.T) {
	var last Update
	tr := NewTracker(1000, false, func(u Update) { last = u })
	tr.Add(400)
	tr.Finish()
	if !last.Final || last.Percent != 100 || last.Bytes != 400 {
		t.Errorf("final update = %+v", last)
	}
}

func TestNewTracker_NegativeTotal(t *testing.T) {
	tr := NewTracker(-5, false, nil)
	if tr.Total() != 0 || tr.Percent() != -1 {
		t.Errorf("Total = %d, Percent = %v", tr.Total(), tr.Percent())
	}
}

func TestThrottle(t *testing.T) {
	var n int
	fn := Throttle(func(Update) { n++ }, time.Hour)
	fn(Update{Percent: 1})
	fn(Update{Percent: 2})
	fn(Update{Percent: 3})
	if n != 1 {
		t.Errorf("forwarded %d updates inside one window, want 1", n)
	}
	fn(Update{Percent: 100, Final: true})
	if n != 2 {
		t.Errorf("final update should always pass, forwarded %d", n)
	}
}

func TestChain(t *testing.T) {
	var a, b int
	fn := Chain(func(Update) { a++ }, nil, func(Update) { b++ })
	fn(Update{})
	if a != 1 || b != 1 {
		t.Errorf("a = %d, b = %d", a, b)
	}
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)
	report := LogReporter(log)

	report(Update{Bytes: 50, Total: 100, Exact: true, Percent: 50})
	report(Update{Bytes: 100, Total: 100, Percent: 100, Final: true})

	out := buf.String()
	if !strings.Contains(out, `"percent":50`) || !strings.Contains(out, `"total_bytes":100`) {
		t.Errorf("missing progress fields in %s", out)
	}
	if !strings.Contains(out, "input consumed") {
		t.Errorf("missing final message in %s", out)
	}
}
