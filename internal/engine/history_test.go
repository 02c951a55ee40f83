package engine

import (
	"encoding/json"
	"fmt"
	"testing"
)

func fill(h *History, n int) {
	for i := 1; i <= n; i++ {
		h.Append(json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	fill(h, 5)

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	got := h.Latest(0)
	want := []string{`{"n":3}`, `{"n":4}`, `{"n":5}`}
	for i, w := range want {
		if string(got[i]) != w {
			t.Errorf("entry %d = %s, want %s", i, got[i], w)
		}
	}
}

func TestHistoryLatestLimit(t *testing.T) {
	h := NewHistory(10)
	fill(h, 4)

	got := h.Latest(2)
	if len(got) != 2 {
		t.Fatalf("Latest(2) returned %d entries", len(got))
	}
	if string(got[0]) != `{"n":3}` || string(got[1]) != `{"n":4}` {
		t.Errorf("Latest(2) = %s, %s", got[0], got[1])
	}
}

func TestHistoryDisabledAndNil(t *testing.T) {
	h := NewHistory(0)
	fill(h, 3)
	if h.Len() != 0 {
		t.Errorf("zero-capacity ring buffered %d entries", h.Len())
	}

	var nilRing *History
	nilRing.Append(json.RawMessage(`{}`))
	if nilRing.Len() != 0 || nilRing.Latest(1) != nil {
		t.Error("nil ring must be inert")
	}
}
