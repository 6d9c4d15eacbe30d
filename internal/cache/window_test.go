package cache

import "testing"

func TestWindow_EvictsOldestPastCapacity(t *testing.T) {
	w := NewWindow[int](5)

	// capacity + k inserts must leave exactly the last capacity items
	for i := 1; i <= 8; i++ {
		w.Append(i)
	}

	if w.Len() != 5 {
		t.Fatalf("expected len 5, got %d", w.Len())
	}

	got := w.Items()
	want := []int{4, 5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWindow_PartiallyFilled(t *testing.T) {
	w := NewWindow[string](10)
	w.Append("a")
	w.Append("b")

	if w.Len() != 2 {
		t.Errorf("expected len 2, got %d", w.Len())
	}
	got := w.Items()
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestWindow_Last(t *testing.T) {
	w := NewWindow[int](4)
	for i := 1; i <= 6; i++ {
		w.Append(i)
	}

	// Stored: [3 4 5 6]
	last := w.Last(2)
	if len(last) != 2 || last[0] != 5 || last[1] != 6 {
		t.Errorf("Last(2): expected [5 6], got %v", last)
	}

	// limit <= 0 and limit > len return everything
	if got := w.Last(0); len(got) != 4 {
		t.Errorf("Last(0): expected 4 items, got %d", len(got))
	}
	if got := w.Last(99); len(got) != 4 {
		t.Errorf("Last(99): expected 4 items, got %d", len(got))
	}
}
