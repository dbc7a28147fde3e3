package utils

import (
	"slices"
	"testing"
)

func TestCircularQueueDropsOldest(t *testing.T) {
	q := NewCircularQueue[int](3)
	for i := 1; i <= 3; i++ {
		if dropped, err := q.Append(i); dropped || err != nil {
			t.Fatalf("unexpected drop or error appending %d: %v", i, err)
		}
	}
	if dropped, _ := q.Append(4); !dropped {
		t.Fatalf("expected appending to a full queue to drop the oldest item")
	}
	if got := slices.Collect(q.Iter()); !slices.Equal(got, []int{2, 3, 4}) {
		t.Fatalf("expected [2 3 4], got %v", got)
	}

	if v, ok := q.Pop(); !ok || v != 2 {
		t.Fatalf("expected to pop 2, got %d (%v)", v, ok)
	}
	if q.Len() != 2 || q.Cap() != 3 {
		t.Fatalf("unexpected length %d or capacity %d", q.Len(), q.Cap())
	}
	q.Pop()
	q.Pop()
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected an empty queue")
	}
}

func TestCircularQueueZeroCapacity(t *testing.T) {
	if _, err := NewCircularQueue[int](0).Append(1); err == nil {
		t.Fatalf("expected an error appending to a zero-capacity queue")
	}
}
