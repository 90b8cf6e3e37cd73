package reactive

import (
	"reflect"
	"testing"
)

func TestListGetSet(t *testing.T) {
	l := NewList([]any{"a", "b", "c"})

	if got := l.Get(1); got != "b" {
		t.Errorf("expected b, got %v", got)
	}

	l.Set(1, "B")
	if got := l.Get(1); got != "B" {
		t.Errorf("expected B, got %v", got)
	}

	// Out-of-range writes are a no-op.
	l.Set(10, "x")
	if got := l.Len(); got != 3 {
		t.Errorf("expected length 3, got %d", got)
	}
}

func TestListPerIndexTracking(t *testing.T) {
	l := NewList([]any{1, 2, 3})

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = l.Get(0)
		return nil
	})
	defer e.Dispose()

	l.Set(2, 30)
	if runs != 1 {
		t.Errorf("expected per-index granularity, got %d runs", runs)
	}

	l.Set(0, 10)
	if runs != 2 {
		t.Errorf("expected rerun on read index, got %d runs", runs)
	}

	l.Set(0, 10)
	if runs != 2 {
		t.Errorf("expected same-value write to be silent, got %d runs", runs)
	}
}

func TestListOutOfRangeReadSubscribesToShape(t *testing.T) {
	l := NewList([]any{"a"})

	runs := 0
	var seen any
	e := CreateEffect(func() Cleanup {
		runs++
		seen = l.Get(1)
		return nil
	})
	defer e.Dispose()

	if seen != nil {
		t.Errorf("expected nil out of range, got %v", seen)
	}

	l.Append("b")
	if runs != 2 || seen != "b" {
		t.Errorf("expected reader to rerun when the sequence grows into range, got runs=%d seen=%v", runs, seen)
	}
}

func TestListLenTracksShape(t *testing.T) {
	l := NewList([]any{1, 2})

	var n int
	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		n = l.Len()
		return nil
	})
	defer e.Dispose()

	// Element writes are not shape changes.
	l.Set(0, 10)
	if runs != 1 {
		t.Errorf("expected element write not to rerun Len reader, got %d runs", runs)
	}

	l.Append(3)
	if n != 3 {
		t.Errorf("expected 3, got %d", n)
	}

	l.RemoveAt(0)
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}

	l.Clear()
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestListStructuralNotifyAffectsTailIndices(t *testing.T) {
	l := NewList([]any{"a", "b", "c", "d"})

	headRuns := 0
	eHead := CreateEffect(func() Cleanup {
		headRuns++
		_ = l.Get(0)
		return nil
	})
	defer eHead.Dispose()

	tailRuns := 0
	var tail any
	eTail := CreateEffect(func() Cleanup {
		tailRuns++
		tail = l.Get(2)
		return nil
	})
	defer eTail.Dispose()

	// Removing index 1 shifts everything at or after it; index 0 is
	// untouched.
	l.RemoveAt(1)

	if headRuns != 1 {
		t.Errorf("expected reader before the removal point to stay quiet, got %d runs", headRuns)
	}
	if tailRuns != 2 || tail != "d" {
		t.Errorf("expected shifted reader to rerun, got runs=%d value=%v", tailRuns, tail)
	}
}

func TestListInsertShiftsReaders(t *testing.T) {
	l := NewList([]any{"b", "c"})

	var first any
	e := CreateEffect(func() Cleanup {
		first = l.Get(0)
		return nil
	})
	defer e.Dispose()

	l.Insert(0, "a")
	if first != "a" {
		t.Errorf("expected reader of index 0 to observe the insert, got %v", first)
	}

	// Indices clamp to the ends.
	l.Insert(100, "z")
	if got := l.Get(3); got != "z" {
		t.Errorf("expected clamped insert at tail, got %v", got)
	}
	l.Insert(-5, "0")
	if first != "0" {
		t.Errorf("expected clamped insert at head, got %v", first)
	}
}

func TestListForEachTracksEveryIndex(t *testing.T) {
	l := NewList([]any{1, 2, 3})

	runs := 0
	var sum int
	e := CreateEffect(func() Cleanup {
		runs++
		sum = 0
		l.ForEach(func(i int, value any) {
			sum += value.(int)
		})
		return nil
	})
	defer e.Dispose()

	if sum != 6 {
		t.Errorf("expected 6, got %d", sum)
	}

	l.Set(1, 20)
	if runs != 2 || sum != 24 {
		t.Errorf("expected iteration to track element writes, got runs=%d sum=%d", runs, sum)
	}

	l.Append(4)
	if runs != 3 || sum != 28 {
		t.Errorf("expected iteration to track membership changes, got runs=%d sum=%d", runs, sum)
	}
}

func TestListItems(t *testing.T) {
	l := NewList([]any{"x", "y"})

	if got := l.Items(); !reflect.DeepEqual(got, []any{"x", "y"}) {
		t.Errorf("expected [x y], got %v", got)
	}
}

func TestListNestedWrapping(t *testing.T) {
	l := NewList([]any{
		map[string]any{"id": 1},
		[]any{10, 20},
	})

	child, ok := l.Get(0).(*Store)
	if !ok {
		t.Fatalf("expected nested record element to wrap into *Store, got %T", l.Get(0))
	}
	if got := child.Get("id"); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}

	inner, ok := l.Get(1).(*List)
	if !ok {
		t.Fatalf("expected nested sequence element to wrap into *List, got %T", l.Get(1))
	}
	if got := inner.Get(1); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}

func TestListSnapshotDetached(t *testing.T) {
	l := NewList([]any{"a", map[string]any{"k": "v"}})

	snap := l.Snapshot()

	want := []any{"a", map[string]any{"k": "v"}}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("expected %v, got %v", want, snap)
	}

	l.Set(0, "A")
	if snap[0] != "a" {
		t.Errorf("expected snapshot to stay detached, got %v", snap[0])
	}
}
