package reflow

import "testing"

func TestPublicSurface(t *testing.T) {
	user := NewStore(map[string]any{"name": "Ada", "visits": 0})
	history := NewList([]any{})

	fullName := NewMemo(func() string {
		return "Dr. " + user.Get("name").(string)
	})

	runs := 0
	var rendered string
	e := CreateEffect(func() Cleanup {
		runs++
		rendered = fullName.Get()
		return nil
	})
	defer e.Dispose()

	if rendered != "Dr. Ada" {
		t.Fatalf("expected Dr. Ada, got %q", rendered)
	}

	var visits []int
	w := Watch(func() any { return user.Get("visits") }, func(newValue, oldValue any) {
		visits = append(visits, newValue.(int))
	})
	defer w.Dispose()

	Batch(func() {
		user.Set("name", "Grace")
		user.Set("visits", 1)
		history.Append("login")
	})

	if runs != 2 {
		t.Errorf("expected one rerun for the batch, got %d total runs", runs)
	}
	if rendered != "Dr. Grace" {
		t.Errorf("expected Dr. Grace, got %q", rendered)
	}
	if len(visits) != 1 || visits[0] != 1 {
		t.Errorf("expected watcher to see [1], got %v", visits)
	}
	if history.Len() != 1 {
		t.Errorf("expected 1 history entry, got %d", history.Len())
	}

	snap := Snapshot(user)
	if snap["name"] != "Grace" || snap["visits"] != 1 {
		t.Errorf("unexpected snapshot %v", snap)
	}
}

func TestOwnerScope(t *testing.T) {
	sig := NewSignal(0)
	owner := NewOwner(nil)

	runs := 0
	cleaned := false
	owner.Run(func() {
		CreateEffect(func() Cleanup {
			runs++
			_ = sig.Get()
			return nil
		})
		OnCleanup(func() { cleaned = true })
	})

	owner.Dispose()
	sig.Set(1)

	if runs != 1 {
		t.Errorf("expected effect disposed with owner, got %d runs", runs)
	}
	if !cleaned {
		t.Error("expected scoped cleanup to run")
	}
}

func TestBatchValueAndUntracked(t *testing.T) {
	sig := NewSignal(2)

	got := BatchValue(func() int {
		sig.Set(21)
		return 2
	})
	if got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		Untracked(func() { _ = sig.Get() })
		return nil
	})
	defer e.Dispose()

	sig.Set(42)
	if runs != 1 {
		t.Errorf("expected untracked read not to subscribe, got %d runs", runs)
	}
}
