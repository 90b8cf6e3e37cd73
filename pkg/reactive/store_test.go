package reactive

import (
	"reflect"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	s := NewStore(map[string]any{"name": "Ada", "age": 36})

	if got := s.Get("name"); got != "Ada" {
		t.Errorf("expected Ada, got %v", got)
	}

	s.Set("age", 37)
	if got := s.Get("age"); got != 37 {
		t.Errorf("expected 37, got %v", got)
	}
}

func TestStorePerFieldTracking(t *testing.T) {
	s := NewStore(map[string]any{"a": 1, "b": 2})

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = s.Get("a")
		return nil
	})
	defer e.Dispose()

	// Writing an unread field must not rerun the reader of "a".
	s.Set("b", 20)
	if runs != 1 {
		t.Errorf("expected per-field granularity, got %d runs", runs)
	}

	s.Set("a", 10)
	if runs != 2 {
		t.Errorf("expected rerun on read field, got %d runs", runs)
	}
}

func TestStoreAbsentReadSubscribesToAppearance(t *testing.T) {
	s := NewStore(map[string]any{})

	runs := 0
	var seen any
	e := CreateEffect(func() Cleanup {
		runs++
		seen = s.Get("later")
		return nil
	})
	defer e.Dispose()

	if seen != nil {
		t.Errorf("expected nil for absent field, got %v", seen)
	}

	s.Set("later", "here")
	if runs != 2 {
		t.Errorf("expected reader of absent field to rerun when it appears, got %d runs", runs)
	}
	if seen != "here" {
		t.Errorf("expected here, got %v", seen)
	}
}

func TestStoreHas(t *testing.T) {
	s := NewStore(map[string]any{"x": 1})

	var has bool
	e := CreateEffect(func() Cleanup {
		has = s.Has("x")
		return nil
	})
	defer e.Dispose()

	if !has {
		t.Error("expected x to be present")
	}

	s.Delete("x")
	if has {
		t.Error("expected Has reader to observe the delete")
	}
}

func TestStoreDeleteNotifiesReaders(t *testing.T) {
	s := NewStore(map[string]any{"k": "v"})

	runs := 0
	var seen any
	e := CreateEffect(func() Cleanup {
		runs++
		seen = s.Get("k")
		return nil
	})
	defer e.Dispose()

	s.Delete("k")
	if runs != 2 {
		t.Errorf("expected rerun on delete, got %d runs", runs)
	}
	if seen != nil {
		t.Errorf("expected nil after delete, got %v", seen)
	}

	// Deleting an absent field is a no-op.
	s.Delete("k")
	if runs != 2 {
		t.Errorf("expected no rerun on double delete, got %d runs", runs)
	}

	// The subscription survives the delete: a re-add notifies.
	s.Set("k", "v2")
	if runs != 3 || seen != "v2" {
		t.Errorf("expected reader to hear the re-add, got runs=%d seen=%v", runs, seen)
	}
}

func TestStoreKeysTrackShape(t *testing.T) {
	s := NewStore(map[string]any{"b": 1, "a": 2})

	var keys []string
	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		keys = s.Keys()
		return nil
	})
	defer e.Dispose()

	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("expected sorted keys [a b], got %v", keys)
	}

	// A value change is not a shape change.
	s.Set("a", 3)
	if runs != 1 {
		t.Errorf("expected value write not to rerun key enumeration, got %d runs", runs)
	}

	s.Set("c", 4)
	if runs != 2 || !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("expected shape rerun with [a b c], got runs=%d keys=%v", runs, keys)
	}

	s.Delete("b")
	if runs != 3 || !reflect.DeepEqual(keys, []string{"a", "c"}) {
		t.Errorf("expected shape rerun with [a c], got runs=%d keys=%v", runs, keys)
	}
}

func TestStoreLen(t *testing.T) {
	s := NewStore(map[string]any{"a": 1})

	var n int
	e := CreateEffect(func() Cleanup {
		n = s.Len()
		return nil
	})
	defer e.Dispose()

	if n != 1 {
		t.Errorf("expected 1, got %d", n)
	}

	s.Set("b", 2)
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}

	s.Delete("a")
	if n != 1 {
		t.Errorf("expected 1 after delete, got %d", n)
	}
}

func TestStoreSameValueWriteDoesNotNotify(t *testing.T) {
	s := NewStore(map[string]any{"n": 5})

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = s.Get("n")
		return nil
	})
	defer e.Dispose()

	s.Set("n", 5)
	if runs != 1 {
		t.Errorf("expected same-value write to be silent, got %d runs", runs)
	}
}

func TestStoreNestedRecordWraps(t *testing.T) {
	s := NewStore(map[string]any{
		"profile": map[string]any{"city": "London"},
		"tags":    []any{"x", "y"},
	})

	profile, ok := s.Get("profile").(*Store)
	if !ok {
		t.Fatalf("expected nested record to wrap into *Store, got %T", s.Get("profile"))
	}
	tags, ok := s.Get("tags").(*List)
	if !ok {
		t.Fatalf("expected nested sequence to wrap into *List, got %T", s.Get("tags"))
	}

	runs := 0
	var city any
	e := CreateEffect(func() Cleanup {
		runs++
		city = profile.Get("city")
		return nil
	})
	defer e.Dispose()

	profile.Set("city", "Paris")
	if runs != 2 || city != "Paris" {
		t.Errorf("expected deep mutation to stay tracked, got runs=%d city=%v", runs, city)
	}

	if got := tags.Len(); got != 2 {
		t.Errorf("expected 2 tags, got %d", got)
	}
}

func TestStoreSnapshotDetached(t *testing.T) {
	s := NewStore(map[string]any{
		"name": "Ada",
		"profile": map[string]any{
			"city": "London",
		},
		"tags": []any{"x"},
	})

	snap := Snapshot(s)

	want := map[string]any{
		"name":    "Ada",
		"profile": map[string]any{"city": "London"},
		"tags":    []any{"x"},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("expected %v, got %v", want, snap)
	}

	// Later store mutation does not alter the snapshot.
	s.Set("name", "Grace")
	if snap["name"] != "Ada" {
		t.Errorf("expected snapshot to stay detached, got %v", snap["name"])
	}

	// Mutating the snapshot notifies nothing.
	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = s.Get("name")
		return nil
	})
	defer e.Dispose()

	snap["name"] = "Linus"
	if runs != 1 {
		t.Errorf("expected snapshot mutation to be silent, got %d runs", runs)
	}
}

func TestStoreSnapshotOpaqueValuesPassThrough(t *testing.T) {
	// Only the canonical shapes (map[string]any, []any) wrap and deep-copy;
	// other reference types are stored and snapshotted opaquely.
	nums := []int{1, 2}
	s := NewStore(map[string]any{"nums": nums})

	if _, wrapped := s.Get("nums").(*List); wrapped {
		t.Fatal("expected []int not to wrap into a *List")
	}

	snap := Snapshot(s)
	got, ok := snap["nums"].([]int)
	if !ok {
		t.Fatalf("expected []int in snapshot, got %T", snap["nums"])
	}
	if &got[0] != &nums[0] {
		t.Error("expected opaque value to be shared, not copied")
	}
}

func TestStoreSnapshotReadIsUntracked(t *testing.T) {
	s := NewStore(map[string]any{"a": 1})

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = s.Snapshot()
		return nil
	})
	defer e.Dispose()

	s.Set("a", 2)
	if runs != 1 {
		t.Errorf("expected snapshot reads not to subscribe, got %d runs", runs)
	}
}
