package reactive

// Watch registers a change observer over a tracked expression. The reader
// runs immediately to establish dependencies and record the initial value;
// onChange is NOT called for that first run; only transitions are
// reported. On each subsequent run the new value is compared to the stored
// one: if different, onChange(newValue, oldValue) fires and the stored
// value is updated; if equal, nothing happens, so upstream writes that
// leave the observed expression unchanged never reach the callback.
//
// The callback runs untracked: reads inside onChange do not join the
// watcher's dependency set. The tracked expression is exactly reader.
//
// Dispose the returned Effect to permanently unregister the observer.
func Watch[T any](reader func() T, onChange func(newValue, oldValue T)) *Effect {
	return WatchEquals(reader, onChange, nil)
}

// WatchEquals is Watch with a custom equality function deciding whether
// the observed value actually changed. A nil equal means defaultEquals.
func WatchEquals[T any](reader func() T, onChange func(newValue, oldValue T), equal func(T, T) bool) *Effect {
	var prev T
	first := true

	return CreateEffect(func() Cleanup {
		value := reader()

		if first {
			first = false
			prev = value
			return nil
		}

		same := false
		if equal != nil {
			same = equal(value, prev)
		} else {
			same = defaultEquals(value, prev)
		}
		if same {
			return nil
		}

		old := prev
		watcherFireHook()
		Untracked(func() {
			onChange(value, old)
		})
		prev = value

		return nil
	})
}
