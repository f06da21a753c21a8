package chai

// Argument is a nested owned resource captured at construction time, kept so
// its own dual-space semantics can be replayed at pointer lifecycle events.
// ReplayCopy fires on every reference-count increment; its effects (typically
// pushing host contents toward the device) are the whole point, any result is
// discarded. Release fires exactly once, on final release of the lineage,
// before the host instance is dropped.
type Argument interface {
	ReplayCopy()
	Release()
}

// Dropper is optionally implemented by host instances that need a teardown
// hook when the last owning pointer releases them.
type Dropper interface {
	Drop()
}

// argList is the deferred-resource payload of one lineage. It is shared by
// every copy and every cast result, so a late RegisterArguments call is seen
// lineage-wide.
type argList struct {
	items []Argument
}

func (l *argList) set(items []Argument) {
	if l == nil {
		return
	}
	l.items = items
}

func (l *argList) replay() {
	if l == nil {
		return
	}
	for _, a := range l.items {
		a.ReplayCopy()
	}
}

func (l *argList) release() {
	if l == nil {
		return
	}
	for _, a := range l.items {
		a.Release()
	}
	l.items = nil
}
