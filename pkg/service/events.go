package service

// ChangeKind names the mutation that produced an Event
type ChangeKind string

const (
	ChangeLoaded    ChangeKind = "loaded"
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeDeleted   ChangeKind = "deleted"
	ChangeActivated ChangeKind = "activated"
	ChangeRefreshed ChangeKind = "refreshed"
	ChangeAccessed  ChangeKind = "accessed"
)

// Event reports a mutation of a collection. ID is empty for whole-collection changes.
type Event struct {
	Kind ChangeKind
	ID   string
}

type listeners[T any] struct {
	fns []func(T)
}

func (l *listeners[T]) add(fn func(T)) {
	if fn != nil {
		l.fns = append(l.fns, fn)
	}
}

func (l *listeners[T]) emit(v T) {
	for _, fn := range l.fns {
		fn(v)
	}
}
