package task

// EventKind says which part of a task changed.
type EventKind int

const (
	OverallChanged EventKind = iota
	ItemChanged
	StatusChanged
	Ended
)

func (k EventKind) String() string {
	switch k {
	case OverallChanged:
		return "overall"
	case ItemChanged:
		return "item"
	case StatusChanged:
		return "status"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Event carries the progress right after a change.
type Event struct {
	Kind     EventKind
	Progress Progress
}

// Observer receives task events. Events are delivered synchronously on the
// goroutine that caused them, so observers must not block.
type Observer interface {
	OnTaskEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnTaskEvent calls f(e).
func (f ObserverFunc) OnTaskEvent(e Event) { f(e) }

// Subscribe registers o for all later events.
func (t *Task) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Task) emit(kind EventKind) {
	t.mu.Lock()
	if len(t.observers) == 0 {
		t.mu.Unlock()
		return
	}
	observers := append([]Observer(nil), t.observers...)
	p := t.progress
	t.mu.Unlock()

	p.Status = t.Status()
	e := Event{Kind: kind, Progress: p}
	for _, o := range observers {
		o.OnTaskEvent(e)
	}
}
