package events

// Recorder accumulates the events an aggregate emits during a unit of work.
// The application layer drains the list after a successful save and clears it;
// events recorded within a single method call keep their call order.
type Recorder struct {
	events []Event
}

func (r *Recorder) Record(e ...Event) {
	r.events = append(r.events, e...)
}

// DomainEvents returns the pending events in emission order.
func (r *Recorder) DomainEvents() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) ClearDomainEvents() {
	r.events = nil
}
