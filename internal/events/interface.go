package events

// Bus fans UI notifications out to whoever is listening. Publishing never
// blocks the caller and failures are logged, not propagated.
type Bus interface {
	Publish(event Event)
}

// NopBus discards all events. Used when no UI surface is connected.
type NopBus struct{}

func (NopBus) Publish(Event) {}
