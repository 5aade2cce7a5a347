package resource

// Handle is an opaque reference to a registry entry.
// Handle 0 is reserved and always invalid.
type Handle uint64

// EventType distinguishes entry lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventErased
)

// Event describes one entry lifecycle transition.
type Event struct {
	Handle Handle
	Type   EventType
}

// Observer receives notifications about entry lifecycle events. Callbacks
// run synchronously under the observer lock and must not call back into the
// registry.
type Observer interface {
	OnRegistryEvent(Event)
}
