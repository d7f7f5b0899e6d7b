package interfaces

// Notifier fans an event out to connected dashboard clients. Delivery is
// best effort: disconnected clients simply miss the event.
type Notifier interface {
	Broadcast(event string, payload interface{})
}
