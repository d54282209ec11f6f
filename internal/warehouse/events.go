package warehouse

// Event types published on each mutation.
const (
	EventLoadAdded       = "load.added"
	EventLoadUpdated     = "load.updated"
	EventLoadDeleted     = "load.deleted"
	EventShipmentAdded   = "shipment.added"
	EventShipmentUpdated = "shipment.updated"
	EventShipmentDeleted = "shipment.deleted"
	EventReportAdded     = "report.added"
)

// Event describes a completed state change. ID is the affected load,
// shipment, or report id.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// subscriberBuffer bounds each subscriber channel. Events beyond the buffer
// are dropped for that subscriber so a stalled consumer can never block a
// mutation.
const subscriberBuffer = 16

// Subscribe registers a listener for state-change events. The returned
// channel is closed by Unsubscribe.
func (e *Engine) Subscribe() <-chan Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	e.subs = append(e.subs, ch)
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (e *Engine) Unsubscribe(ch <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sub := range e.subs {
		if sub == ch {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// publish delivers an event to every subscriber without blocking. Callers
// must hold e.mu.
func (e *Engine) publish(eventType, id string) {
	evt := Event{Type: eventType, ID: id}
	for _, sub := range e.subs {
		select {
		case sub <- evt:
		default:
		}
	}
}
