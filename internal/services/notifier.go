package services

// Notifier routes an event to whichever session is currently bound to the
// actor key. The websocket registry implements it in-process; a remote
// transport would satisfy the same contract. Delivery is best effort: a
// failure never rolls back the write that triggered the event.
type Notifier interface {
	Send(actorKey string, event interface{}) error
}
