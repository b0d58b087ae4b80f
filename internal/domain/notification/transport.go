package notification

import "context"

// Client defines an interface for the push-delivery transport. This helps in
// decoupling the routing logic from the concrete push backend.
type Client interface {
	// Send hands a serialized outbound envelope to the push backend.
	// Fire-and-forget from the router's perspective; delivery results are
	// logged by the implementation, never retried.
	Send(ctx context.Context, payload []byte) error
	// Subscribe adds the device to a topic. Subscribing twice is a no-op on
	// the backend side.
	Subscribe(ctx context.Context, topic string) error
}

// AuthorizationStatus mirrors the local-notification permission states.
type AuthorizationStatus string

const (
	AuthorizationNotDetermined AuthorizationStatus = "NOT_DETERMINED"
	AuthorizationDenied        AuthorizationStatus = "DENIED"
	AuthorizationGranted       AuthorizationStatus = "GRANTED"
)

// LocalNotifier delivers notifications to the device owner without going
// through the push backend.
type LocalNotifier interface {
	AuthorizationStatus() AuthorizationStatus
	// RequestAuthorization prompts for permission when the status is still
	// undetermined and reports the resulting grant.
	RequestAuthorization(ctx context.Context) (bool, error)
	// Deliver schedules the content for delivery after a short fixed delay.
	Deliver(ctx context.Context, title, body string) error
}
