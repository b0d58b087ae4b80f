package location

import "office_presence_bot/internal/domain/region"

// AuthorizationStatus mirrors the platform location permission states.
type AuthorizationStatus string

const (
	AuthorizationNotDetermined AuthorizationStatus = "NOT_DETERMINED"
	AuthorizationDenied        AuthorizationStatus = "DENIED"
	AuthorizationRestricted    AuthorizationStatus = "RESTRICTED"
	AuthorizationWhenInUse     AuthorizationStatus = "AUTHORIZED_WHEN_IN_USE"
	AuthorizationAlways        AuthorizationStatus = "AUTHORIZED_ALWAYS"
)

// Coordinate is a single observed device position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Provider defines an interface for the platform location-monitoring
// capability. This helps in decoupling the monitoring logic from the concrete
// location subsystem.
type Provider interface {
	AuthorizationStatus() AuthorizationStatus
	// MonitoringAvailable reports whether circular-region monitoring is
	// supported at all.
	MonitoringAvailable() bool
	StartMonitoring(r region.Region)
	StopMonitoring(r region.Region)
	// RequestAlwaysAuthorization triggers the permission prompt. The outcome
	// arrives later through EventHandler.AuthorizationChanged; it may never
	// arrive if the prompt is abandoned.
	RequestAlwaysAuthorization()
	// RequestLocation asks for a one-shot location fix, delivered through
	// EventHandler.LocationsUpdated.
	RequestLocation()
	MonitoredRegions() []region.Region
	SetHandler(h EventHandler)
}

// EventHandler receives the provider's delegate callbacks. All callbacks are
// dispatched from the provider's event path, one at a time.
type EventHandler interface {
	EnteredRegion(r region.Region)
	ExitedRegion(r region.Region)
	MonitoringStarted(r region.Region)
	MonitoringFailed(r region.Region, err error)
	AuthorizationChanged(status AuthorizationStatus)
	LocationsUpdated(locations []Coordinate)
}
