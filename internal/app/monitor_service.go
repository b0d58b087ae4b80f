package app

import (
	"sync"

	"office_presence_bot/internal/domain/crossing"
	"office_presence_bot/internal/domain/location"
	"office_presence_bot/internal/domain/region"

	"github.com/sirupsen/logrus"
)

// StartMonitorCallback reports the outcome of a StartMonitoring request.
// Authorization denial and monitoring-start failure both arrive as false;
// true means the platform confirmed monitoring is active.
type StartMonitorCallback func(ok bool)

// MonitorService wraps the platform location capability and tracks the office
// region: it drives the authorization handshake, keeps the last observed
// in-region state and fans crossing events out through the observer registry.
type MonitorService struct {
	provider  location.Provider
	region    region.Region
	observers *crossing.Registry
	log       *logrus.Logger

	mu sync.Mutex
	// startCallback is a single slot, not a queue: a new StartMonitoring call
	// overwrites a pending callback. Last writer wins; accepted limitation.
	startCallback StartMonitorCallback
	inRegion      bool
}

func NewMonitorService(provider location.Provider, officeRegion region.Region, log *logrus.Logger) *MonitorService {
	s := &MonitorService{
		provider:  provider,
		region:    officeRegion,
		observers: crossing.NewRegistry(),
		log:       log,
	}
	provider.SetHandler(s)
	return s
}

// CanMonitor reports whether the platform supports circular-region
// monitoring at all.
func (s *MonitorService) CanMonitor() bool {
	return s.provider.MonitoringAvailable()
}

// StartMonitoring begins monitoring of the office region, requesting location
// authorization first when the status is still undetermined. The callback
// fires once the outcome is known; with an undetermined status that happens
// only after the authorization prompt resolves, which may be never.
func (s *MonitorService) StartMonitoring(callback StartMonitorCallback) {
	s.mu.Lock()
	s.startCallback = callback
	s.mu.Unlock()

	switch status := s.provider.AuthorizationStatus(); status {
	case location.AuthorizationNotDetermined:
		s.log.Info("Location authorization undetermined, requesting always authorization.")
		s.provider.RequestAlwaysAuthorization()
	case location.AuthorizationDenied, location.AuthorizationRestricted, location.AuthorizationWhenInUse:
		// Only always-authorization permits background region monitoring.
		s.log.Warnf("Cannot monitor office region, location authorization is %s.", status)
		s.clearStartCallback()
		callback(false)
	default:
		s.startPlatformMonitoring()
	}
}

// StopMonitoring unconditionally asks the platform to stop monitoring the
// office region. It does not cancel an in-flight authorization prompt.
func (s *MonitorService) StopMonitoring() {
	s.log.Info("Stopping office region monitoring.")
	s.provider.StopMonitoring(s.region)
}

// IsMonitoring reports whether the office region is in the platform's
// currently-monitored set.
func (s *MonitorService) IsMonitoring() bool {
	for _, r := range s.provider.MonitoredRegions() {
		if r.Identifier == s.region.Identifier {
			return true
		}
	}
	return false
}

// IsInRegion returns the last observed membership state.
func (s *MonitorService) IsInRegion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inRegion
}

// RefreshPresence requests a one-shot location fix so the in-region state can
// be re-established without waiting for a boundary crossing.
func (s *MonitorService) RefreshPresence() {
	s.provider.RequestLocation()
}

func (s *MonitorService) RegisterObserver(o crossing.Observer) {
	s.observers.Register(o)
}

func (s *MonitorService) RemoveObserver(o crossing.Observer) {
	s.observers.Remove(o)
}

func (s *MonitorService) startPlatformMonitoring() {
	s.provider.StartMonitoring(s.region)
}

func (s *MonitorService) clearStartCallback() {
	s.mu.Lock()
	s.startCallback = nil
	s.mu.Unlock()
}

func (s *MonitorService) takeStartCallback() StartMonitorCallback {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb := s.startCallback
	s.startCallback = nil
	return cb
}

// setInRegion records the new membership state and notifies observers. Every
// confirmed platform callback produces exactly one notification tick, even
// when the value did not change.
func (s *MonitorService) setInRegion(entered bool) {
	s.mu.Lock()
	s.inRegion = entered
	s.mu.Unlock()
	s.log.Debugf("Office region state changed, entered=%v. Notifying observers.", entered)
	s.observers.Notify(entered)
}

// EnteredRegion implements location.EventHandler.
func (s *MonitorService) EnteredRegion(r region.Region) {
	s.setInRegion(true)
}

// ExitedRegion implements location.EventHandler.
func (s *MonitorService) ExitedRegion(r region.Region) {
	s.setInRegion(false)
}

// MonitoringStarted fires the pending start callback with success and
// requests an initial location fix so the in-region state is established
// rather than assumed.
func (s *MonitorService) MonitoringStarted(r region.Region) {
	s.log.Infof("Platform confirmed monitoring started for region %s.", r.Identifier)
	if cb := s.takeStartCallback(); cb != nil {
		cb(true)
	}
	s.provider.RequestLocation()
}

// MonitoringFailed reports the failure through the pending callback and
// swallows the underlying error after logging. No automatic retry; callers
// may call StartMonitoring again.
func (s *MonitorService) MonitoringFailed(r region.Region, err error) {
	s.log.Errorf("Monitoring failed for region %s: %v", r.Identifier, err)
	if cb := s.takeStartCallback(); cb != nil {
		cb(false)
	}
}

// AuthorizationChanged resolves a pending start request: always-authorization
// continues into platform monitoring, anything else fails the request.
func (s *MonitorService) AuthorizationChanged(status location.AuthorizationStatus) {
	s.mu.Lock()
	pending := s.startCallback != nil
	s.mu.Unlock()
	if !pending {
		return
	}

	if status == location.AuthorizationAlways {
		s.log.Info("Location authorization granted, starting platform monitoring.")
		s.startPlatformMonitoring()
		return
	}

	s.log.Warnf("Location authorization resolved to %s, cannot monitor.", status)
	if cb := s.takeStartCallback(); cb != nil {
		cb(false)
	}
}

// LocationsUpdated infers region membership from a one-shot location fix.
func (s *MonitorService) LocationsUpdated(locations []location.Coordinate) {
	in := false
	for _, loc := range locations {
		if s.region.Contains(loc.Latitude, loc.Longitude) {
			in = true
			break
		}
	}
	s.setInRegion(in)
}
