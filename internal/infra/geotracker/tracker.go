package geotracker

import (
	"errors"
	"sync"

	"office_presence_bot/internal/domain/location"
	"office_presence_bot/internal/domain/region"

	"github.com/sirupsen/logrus"
)

var errNotAuthorized = errors.New("geotracker: location access not granted")

// Tracker is the concrete location provider: it ingests location reports,
// keeps the monitored-region set and synthesizes enter/exit events when a
// report moves the device across a region boundary. The authorization prompt
// is modeled by a configurable grant policy.
type Tracker struct {
	mu        sync.Mutex
	status    location.AuthorizationStatus
	autoGrant bool
	handler   location.EventHandler
	monitored map[string]region.Region
	inside    map[string]bool
	last      *location.Coordinate
	log       *logrus.Logger
}

// New builds a tracker starting from the given authorization status. When
// autoGrant is true a later authorization request resolves to always
// authorization, otherwise to denied.
func New(initial location.AuthorizationStatus, autoGrant bool, log *logrus.Logger) *Tracker {
	return &Tracker{
		status:    initial,
		autoGrant: autoGrant,
		monitored: make(map[string]region.Region),
		inside:    make(map[string]bool),
		log:       log,
	}
}

func (t *Tracker) SetHandler(h location.EventHandler) {
	t.mu.Lock()
	t.handler = h
	t.mu.Unlock()
}

func (t *Tracker) AuthorizationStatus() location.AuthorizationStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tracker) MonitoringAvailable() bool {
	return true
}

// RequestAlwaysAuthorization resolves a pending undetermined status per the
// grant policy and reports the outcome through the handler. Requests in any
// other state are no-ops, matching platform behavior of prompting only once.
func (t *Tracker) RequestAlwaysAuthorization() {
	t.mu.Lock()
	if t.status != location.AuthorizationNotDetermined {
		t.mu.Unlock()
		return
	}
	if t.autoGrant {
		t.status = location.AuthorizationAlways
	} else {
		t.status = location.AuthorizationDenied
	}
	status := t.status
	h := t.handler
	t.mu.Unlock()

	t.log.Infof("Location authorization prompt resolved to %s.", status)
	if h != nil {
		h.AuthorizationChanged(status)
	}
}

// StartMonitoring adds the region to the monitored set and confirms the
// start, or fails it when always authorization is missing.
func (t *Tracker) StartMonitoring(r region.Region) {
	t.mu.Lock()
	h := t.handler
	if t.status != location.AuthorizationAlways {
		t.mu.Unlock()
		if h != nil {
			h.MonitoringFailed(r, errNotAuthorized)
		}
		return
	}
	t.monitored[r.Identifier] = r
	t.mu.Unlock()

	t.log.Infof("Monitoring started for region %s.", r.Identifier)
	if h != nil {
		h.MonitoringStarted(r)
	}
}

func (t *Tracker) StopMonitoring(r region.Region) {
	t.mu.Lock()
	delete(t.monitored, r.Identifier)
	delete(t.inside, r.Identifier)
	t.mu.Unlock()
	t.log.Infof("Monitoring stopped for region %s.", r.Identifier)
}

func (t *Tracker) MonitoredRegions() []region.Region {
	t.mu.Lock()
	defer t.mu.Unlock()
	regions := make([]region.Region, 0, len(t.monitored))
	for _, r := range t.monitored {
		regions = append(regions, r)
	}
	return regions
}

// RequestLocation re-delivers the last known coordinate as a one-shot fix.
// With no coordinate observed yet, nothing is delivered; the fix arrives with
// the first location report instead.
func (t *Tracker) RequestLocation() {
	t.mu.Lock()
	last := t.last
	h := t.handler
	t.mu.Unlock()
	if last == nil || h == nil {
		return
	}
	h.LocationsUpdated([]location.Coordinate{*last})
}

// ReportLocation ingests a device position, firing enter/exit events for
// every monitored region whose containment changed.
func (t *Tracker) ReportLocation(lat, lon float64) {
	t.mu.Lock()
	coord := location.Coordinate{Latitude: lat, Longitude: lon}
	t.last = &coord
	h := t.handler

	var entered, exited []region.Region
	for id, r := range t.monitored {
		in := r.Contains(lat, lon)
		if in == t.inside[id] {
			continue
		}
		t.inside[id] = in
		if in {
			entered = append(entered, r)
		} else {
			exited = append(exited, r)
		}
	}
	t.mu.Unlock()

	if h == nil {
		return
	}
	for _, r := range entered {
		t.log.Infof("Region %s entered.", r.Identifier)
		h.EnteredRegion(r)
	}
	for _, r := range exited {
		t.log.Infof("Region %s exited.", r.Identifier)
		h.ExitedRegion(r)
	}
}
