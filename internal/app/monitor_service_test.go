package app

import (
	"errors"
	"io"
	"testing"

	"office_presence_bot/internal/domain/location"
	"office_presence_bot/internal/domain/region"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeProvider scripts the platform location capability. Delegate callbacks
// are driven explicitly by the test through the registered handler.
type fakeProvider struct {
	status    location.AuthorizationStatus
	available bool
	handler   location.EventHandler

	monitored        []region.Region
	startCalls       int
	stopCalls        int
	authRequests     int
	locationRequests int
}

func (p *fakeProvider) AuthorizationStatus() location.AuthorizationStatus { return p.status }

func (p *fakeProvider) MonitoringAvailable() bool { return p.available }

func (p *fakeProvider) StartMonitoring(r region.Region) {
	p.startCalls++
	p.monitored = append(p.monitored, r)
}

func (p *fakeProvider) StopMonitoring(r region.Region) {
	p.stopCalls++
	kept := p.monitored[:0]
	for _, m := range p.monitored {
		if m.Identifier != r.Identifier {
			kept = append(kept, m)
		}
	}
	p.monitored = kept
}

func (p *fakeProvider) RequestAlwaysAuthorization() { p.authRequests++ }

func (p *fakeProvider) RequestLocation() { p.locationRequests++ }

func (p *fakeProvider) MonitoredRegions() []region.Region { return p.monitored }

func (p *fakeProvider) SetHandler(h location.EventHandler) { p.handler = h }

type boolRecorder struct {
	calls []bool
}

func (r *boolRecorder) record(ok bool) { r.calls = append(r.calls, ok) }

func officeRegion() region.Region {
	return region.New("office", 59.335286, 18.066011, 100)
}

func TestStartMonitoringRequestsAuthorizationWhenUndetermined(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationNotDetermined, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.StartMonitoring(rec.record)

	assert.Equal(t, 1, provider.authRequests)
	assert.Zero(t, provider.startCalls)
	assert.Empty(t, rec.calls, "callback must wait for the authorization outcome")

	// Grant arrives later; monitoring starts and the platform confirms.
	provider.status = location.AuthorizationAlways
	provider.handler.AuthorizationChanged(location.AuthorizationAlways)
	require.Equal(t, 1, provider.startCalls)

	provider.handler.MonitoringStarted(officeRegion())
	assert.Equal(t, []bool{true}, rec.calls)
	assert.Equal(t, 1, provider.locationRequests, "a location fix establishes the initial state")
}

func TestStartMonitoringFailsImmediatelyForDeniedStatuses(t *testing.T) {
	for _, status := range []location.AuthorizationStatus{
		location.AuthorizationDenied,
		location.AuthorizationRestricted,
		location.AuthorizationWhenInUse,
	} {
		t.Run(string(status), func(t *testing.T) {
			provider := &fakeProvider{status: status, available: true}
			monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

			var rec boolRecorder
			monitor.StartMonitoring(rec.record)

			assert.Equal(t, []bool{false}, rec.calls)
			assert.Zero(t, provider.startCalls)
			assert.Zero(t, provider.authRequests)
		})
	}
}

func TestStartMonitoringWithExistingGrant(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.StartMonitoring(rec.record)
	require.Equal(t, 1, provider.startCalls)
	assert.True(t, monitor.IsMonitoring())

	provider.handler.MonitoringStarted(officeRegion())
	assert.Equal(t, []bool{true}, rec.calls)
}

func TestStartMonitoringCallbackFalseWhenAuthorizationResolvesDenied(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationNotDetermined, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.StartMonitoring(rec.record)

	provider.status = location.AuthorizationDenied
	provider.handler.AuthorizationChanged(location.AuthorizationDenied)

	assert.Equal(t, []bool{false}, rec.calls)
	assert.Zero(t, provider.startCalls)
}

func TestMonitoringFailedReportsThroughCallback(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.StartMonitoring(rec.record)
	provider.handler.MonitoringFailed(officeRegion(), errors.New("radio off"))

	assert.Equal(t, []bool{false}, rec.calls)
}

func TestStartMonitoringLastCallbackWins(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationNotDetermined, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var first, second boolRecorder
	monitor.StartMonitoring(first.record)
	monitor.StartMonitoring(second.record)

	provider.status = location.AuthorizationAlways
	provider.handler.AuthorizationChanged(location.AuthorizationAlways)
	provider.handler.MonitoringStarted(officeRegion())

	assert.Empty(t, first.calls, "an overwritten callback never fires")
	assert.Equal(t, []bool{true}, second.calls)
}

func TestRegionEventsUpdateStateAndNotifyObservers(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.RegisterObserver(&recordingCrossingObserver{rec: &rec})

	provider.handler.EnteredRegion(officeRegion())
	assert.True(t, monitor.IsInRegion())

	provider.handler.ExitedRegion(officeRegion())
	assert.False(t, monitor.IsInRegion())

	// A repeated callback with an unchanged value still produces a tick.
	provider.handler.ExitedRegion(officeRegion())
	assert.Equal(t, []bool{true, false, false}, rec.calls)
}

func TestLocationsUpdatedInfersMembership(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	var rec boolRecorder
	monitor.RegisterObserver(&recordingCrossingObserver{rec: &rec})

	provider.handler.LocationsUpdated([]location.Coordinate{{Latitude: 59.335286, Longitude: 18.066011}})
	assert.True(t, monitor.IsInRegion())

	provider.handler.LocationsUpdated([]location.Coordinate{{Latitude: 40.712776, Longitude: -74.005974}})
	assert.False(t, monitor.IsInRegion())

	assert.Equal(t, []bool{true, false}, rec.calls)
}

func TestStopMonitoringRemovesRegion(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	monitor.StartMonitoring(func(bool) {})
	require.True(t, monitor.IsMonitoring())

	monitor.StopMonitoring()
	assert.False(t, monitor.IsMonitoring())
	assert.Equal(t, 1, provider.stopCalls)
}

func TestRefreshPresenceRequestsLocation(t *testing.T) {
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())

	monitor.RefreshPresence()
	assert.Equal(t, 1, provider.locationRequests)
}

// recordingCrossingObserver collects the values delivered through the
// crossing observer registry.
type recordingCrossingObserver struct {
	rec *boolRecorder
}

func (o *recordingCrossingObserver) RegionStateChanged(entered bool) { o.rec.record(entered) }
