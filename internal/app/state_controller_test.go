package app

import (
	"context"
	"testing"

	"office_presence_bot/internal/domain/location"
	"office_presence_bot/internal/domain/notification"
	"office_presence_bot/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession scripts the identity-provider session.
type fakeSession struct {
	user *user.User
}

func (s *fakeSession) CurrentUser() *user.User { return s.user }

func (s *fakeSession) AccessToken(ctx context.Context) (string, error) { return "token", nil }

func (s *fakeSession) SignOut() { s.user = nil }

func newControllerFixture(t *testing.T, session *fakeSession) (*StateController, *fakePushClient, *fakeLocalNotifier) {
	t.Helper()
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())
	push := &fakePushClient{}
	local := &fakeLocalNotifier{status: notification.AuthorizationGranted}
	notifications := NewNotificationService(push, local, nil, newTestLogger())
	controller := NewStateController(monitor, notifications, session, newTestLogger())
	controller.ObserveRegionBoundaryCrossing()
	return controller, push, local
}

func TestRegionStateChangedRoutesCrossingForSignedInUser(t *testing.T) {
	session := &fakeSession{user: alice()}
	controller, push, local := newControllerFixture(t, session)

	controller.RegionStateChanged(true)

	require.Len(t, push.sent, 1)
	message := decodePayload(t, push.sent[0])["message"].(map[string]any)
	assert.Equal(t, "didEnter", message["topic"])
	require.Len(t, local.deliveries, 1)
	assert.Equal(t, "Welcome to the office, Alice", local.deliveries[0].title)
}

func TestRegionStateChangedDroppedWhileSignedOut(t *testing.T) {
	session := &fakeSession{}
	controller, push, local := newControllerFixture(t, session)

	controller.RegionStateChanged(true)

	assert.Empty(t, push.sent)
	assert.Empty(t, local.deliveries)
}

func TestControllerObservesMonitorEvents(t *testing.T) {
	session := &fakeSession{user: alice()}
	provider := &fakeProvider{status: location.AuthorizationAlways, available: true}
	monitor := NewMonitorService(provider, officeRegion(), newTestLogger())
	push := &fakePushClient{}
	local := &fakeLocalNotifier{status: notification.AuthorizationGranted}
	notifications := NewNotificationService(push, local, nil, newTestLogger())
	controller := NewStateController(monitor, notifications, session, newTestLogger())
	controller.ObserveRegionBoundaryCrossing()

	// A platform exit event flows monitor -> controller -> notifications.
	provider.handler.ExitedRegion(officeRegion())

	require.Len(t, push.sent, 1)
	message := decodePayload(t, push.sent[0])["message"].(map[string]any)
	assert.Equal(t, "didExit", message["topic"])
}

func TestHandleRemoteNotificationDeliversLocally(t *testing.T) {
	session := &fakeSession{user: alice()}
	controller, push, local := newControllerFixture(t, session)

	payload := []byte(`{
		"email": "bob@kebne.com",
		"aps": {
			"category": "BOUNDARYCROSSING_CATEGORY",
			"alert": {
				"title-loc-key": "notification.boundarycrossing.enter.title",
				"title-loc-args": ["Bob"]
			}
		}
	}`)

	controller.HandleRemoteNotification(context.Background(), payload)

	require.Len(t, local.deliveries, 1)
	assert.Equal(t, "Bob is in the office", local.deliveries[0].title)
	assert.Empty(t, push.sent, "surfacing a notification sends nothing")
}

func TestHandleRemoteNotificationDeliversOtherCategory(t *testing.T) {
	session := &fakeSession{user: alice()}
	controller, push, local := newControllerFixture(t, session)

	payload := []byte(`{
		"email": "bob@kebne.com",
		"aps": {
			"category": "OTHER_CATEGORY",
			"alert": {"title": "You have a greeting", "body": "Hi Alice!"}
		}
	}`)

	controller.HandleRemoteNotification(context.Background(), payload)

	require.Len(t, local.deliveries, 1)
	assert.Equal(t, "You have a greeting", local.deliveries[0].title)
	assert.Equal(t, "Hi Alice!", local.deliveries[0].body)
	assert.Empty(t, push.sent)
}

func TestHandleRemoteNotificationDropsMalformedPayload(t *testing.T) {
	session := &fakeSession{user: alice()}
	controller, _, local := newControllerFixture(t, session)

	controller.HandleRemoteNotification(context.Background(), []byte(`{}`))

	assert.Empty(t, local.deliveries)
}

func TestRespondToNotificationSendsGreeting(t *testing.T) {
	session := &fakeSession{user: &user.User{Name: "Bob", Email: "bob@kebne.com"}}
	controller, push, _ := newControllerFixture(t, session)

	payload := []byte(`{
		"email": "alice@kebne.com",
		"aps": {
			"category": "BOUNDARYCROSSING_CATEGORY",
			"alert": {"title": "Alice is in the office"}
		}
	}`)

	controller.RespondToNotification(context.Background(), payload, "Welcome back!")

	require.Len(t, push.sent, 1)
	message := decodePayload(t, push.sent[0])["message"].(map[string]any)
	assert.Equal(t, "alicekebnecom", message["topic"])
	alert := message["apns"].(map[string]any)["payload"].(map[string]any)["aps"].(map[string]any)["alert"].(map[string]any)
	assert.Equal(t, "Welcome back!", alert["body"])
}

func TestRespondToNotificationDroppedWhileSignedOut(t *testing.T) {
	session := &fakeSession{}
	controller, push, _ := newControllerFixture(t, session)

	payload := []byte(`{"email":"alice@kebne.com","aps":{"category":"OTHER_CATEGORY","alert":{"title":"x"}}}`)
	controller.RespondToNotification(context.Background(), payload, "Hi!")

	assert.Empty(t, push.sent)
}

func TestSignOutClearsCurrentUser(t *testing.T) {
	session := &fakeSession{user: alice()}
	controller, _, _ := newControllerFixture(t, session)

	require.NotNil(t, controller.CurrentUser())
	controller.SignOut()
	assert.Nil(t, controller.CurrentUser())
}
