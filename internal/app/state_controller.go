package app

import (
	"context"

	"office_presence_bot/internal/domain/notification"
	"office_presence_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// StateController is the session-lifetime glue: it owns the monitor and
// notification service wiring, exposes the signed-in user and acts as the
// crossing observer that feeds the notification router.
type StateController struct {
	monitor       *MonitorService
	notifications *NotificationService
	session       user.Session
	log           *logrus.Logger
}

func NewStateController(
	monitor *MonitorService,
	notifications *NotificationService,
	session user.Session,
	log *logrus.Logger,
) *StateController {
	return &StateController{
		monitor:       monitor,
		notifications: notifications,
		session:       session,
		log:           log,
	}
}

// CurrentUser returns the signed-in user, or nil when signed out.
func (c *StateController) CurrentUser() *user.User {
	return c.session.CurrentUser()
}

// ObserveRegionBoundaryCrossing registers the controller as a crossing
// observer on the monitor.
func (c *StateController) ObserveRegionBoundaryCrossing() {
	c.monitor.RegisterObserver(c)
}

// RegionStateChanged implements crossing.Observer. Crossings while signed out
// produce no notification and are not queued for later delivery.
func (c *StateController) RegionStateChanged(entered bool) {
	u := c.session.CurrentUser()
	if u == nil {
		c.log.Debug("Region state changed while signed out. Dropping crossing.")
		return
	}
	c.notifications.RegionBoundaryCrossed(context.Background(), u, entered)
}

// HandleRemoteNotification decodes an inbound push payload and surfaces it to
// the device owner. Decode failures are logged and dropped.
func (c *StateController) HandleRemoteNotification(ctx context.Context, payload []byte) {
	env, err := c.notifications.NotificationFrom(payload)
	if err != nil {
		c.log.Errorf("Failed to handle remote notification: %v", err)
		return
	}
	if env.Category == notification.CategoryBoundaryCrossing {
		c.log.Infof("Boundary crossing notification from %s. A greeting can be posted through the respond endpoint.", env.UserEmail)
	}
	c.notifications.DeliverLocally(ctx, env.Title, env.Body)
}

// RespondToNotification relays the signed-in user's greeting back to the
// sender of the given crossing payload. A signed-out session drops the
// response.
func (c *StateController) RespondToNotification(ctx context.Context, payload []byte, greeting string) {
	u := c.session.CurrentUser()
	if u == nil {
		c.log.Warn("Cannot respond to notification while signed out.")
		return
	}
	c.notifications.HandleInboundResponse(ctx, payload, u.Name, greeting)
}

// SignOut ends the identity-provider session.
func (c *StateController) SignOut() {
	c.log.Info("Signing out current user.")
	c.session.SignOut()
}
