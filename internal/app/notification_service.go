package app

import (
	"context"
	"time"

	"office_presence_bot/internal/domain/crossing"
	"office_presence_bot/internal/domain/notification"
	"office_presence_bot/internal/domain/user"
	"office_presence_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const greetingTitleKey = "notification.greeting.title"

// NotificationService routes confirmed boundary crossings into local and
// remote notifications and relays greeting responses back to the original
// sender. Remote sends are fire-and-forget; failures are logged, counted and
// never surfaced to the caller.
type NotificationService struct {
	push    notification.Client
	local   notification.LocalNotifier
	history crossing.Repository // nil when crossing history is disabled
	log     *logrus.Logger
}

func NewNotificationService(
	push notification.Client,
	local notification.LocalNotifier,
	history crossing.Repository,
	log *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		push:    push,
		local:   local,
		history: history,
		log:     log,
	}
}

// RequestAuthorization checks the local-notification permission. An
// undetermined status triggers the prompt and, on grant, topic subscription;
// a previously denied status returns false without prompting; an existing
// grant returns true and re-subscribes.
func (s *NotificationService) RequestAuthorization(ctx context.Context, u *user.User) (bool, error) {
	switch s.local.AuthorizationStatus() {
	case notification.AuthorizationNotDetermined:
		granted, err := s.local.RequestAuthorization(ctx)
		if err != nil {
			return false, err
		}
		if granted {
			s.Subscribe(ctx, u)
		}
		return granted, nil
	case notification.AuthorizationDenied:
		s.log.Warn("Local notification authorization previously denied. Not prompting again.")
		return false, nil
	default:
		s.Subscribe(ctx, u)
		return true, nil
	}
}

// Subscribe registers the device for both fixed crossing topics and the
// user's directed topic. Subscription is idempotent on the backend side.
func (s *NotificationService) Subscribe(ctx context.Context, u *user.User) {
	topics := []string{
		notification.TopicDidEnter,
		notification.TopicDidExit,
		notification.SanitizeEmail(u.Email),
	}
	for _, topic := range topics {
		if err := s.push.Subscribe(ctx, topic); err != nil {
			s.log.Errorf("Failed to subscribe to topic %q: %v", topic, err)
			continue
		}
		metrics.ObserveSubscription(topic)
		s.log.Infof("Subscribed to topic %q.", topic)
	}
}

// RegionBoundaryCrossed converts a confirmed crossing by the signed-in user
// into a local notification describing their own crossing and a localized
// remote broadcast to the other subscribers. The two sends are independent;
// failure of one does not block the other.
func (s *NotificationService) RegionBoundaryCrossed(ctx context.Context, u *user.User, didEnter bool) {
	s.log.Infof("Region boundary crossed by %s (entered=%v).", u.Email, didEnter)
	metrics.ObserveCrossing(didEnter)

	local := notification.BoundaryCrossing{DidEnter: didEnter, Local: true, UserName: u.Name}
	s.deliverLocal(ctx, local.Title(), local.Body())

	remote := notification.BoundaryCrossing{DidEnter: didEnter, UserName: u.Name}
	env := notification.NewLocalizedEnvelope(
		remote.Title(), remote.Body(), remote.Topic(),
		u.Email, notification.CategoryBoundaryCrossing, u.Name,
	)
	s.sendRemote(ctx, env)

	s.recordCrossing(ctx, u, didEnter)
}

// RespondTo builds a directed reply envelope for the original sender's topic
// and pushes it. The greeting text travels as the literal body. The sender's
// email is sanitized here because decoded envelopes carry it as received on
// the wire.
func (s *NotificationService) RespondTo(ctx context.Context, env notification.Envelope, userName, greeting string) {
	topic := notification.SanitizeEmail(env.UserEmail)
	reply := notification.NewEnvelope("", greeting, topic, "", notification.CategoryOther, userName)
	reply.LocalizedTitle = greetingTitleKey
	reply.Title = notification.Localize(greetingTitleKey, userName)
	s.sendRemote(ctx, reply)
}

// HandleInboundResponse decodes an inbound push payload and relays the
// greeting back to its sender. A malformed payload is logged and dropped;
// nothing propagates to the caller.
func (s *NotificationService) HandleInboundResponse(ctx context.Context, payload []byte, userName, greeting string) {
	env, err := s.NotificationFrom(payload)
	if err != nil {
		metrics.ObserveDecodeError()
		s.log.Errorf("Dropping inbound notification response: %v", err)
		return
	}
	s.RespondTo(ctx, env, userName, greeting)
}

// NotificationFrom decodes an envelope from a raw inbound push payload. It
// fails with notification.ErrMalformedPayload when the payload does not match
// the expected nested shape.
func (s *NotificationService) NotificationFrom(payload []byte) (notification.Envelope, error) {
	return notification.DecodeInbound(payload)
}

// DeliverLocally surfaces already-resolved notification text to the device
// owner, guarded by the local-notification permission.
func (s *NotificationService) DeliverLocally(ctx context.Context, title, body string) {
	s.deliverLocal(ctx, title, body)
}

func (s *NotificationService) deliverLocal(ctx context.Context, title, body string) {
	if s.local.AuthorizationStatus() != notification.AuthorizationGranted {
		s.log.Debug("Local notifications not authorized. Skipping local delivery.")
		return
	}
	if err := s.local.Deliver(ctx, title, body); err != nil {
		s.log.Errorf("Failed to deliver local notification: %v", err)
		return
	}
	metrics.ObserveLocalDelivery()
	s.log.Infof("Local notification scheduled: %s", title)
}

func (s *NotificationService) sendRemote(ctx context.Context, env notification.Envelope) {
	payload, err := env.EncodeOutbound()
	if err != nil {
		// Internally constructed envelopes satisfy the schema by
		// construction; abort this single send if one does not.
		s.log.Errorf("Failed to encode outbound notification: %v", err)
		return
	}
	err = s.push.Send(ctx, payload)
	metrics.ObservePushSend(err)
	if err != nil {
		s.log.Errorf("Failed to send push notification to topic %q: %v", env.Topic, err)
		return
	}
	s.log.Infof("Push notification sent to topic %q (category=%s).", env.Topic, env.Category)
}

func (s *NotificationService) recordCrossing(ctx context.Context, u *user.User, didEnter bool) {
	if s.history == nil {
		return
	}
	rec := &crossing.Record{
		ID:         uuid.New(),
		Email:      u.Email,
		Entered:    didEnter,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.history.Create(ctx, rec); err != nil {
		s.log.Errorf("Failed to record crossing for %s: %v", u.Email, err)
	}
}
