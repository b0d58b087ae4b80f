package telegram

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"office_presence_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type sentMessage struct {
	chatID int64
	text   string
}

// fakeSender records messages instead of calling the bot API.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, _ := to.(*telebot.Chat)
	text, _ := what.(string)
	s.sent = append(s.sent, sentMessage{chatID: chat.ID, text: text})
	return &telebot.Message{}, nil
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

func TestRequestAuthorizationGrantedWithBot(t *testing.T) {
	notifier := NewNotifier(&fakeSender{}, 42, newTestLogger())
	assert.Equal(t, notification.AuthorizationNotDetermined, notifier.AuthorizationStatus())

	granted, err := notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, notification.AuthorizationGranted, notifier.AuthorizationStatus())
}

func TestRequestAuthorizationDeniedWithoutBot(t *testing.T) {
	notifier := NewNotifier(nil, 0, newTestLogger())

	granted, err := notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, notification.AuthorizationDenied, notifier.AuthorizationStatus())

	// The settled state is sticky.
	granted, err = notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestDeliverSchedulesMessageAfterDelay(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, 42, newTestLogger())
	_, err := notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)

	require.NoError(t, notifier.Deliver(context.Background(), "Welcome to the office, Alice", "You crossed the office boundary going in."))
	assert.Empty(t, sender.messages(), "delivery waits out the scheduling delay")

	assert.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)

	got := sender.messages()[0]
	assert.Equal(t, int64(42), got.chatID)
	assert.Equal(t, "Welcome to the office, Alice\nYou crossed the office boundary going in.", got.text)
}

func TestDeliverTitleOnly(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, 7, newTestLogger())
	_, err := notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)

	require.NoError(t, notifier.Deliver(context.Background(), "You have a greeting", ""))

	assert.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "You have a greeting", sender.messages()[0].text)
}

func TestDeliverFailsWithoutAuthorization(t *testing.T) {
	notifier := NewNotifier(&fakeSender{}, 42, newTestLogger())
	err := notifier.Deliver(context.Background(), "title", "body")
	assert.Error(t, err)
}
