package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"office_presence_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// deliveryDelay mirrors the short fixed delay local notifications are
// scheduled with.
const deliveryDelay = 100 * time.Millisecond

// Sender is the slice of the bot API the notifier needs. *telebot.Bot
// satisfies it; tests substitute a fake.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Notifier implements notification.LocalNotifier by delivering to the device
// owner's Telegram chat. Authorization starts undetermined; the prompt
// resolves to granted only when a bot is actually configured.
type Notifier struct {
	mu     sync.Mutex
	status notification.AuthorizationStatus
	bot    Sender
	chatID int64
	log    *logrus.Logger
}

func NewNotifier(bot Sender, chatID int64, log *logrus.Logger) *Notifier {
	return &Notifier{
		status: notification.AuthorizationNotDetermined,
		bot:    bot,
		chatID: chatID,
		log:    log,
	}
}

func (n *Notifier) AuthorizationStatus() notification.AuthorizationStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

// RequestAuthorization resolves an undetermined status: granted when a bot is
// configured, denied otherwise. Later calls just report the settled state.
func (n *Notifier) RequestAuthorization(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.status == notification.AuthorizationNotDetermined {
		if n.bot != nil {
			n.status = notification.AuthorizationGranted
		} else {
			n.status = notification.AuthorizationDenied
			n.log.Warn("No Telegram bot configured. Local notifications denied.")
		}
	}
	return n.status == notification.AuthorizationGranted, nil
}

// Deliver schedules the message for the owner's chat after the fixed delay.
// Delivery failures are logged; by then the caller has already moved on.
func (n *Notifier) Deliver(ctx context.Context, title, body string) error {
	n.mu.Lock()
	bot := n.bot
	chatID := n.chatID
	status := n.status
	n.mu.Unlock()

	if status != notification.AuthorizationGranted || bot == nil {
		return fmt.Errorf("telegram notifier not authorized")
	}

	text := title
	if body != "" {
		text = title + "\n" + body
	}
	time.AfterFunc(deliveryDelay, func() {
		if _, err := bot.Send(&telebot.Chat{ID: chatID}, text); err != nil {
			n.log.Errorf("Failed to send Telegram notification to chat %d: %v", chatID, err)
		}
	})
	return nil
}
