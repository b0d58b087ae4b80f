package notification

import "strings"

// Category routes an envelope to the right handling on the receiving side.
type Category string

const (
	CategoryBoundaryCrossing Category = "BOUNDARYCROSSING_CATEGORY"
	CategoryOther            Category = "OTHER_CATEGORY"
)

// ParseCategory maps a wire category string onto a Category, defaulting to
// CategoryOther for anything missing or unrecognized.
func ParseCategory(s string) Category {
	if Category(s) == CategoryBoundaryCrossing {
		return CategoryBoundaryCrossing
	}
	return CategoryOther
}

// SanitizeEmail strips '@' and '.' so an email address can be used as a
// topic-safe identity key.
func SanitizeEmail(email string) string {
	return strings.NewReplacer("@", "", ".", "").Replace(email)
}

// Envelope is the notification message model shared by the outbound compose
// and inbound decode paths. Title and Body always carry resolved literal
// text; LocalizedTitle and LocalizedBody carry catalog keys and are empty for
// literal-only envelopes. UserEmail is stored sanitized.
type Envelope struct {
	Topic          string
	Title          string
	Body           string
	LocalizedTitle string
	LocalizedBody  string
	Category       Category
	UserName       string
	UserEmail      string
}

// NewEnvelope builds a literal-text envelope.
func NewEnvelope(title, body, topic, userEmail string, category Category, userName string) Envelope {
	return Envelope{
		Topic:     topic,
		Title:     title,
		Body:      body,
		Category:  category,
		UserName:  userName,
		UserEmail: SanitizeEmail(userEmail),
	}
}

// NewLocalizedEnvelope builds an envelope addressed by catalog keys. The keys
// are resolved against the message catalog with the user's name as the sole
// format argument, and the resolved text is kept as the literal fallback so a
// receiver that does not localize still has something to display.
func NewLocalizedEnvelope(titleKey, bodyKey, topic, userEmail string, category Category, userName string) Envelope {
	return Envelope{
		Topic:          topic,
		Title:          Localize(titleKey, userName),
		Body:           Localize(bodyKey, userName),
		LocalizedTitle: titleKey,
		LocalizedBody:  bodyKey,
		Category:       category,
		UserName:       userName,
		UserEmail:      SanitizeEmail(userEmail),
	}
}

// NewSimpleEnvelope builds a minimal envelope with no topic, email or sender;
// the category defaults to other.
func NewSimpleEnvelope(title, body string) Envelope {
	return NewEnvelope(title, body, "", "", CategoryOther, "")
}
