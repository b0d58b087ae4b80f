package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "alicekebnecom", SanitizeEmail("alice@kebne.com"))
	assert.Equal(t, "", SanitizeEmail(""))
	assert.Equal(t, "bobexamplecouk", SanitizeEmail("bob@example.co.uk"))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryBoundaryCrossing, ParseCategory("BOUNDARYCROSSING_CATEGORY"))
	assert.Equal(t, CategoryOther, ParseCategory("OTHER_CATEGORY"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
	assert.Equal(t, CategoryOther, ParseCategory("SOMETHING_ELSE"))
}

func TestNewEnvelopeSanitizesEmail(t *testing.T) {
	env := NewEnvelope("title", "body", "topic", "alice@kebne.com", CategoryOther, "Alice")
	assert.Equal(t, "alicekebnecom", env.UserEmail)
	assert.Empty(t, env.LocalizedTitle)
	assert.Empty(t, env.LocalizedBody)
}

func TestNewLocalizedEnvelopeResolvesLiteralFallback(t *testing.T) {
	env := NewLocalizedEnvelope(
		"notification.boundarycrossing.enter.title",
		"notification.boundarycrossing.enter.body",
		TopicDidEnter, "alice@kebne.com", CategoryBoundaryCrossing, "Alice",
	)

	assert.Equal(t, "Alice is in the office", env.Title)
	assert.Equal(t, "Alice just crossed into the office area. Send a greeting!", env.Body)
	assert.Equal(t, "notification.boundarycrossing.enter.title", env.LocalizedTitle)
	assert.Equal(t, "notification.boundarycrossing.enter.body", env.LocalizedBody)
	assert.Equal(t, TopicDidEnter, env.Topic)
}

func TestNewSimpleEnvelopeDefaults(t *testing.T) {
	env := NewSimpleEnvelope("hello", "world")
	assert.Equal(t, "hello", env.Title)
	assert.Equal(t, "world", env.Body)
	assert.Empty(t, env.Topic)
	assert.Empty(t, env.UserEmail)
	assert.Equal(t, CategoryOther, env.Category)
}

func TestLocalize(t *testing.T) {
	t.Run("template with name slot", func(t *testing.T) {
		assert.Equal(t, "Alice left the office",
			Localize("notification.boundarycrossing.exit.title", "Alice"))
	})

	t.Run("template without slot ignores the argument", func(t *testing.T) {
		assert.Equal(t, "You have a greeting",
			Localize("notification.greeting.title", "Alice"))
	})

	t.Run("unknown key resolves to itself", func(t *testing.T) {
		assert.Equal(t, "no.such.key", Localize("no.such.key", "Alice"))
	})
}
