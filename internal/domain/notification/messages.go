package notification

import "strings"

// messages is the in-code stand-in for a localization catalog. Templates use
// a single %s slot for the crossing user's name; templates without a slot
// ignore the argument.
var messages = map[string]string{
	"notification.boundarycrossing.enter.title":      "%s is in the office",
	"notification.boundarycrossing.enter.body":       "%s just crossed into the office area. Send a greeting!",
	"notification.boundarycrossing.exit.title":       "%s left the office",
	"notification.boundarycrossing.exit.body":        "%s just crossed out of the office area.",
	"localnotification.boundarycrossing.enter.title": "Welcome to the office, %s",
	"localnotification.boundarycrossing.enter.body":  "You crossed the office boundary going in.",
	"localnotification.boundarycrossing.exit.title":  "Goodbye, %s",
	"localnotification.boundarycrossing.exit.body":   "You crossed the office boundary going out.",
	"notification.greeting.title":                    "You have a greeting",
}

// Localize resolves a catalog key, formatting the user's name into the
// template when it has a slot for it. Unknown keys resolve to themselves,
// matching platform localization behavior.
func Localize(key, userName string) string {
	template, ok := messages[key]
	if !ok {
		return key
	}
	if strings.Contains(template, "%s") {
		return strings.ReplaceAll(template, "%s", userName)
	}
	return template
}
