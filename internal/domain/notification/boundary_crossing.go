package notification

// Fixed broadcast topics for the two crossing directions. Directed replies
// use the sanitized sender email as the topic instead.
const (
	TopicDidEnter = "didEnter"
	TopicDidExit  = "didExit"
)

// BoundaryCrossing selects one of the four crossing message variants:
// enter/exit crossed with local/remote. Local variants resolve to literal
// text for the device owner; remote variants resolve to catalog keys so
// recipients localize them on their side.
type BoundaryCrossing struct {
	DidEnter bool
	Local    bool
	UserName string
}

// Title returns the resolved title for local variants and the catalog key for
// remote ones.
func (b BoundaryCrossing) Title() string {
	switch {
	case b.Local && b.DidEnter:
		return Localize("localnotification.boundarycrossing.enter.title", b.UserName)
	case b.Local:
		return Localize("localnotification.boundarycrossing.exit.title", b.UserName)
	case b.DidEnter:
		return "notification.boundarycrossing.enter.title"
	default:
		return "notification.boundarycrossing.exit.title"
	}
}

// Body returns the resolved body for local variants and the catalog key for
// remote ones.
func (b BoundaryCrossing) Body() string {
	switch {
	case b.Local && b.DidEnter:
		return Localize("localnotification.boundarycrossing.enter.body", b.UserName)
	case b.Local:
		return Localize("localnotification.boundarycrossing.exit.body", b.UserName)
	case b.DidEnter:
		return "notification.boundarycrossing.enter.body"
	default:
		return "notification.boundarycrossing.exit.body"
	}
}

// Topic returns the broadcast topic for remote variants; local variants have
// no topic.
func (b BoundaryCrossing) Topic() string {
	if b.Local {
		return ""
	}
	if b.DidEnter {
		return TopicDidEnter
	}
	return TopicDidExit
}
