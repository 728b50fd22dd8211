package entitlement

// EventKind identifies an inbound user event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventStart
	EventConsent
	EventUsernameInput
	EventGenerate
	EventWatchAd
	EventBuySubscription
	EventBuyCredits
	EventBuyUnlimited
	EventStats
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventConsent:
		return "consent"
	case EventUsernameInput:
		return "username_input"
	case EventGenerate:
		return "generate"
	case EventWatchAd:
		return "watch_ad"
	case EventBuySubscription:
		return "buy_subscription"
	case EventBuyCredits:
		return "buy_credits"
	case EventBuyUnlimited:
		return "buy_unlimited"
	case EventStats:
		return "stats"
	default:
		return "unknown"
	}
}

// Event is one inbound command or button click, normalized by the transport
// layer before it reaches the engine.
type Event struct {
	Kind   EventKind
	UserID int64
	Agreed bool   // EventConsent only
	Text   string // EventUsernameInput only
}
