package entitlement

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/logger"
	"github.com/faceforge/faceforge/internal/metrics"
)

// Store persists the full entitlement table keyed by user id.
type Store interface {
	Load() (map[int64]*Record, error)
	Save(table map[int64]*Record) error
}

// Provider fetches one generated face image. The engine never retries; a
// failure is surfaced to the user and must not consume a credit.
type Provider interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Button is one inline reply option offered alongside a text reply.
type Button struct {
	Label string
	Data  string
}

// Channel delivers outbound replies to a user.
type Channel interface {
	SendText(userID int64, text string, rows ...[]Button) error
	SendPhoto(userID int64, photo []byte, caption string) error
}

const fetchTimeout = 10 * time.Second

// Engine applies the entitlement rules for one user event at a time. Events
// for the same user are serialized; events for different users run
// concurrently.
type Engine struct {
	store    Store
	provider Provider
	channel  Channel

	// Injected clock so rollover logic is deterministic in tests
	now func() time.Time

	// tableMu guards the table map and record fields; per-user locks
	// serialize the read-modify-write cycle for a single user
	tableMu sync.RWMutex
	table   map[int64]*Record

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewEngine loads the entitlement table from the store and returns an engine
// ready to dispatch events. A failed load starts with an empty table rather
// than aborting; the store already fell back to its backup copy.
func NewEngine(store Store, provider Provider, channel Channel) *Engine {
	table, err := store.Load()
	if err != nil {
		logger.Warn("Failed to load entitlement table, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		table = make(map[int64]*Record)
	}
	if table == nil {
		table = make(map[int64]*Record)
	}

	logger.Info("Entitlement table loaded", map[string]interface{}{
		"users": len(table),
	})

	return &Engine{
		store:    store,
		provider: provider,
		channel:  channel,
		now:      time.Now,
		table:    table,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Dispatch routes one inbound event to its operation.
func (e *Engine) Dispatch(ev Event) error {
	metrics.EventsProcessed.WithLabelValues(ev.Kind.String()).Inc()

	switch ev.Kind {
	case EventStart:
		return e.RequestConsent(ev.UserID)
	case EventConsent:
		return e.RecordConsent(ev.UserID, ev.Agreed)
	case EventUsernameInput:
		return e.SetUsername(ev.UserID, ev.Text)
	case EventGenerate:
		return e.Generate(ev.UserID)
	case EventWatchAd:
		return e.WatchAd(ev.UserID)
	case EventBuySubscription:
		return e.ShowPlans(ev.UserID)
	case EventBuyCredits:
		return e.GrantCredits(ev.UserID, consts.CreditPackSize)
	case EventBuyUnlimited:
		return e.GrantUnlimited(ev.UserID)
	case EventStats:
		return e.Stats(ev.UserID)
	default:
		return e.channel.SendText(ev.UserID, consts.ErrorUnknownCommand)
	}
}

// RequestConsent shows the disclaimer prompt. Idempotent, no state change.
func (e *Engine) RequestConsent(userID int64) error {
	return e.channel.SendText(userID, DisclaimerMsg, []Button{
		{Label: consts.ButtonAgree, Data: consts.CallbackAgree},
		{Label: consts.ButtonDisagree, Data: consts.CallbackDisagree},
	})
}

// RecordConsent creates the user's record on agreement. Declining stores
// nothing. Agreeing again with an existing record re-prompts without
// resetting any fields.
func (e *Engine) RecordConsent(userID int64, agreed bool) error {
	if !agreed {
		return e.channel.SendText(userID, ConsentDeclinedMsg)
	}

	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	e.tableMu.RLock()
	rec := e.table[userID]
	e.tableMu.RUnlock()

	if rec != nil {
		if rec.Onboarded() {
			return e.channel.SendText(userID, AlreadyNamedMsg)
		}
		return e.channel.SendText(userID, UsernamePromptMsg)
	}

	month := MonthKey(e.now())
	rec = &Record{
		Credits:     consts.InitialCredits,
		MonthJoined: month,
		LastReset:   month,
	}

	e.tableMu.Lock()
	e.table[userID] = rec
	e.tableMu.Unlock()

	logger.Info("New user onboarded", map[string]interface{}{
		"user_id": userID,
		"credits": rec.Credits,
	})

	e.persist()
	return e.channel.SendText(userID, UsernamePromptMsg)
}

// SetUsername sets the display name exactly once.
func (e *Engine) SetUsername(userID int64, text string) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}
	if rec.Onboarded() {
		// Free text after onboarding is not a rename request
		return e.channel.SendText(userID, AlreadyNamedMsg)
	}

	name := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(name); n < 1 || n > consts.MaxUsernameLength {
		return e.channel.SendText(userID, UsernameInvalidMsg)
	}

	e.tableMu.RLock()
	rec.Username = name
	credits := rec.Credits
	e.tableMu.RUnlock()

	e.persist()
	return e.channel.SendText(userID, fmt.Sprintf(WelcomeTemplate, name, credits, consts.MaxAdsPerDay))
}

// Generate delivers one face image if the user is entitled to it. The credit
// is consumed only after the provider fetch succeeds.
func (e *Engine) Generate(userID int64) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil || !rec.Onboarded() {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	now := e.now()

	e.tableMu.RLock()
	e.applyMonthlyRollover(rec, now, userID)
	e.applyDailyRollover(rec, now)
	subscribed := rec.Subscribed
	credits := rec.Credits
	e.tableMu.RUnlock()

	if !subscribed && credits <= 0 {
		e.persist()
		return e.channel.SendText(userID, OutOfCreditsMsg,
			[]Button{{Label: consts.ButtonWatchAd, Data: consts.CallbackWatchAd}},
			[]Button{{Label: consts.ButtonSubscribe, Data: consts.CallbackBuySub}},
		)
	}

	photo, err := e.fetchFace()
	if err != nil {
		logger.Error("Face fetch failed", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		metrics.ProviderFailures.Inc()
		e.persist()
		return e.channel.SendText(userID, consts.ErrorProviderFailure)
	}

	if !subscribed {
		e.tableMu.RLock()
		rec.Credits--
		e.tableMu.RUnlock()
	}

	metrics.FacesGenerated.Inc()
	e.persist()
	return e.channel.SendPhoto(userID, photo, PhotoCaption)
}

// WatchAd grants one credit per simulated ad view, capped per calendar day.
func (e *Engine) WatchAd(userID int64) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	now := e.now()

	e.tableMu.RLock()
	e.applyDailyRollover(rec, now)
	capped := rec.AdsUsedToday >= consts.MaxAdsPerDay
	if !capped {
		rec.Credits++
		rec.AdsUsedToday++
	}
	credits := rec.Credits
	adsToday := rec.AdsUsedToday
	e.tableMu.RUnlock()

	e.persist()

	if capped {
		return e.channel.SendText(userID, fmt.Sprintf(AdCapReachedTemplate, consts.MaxAdsPerDay))
	}

	metrics.AdsWatched.Inc()
	return e.channel.SendText(userID,
		fmt.Sprintf(AdWatchedTemplate, credits, adsToday, consts.MaxAdsPerDay),
		[]Button{
			{Label: consts.ButtonWatchAd, Data: consts.CallbackWatchAd},
			{Label: consts.ButtonStats, Data: consts.CallbackStats},
		})
}

// ShowPlans replies with the simulated purchase options.
func (e *Engine) ShowPlans(userID int64) error {
	if e.record(userID) == nil {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	return e.channel.SendText(userID, PricingMenuMsg,
		[]Button{{Label: consts.ButtonBuyCredits, Data: consts.CallbackBuyCredits}},
		[]Button{{Label: consts.ButtonBuyUnlimited, Data: consts.CallbackBuyUnlimited}},
	)
}

// GrantCredits adds credits to the user's balance. Invoked by the external
// payment-confirmation path, simulated here by a button click.
func (e *Engine) GrantCredits(userID int64, amount int) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	e.tableMu.RLock()
	rec.Credits += amount
	credits := rec.Credits
	e.tableMu.RUnlock()

	logger.Info("Credits granted", map[string]interface{}{
		"user_id": userID,
		"amount":  amount,
		"balance": credits,
	})
	metrics.CreditsGranted.Add(float64(amount))

	e.persist()
	return e.channel.SendText(userID, fmt.Sprintf(CreditsGrantedTemplate, amount, credits))
}

// GrantUnlimited flips the subscription flag. Credits stop being consumed but
// the balance is kept untouched.
func (e *Engine) GrantUnlimited(userID int64) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	e.tableMu.RLock()
	rec.Subscribed = true
	e.tableMu.RUnlock()

	logger.Info("Subscription granted", map[string]interface{}{
		"user_id": userID,
	})

	e.persist()
	return e.channel.SendText(userID, UnlimitedGrantedMsg)
}

// Stats replies with a read-only summary of the user's entitlement state.
func (e *Engine) Stats(userID int64) error {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := e.record(userID)
	if rec == nil || !rec.Onboarded() {
		return e.channel.SendText(userID, NotOnboardedMsg)
	}

	e.tableMu.RLock()
	name := rec.Username
	credits := rec.Credits
	subscribed := rec.Subscribed
	lastReset := rec.LastReset
	adsToday := rec.AdsUsedToday
	lastAdDay := rec.LastAdDay
	e.tableMu.RUnlock()

	// Counter display rolls over with the date even though the stored field
	// is only rewritten by the next ad or generate event
	if lastAdDay != DayKey(e.now()) {
		adsToday = 0
	}

	subText := "no"
	if subscribed {
		subText = "yes ♾️"
	}

	nextReset := "unknown"
	if t := NextResetDate(lastReset); !t.IsZero() {
		nextReset = t.Format("2006-01-02")
	}

	return e.channel.SendText(userID, fmt.Sprintf(StatsTemplate,
		name, credits, subText, nextReset, adsToday, consts.MaxAdsPerDay))
}

// applyMonthlyRollover grants unclaimed monthly credits, catching up when
// several months elapsed unattended. Caller holds the user lock and a table
// read lock.
func (e *Engine) applyMonthlyRollover(rec *Record, now time.Time, userID int64) {
	current := MonthKey(now)
	months := MonthsBetween(rec.LastReset, current)
	if months == 0 {
		return
	}

	granted := consts.MonthlyCredits * months
	rec.Credits += granted
	rec.LastReset = current

	logger.Info("Monthly credits granted", map[string]interface{}{
		"user_id": userID,
		"months":  months,
		"granted": granted,
		"balance": rec.Credits,
	})
}

// applyDailyRollover zeroes the ad counter on a date change. Caller holds the
// user lock and a table read lock.
func (e *Engine) applyDailyRollover(rec *Record, now time.Time) {
	today := DayKey(now)
	if rec.LastAdDay != today {
		rec.AdsUsedToday = 0
		rec.LastAdDay = today
	}
}

func (e *Engine) fetchFace() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	return e.provider.Fetch(ctx)
}

// record returns the user's record, or nil when none exists.
func (e *Engine) record(userID int64) *Record {
	e.tableMu.RLock()
	defer e.tableMu.RUnlock()
	return e.table[userID]
}

// lockFor returns the mutex serializing events for one user.
func (e *Engine) lockFor(userID int64) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	lock, exists := e.locks[userID]
	if !exists {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

// persist snapshots the table and writes it through the store. A save failure
// is logged and swallowed; in-memory state stays authoritative.
func (e *Engine) persist() {
	e.tableMu.Lock()
	snapshot := make(map[int64]*Record, len(e.table))
	for id, rec := range e.table {
		copied := *rec
		snapshot[id] = &copied
	}
	e.tableMu.Unlock()

	if err := e.store.Save(snapshot); err != nil {
		logger.Error("Failed to persist entitlement table", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
