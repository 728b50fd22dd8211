package entitlement

import "time"

// Layouts used for the persisted month/day fields
const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// Record holds one user's entitlement state. It is owned by the store and
// mutated only by the engine, under that user's lock.
type Record struct {
	Username     string `json:"username"`
	Credits      int    `json:"credits"`
	MonthJoined  string `json:"month_joined"`
	LastReset    string `json:"last_reset"`
	Subscribed   bool   `json:"subscribed"`
	AdsUsedToday int    `json:"ads_used_today"`
	LastAdDay    string `json:"last_ad_day"`
}

// Onboarded reports whether the user has completed onboarding (consent given
// and a display name chosen).
func (r *Record) Onboarded() bool {
	return r.Username != ""
}

// MonthKey formats t as a persisted calendar-month key.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// DayKey formats t as a persisted calendar-date key.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// MonthsBetween returns the number of whole calendar months from the "from"
// month key to the "to" month key. Unparseable keys and backwards spans count
// as zero, so a corrupted field can never produce a negative grant.
func MonthsBetween(from, to string) int {
	a, errA := time.Parse(monthLayout, from)
	b, errB := time.Parse(monthLayout, to)
	if errA != nil || errB != nil {
		return 0
	}

	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 0 {
		return 0
	}
	return months
}

// NextResetDate returns the first day of the calendar month following the
// last-reset month. The zero time is returned when the field is unparseable.
func NextResetDate(lastReset string) time.Time {
	t, err := time.Parse(monthLayout, lastReset)
	if err != nil {
		return time.Time{}
	}
	return t.AddDate(0, 1, 0)
}
