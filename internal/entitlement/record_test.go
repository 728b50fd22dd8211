package entitlement

import (
	"testing"
	"time"
)

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{"same month", "2024-03", "2024-03", 0},
		{"next month", "2024-03", "2024-04", 1},
		{"three months", "2024-03", "2024-06", 3},
		{"across year boundary", "2024-11", "2025-02", 3},
		{"full year", "2024-03", "2025-03", 12},
		{"backwards clamps to zero", "2024-06", "2024-03", 0},
		{"corrupt from", "garbage", "2024-03", 0},
		{"corrupt to", "2024-03", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthsBetween(tt.from, tt.to); got != tt.expected {
				t.Errorf("MonthsBetween(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestNextResetDate(t *testing.T) {
	tests := []struct {
		name      string
		lastReset string
		expected  string
	}{
		{"mid year", "2024-03", "2024-04-01"},
		{"december rolls into next year", "2024-12", "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextResetDate(tt.lastReset)
			if got.Format("2006-01-02") != tt.expected {
				t.Errorf("NextResetDate(%q) = %s, want %s", tt.lastReset, got.Format("2006-01-02"), tt.expected)
			}
		})
	}

	if !NextResetDate("not-a-month").IsZero() {
		t.Error("NextResetDate should return the zero time for unparseable input")
	}
}

func TestMonthAndDayKeys(t *testing.T) {
	at := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)

	if got := MonthKey(at); got != "2024-03" {
		t.Errorf("MonthKey = %q, want 2024-03", got)
	}
	if got := DayKey(at); got != "2024-03-05" {
		t.Errorf("DayKey = %q, want 2024-03-05", got)
	}
}

func TestOnboarded(t *testing.T) {
	rec := &Record{}
	if rec.Onboarded() {
		t.Error("record without a username should not be onboarded")
	}

	rec.Username = "alice"
	if !rec.Onboarded() {
		t.Error("record with a username should be onboarded")
	}
}
