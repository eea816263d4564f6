package engine

import (
	"testing"
	"time"

	"payables_app_echo/internal/models"
)

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		scheme   models.Scheme
		expected int
	}{
		{models.SchemeSingle, 0},
		{models.SchemeWeekly, 7},
		{models.SchemeBiweekly, 14},
		{models.SchemeMonthly, 30},
		{models.SchemeBimonthly, 60},
		{models.SchemeQuarterly, 90},
		{models.SchemeSemiannual, 180},
		{models.SchemeAnnual, 365},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			if got := IntervalDays(tt.scheme); got != tt.expected {
				t.Errorf("IntervalDays(%q) = %d; want %d", tt.scheme, got, tt.expected)
			}
		})
	}
}

func TestIntervalDaysUnknownSchemePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntervalDays with unknown scheme did not panic")
		}
	}()
	IntervalDays(models.Scheme("fortnightly"))
}

func TestNextCycleStart(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		scheme   models.Scheme
		expected time.Time
	}{
		{"monthly adds 30 days", models.SchemeMonthly, time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)},
		{"quarterly adds 90 days", models.SchemeQuarterly, time.Date(2024, 5, 30, 0, 0, 0, 0, time.Local)},
		{"weekly adds 7 days", models.SchemeWeekly, time.Date(2024, 3, 8, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextCycleStart(due, tt.scheme); !got.Equal(tt.expected) {
				t.Errorf("NextCycleStart = %v; want %v", got, tt.expected)
			}
		})
	}
}

func TestOccurrences(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("monthly projects every 30 days", func(t *testing.T) {
		got, err := Occurrences(models.SchemeMonthly, start, start, until)
		if err != nil {
			t.Fatalf("Occurrences returned error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d occurrences; want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if diff := got[i].Sub(got[i-1]); diff != 30*24*time.Hour {
				t.Errorf("gap between occurrences = %v; want 720h", diff)
			}
		}
	})

	t.Run("single inside window projects itself", func(t *testing.T) {
		got, err := Occurrences(models.SchemeSingle, start, start, until)
		if err != nil {
			t.Fatalf("Occurrences returned error: %v", err)
		}
		if len(got) != 1 || !got[0].Equal(start) {
			t.Errorf("got %v; want exactly the start date", got)
		}
	})

	t.Run("single outside window projects nothing", func(t *testing.T) {
		outside := until.AddDate(0, 1, 0)
		got, err := Occurrences(models.SchemeSingle, outside, start, until)
		if err != nil {
			t.Fatalf("Occurrences returned error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d occurrences; want 0", len(got))
		}
	})
}
