// ABOUTME: Tests for unit parsing and formatting helpers.
// ABOUTME: Covers weight/distance parsing, duration and relative date rendering.
package models

import (
	"testing"
	"time"
)

func TestParseWeightKg(t *testing.T) {
	tests := []struct {
		input string
		want  *uint32
	}{
		{"82.5", u32(825000)},
		{"82,5", u32(825000)},
		{" 100 ", u32(1000000)},
		{"0", u32(0)},
		{"", nil},
		{"-5", nil},
		{"heavy", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseWeightKg(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseWeightKg(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseWeightKg(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestParseDistanceKm(t *testing.T) {
	got := ParseDistanceKm("5.25")
	if got == nil || *got != 525 {
		t.Errorf("ParseDistanceKm(5.25) = %v, want 525", got)
	}
	if ParseDistanceKm("far") != nil {
		t.Error("expected nil for invalid distance")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatWeight(825000); got != "82.5 kg" {
		t.Errorf("FormatWeight = %q", got)
	}
	if got := FormatDistance(520); got != "5.2 km" {
		t.Errorf("FormatDistance = %q", got)
	}

	durations := map[uint64]string{
		0:    "00:00",
		59:   "00:59",
		61:   "01:01",
		3599: "59:59",
		3600: "1:00:00",
		3725: "1:02:05",
	}
	for in, want := range durations {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSessionDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"later today", now.Add(-time.Hour), "Today"},
		{"local midnight is today", midnight, "Today"},
		{"one second before midnight", midnight.Add(-time.Second), "Yesterday"},
		{"two days ago", midnight.Add(-48 * time.Hour), "2 days ago"},
		{"three days ago", midnight.Add(-72 * time.Hour), "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSessionDate(tt.at, now); got != tt.want {
				t.Errorf("FormatSessionDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("  Barbell Bench Press "); got != "Barbell_Bench_Press" {
		t.Errorf("Slugify = %q", got)
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory("Cardio") {
		t.Error("expected Cardio to be valid")
	}
	if IsValidCategory("knitting") {
		t.Error("expected knitting to be invalid")
	}
}
