// ABOUTME: Unit parsing and formatting helpers for weights, distances and durations.
// ABOUTME: Stored values are integers (decigrams, decametres, seconds).
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DecigramsPerKg  = 10000.0
	DecametresPerKm = 100.0
)

// ParseWeightKg parses a kilogram string ("82.5", "82,5") into decigrams.
// Empty, negative or unparseable input yields nil.
func ParseWeightKg(s string) *uint32 {
	return parseScaled(s, DecigramsPerKg)
}

// ParseDistanceKm parses a kilometre string into decametres.
func ParseDistanceKm(s string) *uint32 {
	return parseScaled(s, DecametresPerKm)
}

func parseScaled(s string, scale float64) *uint32 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	scaled := math.Round(v * scale)
	if scaled > math.MaxUint32 {
		return nil
	}
	out := uint32(scaled)
	return &out
}

// KgToDg converts kilograms to decigrams.
func KgToDg(kg float64) uint32 {
	return uint32(math.Round(kg * DecigramsPerKg))
}

// KmToDam converts kilometres to decametres.
func KmToDam(km float64) uint32 {
	return uint32(math.Round(km * DecametresPerKm))
}

// FormatWeight renders decigrams as kilograms ("82.5 kg").
func FormatWeight(dg uint32) string {
	return strconv.FormatFloat(float64(dg)/DecigramsPerKg, 'f', -1, 64) + " kg"
}

// FormatDistance renders decametres as kilometres ("5.2 km").
func FormatDistance(dam uint32) string {
	return strconv.FormatFloat(float64(dam)/DecametresPerKm, 'f', -1, 64) + " km"
}

// FormatDuration renders seconds as MM:SS, or H:MM:SS from one hour up.
func FormatDuration(seconds uint64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatSessionDate renders t relative to now in calendar days of now's
// location: "Today", "Yesterday" or "N days ago".
func FormatSessionDate(t, now time.Time) string {
	switch days := DaysBetween(t, now); days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// DaysBetween counts calendar-day boundaries from t to now, using now's location.
func DaysBetween(t, now time.Time) int {
	loc := now.Location()
	ty, tm, td := t.In(loc).Date()
	ny, nm, nd := now.Date()
	from := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
