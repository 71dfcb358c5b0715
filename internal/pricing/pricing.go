// Package pricing is the single source of truth for what a valentine costs.
// Prices are whole rupees. The table is fixed at build time so any
// client-submitted amount can be re-derived and checked server-side.
package pricing

const BaseTheme int64 = 49

var featurePrices = map[string]int64{
	"feature_gallery":   19,
	"feature_music":     19,
	"feature_timeline":  29,
	"feature_quiz":      19,
	"feature_gift":      29,
	"feature_countdown": 9,
	"feature_password":  9,
	"feature_scratch":   39,
	"feature_spin":      39,
	"feature_memory":    39,
	"feature_video":     49,
	"feature_confetti":  9,
}

// Total returns base price plus the price of every recognized feature.
// Unknown feature keys are ignored on purpose: a stale or future frontend
// flag must never block checkout. Duplicates count once (set semantics).
// The theme name does not affect price yet; it is accepted for future
// per-theme pricing.
func Total(theme string, features []string) int64 {
	_ = theme
	total := BaseTheme
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if seen[f] {
			continue
		}
		seen[f] = true
		if p, ok := featurePrices[f]; ok {
			total += p
		}
	}
	return total
}

// KnownFeature reports whether the key exists in the price table.
func KnownFeature(key string) bool {
	_, ok := featurePrices[key]
	return ok
}
