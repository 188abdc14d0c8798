// Package badges maps cumulative verified donation counts to earned
// achievement badges.
package badges

// threshold pairs a cumulative donation count with the badge it earns.
// Thresholds are monotonic and fixed; they mirror the award ladder shown to
// donors and must not be reordered.
type threshold struct {
	count int
	name  string
}

var thresholds = []threshold{
	{1, "First Donation"},
	{5, "Regular Donor"},
	{10, "Dedicated Donor"},
	{25, "Life Saver"},
	{50, "Hero Donor"},
	{100, "Legendary Donor"},
}

// LifeSaver is referenced by the emergency scorer for its badge bonus.
const LifeSaver = "Life Saver"

// Compute returns the badges newly earned at the given cumulative donation
// count, excluding any badge already present in existing. Idempotent: once the
// result is merged into existing, a second call returns nothing.
func Compute(cumulativeDonations int, existing []string) []string {
	held := make(map[string]bool, len(existing))
	for _, b := range existing {
		held[b] = true
	}

	var earned []string
	for _, t := range thresholds {
		if cumulativeDonations >= t.count && !held[t.name] {
			earned = append(earned, t.name)
		}
	}
	return earned
}

// AllFor returns every badge the count qualifies for, ignoring what is held.
func AllFor(cumulativeDonations int) []string {
	var all []string
	for _, t := range thresholds {
		if cumulativeDonations >= t.count {
			all = append(all, t.name)
		}
	}
	return all
}

// Merge returns existing with earned appended, preserving order and skipping
// duplicates.
func Merge(existing, earned []string) []string {
	held := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(earned))
	for _, b := range existing {
		if !held[b] {
			held[b] = true
			merged = append(merged, b)
		}
	}
	for _, b := range earned {
		if !held[b] {
			held[b] = true
			merged = append(merged, b)
		}
	}
	return merged
}
