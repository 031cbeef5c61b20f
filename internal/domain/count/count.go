// Package count defines the aggregate produced for how-many queries.
package count

// Result holds per-keyword occurrence counts over date-filtered transcripts.
type Result struct {
	// Counts maps each requested keyword to its total occurrences.
	Counts map[string]int
	// TotalMentions is the sum of all counts.
	TotalMentions int
	// MatchingDates is the sorted, duplicate-free set of ISO YYYY-MM-DD
	// dates on which any keyword occurred.
	MatchingDates []string
	// DateRange is the descriptive time window, "all time" when unfiltered.
	DateRange string
}
