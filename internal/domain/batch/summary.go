package batch

import "time"

// Summary aggregates the outcomes of one indexing run.
// Successful + Failed == Total once every fetched record has been processed.
type Summary struct {
	Successful int
	Failed     int
	Total      int
	Indexed    int
	Skipped    int
	Tokens     int
	Duration   time.Duration
	Results    []Result
}

// NewSummary creates an empty summary for total fetched records.
func NewSummary(total int) Summary {
	return Summary{Total: total, Results: make([]Result, 0, total)}
}

// Add records one item outcome.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status() {
	case StatusIndexed:
		s.Successful++
		s.Indexed++
	case StatusSkipped:
		s.Successful++
		s.Skipped++
	default:
		s.Failed++
	}
}

// Processed returns the number of records with a recorded outcome.
func (s *Summary) Processed() int { return s.Successful + s.Failed }

// Complete reports whether every fetched record has an outcome.
func (s *Summary) Complete() bool { return s.Processed() == s.Total }
