package match

// Result is a single similarity hit: the resource display fields plus its score.
// Rank is implicit in the position within the backend's descending order.
type Result struct {
	ResourceID  string
	Title       string
	Category    string
	Institution string
	Description string
	Amount      string
	URL         string
	Similarity  float64
}

// InstitutionOr returns the institution, or placeholder when absent.
func (r Result) InstitutionOr(placeholder string) string {
	if r.Institution == "" {
		return placeholder
	}
	return r.Institution
}
