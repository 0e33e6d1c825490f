package search

import "strings"

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"visa", []string{"visa", "study permit"}},
	{"scholarship", []string{"scholarship", "funding"}},
	{"job", []string{"job", "work", "pgwp"}},
	{"university", []string{"university", "universities", "co-op"}},
}

// InferCategory guesses a catalog category from keywords in a free-text question.
// Rules are checked in order; the first hit wins. Returns "" when nothing matches.
func InferCategory(question string) string {
	q := strings.ToLower(question)
	for _, rule := range categoryKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.category
			}
		}
	}
	return ""
}
