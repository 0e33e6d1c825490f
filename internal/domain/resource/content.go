package resource

import "strings"

// Content line labels, in emission order.
const (
	labelTitle           = "Title"
	labelDescription     = "Description"
	labelCategory        = "Category"
	labelInstitution     = "Institution"
	labelAmount          = "Amount"
	labelEligibility     = "Eligibility"
	labelLevel           = "Academic Level"
	labelPopularPrograms = "Popular Programs"
	labelLocation        = "Location"
	labelTags            = "Tags"
)

const listSeparator = ", "

// BuildContent renders the canonical text surrogate embedded for a resource.
//
// One "Label: value" line per present field, joined by "\n" without a trailing
// newline. The order is fixed and front-loads title, description and category
// so that input truncation by the embedding service drops the least salient
// lines first. The output depends on the resource alone.
func BuildContent(r Resource) string {
	lines := make([]string, 0, 10)
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	// Lists are present when non-empty, even if every element is blank.
	addList := func(label string, values []string) {
		if len(values) > 0 {
			lines = append(lines, label+": "+strings.Join(values, listSeparator))
		}
	}

	add(labelTitle, r.title)
	add(labelDescription, r.description)
	add(labelCategory, r.category)
	add(labelInstitution, r.institution)
	add(labelAmount, r.amount)
	add(labelEligibility, r.eligibility)

	if md := r.metadata; md != nil {
		add(labelLevel, md.Level)
		addList(labelPopularPrograms, md.PopularPrograms)
		add(labelLocation, md.Location)
	}

	addList(labelTags, r.tags)

	return strings.Join(lines, "\n")
}
