package batch

// ItemStatus is the processing outcome of a single catalog record.
type ItemStatus string

// Batch item status values. Indexed and Skipped both count as successful.
const (
	StatusIndexed ItemStatus = "indexed"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// Result is the outcome of processing one record in an indexing run.
type Result struct {
	id     string
	title  string
	status ItemStatus
	err    error
}

// NewIndexed creates a result for a record that was embedded and stored.
func NewIndexed(id, title string) Result {
	return Result{id: id, title: title, status: StatusIndexed}
}

// NewSkipped creates a result for a record that already had an index entry.
func NewSkipped(id, title string) Result {
	return Result{id: id, title: title, status: StatusSkipped}
}

// NewFailed creates a failed result.
func NewFailed(id, title string, err error) Result {
	return Result{id: id, title: title, status: StatusFailed, err: err}
}

// ID returns the resource identifier.
func (r Result) ID() string { return r.id }

// Title returns the resource title.
func (r Result) Title() string { return r.title }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Succeeded reports whether the record counts as successful.
func (r Result) Succeeded() bool { return r.status != StatusFailed }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
