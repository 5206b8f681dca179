package library

// ItemKind distinguishes the two halves of a scrape result.
type ItemKind string

const (
	ItemNew      ItemKind = "new"
	ItemExisting ItemKind = "existing"
)

// ItemOutcome is the result of applying a single scrape-result item.
// Failures live here instead of being thrown: the orchestrating loop
// aggregates outcomes rather than catching exceptions per iteration.
type ItemOutcome struct {
	Kind    ItemKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	AnimeID uint     `json:"anime_id,omitempty"`

	Created         bool  `json:"created"`
	LinksAttached   int   `json:"links_attached"`
	FilesRequested  int   `json:"files_requested"`
	FilesReassigned int64 `json:"files_reassigned"`

	Err        error   `json:"-"`
	LinkErrors []error `json:"-"`
	FileErr    error   `json:"-"`
}

// Failed reports whether the item as a whole was skipped. Link-level
// failures and short file counts do not fail an item.
func (o ItemOutcome) Failed() bool {
	return o.Err != nil
}

// BatchReport aggregates the outcomes of one scrape-result application.
type BatchReport struct {
	BatchID string `json:"batch_id"`

	Created         int   `json:"created"`
	Failed          int   `json:"failed"`
	LinksAttached   int   `json:"links_attached"`
	FilesReassigned int64 `json:"files_reassigned"`

	Items []ItemOutcome `json:"items"`
}

func (r *BatchReport) add(o ItemOutcome) {
	r.Items = append(r.Items, o)
	if o.Created {
		r.Created++
	}
	if o.Failed() {
		r.Failed++
	}
	r.LinksAttached += o.LinksAttached
	r.FilesReassigned += o.FilesReassigned
}
