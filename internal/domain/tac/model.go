package tac

import "time"

// AllSentinel is the filter value meaning "no constraint".
const AllSentinel = "Todos"

// Record is one row of the TAC table. Absent cells are empty strings.
type Record struct {
	Year                   string `json:"ano"`
	Document               string `json:"documento"`
	Clause                 string `json:"clausula"`
	SubClause              string `json:"inciso"`
	SubSubClause           string `json:"alinea"`
	ClauseCommitment       string `json:"compromisso_da_clausula"`
	ClauseStatus           string `json:"status_clausula"`
	ClauseNotes            string `json:"obs_sejus_clausula"`
	SubClauseCommitment    string `json:"compromisso_inciso"`
	SubClauseStatus        string `json:"status_inciso"`
	SubClauseNotes         string `json:"obs_sejus_inciso"`
	SubSubClauseCommitment string `json:"compromisso_alinea"`
	SubSubClauseStatus     string `json:"status_alinea"`
	SubSubClauseNotes      string `json:"obs_sejus_alinea"`
}

// Value returns the field stored under col, or "" for unknown columns.
func (r Record) Value(col Column) string {
	if p := r.field(col); p != nil {
		return *p
	}
	return ""
}

// Set stores v under col. Unknown columns are ignored.
func (r *Record) Set(col Column, v string) {
	if p := r.field(col); p != nil {
		*p = v
	}
}

func (r *Record) field(col Column) *string {
	switch col {
	case ColYear:
		return &r.Year
	case ColDocument:
		return &r.Document
	case ColClause:
		return &r.Clause
	case ColSubClause:
		return &r.SubClause
	case ColSubSubClause:
		return &r.SubSubClause
	case ColClauseCommitment:
		return &r.ClauseCommitment
	case ColClauseStatus:
		return &r.ClauseStatus
	case ColClauseNotes:
		return &r.ClauseNotes
	case ColSubClauseCommitment:
		return &r.SubClauseCommitment
	case ColSubClauseStatus:
		return &r.SubClauseStatus
	case ColSubClauseNotes:
		return &r.SubClauseNotes
	case ColSubSubClauseCommitment:
		return &r.SubSubClauseCommitment
	case ColSubSubClauseStatus:
		return &r.SubSubClauseStatus
	case ColSubSubClauseNotes:
		return &r.SubSubClauseNotes
	default:
		return nil
	}
}

// Values returns every field in Schema order.
func (r Record) Values() []string {
	out := make([]string, len(Schema))
	for i, col := range Schema {
		out[i] = r.Value(col)
	}
	return out
}

// Statuses returns the status fields in hierarchy order.
func (r Record) Statuses() [3]string {
	return [3]string{r.ClauseStatus, r.SubClauseStatus, r.SubSubClauseStatus}
}

// Dataset is the table loaded for one session. It is never mutated after load.
type Dataset struct {
	Records  []Record  `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// View is an ordered subsequence of a Dataset.
type View []Record

// Criteria narrows a Dataset. Empty or sentinel values mean "no constraint".
type Criteria struct {
	Document string `json:"documento,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"q,omitempty"`
}

// Report bundles everything a presentation surface renders for one criteria set.
type Report struct {
	Criteria    Criteria  `json:"criteria"`
	Rows        View      `json:"rows"`
	Tally       Tally     `json:"tally"`
	Slices      []Slice   `json:"slices"`
	Documents   []string  `json:"documents"`
	Statuses    []string  `json:"statuses"`
	DatasetSize int       `json:"dataset_size"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Empty reports whether no rows matched the criteria.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}
