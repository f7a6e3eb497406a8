package tac

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

func unconstrained(v string) bool {
	switch strings.TrimSpace(v) {
	case "", AllSentinel, "All":
		return true
	default:
		return false
	}
}

// Normalize returns c in NFC form, matching loaded cells, with sentinel
// values replaced by "" and the search term trimmed.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Document: norm.NFC.String(c.Document),
		Status:   norm.NFC.String(c.Status),
		Search:   norm.NFC.String(strings.TrimSpace(c.Search)),
	}
	if unconstrained(out.Document) {
		out.Document = ""
	}
	if unconstrained(out.Status) {
		out.Status = ""
	}
	return out
}

// Unconstrained reports whether c keeps every record.
func (c Criteria) Unconstrained() bool {
	n := c.Normalize()
	return n.Document == "" && n.Status == "" && n.Search == ""
}

// Filter returns the records of ds matching c, in their original order.
// The result never aliases ds.
func Filter(ds []Record, c Criteria) View {
	c = c.Normalize()

	var needle string
	if c.Search != "" {
		needle = cases.Fold().String(c.Search)
	}

	out := make(View, 0, len(ds))
	for _, rec := range ds {
		if c.Document != "" && rec.Document != c.Document {
			continue
		}
		if c.Status != "" && !HasStatus(rec, c.Status) {
			continue
		}
		if needle != "" && !containsFolded(rec, needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// HasStatus reports whether any hierarchy level of rec carries status.
func HasStatus(rec Record, status string) bool {
	for _, s := range rec.Statuses() {
		if s == status {
			return true
		}
	}
	return false
}

func containsFolded(rec Record, needle string) bool {
	folder := cases.Fold()
	for _, col := range Schema {
		v := rec.Value(col)
		if v == "" {
			continue
		}
		if strings.Contains(folder.String(v), needle) {
			return true
		}
	}
	return false
}

// Documents returns the distinct non-empty document ids of ds, sorted.
func Documents(ds []Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range ds {
		if rec.Document != "" {
			seen[rec.Document] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Statuses returns the distinct non-empty status labels found at any level, sorted.
func Statuses(ds []Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range ds {
		for _, s := range rec.Statuses() {
			if s != "" {
				seen[s] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
