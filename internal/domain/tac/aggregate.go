package tac

import (
	"fmt"
	"math"
	"sort"
)

// Tally counts status labels across a View.
type Tally struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Empty reports whether nothing was tallied. Callers skip charting in that case.
func (t Tally) Empty() bool {
	return t.Total == 0
}

// Slice is one chart wedge.
type Slice struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// StatusValues flattens the status fields of view, record by record, clause level first.
func StatusValues(view View) []string {
	out := make([]string, 0, len(view)*len(StatusColumns))
	for _, rec := range view {
		s := rec.Statuses()
		out = append(out, s[:]...)
	}
	return out
}

// Aggregate tallies the non-empty status labels of view.
// With a status criterion only entries equal to it are counted.
func Aggregate(view View, c Criteria, opts AggregateOptions) Tally {
	c = c.Normalize()
	excluded := opts.excluded(c)

	t := Tally{Counts: make(map[string]int)}
	for _, v := range StatusValues(view) {
		if v == "" {
			continue
		}
		if _, skip := excluded[v]; skip {
			continue
		}
		if c.Status != "" && v != c.Status {
			continue
		}
		t.Counts[v]++
		t.Total++
	}
	return t
}

// Slices orders the tally by count descending, then label, and labels each wedge.
func (t Tally) Slices() []Slice {
	if t.Empty() {
		return nil
	}
	out := make([]Slice, 0, len(t.Counts))
	for status, n := range t.Counts {
		pct := float64(n) * 100 / float64(t.Total)
		out = append(out, Slice{
			Status:  status,
			Count:   n,
			Percent: pct,
			Label:   Label(pct, t.Total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// LabelCount is the absolute count reported for a wedge of pct percent out of total.
func LabelCount(pct float64, total int) int {
	return int(math.Round(float64(total) * pct / 100))
}

// Label formats a wedge as "<pct>% (<count>)".
func Label(pct float64, total int) string {
	return fmt.Sprintf("%.0f%% (%d)", pct, LabelCount(pct, total))
}
