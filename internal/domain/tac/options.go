package tac

import (
	"fmt"
	"strings"
)

// ExcludePolicy controls when excluded status labels are dropped from a tally.
type ExcludePolicy string

const (
	// ExcludeAlways drops excluded labels under every criteria.
	ExcludeAlways ExcludePolicy = "always"
	// ExcludeUnfiltered drops excluded labels only when no status is selected.
	ExcludeUnfiltered ExcludePolicy = "unfiltered"
	// ExcludeNever keeps every non-empty label.
	ExcludeNever ExcludePolicy = "never"
)

// ParseExcludePolicy parses a policy name; "" means ExcludeAlways.
func ParseExcludePolicy(s string) (ExcludePolicy, error) {
	switch p := ExcludePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ExcludeAlways, nil
	case ExcludeAlways, ExcludeUnfiltered, ExcludeNever:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// AggregateOptions configures status tallying.
type AggregateOptions struct {
	// Exclude lists sentinel labels such as "Não se aplica".
	Exclude []string
	Policy  ExcludePolicy
}

func (o AggregateOptions) excluded(c Criteria) map[string]struct{} {
	if len(o.Exclude) == 0 || o.Policy == ExcludeNever {
		return nil
	}
	if o.Policy == ExcludeUnfiltered && !unconstrained(c.Status) {
		return nil
	}
	set := make(map[string]struct{}, len(o.Exclude))
	for _, label := range o.Exclude {
		set[label] = struct{}{}
	}
	return set
}
