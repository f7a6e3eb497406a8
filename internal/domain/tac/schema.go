package tac

import "strings"

// Column names a field of the source table.
type Column string

const (
	ColYear                   Column = "ANO"
	ColDocument               Column = "DOCUMENTO"
	ColClause                 Column = "CLAUSULA"
	ColSubClause              Column = "INCISO"
	ColSubSubClause           Column = "ALINEA"
	ColClauseCommitment       Column = "COMPROMISSO_DA_CLAUSULA"
	ColClauseStatus           Column = "STATUS_CLAUSULA"
	ColClauseNotes            Column = "OBS_SEJUS_CLAUSULA"
	ColSubClauseCommitment    Column = "COMPROMISSO_INCISO"
	ColSubClauseStatus        Column = "STATUS_INCISO"
	ColSubClauseNotes         Column = "OBS_SEJUS_INCISO"
	ColSubSubClauseCommitment Column = "COMPROMISSO_ALINEA"
	ColSubSubClauseStatus     Column = "STATUS_ALINEA"
	ColSubSubClauseNotes      Column = "OBS_SEJUS_ALINEA"
)

// Schema lists every column in export order.
var Schema = []Column{
	ColYear,
	ColDocument,
	ColClause,
	ColSubClause,
	ColSubSubClause,
	ColClauseCommitment,
	ColClauseStatus,
	ColClauseNotes,
	ColSubClauseCommitment,
	ColSubClauseStatus,
	ColSubClauseNotes,
	ColSubSubClauseCommitment,
	ColSubSubClauseStatus,
	ColSubSubClauseNotes,
}

// IndexColumns form the hierarchical row index of the rendered table.
var IndexColumns = []Column{ColYear, ColDocument, ColClause}

// StatusColumns are the status-bearing fields, clause level first.
var StatusColumns = []Column{ColClauseStatus, ColSubClauseStatus, ColSubSubClauseStatus}

// Headers returns the schema column names as strings.
func Headers() []string {
	out := make([]string, len(Schema))
	for i, col := range Schema {
		out[i] = string(col)
	}
	return out
}

// CanonicalHeader normalizes a raw CSV header cell for matching.
func CanonicalHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// ResolveHeader maps each schema column to its position in header.
// Columns not in the schema are ignored.
func ResolveHeader(header []string) (map[Column]int, error) {
	positions := make(map[Column]int, len(Schema))
	for i, h := range header {
		col := Column(CanonicalHeader(h))
		if _, seen := positions[col]; seen {
			continue
		}
		positions[col] = i
	}

	var missing []string
	for _, col := range Schema {
		if _, ok := positions[col]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return positions, nil
}
