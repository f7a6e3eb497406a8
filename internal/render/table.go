package render

import "github.com/rpggio/tacboard/internal/domain/tac"

// Group is a run of consecutive rows sharing the same index tuple.
type Group struct {
	Year     string
	Document string
	Clause   string
	Rows     tac.View
}

// Groups splits view into index groups, keeping row order. Only adjacent rows
// merge, so a key that reappears later starts a new group.
func Groups(view tac.View) []Group {
	var out []Group
	for _, rec := range view {
		n := len(out)
		if n > 0 && out[n-1].Year == rec.Year && out[n-1].Document == rec.Document && out[n-1].Clause == rec.Clause {
			out[n-1].Rows = append(out[n-1].Rows, rec)
			continue
		}
		out = append(out, Group{
			Year:     rec.Year,
			Document: rec.Document,
			Clause:   rec.Clause,
			Rows:     tac.View{rec},
		})
	}
	return out
}

// DetailColumns are the non-index columns shown for each row.
func DetailColumns() []tac.Column {
	index := make(map[tac.Column]bool, len(tac.IndexColumns))
	for _, col := range tac.IndexColumns {
		index[col] = true
	}
	out := make([]tac.Column, 0, len(tac.Schema)-len(tac.IndexColumns))
	for _, col := range tac.Schema {
		if !index[col] {
			out = append(out, col)
		}
	}
	return out
}

var columnLabels = map[tac.Column]string{
	tac.ColYear:                   "Ano",
	tac.ColDocument:               "Documento",
	tac.ColClause:                 "Cláusula",
	tac.ColSubClause:              "Inciso",
	tac.ColSubSubClause:           "Alínea",
	tac.ColClauseCommitment:       "Compromisso",
	tac.ColClauseStatus:           "Status",
	tac.ColClauseNotes:            "Observações",
	tac.ColSubClauseCommitment:    "Compromisso Inciso",
	tac.ColSubClauseStatus:        "Status Inciso",
	tac.ColSubClauseNotes:         "Observações Inciso",
	tac.ColSubSubClauseCommitment: "Compromisso Alínea",
	tac.ColSubSubClauseStatus:     "Status Alínea",
	tac.ColSubSubClauseNotes:      "Observações Alínea",
}

// ColumnLabel returns the display heading for col.
func ColumnLabel(col tac.Column) string {
	if label, ok := columnLabels[col]; ok {
		return label
	}
	return string(col)
}

// wideColumns hold long free text and get extra width in HTML tables.
var wideColumns = map[tac.Column]bool{
	tac.ColClauseCommitment:       true,
	tac.ColSubClauseCommitment:    true,
	tac.ColSubSubClauseCommitment: true,
}
