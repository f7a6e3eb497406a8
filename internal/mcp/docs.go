package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/render"
)

const serverInstructions = `tacboard answers questions about the commitments (compromissos) of
Termos de Ajustamento de Conduta, loaded from a published spreadsheet.

Workflow:
1) list_filters to see the documents and status labels present.
2) status_summary for the status distribution of a selection.
3) filter_clauses to read the matching rows; use limit to bound the output.

Filters: documento matches DOCUMENTO exactly; status matches any of the clause,
sub-clause and item statuses; q is a case-insensitive substring over every column.
"Todos" or an empty value means no constraint. Pass refresh=true to reload the sheet.

Docs: tacboard://schema describes the columns.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tacboard://schema",
		Name:        "schema",
		Title:       "TAC table schema",
		Description: "Columns of the TAC commitments table and how filters apply to them.",
		Content:     schemaDoc(),
	},
}

func schemaDoc() string {
	var b strings.Builder
	b.WriteString("# TAC table schema\n\n")
	b.WriteString("Each row is one commitment at clause, sub-clause (inciso) or item (alínea) level.\n")
	b.WriteString("Rows keep the order of the source sheet.\n\n")
	b.WriteString("| Column | Label | Notes |\n|---|---|---|\n")

	index := make(map[tac.Column]bool, len(tac.IndexColumns))
	for _, col := range tac.IndexColumns {
		index[col] = true
	}
	status := make(map[tac.Column]bool, len(tac.StatusColumns))
	for _, col := range tac.StatusColumns {
		status[col] = true
	}
	for _, col := range tac.Schema {
		var notes []string
		if index[col] {
			notes = append(notes, "index")
		}
		if col == tac.ColDocument {
			notes = append(notes, "`documento` filter")
		}
		if status[col] {
			notes = append(notes, "`status` filter, charted")
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", col, render.ColumnLabel(col), strings.Join(notes, "; "))
	}
	b.WriteString("\nEvery column is searched by `q`.\n")
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
