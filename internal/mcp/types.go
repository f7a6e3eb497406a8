package mcp

import "github.com/rpggio/tacboard/internal/domain/tac"

type ListFiltersParams struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"reload the sheet from its source before answering"`
}

type ListFiltersResult struct {
	Documents   []string `json:"documentos"`
	Statuses    []string `json:"status"`
	DatasetSize int      `json:"dataset_size"`
}

type FilterClausesParams struct {
	Document string `json:"documento,omitempty" jsonschema:"DOCUMENTO to match exactly; empty or Todos for all"`
	Status   string `json:"status,omitempty" jsonschema:"status label matched against any status column; empty or Todos for all"`
	Search   string `json:"q,omitempty" jsonschema:"case-insensitive text searched in every column"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum rows returned; defaults to 100"`
	Refresh  bool   `json:"refresh,omitempty" jsonschema:"reload the sheet from its source before answering"`
}

type FilterClausesResult struct {
	Criteria  tac.Criteria `json:"criteria"`
	Matched   int          `json:"matched"`
	Returned  int          `json:"returned"`
	Truncated bool         `json:"truncated"`
	Rows      []tac.Record `json:"rows"`
	Notice    string       `json:"notice,omitempty"`
}

type StatusSummaryParams struct {
	Document string `json:"documento,omitempty" jsonschema:"DOCUMENTO to match exactly; empty or Todos for all"`
	Status   string `json:"status,omitempty" jsonschema:"status label to restrict the tally to; empty or Todos for all"`
	Search   string `json:"q,omitempty" jsonschema:"case-insensitive text searched in every column"`
	Refresh  bool   `json:"refresh,omitempty" jsonschema:"reload the sheet from its source before answering"`
}

type StatusSummaryResult struct {
	Criteria tac.Criteria `json:"criteria"`
	Matched  int          `json:"matched"`
	Total    int          `json:"total"`
	Slices   []tac.Slice  `json:"slices"`
	Notice   string       `json:"notice,omitempty"`
}
