package render

import (
	"html/template"
	"strings"

	"github.com/rpggio/tacboard/internal/domain/tac"
)

// NoResultsNotice is shown instead of an empty table.
const NoResultsNotice = "Nenhum compromisso encontrado para os filtros selecionados."

// FuncMap holds the helpers used by the table templates.
var FuncMap = template.FuncMap{
	"detailColumns": DetailColumns,
	"columnLabel":   ColumnLabel,
	"indexColumns":  func() []tac.Column { return tac.IndexColumns },
	"value":         func(rec tac.Record, col tac.Column) string { return rec.Value(col) },
	"wide":          func(col tac.Column) bool { return wideColumns[col] },
	"groups":        Groups,
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"add": func(a, b int) int { return a + b },
}

// TableTemplate renders a grouped report table, or the no-results notice.
// It expects a tac.Report as its data.
const TableTemplate = `
{{define "table"}}
{{if .Rows}}
<table class="tacs">
<thead><tr>
{{range indexColumns}}<th>{{columnLabel .}}</th>{{end}}
{{range detailColumns}}<th{{if wide .}} class="wide"{{end}}>{{columnLabel .}}</th>{{end}}
</tr></thead>
<tbody>
{{range $g := groups .Rows}}
{{range $i, $rec := $g.Rows}}
<tr>
{{if eq $i 0}}<td rowspan="{{len $g.Rows}}" class="idx">{{$g.Year}}</td><td rowspan="{{len $g.Rows}}" class="idx">{{$g.Document}}</td><td rowspan="{{len $g.Rows}}" class="idx">{{$g.Clause}}</td>{{end}}
{{range detailColumns}}<td{{if wide .}} class="wide"{{end}}>{{range $j, $line := lines (value $rec .)}}{{if $j}}<br>{{end}}{{$line}}{{end}}</td>{{end}}
</tr>
{{end}}
{{end}}
</tbody>
</table>
{{else}}
<p class="notice">` + NoResultsNotice + `</p>
{{end}}
{{end}}
`

const exportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Compromissos TAC</title>
<style>
body{font-family:sans-serif;font-size:13px}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ccc;padding:4px 6px;vertical-align:top;text-align:left}
th{background:#f2f2f2}
td.idx{font-weight:600}
td.wide{min-width:320px}
.notice{padding:12px;border:1px solid #f59e0b;background:#fff7e6}
</style>
</head>
<body>
<h1>Compromissos TAC</h1>
<p>Documento: {{or .Criteria.Document "Todos"}} · Status: {{or .Criteria.Status "Todos"}}{{if .Criteria.Search}} · Busca: {{.Criteria.Search}}{{end}} · {{len .Rows}} de {{.DatasetSize}} registros</p>
{{if .Slices}}<ul>{{range .Slices}}<li>{{.Status}}: {{.Label}}</li>{{end}}</ul>{{end}}
{{template "table" .}}
</body>
</html>
`

var exportTmpl = template.Must(template.New("export").Funcs(FuncMap).Parse(exportTemplate + TableTemplate))
