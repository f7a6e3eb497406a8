package transport

import (
	"html/template"
	"net/url"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/render"
)

type exportLink struct {
	Format render.Format
	URL    template.URL
}

type dashboardData struct {
	Report   tac.Report
	All      string
	ChartURL template.URL
	Exports  []exportLink
}

func newDashboardData(report tac.Report) dashboardData {
	query := criteriaQuery(report.Criteria)
	exports := make([]exportLink, 0, len(render.Formats))
	for _, f := range render.Formats {
		exports = append(exports, exportLink{Format: f, URL: template.URL("/export/" + string(f) + query)})
	}
	return dashboardData{
		Report:   report,
		All:      tac.AllSentinel,
		ChartURL: template.URL("/chart.svg" + query),
		Exports:  exports,
	}
}

// criteriaQuery encodes c as a query string, empty when unconstrained.
func criteriaQuery(c tac.Criteria) string {
	v := url.Values{}
	if c.Document != "" {
		v.Set("documento", c.Document)
	}
	if c.Status != "" {
		v.Set("status", c.Status)
	}
	if c.Search != "" {
		v.Set("q", c.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

const dashboardBase = `{{define "base"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Painel de Compromissos TAC</title>
<style>
*{box-sizing:border-box}
body{margin:0;font-family:-apple-system,"Segoe UI",sans-serif;font-size:13px;background:#f6f8fa;color:#1f2328}
header{padding:12px 20px;background:#24292f;color:#fff}
header h1{margin:0;font-size:18px}
main{display:flex;gap:16px;padding:16px 20px}
aside{flex:0 0 260px}
aside form{display:flex;flex-direction:column;gap:8px;background:#fff;padding:12px;border:1px solid #d0d7de;border-radius:6px}
aside label{font-weight:600}
aside select,aside input{padding:4px 6px;font-size:13px}
aside button{padding:6px;font-weight:600}
section{flex:1;min-width:0}
.summary{display:flex;gap:16px;align-items:flex-start;background:#fff;padding:12px;border:1px solid #d0d7de;border-radius:6px;margin-bottom:12px}
.summary ul{margin:0;padding-left:18px}
.exports a{margin-right:8px}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{border:1px solid #d0d7de;padding:4px 6px;vertical-align:top;text-align:left}
th{background:#eaeef2;position:sticky;top:0}
td.idx{font-weight:600;background:#f6f8fa}
td.wide{min-width:320px}
.notice{padding:12px;border:1px solid #f59e0b;background:#fff7e6;border-radius:6px}
.meta{color:#656d76}
</style>
</head>
<body>
<header><h1>Painel de Compromissos TAC</h1></header>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const dashboardContent = `{{define "content"}}
<aside>
<form method="get" action="/">
<label for="documento">Documento</label>
<select id="documento" name="documento">
<option value="{{.All}}">{{.All}}</option>
{{range .Report.Documents}}<option value="{{.}}"{{if eq . $.Report.Criteria.Document}} selected{{end}}>{{.}}</option>
{{end}}
</select>
<label for="status">Status</label>
<select id="status" name="status">
<option value="{{.All}}">{{.All}}</option>
{{range .Report.Statuses}}<option value="{{.}}"{{if eq . $.Report.Criteria.Status}} selected{{end}}>{{.}}</option>
{{end}}
</select>
<label for="q">Buscar</label>
<input id="q" type="search" name="q" value="{{.Report.Criteria.Search}}">
<button type="submit">Filtrar</button>
<a href="/?refresh=1">Recarregar dados</a>
</form>
<p class="meta">{{.Report.DatasetSize}} registros carregados{{if not .Report.LoadedAt.IsZero}} em {{.Report.LoadedAt.Format "02/01/2006 15:04"}}{{end}}</p>
</aside>
<section>
<div class="summary">
{{if .Report.Tally.Empty}}
<p class="meta">Sem status para exibir no gráfico.</p>
{{else}}
<img src="{{.ChartURL}}" alt="Distribuição de status" width="320" height="320">
<ul>{{range .Report.Slices}}<li>{{.Status}}: {{.Label}}</li>{{end}}</ul>
{{end}}
<div>
<p>{{len .Report.Rows}} de {{.Report.DatasetSize}} registros</p>
<p class="exports">Exportar: {{range .Exports}}<a href="{{.URL}}">{{.Format}}</a>{{end}}</p>
</div>
</div>
{{template "table" .Report}}
</section>
{{end}}`

var dashboardTmpl = template.Must(template.New("page").Funcs(render.FuncMap).Parse(dashboardBase + dashboardContent + render.TableTemplate))
