package api

import (
	"fmt"
	"net/http"
)

// docsHTML is the API reference served at /docs. It doubles as the
// dashboard's documentation tab: one section per endpoint with its
// parameters and the canonical metric names accepted by queries.
const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>tbatlas API Documentation</title>
    <style>
        body { font-family: -apple-system, Segoe UI, sans-serif; margin: 0; background: #fafafa; color: #222; }
        main { max-width: 860px; margin: 0 auto; padding: 2rem 1rem 4rem; }
        h1 { border-bottom: 2px solid #0a6e4f; padding-bottom: .4rem; }
        h2 { margin-top: 2.2rem; color: #0a6e4f; }
        code, pre { background: #eef2f0; border-radius: 4px; }
        code { padding: .1rem .3rem; }
        pre { padding: .8rem; overflow-x: auto; }
        table { border-collapse: collapse; width: 100%; }
        td, th { border: 1px solid #d4ddd8; padding: .35rem .6rem; text-align: left; }
        .method { font-weight: 600; color: #0a6e4f; }
    </style>
</head>
<body>
<main>
    <h1>tbatlas API</h1>
    <p>JSON view models over the WHO tuberculosis burden dataset. Every
    endpoint reads the same in-memory dataset, loaded once from the source
    CSV and reloaded only when the file changes. Countries are accepted by
    display name or ISO3 code throughout.</p>

    <h2>Service</h2>
    <table>
        <tr><th>Endpoint</th><th>Description</th></tr>
        <tr><td><span class="method">GET</span> <code>/health</code></td><td>Liveness probe with server version.</td></tr>
        <tr><td><span class="method">GET</span> <code>/catalog</code></td><td>Countries, regions, years and metrics available for filter widgets.</td></tr>
        <tr><td><span class="method">GET</span> <code>/stats</code></td><td>Loader state and per-column completeness statistics.</td></tr>
        <tr><td><span class="method">GET</span> <code>/metrics</code></td><td>Prometheus metrics.</td></tr>
    </table>

    <h2>Dashboard views</h2>
    <table>
        <tr><th>Endpoint</th><th>Parameters</th><th>Description</th></tr>
        <tr><td><span class="method">GET</span> <code>/views/overview</code></td>
            <td><code>year</code> (optional, default latest)</td>
            <td>Headline cards, prevalence choropleth, region share pie, top-10 countries.</td></tr>
        <tr><td><span class="method">GET</span> <code>/views/comparison</code></td>
            <td><code>year</code>, <code>countries</code> (comma separated)</td>
            <td>Incidence and mortality rate bars for the selected countries.</td></tr>
        <tr><td><span class="method">GET</span> <code>/views/trends</code></td>
            <td><code>countries</code>, <code>from</code>, <code>to</code></td>
            <td>Per-country incidence/mortality lines plus region heatmap, bubble chart and stacked totals.</td></tr>
        <tr><td><span class="method">GET</span> <code>/views/regional</code></td>
            <td><code>region</code> (required), <code>from</code>, <code>to</code></td>
            <td>Prevalence and mortality bars for every country in one region.</td></tr>
        <tr><td><span class="method">GET</span> <code>/views/profile</code></td>
            <td><code>country</code> (required)</td>
            <td>All records for one country plus its rate series over time.</td></tr>
        <tr><td><span class="method">GET</span> <code>/views/map</code></td>
            <td><code>metric</code> (default prevalence_rate), <code>from</code>, <code>to</code></td>
            <td>One choropleth frame per year, for animation.</td></tr>
    </table>

    <h2>POST /views/explorer</h2>
    <p>Structured data exploration: region set, year range and metric
    conditions. An empty match returns a placeholder view, never an error.</p>
    <pre>{
  "filter": {
    "regions": ["AFR"],
    "years": {"from": 2010, "to": 2013},
    "conditions": [
      {"metric": "incidence_rate", "op": "gt", "value": 300}
    ]
  },
  "page": 1,
  "per_page": 50
}</pre>
    <p>Supported operators: <code>eq</code>, <code>ne</code>, <code>gt</code>,
    <code>gte</code>, <code>lt</code>, <code>lte</code>.</p>

    <h2>POST /views/similarity</h2>
    <p>Ranks the countries whose burden profiles most resemble the target
    country in one year. Metric columns are z-score normalized across the
    compared countries before cosine similarity; countries missing any
    requested metric are dropped from the candidate set.</p>
    <pre>{
  "country": "Brazil",
  "year": 2013,
  "metrics": ["incidence_rate", "mortality_rate", "prevalence_rate"],
  "k": 10
}</pre>
    <p>Omitting <code>metrics</code> selects the key indicator set; omitting
    <code>year</code> selects the latest year; <code>k</code> defaults to 10.
    An unknown country or a country without complete data for the requested
    metrics yields 404.</p>

    <h2>Metric names</h2>
    <p>Queries accept the canonical short names: <code>population</code>,
    <code>prevalence_rate</code>, <code>prevalence_num</code>,
    <code>incidence_rate</code>, <code>incidence_num</code>,
    <code>mortality_rate</code>, <code>deaths_num</code>,
    <code>hiv_in_tb_percent</code>, <code>detection_rate</code>, each with
    <code>_lo</code>/<code>_hi</code> bound columns where the source
    publishes them. <code>GET /catalog</code> lists them with display labels
    and aggregation kinds.</p>
</main>
</body>
</html>`

// setupDocs adds the documentation endpoints to the server
func (s *Server) setupDocs() {
	s.router.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, docsHTML)
	}).Methods("GET")

	// Also serve at /docs/ with trailing slash
	s.router.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusMovedPermanently)
	}).Methods("GET")
}
