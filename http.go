package main

import (
	"log"
	"net/http"
	"text/template"
)

type rootHandler struct {
	tmpl *template.Template
	app  *App
}

func newRootHandler(a *App) *rootHandler {
	thtml := `
<html>
<head>
<title>p2p-node-stats {{.Version}}</title>
</head>
<h2>p2p-node-stats version {{.Version}}</h2>

<pre>
{{.Report}}
</pre>

<div>
<form action="/" method="GET">
    <input type="submit" value="Refresh" />
</form>
</div>

</html>`

	tmpl := template.Must(template.New("thtml").Parse(thtml))

	return &rootHandler{tmpl, a}
}

func (h *rootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := httpServerData{
		VERSION,
		h.app.Report(),
	}

	if err := h.tmpl.Execute(w, d); err != nil {
		log.Printf("http server error executing template (%s)", err)
	}
}

type httpServerData struct {
	Version string
	Report  string
}
