package dispatch

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/servicelayer/pkg/mapping"
)

var formsTemplates = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Services</title></head>
<body>
<h1>Services</h1>
{{- if .Entries}}
<ul>
{{- range .Entries}}
<li><a href="{{$.Base}}/form/{{.Name}}">{{.Name}}</a> <code>{{.Path}}</code></li>
{{- end}}
</ul>
{{- else}}
<p>No services are mapped.</p>
{{- end}}
</body>
</html>
`))

func init() {
	template.Must(formsTemplates.New("service").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Name}}</title></head>
<body>
<p><a href="{{.Base}}/form">Services</a></p>
<h1>{{.Name}}</h1>
<form id="call" data-path="{{.Path}}">
<textarea name="request" rows="12" cols="80">{}</textarea>
<p><button type="submit">Send</button></p>
</form>
<pre id="response"></pre>
<script>
document.getElementById("call").addEventListener("submit", function (ev) {
  ev.preventDefault();
  var form = ev.target;
  var out = document.getElementById("response");
  fetch(form.dataset.path, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: form.elements.request.value
  }).then(function (resp) {
    return resp.text().then(function (text) { out.textContent = resp.status + "\n" + text; });
  }).catch(function (err) { out.textContent = String(err); });
});
</script>
</body>
</html>
`))
}

type forms struct {
	base string
	dir  *mapping.Directory
}

func newForms(table *mapping.Table) *forms {
	return &forms{
		base: strings.TrimSuffix(table.RegistryPath(), "/"),
		dir:  table.Directory(),
	}
}

func (f *forms) index(w http.ResponseWriter, r *http.Request) {
	f.render(w, "index", map[string]any{
		"Base":    f.base,
		"Entries": f.dir.Entries(),
	})
}

func (f *forms) service(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, mapping.ServiceParam)
	path, ok := f.dir.Path(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f.render(w, "service", map[string]any{
		"Base": f.base,
		"Name": name,
		"Path": Normalize(path),
	})
}

func (f *forms) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := formsTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("dispatch: failed to render forms page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
