package dashboard

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/recordsview"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(
	template.New("dashboard.html").Funcs(templateFuncs()).ParseFS(templateFS, "templates/dashboard.html"),
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fmtInt": recordsview.FmtInt,
		"field": func(r model.Record, name string) any {
			return r.Value(name)
		},
		"text": func(r model.Record, name string) string {
			return r.Text(name)
		},
	}
}

// StatusOptions are the values offered by the status select.
var StatusOptions = []struct{ Value, Label string }{
	{"", "All"},
	{"active", "Active"},
	{"inactive", "Inactive"},
}

// Page is the view model for one render.
type Page struct {
	State  State
	Params model.FilterParams
	View   recordsview.View
}

func NewPage(st State, params model.FilterParams) Page {
	return Page{
		State:  st,
		Params: params,
		View:   recordsview.NewView(st.Items(), params),
	}
}

// InvalidSamples is the sample count shown in the ingestion report.
func (p Page) InvalidSamples() int {
	if p.State.Report == nil {
		return 0
	}
	return len(p.State.Report.InvalidSamples)
}

// SelectedStatus is the status select value; unknown filters show as "All".
func (p Page) SelectedStatus() string {
	s := strings.ToLower(strings.TrimSpace(p.Params.StatusFilter))
	for _, o := range StatusOptions {
		if o.Value == s {
			return s
		}
	}
	return ""
}

func (p Page) StatusOptions() []struct{ Value, Label string } { return StatusOptions }

func Render(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}
