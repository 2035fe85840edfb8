package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

// Reporter outputs an estimate to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type reportView struct {
	Location      string
	Params        domain.QueryParams
	Rows          int
	Lines         []string
	Errors        []string
	NothingPriced bool
	ShowGroups    bool
	Groups        []domain.GroupTotal
	GrandTotal    decimal.Decimal
}

func (c *Reporter) Handle(est *domain.Estimate) error {
	funcMap := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}

	tmpl := `Fetching prices for {{.Rows}} instance types in {{.Location}} ({{.Params.OperatingSystem}}, {{.Params.Tenancy}})...
{{range .Lines}}{{.}}
{{end}}{{if .Errors}}
The following rows had errors:
{{range .Errors}}  - {{.}}
{{end}}{{end}}{{if .NothingPriced}}
Warning: No pricing information was found for any instance type.
Please check your region, instance types, operating system, and tenancy settings.
{{end}}{{if .ShowGroups}}
=== Totals by Environment ===
{{range .Groups}}{{.Group}}: ${{money .Total}}/month
{{end}}{{end}}
Grand Total: ${{money .GrandTotal}}/month
{{if .Errors}}(Note: Rows with errors are excluded from the totals)
{{end}}`

	t, err := template.New("estimate").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, newReportView(est))
}

func newReportView(est *domain.Estimate) reportView {
	withCount := est.Source.HasColumn(domain.ColumnCount)
	withEnv := est.Source.HasColumn(domain.ColumnEnvironment)

	view := reportView{
		Location:      est.Location,
		Params:        est.Params,
		Rows:          len(est.Source.Rows),
		NothingPriced: len(est.Rows) == 0 && len(est.Source.Rows) > 0,
		ShowGroups:    withEnv && len(est.Groups) > 0,
		Groups:        est.Groups,
		GrandTotal:    est.GrandTotal,
	}
	for _, r := range est.Rows {
		view.Lines = append(view.Lines, rowLine(r, withCount, withEnv))
	}
	for i := range est.Errors {
		view.Errors = append(view.Errors, est.Errors[i].Error())
	}
	return view
}

func rowLine(r domain.PricedRow, withCount, withEnv bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: $%s/hr ($%s/mo)",
		r.Request.InstanceType,
		r.Cost.Hourly.StringFixed(4),
		r.Cost.Monthly.StringFixed(2))
	if withCount {
		fmt.Fprintf(&b, " x %d = $%s", r.Request.Count, r.Cost.Total.StringFixed(2))
	}
	if withEnv && r.Request.Environment != "" {
		fmt.Fprintf(&b, " [%s]", r.Request.Environment)
	}
	return b.String()
}
