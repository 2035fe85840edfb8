package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/estimate"
)

type TableConfig struct {
	RowWidth   int
	TypeWidth  int
	EnvWidth   int
	PriceWidth int
	CountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RowWidth:   4,
		TypeWidth:  20,
		EnvWidth:   14,
		PriceWidth: 16,
		CountWidth: 6,
	}
}

// summaryLine is one rendered row of the summary table.
type summaryLine struct {
	Row          int
	InstanceType string
	Environment  string
	Hourly       string
	Monthly      string
	Count        string
	Total        string
}

// Reporter renders the per-row summary table shown when no output file is requested.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(est *domain.Estimate) error {
	funcMap := template.FuncMap{
		"formatRow": func(row interface{}, instanceType, env, hourly, monthly, count, total string) string {
			return fmt.Sprintf("| %*v | %-*s | %-*s | %*s | %*s | %*s | %*s |",
				c.config.RowWidth, row,
				c.config.TypeWidth, instanceType,
				c.config.EnvWidth, env,
				c.config.PriceWidth, hourly,
				c.config.PriceWidth, monthly,
				c.config.CountWidth, count,
				c.config.PriceWidth, total)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.RowWidth+2),
				strings.Repeat("-", c.config.TypeWidth+2),
				strings.Repeat("-", c.config.EnvWidth+2),
				strings.Repeat("-", c.config.PriceWidth+2),
				strings.Repeat("-", c.config.PriceWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.PriceWidth+2))
		},
	}

	tmpl := `
Summary of EC2 Instance Pricing:
{{separator}}
{{formatRow "#" "Instance Type" "Environment" "Hourly" "Monthly" "Count" "Total"}}
{{separator}}
{{range .}}{{formatRow .Row .InstanceType .Environment .Hourly .Monthly .Count .Total}}
{{end}}{{separator}}
`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summaryLines(est))
}

func summaryLines(est *domain.Estimate) []summaryLine {
	idx := est.Index()
	lines := make([]summaryLine, 0, len(est.Source.Rows))
	for i, raw := range est.Source.Rows {
		line := summaryLine{
			Row:          i + 1,
			InstanceType: raw.Get(domain.ColumnInstanceType).Text(),
			Environment:  raw.Get(domain.ColumnEnvironment).Text(),
			Count:        raw.Get(domain.ColumnCount).Text(),
		}
		if rowErr, ok := idx.FailureFor(line.Row); ok {
			line.Hourly = estimate.FailureLabel(rowErr)
		} else if priced, ok := idx.PricedFor(line.Row); ok {
			line.Hourly = "$" + priced.Cost.Hourly.StringFixed(4)
			line.Monthly = "$" + priced.Cost.Monthly.StringFixed(2)
			line.Count = fmt.Sprint(priced.Request.Count)
			line.Total = "$" + priced.Cost.Total.StringFixed(2)
		}
		lines = append(lines, line)
	}
	return lines
}
