// Package report renders a dashboard as a Markdown summary, or as HTML converted from it.
package report

import (
	"fmt"
	"strings"

	"findash/app"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/shopspring/decimal"
)

// TrendColumns is how many numeric columns get a time series section
const TrendColumns = 3

const dateLayout = "2006-01-02"

// Markdown renders the summary report
func Markdown(d *app.Dashboard) string {
	var b strings.Builder

	b.WriteString("# Financial Dashboard Summary Report\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Data Summary\n\n")
	fmt.Fprintf(&b, "- Records: %d\n", d.Rows)
	if d.From != nil && d.To != nil {
		fmt.Fprintf(&b, "- Date range: %s to %s\n", d.From.Format(dateLayout), d.To.Format(dateLayout))
	} else {
		b.WriteString("- Date range: Not available\n")
	}
	if !d.SourceFingerprint.IsEmpty() {
		fmt.Fprintf(&b, "- Source: `%s`\n", d.SourceFingerprint.Short())
	}
	b.WriteString("\n")

	b.WriteString("## Key Metrics\n\n")
	if len(d.Metrics) == 0 {
		b.WriteString("No metrics available\n")
	}
	for _, m := range d.Metrics {
		fmt.Fprintf(&b, "- %s: %s\n", m.Name, FormatAmount(m.Value))
	}

	b.WriteString("\n## Graph Analysis\n\n")
	writeTrends(&b, d)
	writeCategories(&b, d)
	writePredictions(&b, d)
	writeHealth(&b, d)

	return b.String()
}

// HTML renders the summary report as an HTML fragment. Column names and category values come
// from uploaded files, so raw HTML in the Markdown is dropped and only safe links are rendered.
func HTML(d *app.Dashboard) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return markdown.ToHTML([]byte(Markdown(d)), p, renderer)
}

func writeTrends(b *strings.Builder, d *app.Dashboard) {
	if d.DateColumn == "" || d.Rows == 0 || len(d.Trends) == 0 {
		b.WriteString("No time series analysis available.\n\n")
		return
	}
	n := min(TrendColumns, len(d.Trends))
	for _, tr := range d.Trends[:n] {
		fmt.Fprintf(b, "### %s Time Series\n\n", tr.Column)
		fmt.Fprintf(b, "- Trend: %s\n", tr.Trend)
		fmt.Fprintf(b, "- Average: %s\n", FormatAmount(tr.Average))
		fmt.Fprintf(b, "- Volatility: %.2f\n", tr.Volatility)
		fmt.Fprintf(b, "- Change rate: %.2f%%\n\n", tr.ChangePct)
	}
}

func writeCategories(b *strings.Builder, d *app.Dashboard) {
	if len(d.Breakdowns) == 0 || len(d.Breakdowns[0].Shares) == 0 {
		return
	}
	bd := d.Breakdowns[0]
	b.WriteString("### Categorical Analysis\n\n")
	fmt.Fprintf(b, "Distribution for %s:\n\n", bd.CategoryColumn)
	for _, s := range bd.Shares {
		fmt.Fprintf(b, "- %s: %d (%.1f%%)\n", s.Category, s.Count, s.Percent)
	}
	b.WriteString("\n")
}

func writePredictions(b *strings.Builder, d *app.Dashboard) {
	if len(d.Predictions) == 0 {
		return
	}
	b.WriteString("## Predictions\n\n")
	for _, out := range d.Predictions {
		if !out.Available {
			fmt.Fprintf(b, "- %s: %s\n", out.Column, out.Note)
			continue
		}
		p := out.Prediction
		fmt.Fprintf(b, "- Predicted average %s over %d days: %s (±%s)\n",
			p.Column, p.Days, FormatAmount(p.AveragePrediction), FormatAmount(p.ErrorBound))
		fmt.Fprintf(b, "  - Predicted trend: %s\n", p.Description)
	}
	b.WriteString("\n")
}

func writeHealth(b *strings.Builder, d *app.Dashboard) {
	b.WriteString("## Financial Health\n\n")
	if !d.Health.Available() {
		fmt.Fprintf(b, "%s\n", d.Health.Description)
		return
	}
	fmt.Fprintf(b, "Score: **%d/100** (%s)\n\n%s\n\n", *d.Health.Score, d.Health.Label, d.Health.Description)
	b.WriteString("| Feature | Value | Weight | Contribution |\n|---|---|---|---|\n")
	for _, c := range d.Health.Contributions {
		fmt.Fprintf(b, "| %s | %.4f | %.2f | %.4f |\n", c.Feature, c.Clipped, c.Weight, c.Contribution)
	}
}

// FormatAmount renders v with two decimals and thousands separators, e.g. -1,234.50
func FormatAmount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "." + frac
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}
