package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"market-movers/internal/types"
)

var emailTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"points": func(v float64) string {
		return fmt.Sprintf("%+.2f", v)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%+.2f%%", v)
	},
	"price": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
}).Parse(emailTemplate))

// Subject builds the email subject line for a report.
func Subject(r *types.Report) string {
	if len(r.Gainers) == 0 && len(r.Losers) == 0 {
		return fmt.Sprintf("Market Movers %s: no significant movers", r.Date)
	}
	return fmt.Sprintf("Market Movers %s: %s %s (%s)", r.Date, r.Index.Symbol, pointsWord(r.Index.Change), fmt.Sprintf("%+.2f", r.Index.Change))
}

func pointsWord(change float64) string {
	if change >= 0 {
		return "up"
	}
	return "down"
}

// RenderHTML renders the report as an HTML email body.
func RenderHTML(r *types.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render report %s: %w", r.Date, err)
	}
	return buf.String(), nil
}

// RenderText renders a plain-text alternative body.
func RenderText(r *types.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Market Movers Report %s\n", r.Date)
	fmt.Fprintf(&b, "%s (%s): %.2f (%+.2f, %+.2f%%)\n\n", r.Index.Name, r.Index.Symbol, r.Index.Close, r.Index.Change, r.Index.PercentChange)

	writeSection := func(title string, movers []types.ReportMover) {
		if len(movers) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s\n", title)
		for _, m := range movers {
			fmt.Fprintf(&b, "%d. %s (%s) %+.2f pts, %+.2f%%, close $%.2f\n",
				m.Rank, m.Symbol, m.CompanyName, m.PointsContribution, m.PercentChange, m.ClosePrice)
			for _, h := range m.Headlines {
				fmt.Fprintf(&b, "   - %s (%s, %.2f)\n", h.Headline, h.Sentiment, h.Score)
			}
		}
		b.WriteString("\n")
	}
	writeSection("Top Gainers", r.Gainers)
	writeSection("Top Losers", r.Losers)

	if len(r.Gainers) == 0 && len(r.Losers) == 0 {
		b.WriteString("No significant movers today.\n")
	}
	if r.Status == types.StatusPartial {
		b.WriteString("Note: some news sources were unavailable; headline coverage is incomplete.\n")
	}
	return b.String()
}

const emailTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 720px; margin: 0 auto;">
  <h2>Market Movers Report {{.Date}}</h2>
  <p>
    <strong>{{.Index.Name}} ({{.Index.Symbol}})</strong>:
    {{price .Index.Close}} ({{points .Index.Change}}, {{pct .Index.PercentChange}})
  </p>
  {{if .Gainers}}
  <h3 style="color: #1a7f37;">Top Gainers</h3>
  <table cellpadding="6" cellspacing="0" border="0" style="border-collapse: collapse; width: 100%;">
    {{range .Gainers}}
    <tr style="border-bottom: 1px solid #ddd;">
      <td valign="top" width="40">{{.Rank}}.</td>
      <td valign="top">
        <strong>{{.Symbol}}</strong> {{.CompanyName}}<br>
        {{points .PointsContribution}} pts &middot; {{pct .PercentChange}} &middot; close {{price .ClosePrice}}
        {{if .Headlines}}
        <ul style="margin: 4px 0;">
          {{range .Headlines}}
          <li><a href="{{.URL}}">{{.Headline}}</a> <em>({{.Sentiment}}, {{printf "%.2f" .Score}})</em></li>
          {{end}}
        </ul>
        {{end}}
      </td>
    </tr>
    {{end}}
  </table>
  {{end}}
  {{if .Losers}}
  <h3 style="color: #cf222e;">Top Losers</h3>
  <table cellpadding="6" cellspacing="0" border="0" style="border-collapse: collapse; width: 100%;">
    {{range .Losers}}
    <tr style="border-bottom: 1px solid #ddd;">
      <td valign="top" width="40">{{.Rank}}.</td>
      <td valign="top">
        <strong>{{.Symbol}}</strong> {{.CompanyName}}<br>
        {{points .PointsContribution}} pts &middot; {{pct .PercentChange}} &middot; close {{price .ClosePrice}}
        {{if .Headlines}}
        <ul style="margin: 4px 0;">
          {{range .Headlines}}
          <li><a href="{{.URL}}">{{.Headline}}</a> <em>({{.Sentiment}}, {{printf "%.2f" .Score}})</em></li>
          {{end}}
        </ul>
        {{end}}
      </td>
    </tr>
    {{end}}
  </table>
  {{end}}
  {{if and (not .Gainers) (not .Losers)}}
  <p>No significant movers today.</p>
  {{end}}
  {{if eq .Status "partial"}}
  <p style="color: #9a6700;"><em>Some news sources were unavailable; headline coverage is incomplete.</em></p>
  {{end}}
  <p style="color: #888; font-size: 12px;">
    Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} in {{printf "%.1f" .GenerationSeconds}}s
    &middot; {{.Constituents}} constituents &middot; {{.ArticlesAnalyzed}} articles analyzed
  </p>
</body>
</html>`
