package report

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// OrgReport is the data fed to the org-mode report template, one journal
// entry per run.
type OrgReport struct {
	RunID      string
	Created    time.Time
	Instrument string
	Dataset    string
	Mode       string

	FastPeriod  int
	SlowPeriod  int
	TrendPeriod int

	Metrics Metrics

	Notes []string
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrgFile renders the run as an org-mode journal entry at path.
func (r *OrgReport) WriteOrgFile(path string) error {
	t, err := template.New("backtest").Funcs(orgFuncs).Parse(orgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const orgTemplate = `
* BACKTEST: SMA-Cross {{.Instrument}} {{.Mode}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    sma_cross
:INSTRUMENT:  {{.Instrument}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Metrics.Start.Format "2006-01-02"}}
:END_DATE:    {{.Metrics.End.Format "2006-01-02"}}
:START_BAL:   {{printf "%.2f" .Metrics.InitialBalance}}
:END_BAL:     {{printf "%.2f" .Metrics.FinalBalance}}
:NET_PL:      {{printf "%.2f" .Metrics.NetPL}}
:RETURN_PCT:  {{printf "%.2f" .Metrics.ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Metrics.MaxDDPct}}
:TRADES:      {{.Metrics.Trades}}
:WINS:        {{.Metrics.Wins}}
:LOSSES:      {{.Metrics.Losses}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Metrics.WinRate)}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter | Value |
|-----------+-------|
| Fast MA   | {{.FastPeriod}} |
| Slow MA   | {{.SlowPeriod}} |
| Trend MA  | {{.TrendPeriod}} |
| Mode      | {{.Mode}} |

** Performance Summary
- Net P/L:       *{{printf "%.2f" .Metrics.NetPL}}*
- Return:        *{{printf "%.2f" .Metrics.ReturnPct}}%*
- Max Drawdown:  *{{printf "%.2f" .Metrics.MaxDDPct}}%*
- Win Rate:      *{{printf "%.2f" (mul100 .Metrics.WinRate)}}%*
- Total Fees:    *{{printf "%.2f" .Metrics.TotalFees}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Metrics.Wins}} |
| Losses  | {{.Metrics.Losses}} |
| Total   | {{.Metrics.Trades}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
