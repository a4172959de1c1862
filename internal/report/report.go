// Package report renders an internal/telemetry.Summary into a
// self-contained HTML report, scoped down from the teacher's load-test
// report (which also charted a per-second time series the teacher's
// stats.Monitor tracked) to a "scenario run summary" — internal/telemetry
// deliberately doesn't keep per-second buckets, so there is no time
// series left to chart, only the rolling aggregate.
package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/amr9/gofetch/internal/telemetry"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>gofetch scenario report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 50%, #0f3460 100%);
            min-height: 100vh;
            color: #e0e0e0;
            padding: 20px;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        .header {
            text-align: center;
            margin-bottom: 40px;
            padding: 30px;
            background: rgba(255,255,255,0.05);
            border-radius: 20px;
        }
        .header h1 {
            font-size: 2.5rem;
            background: linear-gradient(90deg, #00d9ff, #ff00ff);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            background-clip: text;
            margin-bottom: 10px;
        }
        .header p { color: #888; }
        .summary-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .summary-card {
            background: rgba(255,255,255,0.08);
            border-radius: 15px;
            padding: 25px;
            text-align: center;
            border: 1px solid rgba(255,255,255,0.1);
        }
        .summary-card .value {
            font-size: 2.2rem;
            font-weight: bold;
            background: linear-gradient(90deg, #00d9ff, #00ff88);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            background-clip: text;
        }
        .summary-card .label {
            color: #888;
            margin-top: 10px;
            font-size: 0.85rem;
            text-transform: uppercase;
            letter-spacing: 1px;
        }
        .table-card {
            background: rgba(255,255,255,0.05);
            border-radius: 20px;
            padding: 25px;
            border: 1px solid rgba(255,255,255,0.1);
            margin-bottom: 30px;
        }
        .table-card h3 { margin-bottom: 20px; color: #00d9ff; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid rgba(255,255,255,0.1); }
        th { color: #00d9ff; text-transform: uppercase; font-size: 0.8rem; letter-spacing: 1px; }
        .success-badge {
            background: linear-gradient(90deg, #00ff88, #00d9ff);
            color: #1a1a2e; padding: 4px 12px; border-radius: 20px; font-weight: bold; font-size: 0.8rem;
        }
        .error-badge {
            background: linear-gradient(90deg, #ff4757, #ff6b81);
            color: white; padding: 4px 12px; border-radius: 20px; font-weight: bold; font-size: 0.8rem;
        }
        .footer { text-align: center; padding: 30px; color: #666; font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>⚡ gofetch scenario report</h1>
            <p>Generated at {{.GeneratedAt}}</p>
        </div>

        <div class="summary-grid">
            <div class="summary-card"><div class="value">{{.TotalRequests}}</div><div class="label">Total Requests</div></div>
            <div class="summary-card"><div class="value">{{printf "%.1f" .SuccessRate}}%</div><div class="label">Success Rate</div></div>
            <div class="summary-card"><div class="value">{{printf "%.0f" .RPS}}</div><div class="label">Requests/sec</div></div>
            <div class="summary-card"><div class="value">{{.Min}}</div><div class="label">Min Latency</div></div>
            <div class="summary-card"><div class="value">{{.P50}}</div><div class="label">P50 Latency</div></div>
            <div class="summary-card"><div class="value">{{.P99}}</div><div class="label">P99 Latency</div></div>
            <div class="summary-card"><div class="value">{{.Max}}</div><div class="label">Max Latency</div></div>
            <div class="summary-card"><div class="value">{{.SuccessCount}}</div><div class="label">Successful</div></div>
        </div>

        <div class="table-card">
            <h3>📊 Status Codes</h3>
            <table>
                <thead><tr><th>Status Code</th><th>Count</th><th>Percentage</th><th>Status</th></tr></thead>
                <tbody>
                    {{range .StatusCodesTable}}
                    <tr>
                        <td>{{.Code}}</td><td>{{.Count}}</td><td>{{printf "%.2f" .Percentage}}%</td>
                        <td>{{if .IsSuccess}}<span class="success-badge">Success</span>{{else}}<span class="error-badge">Error</span>{{end}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>

        {{if .Errors}}
        <div class="table-card" style="border-color: rgba(255, 71, 87, 0.3);">
            <h3 style="color: #ff4757;">⚠️ Errors</h3>
            <table>
                <thead><tr><th style="color: #ff4757;">Message</th><th style="color: #ff4757;">Count</th></tr></thead>
                <tbody>
                    {{range .Errors}}<tr><td style="font-family: monospace;">{{.Message}}</td><td>{{.Count}}</td></tr>{{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        <div class="footer"><p>Generated by gofetchctl</p></div>
    </div>
</body>
</html>`

// StatusCodeRow is one row of the status-code breakdown table.
type StatusCodeRow struct {
	Code       string
	Count      int64
	Percentage float64
	IsSuccess  bool
}

// ErrorRow is one row of the error breakdown table.
type ErrorRow struct {
	Message string
	Count   int64
}

// templateData holds everything the HTML template renders.
type templateData struct {
	GeneratedAt      string
	TotalRequests    int64
	SuccessCount     int64
	SuccessRate      float64
	RPS              float64
	P50, P99         string
	Max, Min         string
	StatusCodesTable []StatusCodeRow
	Errors           []ErrorRow
}

// WriteHTML renders summary as a self-contained HTML page into w.
func WriteHTML(w io.Writer, summary telemetry.Summary) error {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	var codes []int
	for code := range summary.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	var rows []StatusCodeRow
	for _, code := range codes {
		count := summary.StatusCodes[code]
		percentage := float64(count) / float64(summary.TotalRequests) * 100
		rows = append(rows, StatusCodeRow{
			Code:       fmt.Sprintf("%d", code),
			Count:      count,
			Percentage: percentage,
			IsSuccess:  code >= 200 && code < 300,
		})
	}

	var errRows []ErrorRow
	for msg, count := range summary.Errors {
		errRows = append(errRows, ErrorRow{Message: msg, Count: count})
	}
	sort.Slice(errRows, func(i, j int) bool { return errRows[i].Count > errRows[j].Count })

	data := templateData{
		GeneratedAt:      time.Now().Format("2006-01-02 15:04:05"),
		TotalRequests:    summary.TotalRequests,
		SuccessCount:     summary.SuccessCount,
		SuccessRate:      summary.SuccessRate,
		RPS:              summary.RPS,
		P50:              formatDuration(summary.P50),
		P99:              formatDuration(summary.P99),
		Max:              formatDuration(summary.Max),
		Min:              formatDuration(summary.Min),
		StatusCodesTable: rows,
		Errors:           errRows,
	}

	return tmpl.Execute(w, data)
}

// WriteConsole prints a plain-text summary; gofetchctl prints it after
// every run, in addition to any HTML report it writes.
func WriteConsole(w io.Writer, summary telemetry.Summary) {
	fmt.Fprintf(w, "\nScenario run summary\n")
	fmt.Fprintf(w, "  total requests : %d\n", summary.TotalRequests)
	fmt.Fprintf(w, "  success rate   : %.1f%% (%d/%d)\n", summary.SuccessRate, summary.SuccessCount, summary.TotalRequests)
	fmt.Fprintf(w, "  throughput     : %.2f MB/s, %.0f req/s\n", summary.Throughput, summary.RPS)
	fmt.Fprintf(w, "  latency        : min=%s p50=%s p90=%s p95=%s p99=%s max=%s\n",
		formatDuration(summary.Min), formatDuration(summary.P50), formatDuration(summary.P90),
		formatDuration(summary.P95), formatDuration(summary.P99), formatDuration(summary.Max))

	if len(summary.StatusCodes) > 0 {
		fmt.Fprintf(w, "  status codes   :\n")
		var codes []int
		for c := range summary.StatusCodes {
			codes = append(codes, c)
		}
		sort.Ints(codes)
		for _, c := range codes {
			fmt.Fprintf(w, "    %d: %d\n", c, summary.StatusCodes[c])
		}
	}
	if len(summary.Errors) > 0 {
		fmt.Fprintf(w, "  errors         :\n")
		for msg, count := range summary.Errors {
			fmt.Fprintf(w, "    %s: %d\n", msg, count)
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
