package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amr9/gofetch/internal/telemetry"
)

type SummaryModel struct {
	summary telemetry.Summary
	results []RequestResult
}

func NewSummaryModel(summary telemetry.Summary, results []RequestResult) *SummaryModel {
	return &SummaryModel{summary: summary, results: results}
}

func (m *SummaryModel) Init() tea.Cmd { return nil }

func (m *SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

var (
	sumHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Bold(true).MarginBottom(1)
	sumStatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginRight(2)
	sumValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

func (m *SummaryModel) View() string {
	var s strings.Builder

	logo := logoStyle.Render(asciiLogo)
	s.WriteString(borderStyle.Render(logo))
	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render("Scenario run summary"))
	s.WriteString("\n\n")

	s.WriteString(sumHeaderStyle.Render("📊 Results"))
	s.WriteString("\n")

	var failCount int
	for _, r := range m.results {
		label := r.Name
		mark := check.Render("✓")
		status := sumValueStyle
		if r.Err != nil || !r.Passed {
			mark = errText.Render("✗")
			status = errText
			failCount++
		}
		statusLabel := fmt.Sprintf("%d", r.Status)
		if r.Err != nil {
			statusLabel = r.Err.Error()
		}
		s.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			mark, sumStatStyle.Render(fmt.Sprintf("%-24s", label)), status.Render(statusLabel), subtext.Render(fmtDuration(r.Latency))))
	}
	s.WriteString("\n")

	sum := m.summary
	tData := [][]string{
		{"Total Requests", fmt.Sprintf("%d", sum.TotalRequests)},
		{"Success Rate", fmt.Sprintf("%.2f%%", sum.SuccessRate)},
		{"Throughput", fmt.Sprintf("%.2f MB/s, %.1f req/s", sum.Throughput, sum.RPS)},
		{"Total Data", formatBytes(sum.TotalBytes)},
	}
	for _, row := range tData {
		s.WriteString(fmt.Sprintf("  %s %s\n", sumStatStyle.Render(fmt.Sprintf("%-15s", row[0]+":")), sumValueStyle.Render(row[1])))
	}
	s.WriteString("\n")

	s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render("Latency Distribution:"))
	s.WriteString("\n")
	lData := [][]string{
		{"Min", fmtDuration(sum.Min)}, {"P50", fmtDuration(sum.P50)},
		{"P75", fmtDuration(sum.P75)}, {"P90", fmtDuration(sum.P90)},
		{"P95", fmtDuration(sum.P95)}, {"P99", fmtDuration(sum.P99)},
		{"Max", fmtDuration(sum.Max)},
	}
	for i := 0; i < len(lData); i += 2 {
		r1 := lData[i]
		s.WriteString(fmt.Sprintf("  %s %s", sumStatStyle.Render(fmt.Sprintf("%-5s", r1[0]+":")), sumValueStyle.Render(fmt.Sprintf("%-12s", r1[1]))))
		if i+1 < len(lData) {
			r2 := lData[i+1]
			s.WriteString(fmt.Sprintf("  %s %s", sumStatStyle.Render(fmt.Sprintf("%-5s", r2[0]+":")), sumValueStyle.Render(r2[1])))
		}
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if len(sum.StatusCodes) > 0 {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("📊 Status Codes"))
		s.WriteString("\n")

		var codes []int
		counts := make([]int, 0, len(sum.StatusCodes))
		for c, n := range sum.StatusCodes {
			codes = append(codes, c)
			counts = append(counts, int(n))
		}
		sort.Ints(codes)
		s.WriteString("  " + renderSparkline(counts) + "\n")
		for _, code := range codes {
			count := sum.StatusCodes[code]
			style := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
			if code >= 400 {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
			}
			s.WriteString(fmt.Sprintf("  %s %s\n", sumStatStyle.Render(fmt.Sprintf("%-15s", fmt.Sprintf("Code %d:", code))), style.Render(fmt.Sprintf("%d", count))))
		}
		s.WriteString("\n")
	}

	if len(sum.Errors) > 0 {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("❌ Error Breakdown"))
		s.WriteString("\n")
		for errStr, count := range sum.Errors {
			cleanErr := errStr
			if len(cleanErr) > 50 {
				cleanErr = cleanErr[:47] + "..."
			}
			s.WriteString(fmt.Sprintf("  %s %s\n", sumStatStyle.Render(fmt.Sprintf("%-30s", cleanErr+":")), sumValueStyle.Render(fmt.Sprintf("%d", count))))
		}
		s.WriteString("\n")
	}

	if failCount > 0 {
		s.WriteString(errText.Render(fmt.Sprintf("⚠ %d of %d requests failed", failCount, len(m.results))))
	} else {
		s.WriteString(highlight.Render("✨ All requests passed"))
	}
	s.WriteString("\n" + subtext.Render("Press Ctrl+C to exit."))

	return s.String()
}
