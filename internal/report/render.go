package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Investorold/arcshield-sub000/internal/model"
)

var severityStyles = map[string]lipgloss.Style{
	model.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
	model.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	model.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	model.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
	model.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
}

var (
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0087d7"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// Render writes a human-readable finding list and summary. When color is
// false (no TTY, piped output) the styles degrade to plain text.
func Render(w io.Writer, rep model.ScanReport, color bool) {
	vulns := make([]model.Vulnerability, len(rep.Vulnerabilities))
	copy(vulns, rep.Vulnerabilities)
	sort.SliceStable(vulns, func(i, j int) bool {
		return vulns[i].PriorityScore > vulns[j].PriorityScore
	})

	for _, v := range vulns {
		sev := v.Severity
		title := v.Title
		location := fmt.Sprintf("%s:%d", v.FilePath, v.LineNumber)
		provenance := provenanceLabel(v)
		if color {
			if style, ok := severityStyles[v.Severity]; ok {
				sev = style.Render(v.Severity)
			}
			title = titleStyle.Render(title)
			location = locationStyle.Render(location)
			provenance = dimStyle.Render(provenance)
		}
		fmt.Fprintf(w, "%s [%s] %s (priority %d)\n", sev, v.ID, title, v.PriorityScore)
		fmt.Fprintf(w, "  %s %s\n", location, provenance)
		if v.CodeSnippet != "" {
			fmt.Fprintf(w, "  > %s\n", v.CodeSnippet)
		}
		if v.Remediation != "" {
			fmt.Fprintf(w, "  fix: %s\n", v.Remediation)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, summaryLine(rep, color))
	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "%d warning(s) during scan\n", len(rep.Warnings))
	}
}

func provenanceLabel(v model.Vulnerability) string {
	switch {
	case v.IsThirdParty && v.DependencyType != "":
		return fmt.Sprintf("[third-party: %s]", v.DependencyType)
	case v.IsThirdParty:
		return "[third-party]"
	case v.IsTest:
		return "[test code]"
	case v.IsGenerated:
		return "[generated]"
	default:
		return "[first-party]"
	}
}

func summaryLine(rep model.ScanReport, color bool) string {
	total := len(rep.Vulnerabilities)
	plural := ""
	if total != 1 {
		plural = "s"
	}

	parts := make([]string, 0, len(model.SeverityOrder))
	for _, sev := range model.SeverityOrder {
		count := rep.CountsBySeverity[sev]
		label := fmt.Sprintf("%d %s", count, sev)
		if color && count > 0 {
			if style, ok := severityStyles[sev]; ok {
				label = style.Render(label)
			}
		}
		parts = append(parts, label)
	}

	return fmt.Sprintf("%d finding%s across %d file%s (%s)",
		total, plural, rep.FilesScanned, pluralize(rep.FilesScanned), strings.Join(parts, ", "))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
