// Package render formats jobs and preferences for terminal output. Job
// descriptions arrive as scraped HTML, so they are stripped down to text
// before printing.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"jobping-client-go/internal/models"
)

const descriptionLimit = 200

// ANSI colors matching the UI's score thresholds.
const (
	colorGood  = "\033[32m"
	colorWarn  = "\033[33m"
	colorBad   = "\033[31m"
	colorReset = "\033[0m"
)

// StripHTML reduces scraped HTML to its text content, with runs of
// whitespace collapsed. Plain text passes through unchanged.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

// ScoreBadge renders an AI score with the color band used by the UI:
// green from 80, yellow from 60, red below.
func ScoreBadge(score *int) string {
	if score == nil {
		return ""
	}
	color := colorBad
	switch {
	case *score >= 80:
		color = colorGood
	case *score >= 60:
		color = colorWarn
	}
	return fmt.Sprintf("%s%d%%%s", color, *score, colorReset)
}

// JobCard renders one job as a multi-line card.
func JobCard(job models.Job) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", job.Title)
	if badge := ScoreBadge(job.AIScore); badge != "" {
		fmt.Fprintf(&b, "  [%s]", badge)
	}
	fmt.Fprintf(&b, "\n  %s\n", job.Company)

	location := job.Location
	if location == "" {
		location = "Unknown"
	}
	fmt.Fprintf(&b, "  📍 %s", location)
	if job.IsRemote {
		b.WriteString("  🏠 Remote")
	}
	if job.JobType != "" {
		fmt.Fprintf(&b, "  %s", job.JobType)
	}
	b.WriteByte('\n')

	if salary := salaryLine(job.MinSalary, job.MaxSalary); salary != "" {
		fmt.Fprintf(&b, "  💰 %s\n", salary)
	}

	if desc := StripHTML(job.Description); desc != "" {
		if len(desc) > descriptionLimit {
			desc = desc[:descriptionLimit] + "..."
		}
		fmt.Fprintf(&b, "  %s\n", desc)
	}

	if job.AIAnalysis != nil && *job.AIAnalysis != "" {
		fmt.Fprintf(&b, "  AI: %s\n", *job.AIAnalysis)
	}

	if job.JobURL != "" {
		fmt.Fprintf(&b, "  → %s\n", job.JobURL)
	}

	return b.String()
}

// PreferenceRow renders one preference as a single line.
func PreferenceRow(p models.Preference) string {
	return fmt.Sprintf("%s  %s = %s", p.ID, p.Key, p.Value)
}

func salaryLine(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("$%.0f - $%.0f", *min, *max)
	case min != nil:
		return fmt.Sprintf("$%.0f", *min)
	case max != nil:
		return fmt.Sprintf("$%.0f", *max)
	}
	return ""
}
