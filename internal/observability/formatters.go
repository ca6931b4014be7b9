// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-console/internal/shortlist"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/jonathan/talent-console/internal/view"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// PrintJobs outputs one line per job posting.
func (p *Printer) PrintJobs(jobs []types.Job) {
	if len(jobs) == 0 {
		p.printBox("JOBS", "No jobs posted yet.")
		return
	}

	var sb strings.Builder
	for i, job := range jobs {
		sb.WriteString(fmt.Sprintf("#%-4d %s\n", job.ID, clip(job.Title, 40)))
		var meta []string
		for _, v := range []string{job.ExperienceLevel, job.JobType, job.SalaryRange} {
			if v != "" {
				meta = append(meta, v)
			}
		}
		if len(meta) > 0 {
			sb.WriteString(fmt.Sprintf("      %s\n", strings.Join(meta, " · ")))
		}
		if len(job.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("      Skills: %s\n", clip(strings.Join(job.Skills, ", "), 40)))
		}
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("JOBS (%d)", len(jobs)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs the dashboard counters.
func (p *Printer) PrintStats(stats *types.Stats) {
	if stats == nil {
		return
	}
	content := fmt.Sprintf("Jobs:         %d\nCandidates:   %d\nShortlisted:  %d",
		stats.Jobs, stats.Candidates, stats.Shortlisted)
	p.printBox("DASHBOARD", content)
}

// PrintRoster outputs the projected rows. Selected rows are marked [x] and
// shortlisted ones with a star.
func (p *Printer) PrintRoster(title string, proj view.Projection, shadow map[int64]bool, selection map[int64]struct{}) {
	if len(proj.Rows) == 0 {
		p.printBox(title, "No candidates match the current filters.")
		return
	}

	var sb strings.Builder
	for _, c := range proj.Rows {
		mark := "[ ]"
		if _, ok := selection[c.ID]; ok {
			mark = "[x]"
		}
		star := " "
		if shadow[c.ID] {
			star = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %s #%-4d %-20s %3d  %s\n",
			mark, star, c.ID, clip(c.Name, 20), c.Score, c.ExperienceLevel))
	}
	if proj.AllSelected {
		sb.WriteString("\nAll visible candidates selected.")
	}

	p.printBox(fmt.Sprintf("%s (%d)", title, len(proj.Rows)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidate outputs the full detail of one candidate.
func (p *Printer) PrintCandidate(c types.Candidate) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:        %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Email:       %s\n", c.Email))
	sb.WriteString(fmt.Sprintf("Score:       %d/100\n", c.Score))
	if c.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Experience:  %s\n", c.ExperienceLevel))
	}
	if c.Education != "" {
		sb.WriteString(fmt.Sprintf("Education:   %s\n", c.Education))
	}
	if c.Shortlisted {
		sb.WriteString("Shortlisted: yes\n")
	}
	if c.ResumeURL != "" {
		sb.WriteString(fmt.Sprintf("Resume:      %s\n", c.ResumeURL))
	}

	writeList(&sb, "Skills", c.SkillsFound, maxItemsToShow*2)
	writeList(&sb, "Strengths", c.Strengths, maxItemsToShow)
	writeList(&sb, "Weaknesses", c.Weaknesses, maxItemsToShow)

	p.printBox(fmt.Sprintf("CANDIDATE #%d", c.ID), strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintTranscript outputs chat entries without boxing so long evaluation
// blocks stay readable.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTranscript(entries []types.TranscriptEntry) {
	for _, e := range entries {
		prefix := "bot"
		if e.Sender == types.SenderUser {
			prefix = "you"
		}
		for i, line := range strings.Split(e.Text, "\n") {
			if i == 0 {
				fmt.Fprintf(p.out, "%s> %s\n", prefix, line)
				continue
			}
			fmt.Fprintf(p.out, "     %s\n", line)
		}
	}
}

// PrintOutcome outputs the result of a bulk shortlist toggle, naming every
// failed candidate.
func (p *Printer) PrintOutcome(outcome *shortlist.Outcome) {
	if outcome == nil {
		return
	}
	if len(outcome.Failed) == 0 {
		p.printBox("SHORTLIST UPDATE", "✅ "+outcome.Summary())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Updated: %d   Failed: %d\n\n", len(outcome.Succeeded), len(outcome.Failed)))
	for _, f := range outcome.Failed {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", f.Label()))
		sb.WriteString(fmt.Sprintf("  %s\n", clip(f.Err.Error(), 45)))
	}
	sb.WriteString("\nFailed candidates remain selected; retry to resend.")

	p.printBox("SHORTLIST UPDATE", sb.String())
}

// PrintDraft outputs an email draft before it is sent.
func (p *Printer) PrintDraft(draft types.EmailDraft) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To:      %s\n", draft.To))
	if draft.CC != "" {
		sb.WriteString(fmt.Sprintf("CC:      %s\n", draft.CC))
	}
	if draft.BCC != "" {
		sb.WriteString(fmt.Sprintf("BCC:     %s\n", draft.BCC))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\n", draft.Subject))
	for _, a := range draft.Attachments {
		sb.WriteString(fmt.Sprintf("Attach:  %s (%d bytes)\n", a.Name, a.Size))
	}
	if draft.Message != "" {
		sb.WriteString("\n")
		sb.WriteString(draft.Message)
	}

	p.printBox("EMAIL DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarning outputs a single warning line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarning(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(p.out, "⚠ %s\n", msg)
}
