// Package correlate maps evaluation responses back onto what the user sees:
// transcript entries for the chat composer, or a replacement roster for a job.
package correlate

import (
	"fmt"
	"strings"

	"github.com/jonathan/talent-console/internal/types"
)

// Fixed transcript texts.
const (
	NoResponseText      = "The evaluator didn't respond."
	SubmissionErrorText = "Server error. Please try again later."
)

// Transcript turns one evaluation response into system entries. It always
// returns at least one entry.
func Transcript(resp *types.EvaluationResponse) []types.TranscriptEntry {
	if resp != nil && len(resp.Results) > 0 {
		entries := make([]types.TranscriptEntry, 0, len(resp.Results))
		for _, r := range resp.Results {
			entries = append(entries, system(FormatResult(r)))
		}
		return entries
	}
	if resp != nil && strings.TrimSpace(resp.Reply) != "" {
		return []types.TranscriptEntry{system(resp.Reply)}
	}
	return []types.TranscriptEntry{system(NoResponseText)}
}

// SubmissionFailed is the single entry shown when a batch failed end to end.
func SubmissionFailed() types.TranscriptEntry {
	return system(SubmissionErrorText)
}

// UserEntries echoes what the user sent: the typed text, then one line
// listing uploaded files.
func UserEntries(message string, files []string) []types.TranscriptEntry {
	var entries []types.TranscriptEntry
	if strings.TrimSpace(message) != "" {
		entries = append(entries, types.TranscriptEntry{Sender: types.SenderUser, Text: message})
	}
	if len(files) > 0 {
		entries = append(entries, types.TranscriptEntry{
			Sender: types.SenderUser,
			Text:   "Uploaded: " + strings.Join(files, ", "),
		})
	}
	return entries
}

// FormatResult renders one per-file result. Optional fields that are absent
// are left out entirely.
func FormatResult(r types.PerFileResult) string {
	switch v := r.(type) {
	case types.ResultError:
		return fmt.Sprintf("%s: %s", v.Filename, v.Message)
	case types.ResultOK:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s - Score: %d/100\n", v.Filename, v.Score))
		if v.Name != "" {
			sb.WriteString(fmt.Sprintf("Name: %s\n", v.Name))
		}
		if v.Email != "" {
			sb.WriteString(fmt.Sprintf("Email: %s\n", v.Email))
		}
		if len(v.SkillsFound) > 0 {
			sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(v.SkillsFound, ", ")))
		}
		writeBullets(&sb, "Strengths", v.Strengths)
		writeBullets(&sb, "Weaknesses", v.Weaknesses)
		return strings.TrimRight(sb.String(), "\n")
	default:
		return fmt.Sprintf("%s: unrecognized result", r.File())
	}
}

func writeBullets(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, item := range items {
		sb.WriteString("  • " + item + "\n")
	}
}

func system(text string) types.TranscriptEntry {
	return types.TranscriptEntry{Sender: types.SenderSystem, Text: text}
}
