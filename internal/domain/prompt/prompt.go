// Package prompt builds the prompts sent to the text-completion gateway.
//
// Both the alignment scorer and the report aggregator consume this
// package, so scoring behavior cannot silently diverge between code
// paths. Prompts are stamped with Version; bump it whenever wording
// changes in a way that could shift scores.
package prompt

import (
	"fmt"
	"strings"

	"github.com/teamlens/alignd/internal/domain/model"
)

// Version identifies the current prompt wording.
const Version = "v2"

// Alignment builds the comparison prompt for one clarity check. The
// model is instructed to answer with a bare JSON object; the sanitizer
// still strips fences because models wrap output anyway.
func Alignment(goal model.Goal, sub model.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[prompt %s] You compare a team goal with a member's stated understanding of it.\n\n", Version)
	fmt.Fprintf(&b, "Leader goal: %q\n", goal.GoalText)
	if goal.ContextText != "" {
		fmt.Fprintf(&b, "Context: %q\n", goal.ContextText)
	}
	fmt.Fprintf(&b, "Member %s (%s) understanding: %q\n\n", sub.MemberName, sub.Role, sub.Understanding)
	b.WriteString(`Score how closely the understanding matches the goal.
Respond with exactly this JSON object and nothing else:
{"score": <integer 0-100>, "recommendation": "NONE" | "ONE_ON_ONE" | "NEEDS_REVIEW", "feedback": "<one or two sentences of advice for the leader>"}`)
	return b.String()
}

// Report builds the summarization prompt over a digest of recent
// analyses, one line per record.
func Report(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[prompt %s] You write a short status summary for a team lead.\n\n", Version)
	b.WriteString("Recent alignment checks, newest first:\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nSummarize the team's clarity in a few sentences of plain prose: who is aligned, who needs attention, and one suggested next step. No headings, no lists.")
	return b.String()
}

// Plan builds the kickoff-plan prompt used at goal publication.
func Plan(goalText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[prompt %s] Act as a project manager.\n\n", Version)
	fmt.Fprintf(&b, "Goal: %q\n\n", goalText)
	b.WriteString(`Respond with exactly this JSON object and nothing else:
{"projectName": "<short title>", "tasks": ["<task>", "..."]}`)
	return b.String()
}

// DigestLine formats one analysis for the report digest.
func DigestLine(a model.Analysis) string {
	verdict := string(a.Verdict.Recommendation)
	if a.IsFallback {
		verdict += " (heuristic)"
	}
	return fmt.Sprintf("%s (%s): %q - score %d, %s", a.MemberName, a.Role, a.Understanding, a.Verdict.Score, verdict)
}
