package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/slant/internal/model"
)

// MaxPromptEvidence is the number of evidence items included in a prompt
const MaxPromptEvidence = 3

// SystemPrompt is sent as the system instruction on every call
const SystemPrompt = "You are a neutral news summarizer."

const instructions = "You are a neutral news summarizer. Write 3–4 concise factual sentences. " +
	"Do not use persuasive or biased words."

// BuildPrompt returns the summarization prompt for text. With evidence the
// model is told to rely only on the first MaxPromptEvidence items; without
// it, to summarize the text directly.
func BuildPrompt(text string, evidence []model.Evidence) (string, model.PromptVariant) {
	var b strings.Builder
	b.WriteString(instructions)

	if len(evidence) == 0 {
		b.WriteString(" No external sources were found, so summarize only the highlighted text " +
			"and do not add facts that are not in it.\n\n")
		fmt.Fprintf(&b, "Highlighted text: %s", text)
		return b.String(), model.VariantDirect
	}

	b.WriteString(" Only rely on the following sources.\n\n")
	fmt.Fprintf(&b, "Highlighted text: %s\n\nSources:", text)
	for i, ev := range evidence {
		if i >= MaxPromptEvidence {
			break
		}
		fmt.Fprintf(&b, "\n- %s (%s)", ev.Title, ev.URL)
	}
	return b.String(), model.VariantGrounded
}
