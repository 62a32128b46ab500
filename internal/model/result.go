package model

import (
	"strings"
)

// NoBiasDetected is the bias note emitted when no lexicon term matched
const NoBiasDetected = "No strong bias words detected."

// BiasFindings holds the lexicon terms found in a text, in lexicon order
type BiasFindings struct {
	Terms []string
}

// Empty reports whether no term matched
func (b BiasFindings) Empty() bool {
	return len(b.Terms) == 0
}

// String renders the findings as a comma-separated list, or the
// NoBiasDetected sentinel when empty
func (b BiasFindings) String() string {
	if b.Empty() {
		return NoBiasDetected
	}
	return strings.Join(b.Terms, ", ")
}

// SummaryResult is the outcome of a summarization attempt: either usable text
// or an unavailability reason. Both render as plain text.
type SummaryResult struct {
	Text        string
	Unavailable bool
	Reason      string
	Variant     PromptVariant
	Provider    string
	Model       string
}

// PromptVariant names the instruction set a summary was requested with
type PromptVariant string

const (
	// VariantGrounded instructs the model to rely only on supplied evidence
	VariantGrounded PromptVariant = "grounded"
	// VariantDirect instructs the model to summarize the highlighted text itself
	VariantDirect PromptVariant = "direct"
)

// SummaryOK returns a successful summary result
func SummaryOK(text string) SummaryResult {
	return SummaryResult{Text: strings.TrimSpace(text)}
}

// SummaryUnavailable returns a failed summary result carrying the reason
func SummaryUnavailable(reason string) SummaryResult {
	return SummaryResult{Unavailable: true, Reason: reason}
}

// String renders the summary for the caller. Failures are not distinguished in
// the wire format, only in content.
func (s SummaryResult) String() string {
	if s.Unavailable {
		reason := strings.TrimSpace(s.Reason)
		if reason == "" {
			reason = "unknown error"
		}
		return "Summary unavailable: " + reason
	}
	return s.Text
}

// CheckResult is the full response for one highlight check
type CheckResult struct {
	SelectedText string     `json:"selected_text"`
	Summary      string     `json:"summary"`
	BiasNotes    string     `json:"bias_notes"`
	Sources      []Evidence `json:"sources"`
}
