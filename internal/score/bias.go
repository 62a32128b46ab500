package score

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/slant/internal/model"
)

// BiasScanner checks text against a fixed lexicon of bias-indicating words.
// It is read-only after construction and safe for concurrent use.
type BiasScanner struct {
	lexicon []string
}

// NewBiasScanner creates a scanner for the given lexicon. A nil lexicon selects
// model.DefaultLexicon. Terms are lowercased and deduplicated, keeping the
// first occurrence's position.
func NewBiasScanner(lexicon []string) *BiasScanner {
	if lexicon == nil {
		lexicon = model.DefaultLexicon
	}

	lower := cases.Lower(language.Und)
	seen := make(map[string]bool, len(lexicon))
	terms := make([]string, 0, len(lexicon))
	for _, term := range lexicon {
		term = strings.TrimSpace(lower.String(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}

	return &BiasScanner{lexicon: terms}
}

// Scan lowercases text and reports every lexicon term it contains as a
// substring. Matches follow lexicon order, not position in the text.
func (s *BiasScanner) Scan(text string) model.BiasFindings {
	lowered := cases.Lower(language.Und).String(text)

	var found []string
	for _, term := range s.lexicon {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}

	return model.BiasFindings{Terms: found}
}

// Lexicon returns a copy of the normalized lexicon
func (s *BiasScanner) Lexicon() []string {
	return append([]string(nil), s.lexicon...)
}

// ScanBias scans text against lexicon in a single call
func ScanBias(text string, lexicon []string) model.BiasFindings {
	return NewBiasScanner(lexicon).Scan(text)
}
