package model

import "strings"

const (
	// DefaultEvidenceTitle replaces a missing provider title
	DefaultEvidenceTitle = "Untitled"

	// DefaultEvidenceURL replaces a missing provider URL
	DefaultEvidenceURL = "#"

	// PlaceholderEvidenceTitle is the title of the single placeholder source
	// returned when no provider produced evidence
	PlaceholderEvidenceTitle = "No external sources found"
)

// Evidence is a title/url pair for an external article judged relevant to the
// highlighted text
type Evidence struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewEvidence builds an Evidence record from raw provider fields, applying the
// default title and URL when either is missing
func NewEvidence(title, url string) Evidence {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultEvidenceTitle
	}
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultEvidenceURL
	}
	return Evidence{Title: title, URL: url}
}

// PlaceholderEvidence returns the source shown to callers when the evidence
// list is empty. It is never passed to a summarizer.
func PlaceholderEvidence() Evidence {
	return Evidence{Title: PlaceholderEvidenceTitle, URL: DefaultEvidenceURL}
}

// EvidenceURLs returns the URLs of the given evidence in order
func EvidenceURLs(evidence []Evidence) []string {
	urls := make([]string, 0, len(evidence))
	for _, ev := range evidence {
		urls = append(urls, ev.URL)
	}
	return urls
}
