package model

// HighlightRequest is the inbound request: a snippet of user-highlighted text.
// Text may be empty, arbitrarily long, and contain punctuation or markup.
type HighlightRequest struct {
	Text string `json:"text"`
}
