package types

// SuggestionGroup is one labelled block of search results. Empty groups are
// never emitted.
type SuggestionGroup struct {
	Label string        `json:"label"`
	Items []Destination `json:"items"`
}

// SearchResponse is the body of GET /v1/destinations/search.
type SearchResponse struct {
	Query  string            `json:"query"`
	Scope  string            `json:"scope,omitempty"`
	Groups []SuggestionGroup `json:"groups"`
}
