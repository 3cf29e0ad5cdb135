package domain

import "time"

// ShareTarget is a resolved location the user wants to share.
type ShareTarget struct {
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address,omitempty"`
	Label       string      `json:"label,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// PlaceShared is published after a share text has been produced.
type PlaceShared struct {
	SessionID string      `json:"session_id"`
	Target    ShareTarget `json:"target"`
	Text      string      `json:"text"`
}

// HistoryEntry is one submitted search remembered for suggestions.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SuggestionKind tells list UIs how to decorate a suggestion row.
type SuggestionKind string

const (
	SuggestionRecent   SuggestionKind = "recent"
	SuggestionTrending SuggestionKind = "trending"
	SuggestionPlace    SuggestionKind = "place"
)

// Suggestion is one row of the search-as-you-type list.
type Suggestion struct {
	ID   string         `json:"id"`
	Text string         `json:"text"`
	Kind SuggestionKind `json:"kind"`
}
