package model

// MediaType classifies a lendable item. Loan periods and fine rates depend
// on it.
type MediaType string

// Media types.
const (
	MediaBook MediaType = "book"
	MediaCD   MediaType = "cd"
)

// Item represents a single lendable unit in the catalogue.
//
// The Borrowed flag is kept in sync by the lending engine: it is true exactly
// while one unreturned loan references the item.
type Item struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author,omitempty"`
	ISBN     string    `json:"isbn,omitempty"`
	Media    MediaType `json:"media"`
	Borrowed bool      `json:"borrowed"`
}
