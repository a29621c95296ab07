package domain

import "time"

// Note is a free-text annotation attached to exactly one book.
// A note is owned by whoever owns its book.
type Note struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
