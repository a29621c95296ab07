package domain

import "time"

// Book is an entry in a user's personal library.
// OwnerID is fixed at creation.
type Book struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID owns the book.
func (b *Book) OwnedBy(userID string) bool {
	return b != nil && userID != "" && b.OwnerID == userID
}

// BookDetail is a book together with its notes in creation order.
type BookDetail struct {
	Book  *Book   `json:"book"`
	Notes []*Note `json:"notes"`
}
