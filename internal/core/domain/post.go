package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrPostInvalid  = errors.New("title and content are required")
)

// Author is the denormalized view of a post's author embedded in read
// responses, resolved from the users collection at query time.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Post is the single content aggregate of the platform. AuthorID is set once
// at creation from the authenticated identity and never changes; Author is
// populated on reads and nil when the referenced user has been removed.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
