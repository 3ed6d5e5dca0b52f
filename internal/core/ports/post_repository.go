package ports

import (
	"context"
	"time"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Read methods
// resolve the author denormalized join; List returns posts newest-first by
// creation time.
type PostRepository interface {
	Insert(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	// Update replaces title and content, leaving the author untouched.
	// Returns domain.ErrPostNotFound when id does not resolve.
	Update(ctx context.Context, id, title, content string, updatedAt time.Time) (*domain.Post, error)
	// Delete removes the post, returning domain.ErrPostNotFound when it was
	// already gone. This makes a repeated delete observable as a 404.
	Delete(ctx context.Context, id string) error
}
