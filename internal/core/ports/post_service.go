package ports

import (
	"context"

	"github.com/rbacblog/blog-api/internal/core/domain"
)

// CreatePostInput carries the data needed to create a post. Author is the
// authenticated request identity, never client-supplied input, which is
// what prevents authorship spoofing.
type CreatePostInput struct {
	Title   string
	Content string
	Author  domain.Identity
}

// UpdatePostInput replaces a post's title and content. Actor is recorded in
// the audit trail; it has no effect on the post's author.
type UpdatePostInput struct {
	ID      string
	Title   string
	Content string
	Actor   domain.Identity
}

// PostService defines the use-case operations for posts. List and Get are
// public; the mutations assume the caller has already passed the admin gate.
type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, in UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string, actor domain.Identity) error
}
