package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rbacblog/blog-api/internal/core/domain"
	"github.com/rbacblog/blog-api/internal/core/ports"
)

// PostService implements post CRUD on top of the repository. Role checks are
// the middleware's job; the one invariant owned here is that a created post's
// author is the authenticated identity, never request input.
type PostService struct {
	repo  ports.PostRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewPostService(repo ports.PostRepository, audit ports.AuditRecorder, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, audit: audit, log: log}
}

func (s *PostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.ErrPostInvalid
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     title,
		Content:   content,
		AuthorID:  in.Author.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Insert(ctx, post)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert post")
		return nil, err
	}

	// The author was just read from the store by the auth middleware, so the
	// identity is fresh enough to embed without a second lookup.
	created.Author = &domain.Author{
		ID:    in.Author.UserID,
		Name:  in.Author.Name,
		Email: in.Author.Email,
		Role:  in.Author.Role,
	}

	s.record(in.Author, "post.create", created.ID)
	s.log.Info().Str("post_id", created.ID).Str("author_id", in.Author.UserID).Msg("post created")

	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) UpdatePost(ctx context.Context, in ports.UpdatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.ErrPostInvalid
	}

	updated, err := s.repo.Update(ctx, in.ID, title, content, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.record(in.Actor, "post.update", in.ID)
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string, actor domain.Identity) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(actor, "post.delete", id)
	s.log.Info().Str("post_id", id).Str("actor_id", actor.UserID).Msg("post deleted")
	return nil
}

func (s *PostService) record(actor domain.Identity, action, subject string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     action,
		Subject:    subject,
		Timestamp:  time.Now().UTC(),
	})
}
