package handler

import "github.com/rbacblog/blog-api/internal/core/domain"

func toPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
	if p.Author != nil {
		resp.Author = &authorResponse{
			ID:    p.Author.ID,
			Name:  p.Author.Name,
			Email: p.Author.Email,
			Role:  string(p.Author.Role),
		}
	}
	return resp
}

func toListResponse(posts []*domain.Post) listPostsResponse {
	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toPostResponse(p)
	}
	return listPostsResponse{Success: true, Count: len(items), Posts: items}
}
