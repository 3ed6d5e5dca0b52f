package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbacblog/blog-api/internal/api/metrics"
	"github.com/rbacblog/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations. List and Get are
// public; Create, Update and Delete sit behind the auth middleware and the
// admin role gate.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// List returns all posts, newest first, with the author resolved.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  listPostsResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(posts))
}

// Get returns a single post by id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postEnvelope
// @Failure      404  {object}  messageResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.posts.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postEnvelope{Success: true, Post: toPostResponse(post)})
}

// Create creates a post authored by the authenticated admin. Any author field
// in the request body is ignored: authorship comes from the identity alone.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  postEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := requireIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  ident,
	})
	if err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, postEnvelope{Success: true, Post: toPostResponse(post)})
}

// Update replaces a post's title and content.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "New title and content"
// @Success      200   {object}  postEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := requireIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), ports.UpdatePostInput{
		ID:      c.Param("id"),
		Title:   req.Title,
		Content: req.Content,
		Actor:   ident,
	})
	if err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, postEnvelope{Success: true, Post: toPostResponse(post)})
}

// Delete removes a post. A second delete of the same id returns 404.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	ident, err := requireIdentity(c)
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), c.Param("id"), ident); err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Post deleted successfully"})
}
