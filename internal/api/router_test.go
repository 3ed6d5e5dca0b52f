package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbacblog/blog-api/internal/api/handler"
	"github.com/rbacblog/blog-api/internal/api/middleware"
	"github.com/rbacblog/blog-api/internal/core/domain"
	"github.com/rbacblog/blog-api/internal/core/service"
)

// In-memory fakes so the full HTTP stack can be exercised without MongoDB
// or Redis.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // keyed by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	cp := *user
	cp.ID = fmt.Sprintf("u%d", r.seq)
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	seq   int
	posts map[string]*domain.Post
	users *memUserRepo
}

func newMemPostRepo(users *memUserRepo) *memPostRepo {
	return &memPostRepo{posts: make(map[string]*domain.Post), users: users}
}

func (r *memPostRepo) withAuthor(p *domain.Post) *domain.Post {
	out := *p
	if u, err := r.users.FindByID(context.Background(), p.AuthorID); err == nil {
		out.Author = &domain.Author{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return &out
}

func (r *memPostRepo) Insert(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *post
	cp.ID = fmt.Sprintf("p%d", r.seq)
	r.posts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.withAuthor(p), nil
}

func (r *memPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, r.withAuthor(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPostRepo) Update(_ context.Context, id, title, content string, updatedAt time.Time) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = updatedAt
	return r.withAuthor(p), nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevocations() *memRevocations {
	return &memRevocations{revoked: make(map[string]bool)}
}

func (m *memRevocations) Revoke(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = true
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[token], nil
}

type testServer struct {
	e     *echo.Echo
	users *memUserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newMemUserRepo()
	posts := newMemPostRepo(users)
	revocations := newMemRevocations()
	log := zerolog.Nop()

	tokens := service.NewTokenService("router-test-secret", time.Hour)
	authSvc := service.NewAuthService(users, tokens, revocations, nil, log)
	postSvc := service.NewPostService(posts, nil, log)

	e := NewRouter(Dependencies{
		Logger:        log,
		Auth:          handler.NewAuthHandler(authSvc),
		Posts:         handler.NewPostHandler(postSvc),
		Health:        handler.NewHealthHandler(),
		Readiness:     handler.NewReadinessHandler(nil, nil),
		Authenticator: middleware.NewAuthenticator(tokens, users, revocations, log),
		Metrics:       prometheus.NewRegistry(),
	})

	return &testServer{e: e, users: users}
}

func (ts *testServer) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// seedAdmin inserts an admin account directly into the store and returns a
// valid token for it, since registration only ever produces "user" accounts.
func (ts *testServer) seedAdmin(t *testing.T) (id, token string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin, err := ts.users.Create(context.Background(), &domain.User{
		Name:         "Site Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	rec := ts.do(t, http.MethodPost, "/api/auth/login", "",
		`{"email":"admin@example.com","password":"admin-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	return admin.ID, resp.Token
}

func (ts *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/register", "",
		fmt.Sprintf(`{"name":"Reader","email":"%s","password":"reader-pass"}`, email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	return resp.Token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRegisterThenMe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/api/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	user := body["user"].(map[string]any)
	if user["email"] != "alice@example.com" || user["role"] != "user" {
		t.Errorf("unexpected identity: %v", user)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice Again","email":"alice@example.com","password":"another1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice@example.com")

	for _, payload := range []string{
		`{"email":"alice@example.com","password":"wrong-pass"}`,
		`{"email":"nobody@example.com","password":"reader-pass"}`,
	} {
		rec := ts.do(t, http.MethodPost, "/api/auth/login", "", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("payload %s: status = %d, want 401", payload, rec.Code)
		}
		if body := decodeEnvelope(t, rec); body["message"] != "Invalid credentials" {
			t.Errorf("payload %s: message = %v", payload, body["message"])
		}
	}
}

func TestCreatePostRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", "",
		`{"title":"Hello","content":"World"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestCreatePostForbiddenForUserRole(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "reader@example.com")

	rec := ts.do(t, http.MethodPost, "/api/posts", token,
		`{"title":"Hello","content":"World"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "user") {
		t.Errorf("message %q should name the rejected role", msg)
	}
}

func TestCreatePostAsAdmin(t *testing.T) {
	ts := newTestServer(t)
	adminID, token := ts.seedAdmin(t)

	// The author field in the body must be ignored.
	rec := ts.do(t, http.MethodPost, "/api/posts", token,
		`{"title":"Hello","content":"World","author":"spoofed-id"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	post := body["post"].(map[string]any)
	author := post["author"].(map[string]any)
	if author["id"] != adminID {
		t.Errorf("author id = %v, want %s", author["id"], adminID)
	}
}

func TestGetMissingPost(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/posts/does-not-exist", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false || body["message"] != "Post not found" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestListPostsIsPublic(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedAdmin(t)

	ts.do(t, http.MethodPost, "/api/posts", token, `{"title":"One","content":"A"}`)
	ts.do(t, http.MethodPost, "/api/posts", token, `{"title":"Two","content":"B"}`)

	rec := ts.do(t, http.MethodGet, "/api/posts", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestUpdatePostAsAdmin(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedAdmin(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", token, `{"title":"Old","content":"Body"}`)
	created := decodeEnvelope(t, rec)
	id := created["post"].(map[string]any)["id"].(string)

	rec = ts.do(t, http.MethodPatch, "/api/posts/"+id, token,
		`{"title":"New","content":"Body"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["post"].(map[string]any)["title"] != "New" {
		t.Errorf("title not updated: %v", body)
	}
}

func TestDeletePostTwice(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedAdmin(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", token, `{"title":"Gone","content":"Soon"}`)
	created := decodeEnvelope(t, rec)
	id := created["post"].(map[string]any)["id"].(string)

	rec = ts.do(t, http.MethodDelete, "/api/posts/"+id, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Post deleted successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}

	rec = ts.do(t, http.MethodDelete, "/api/posts/"+id, token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "alice@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/logout", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/auth/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
