package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"waxcrate/config"
	"waxcrate/core/auth"
	"waxcrate/model"
	"waxcrate/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, userID int64, name string) error {
	if user, ok := r.users[userID]; ok {
		user.Name = name
	}
	return nil
}

func (r *fakeUserRepo) UpdateEmail(ctx context.Context, userID int64, email string) error {
	for id, existing := range r.users {
		if existing.Email == email && id != userID {
			return repository.ErrDuplicateUser
		}
	}
	if user, ok := r.users[userID]; ok {
		user.Email = email
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func newTestHandler() (*APIHandler, *fakeUserRepo) {
	auth.InitJWT("test-secret", time.Hour)
	repo := newFakeUserRepo()
	handler := NewAPIHandler(repo, nil, nil, nil, nil, nil, nil, &config.Config{})
	return handler, repo
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Creates Account", func(t *testing.T) {
		handler, repo := newTestHandler()

		body := `{"name": "Alice", "email": "Alice@Example.com", "password": "secret1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.RegisterHandler(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Token string `json:"token"`
			User  struct {
				ID    int64  `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
		if resp.User.Email != "alice@example.com" {
			t.Errorf("email must be normalized, got %s", resp.User.Email)
		}

		stored := repo.users[resp.User.ID]
		if stored == nil {
			t.Fatal("user not stored")
		}
		if stored.PasswordHash == "secret1" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		handler, _ := newTestHandler()

		body := `{"name": "Alice", "email": "alice@example.com", "password": "secret1"}`
		first := httptest.NewRecorder()
		handler.RegisterHandler(first, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

		second := httptest.NewRecorder()
		handler.RegisterHandler(second, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
		if second.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", second.Code)
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		handler, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email": "a@b.c"}`))
		rec := httptest.NewRecorder()
		handler.RegisterHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	registerAlice := func(handler *APIHandler) {
		body := `{"name": "Alice", "email": "alice@example.com", "password": "secret1"}`
		rec := httptest.NewRecorder()
		handler.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	}

	t.Run("Valid Credentials", func(t *testing.T) {
		handler, _ := newTestHandler()
		registerAlice(handler)

		body := `{"email": "alice@example.com", "password": "secret1"}`
		rec := httptest.NewRecorder()
		handler.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		handler, _ := newTestHandler()
		registerAlice(handler)

		body := `{"email": "alice@example.com", "password": "wrong"}`
		rec := httptest.NewRecorder()
		handler.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Unknown Email", func(t *testing.T) {
		handler, _ := newTestHandler()

		body := `{"email": "nobody@example.com", "password": "secret1"}`
		rec := httptest.NewRecorder()
		handler.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	handler, _ := newTestHandler()

	protected := handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected user id in context: %v", err)
		}
		respondJSON(w, http.StatusOK, map[string]int64{"userId": userID})
	})

	t.Run("Missing Header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected(rec, httptest.NewRequest(http.MethodGet, "/api/collection", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/collection", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, err := auth.GenerateToken(7, "bob")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/collection", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp map[string]int64
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["userId"] != 7 {
			t.Errorf("expected userId 7, got %d", resp["userId"])
		}
	})
}
