package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopcart/internal/auth"
	"shopcart/internal/config"
	"shopcart/internal/handler"
	"shopcart/internal/model"
	"shopcart/internal/router"
	"shopcart/internal/service"
)

// memoryUserRepo is an in-memory UserRepository with the same duplicate-key
// semantics as the MySQL unique index.
type memoryUserRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[uint]*model.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.seq++
	user.ID = r.seq
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, nil
}

func (r *memoryUserRepo) delete(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func newTestServer(t *testing.T) (*echo.Echo, *memoryUserRepo) {
	t.Helper()

	jwtService, err := auth.NewJWTService("test-secret")
	require.NoError(t, err)

	repo := newMemoryUserRepo()
	authService := service.NewAuthService(repo, jwtService)
	userService := service.NewUserService(repo, nil)

	e := echo.New()
	router.Register(e, &config.Config{JWTSecret: "test-secret"}, jwtService, repo,
		handler.NewAuthHandler(authService), handler.NewUserHandler(userService))
	return e, repo
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"fullname":"Jane Doe","email":"jane@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp.Message)

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, model.RoleUser, user["role"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	// same email again
	rec = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"fullname":"Jane Doe","email":"jane@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name     string
		fullname string
		password string
		wantCode int
	}{
		{name: "fullname too short", fullname: "Jo", password: "secret1", wantCode: http.StatusBadRequest},
		{name: "fullname minimum length", fullname: "Joe", password: "secret1", wantCode: http.StatusCreated},
		{name: "fullname maximum length", fullname: strings.Repeat("a", 30), password: "secret1", wantCode: http.StatusCreated},
		{name: "fullname too long", fullname: strings.Repeat("a", 31), password: "secret1", wantCode: http.StatusBadRequest},
		{name: "password too short", fullname: "Jane Doe", password: "pass5", wantCode: http.StatusBadRequest},
		{name: "password minimum length", fullname: "Jane Doe", password: "pass66", wantCode: http.StatusCreated},
		{name: "invalid email", fullname: "Jane Doe", password: "secret1", wantCode: http.StatusBadRequest},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := "not-an-email"
			if tt.name != "invalid email" {
				email = strings.ToLower(strings.ReplaceAll(tt.name, " ", "")) + string(rune('a'+i)) + "@example.com"
			}
			body, _ := json.Marshal(map[string]string{
				"fullname": tt.fullname,
				"email":    email,
				"password": tt.password,
			})
			rec := doJSON(e, http.MethodPost, "/api/auth/register", string(body), "")
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), "fields")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"fullname":"Jane Doe","email":"jane@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"nobody@example.com","password":"secret1"}`, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"jane@example.com","password":"wrongpass"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"jane@example.com","password":"secret1"}`, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Message string `json:"message"`
			Data    struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "User logged in successfully", resp.Message)
		assert.NotEmpty(t, resp.Data.Token)
	})
}

func TestProtectedRoute(t *testing.T) {
	e, repo := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"fullname":"Jane Doe","email":"jane@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"jane@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID uint `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	token := resp.Data.Token
	require.NotEmpty(t, token)

	t.Run("with valid token", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/protected", "", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Protected route")
	})

	t.Run("me returns current user", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/me", "", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "jane@example.com")
	})

	t.Run("without header", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/protected", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with corrupted token", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/protected", "", token[:len(token)-4]+"xxxx")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user deleted after issuance", func(t *testing.T) {
		repo.delete(resp.Data.User.ID)
		rec := doJSON(e, http.MethodGet, "/api/protected", "", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
