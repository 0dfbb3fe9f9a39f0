package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper"
)

type stubUserRepo struct {
	users map[uint]*domain.User
}

func (r *stubUserRepo) FindUserByID(userID uint) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok || !u.Active {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) CreateUser(user *domain.User) (*domain.User, error) { return user, nil }

func (r *stubUserRepo) FindUserByEmail(string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindUserByIDAnyStatus(uint) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindUserByResetTokenHash(string, time.Time) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) SaveUser(*domain.User) error       { return nil }
func (r *stubUserRepo) ListUsers() ([]domain.User, error) { return nil, nil }
func (r *stubUserRepo) DeactivateUser(uint) error         { return nil }
func (r *stubUserRepo) DeleteUser(uint) error             { return nil }

func newTestApp(t *testing.T, repo *stubUserRepo, auth helper.Auth) *fiber.App {
	t.Helper()
	app := fiber.New()

	app.Get("/protected", Protect(auth, repo), func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": user.ID})
	})
	app.Get("/admin", Protect(auth, repo), RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/page", IsLoggedIn(auth, repo), func(c *fiber.Ctx) error {
		if _, ok := CurrentUser(c); ok {
			return c.SendString("logged in")
		}
		return c.SendString("anonymous")
	})
	return app
}

func seedRepo(users ...*domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uint]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func activeUser(id uint, role domain.Role) *domain.User {
	u := &domain.User{Role: role, Active: true}
	u.ID = id
	return u
}

func TestProtectRejectsMissingToken(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(), auth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectAcceptsBearerHeader(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(activeUser(1, domain.RoleUser)), auth)

	token, err := auth.GenerateToken(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectAcceptsCookie(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(activeUser(1, domain.RoleUser)), auth)

	token, err := auth.GenerateToken(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectRejectsDeletedUser(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(), auth)

	token, err := auth.GenerateToken(99)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsStaleToken(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)

	user := activeUser(1, domain.RoleUser)
	app := newTestApp(t, seedRepo(user), auth)

	token, err := auth.GenerateToken(1)
	require.NoError(t, err)

	// Password changed after the token was issued.
	changed := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changed

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRestrictTo(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(
		activeUser(1, domain.RoleUser),
		activeUser(2, domain.RoleAdmin),
	), auth)

	userToken, err := auth.GenerateToken(1)
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(2)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIsLoggedInFailsOpen(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(activeUser(1, domain.RoleUser)), auth)

	// No cookie: anonymous, not an error.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Garbage cookie: still anonymous.
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIsLoggedInIgnoresAuthorizationHeader(t *testing.T) {
	auth := helper.SetupAuth("test-secret", time.Hour, 4)
	app := newTestApp(t, seedRepo(activeUser(1, domain.RoleUser)), auth)

	token, err := auth.GenerateToken(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "anonymous", string(body[:n]))
}
