package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSessions struct {
	resolved []model.User
	dropped  []string
}

func (r *recordingSessions) Resolve(_ context.Context, user model.User) *store.Store {
	r.resolved = append(r.resolved, user)
	return nil
}

func (r *recordingSessions) Drop(_ context.Context, userID string) {
	r.dropped = append(r.dropped, userID)
}

func cookieFor(t *testing.T, user model.User) *http.Cookie {
	t.Helper()
	token, err := GenerateJWT(user)
	require.NoError(t, err)
	return &http.Cookie{Name: CookieName, Value: token}
}

func TestJWTRoundTrip(t *testing.T) {
	user := model.User{ID: "github:42", Email: "ada@effiwise.com", Role: model.RoleViewer}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user, claims.User())

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/private", RequireAuth, Me())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookieFor(t, model.User{ID: "u1", Email: "ops@effiwise.com", Role: model.RoleAdmin}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, UserResponse{ID: "u1", Email: "ops@effiwise.com", Role: "admin"}, body)
}

func TestRequireWriteBlocksViewers(t *testing.T) {
	app := fiber.New()
	app.Post("/write", RequireAuth, RequireWrite, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.AddCookie(cookieFor(t, model.User{ID: "u2", Role: model.RoleViewer}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/write", nil)
	req.AddCookie(cookieFor(t, model.User{ID: "u1", Role: model.RoleAdmin}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestMeWithoutSession(t *testing.T) {
	app := fiber.New()
	app.Get("/me", OptionalAuth, Me())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutDropsSession(t *testing.T) {
	sessions := &recordingSessions{}
	app := fiber.New()
	app.Post("/logout", OptionalAuth, Logout(sessions))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookieFor(t, model.User{ID: "u1", Role: model.RoleAdmin}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"u1"}, sessions.dropped)

	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			assert.Empty(t, c.Value)
		}
	}
}

func TestParseRoleConfig(t *testing.T) {
	cfg, err := ParseRoleConfig([]byte(`
users:
  - email: Ada@EffiWise.com
    role: admin
  - email: viewer@effiwise.com
    role: viewer
`))
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.RoleFor("ada@effiwise.com", "viewer"))
	assert.Equal(t, "viewer", cfg.RoleFor("viewer@effiwise.com", "admin"))
	assert.Equal(t, "admin", cfg.RoleFor("someone@else.com", "admin"))

	var missing *RoleConfig
	assert.Equal(t, "viewer", missing.RoleFor("ada@effiwise.com", "viewer"))

	_, err = ParseRoleConfig([]byte("users:\n  - email: a@b.com\n    role: editor\n"))
	assert.Error(t, err)
	_, err = ParseRoleConfig([]byte("users:\n  - email: a@b.com\n    role: admin\n  - email: A@b.com\n    role: viewer\n"))
	assert.Error(t, err)
}

func TestGitHubLoginRedirects(t *testing.T) {
	app := fiber.New()
	app.Get("/login", GitHubLogin(GitHubConfig{ClientID: "cid", BaseURL: "http://localhost:3000"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", location.Host)
	assert.Equal(t, "cid", location.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:3000/api/v1/auth/github/callback", location.Query().Get("redirect_uri"))

	var state string
	for _, c := range resp.Cookies() {
		if c.Name == stateCookie {
			state = c.Value
		}
	}
	assert.NotEmpty(t, state)
	assert.Equal(t, state, location.Query().Get("state"))
}

func TestGitHubCallbackSignsIn(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/oauth/access_token":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"code":"abc"`)
			_, _ = w.Write([]byte(`{"access_token":"gho_token"}`))
		case "/user":
			assert.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":42,"login":"ada","email":null}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[{"email":"old@effiwise.com","primary":false,"verified":true},{"email":"ada@effiwise.com","primary":true,"verified":true}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer gh.Close()

	roles, err := ParseRoleConfig([]byte("users:\n  - email: ada@effiwise.com\n    role: viewer\n"))
	require.NoError(t, err)

	sessions := &recordingSessions{}
	app := fiber.New()
	app.Get("/callback", GitHubCallback(GitHubConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     gh.URL + "/login/oauth/access_token",
		APIURL:       gh.URL,
		DefaultRole:  model.RoleAdmin,
		Roles:        roles,
	}, sessions, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/app", resp.Header.Get("Location"))

	want := model.User{ID: "github:42", Email: "ada@effiwise.com", Role: model.RoleViewer}
	assert.Equal(t, []model.User{want}, sessions.resolved)

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			token = c.Value
		}
	}
	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, want, claims.User())
}

func TestGitHubCallbackRejectsBadState(t *testing.T) {
	sessions := &recordingSessions{}
	app := fiber.New()
	app.Get("/callback", GitHubCallback(GitHubConfig{ClientID: "cid", ClientSecret: "secret"}, sessions, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "/app?error=invalid_state", resp.Header.Get("Location"))
	assert.Empty(t, sessions.resolved)
}

func TestGitHubCallbackRefusesUnknownRole(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/oauth/access_token":
			_, _ = w.Write([]byte(`{"access_token":"gho_token"}`))
		case "/user":
			_, _ = w.Write([]byte(`{"id":7,"login":"eve","email":"eve@effiwise.com"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer gh.Close()

	sessions := &recordingSessions{}
	app := fiber.New()
	app.Get("/callback", GitHubCallback(GitHubConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     gh.URL + "/login/oauth/access_token",
		APIURL:       gh.URL,
		DefaultRole:  "editor",
	}, sessions, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "/app?error=invalid_role", resp.Header.Get("Location"))
	assert.Empty(t, sessions.resolved)
	for _, c := range resp.Cookies() {
		assert.NotEqual(t, CookieName, c.Name)
	}
}
