// Package auth provides authentication and authorization handlers for EffiMapPro.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/effiwise/effimappro/model"
	"github.com/effiwise/effimappro/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const stateCookie = "oauth_state"

// GitHubConfig holds the OAuth app settings. The URL fields default to
// github.com and are overridden in tests.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	AuthorizeURL string
	TokenURL     string
	APIURL       string
	DefaultRole  string
	Roles        *RoleConfig
}

func (cfg GitHubConfig) withDefaults() GitHubConfig {
	cfg.AuthorizeURL = util.GetStringOrDefault(cfg.AuthorizeURL, "https://github.com/login/oauth/authorize")
	cfg.TokenURL = util.GetStringOrDefault(cfg.TokenURL, "https://github.com/login/oauth/access_token")
	cfg.APIURL = strings.TrimSuffix(util.GetStringOrDefault(cfg.APIURL, "https://api.github.com"), "/")
	cfg.DefaultRole = util.GetStringOrDefault(cfg.DefaultRole, model.RoleAdmin)
	return cfg
}

// GitHubLogin starts the OAuth flow. A random state is kept in a short-lived
// cookie and checked on the callback.
func GitHubLogin(cfg GitHubConfig) fiber.Handler {
	cfg = cfg.withDefaults()
	return func(c *fiber.Ctx) error {
		if cfg.ClientID == "" {
			return c.Status(fiber.StatusInternalServerError).SendString("GITHUB_CLIENT_ID not configured")
		}

		state, err := GenerateSecureToken(24)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to start sign-in")
		}
		c.Cookie(&fiber.Cookie{
			Name:     stateCookie,
			Value:    state,
			HTTPOnly: true,
			SameSite: "Lax",
			MaxAge:   600,
			Path:     "/",
		})

		q := url.Values{}
		q.Set("client_id", cfg.ClientID)
		q.Set("redirect_uri", strings.TrimRight(cfg.BaseURL, "/")+"/api/v1/auth/github/callback")
		q.Set("scope", "read:user user:email")
		q.Set("state", state)
		return c.Redirect(cfg.AuthorizeURL + "?" + q.Encode())
	}
}

// GitHubCallback finishes the OAuth flow: it exchanges the code, reads the
// GitHub identity, resolves the role, issues the session cookie and loads
// the user's application state.
func GitHubCallback(cfg GitHubConfig, sessions Sessions, logger *zap.Logger) fiber.Handler {
	cfg = cfg.withDefaults()
	client := &http.Client{Timeout: 10 * time.Second}

	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Redirect("/app?error=missing_code")
		}

		state := c.Cookies(stateCookie)
		if state == "" || state != c.Query("state") {
			return c.Redirect("/app?error=invalid_state")
		}
		c.ClearCookie(stateCookie)

		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return c.Status(fiber.StatusInternalServerError).SendString("Server misconfiguration")
		}

		ctx := c.UserContext()
		accessToken, err := exchangeCode(ctx, client, cfg, code)
		if err != nil {
			logger.Sugar().Errorf("GitHub token exchange failed: %v", err)
			return c.Redirect("/app?error=github_exchange")
		}

		user, err := fetchGitHubUser(ctx, client, cfg.APIURL, accessToken)
		if err != nil {
			logger.Sugar().Errorf("GitHub user lookup failed: %v", err)
			return c.Redirect("/app?error=github_user")
		}
		user.Role = cfg.Roles.RoleFor(user.Email, cfg.DefaultRole)
		if !model.IsValidRole(user.Role) {
			// a token with this role would fail validation on every request
			logger.Error("Refusing sign-in with unknown role", zap.String("user", user.ID), zap.String("role", user.Role))
			return c.Redirect("/app?error=invalid_role")
		}

		token, err := GenerateJWT(user)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to create session")
		}
		SetAuthCookie(c, token)

		sessions.Resolve(ctx, user)
		logger.Info("User signed in", zap.String("user", user.ID), zap.String("role", user.Role))

		return c.Redirect("/app")
	}
}

func exchangeCode(ctx context.Context, client *http.Client, cfg GitHubConfig, code string) (string, error) {
	reqBody, _ := json.Marshal(map[string]string{
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
		"code":          code,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if errMsg, isError := result["error"]; isError {
		return "", fmt.Errorf("github error: %v", errMsg)
	}

	accessToken, ok := result["access_token"].(string)
	if !ok || accessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return accessToken, nil
}

func fetchGitHubUser(ctx context.Context, client *http.Client, apiURL, token string) (model.User, error) {
	var gh githubUser
	if err := getJSON(ctx, client, apiURL+"/user", token, &gh); err != nil {
		return model.User{}, err
	}
	if gh.ID == 0 {
		return model.User{}, fmt.Errorf("github user has no id")
	}

	email := gh.Email
	if email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, apiURL+"/user/emails", token, &emails); err != nil {
			return model.User{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}

	return model.User{ID: "github:" + strconv.FormatInt(gh.ID, 10), Email: email}, nil
}

func getJSON(ctx context.Context, client *http.Client, target, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", target, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
