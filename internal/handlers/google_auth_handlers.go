package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/iyanhz/gostore/internal/auth"
)

const oauthStateCookie = "oauth_state"

// googleUserInfo is the subset of the userinfo response we use.
type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *Handlers) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.Cfg.Google.ClientID,
		ClientSecret: h.Cfg.Google.ClientSecret,
		RedirectURL:  h.Cfg.Google.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleAuth is the handler for GET /api/auth/google. It sends the
// browser to Google's consent screen with a random state cookie.
func (h *Handlers) GoogleAuth(c *gin.Context) {
	state := uuid.New().String()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthConfig().AuthCodeURL(state))
}

// GoogleAuthCallback is the handler for GET /api/auth/google/callback.
// It exchanges the code, fetches the Google profile, upserts the user
// (first login creates an account with no local password), sets the auth
// cookie and redirects to the frontend.
func (h *Handlers) GoogleAuthCallback(c *gin.Context) {
	failureURL := h.Cfg.Server.FrontendURL + "/login?error=true"

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}

	conf := h.googleOAuthConfig()
	token, err := conf.Exchange(c.Request.Context(), code)
	if err != nil {
		h.Log.Warn("google code exchange failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}

	client := conf.Client(c.Request.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		h.Log.Warn("google userinfo request failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}

	user, err := h.Store.UpsertGoogleUser(c.Request.Context(), info.Name, info.Email, info.Picture)
	if err != nil {
		h.Log.Error("google user upsert failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}

	jwtToken, err := auth.GenerateToken([]byte(h.Cfg.JWT.Secret), user.ID, h.Cfg.JWT.TTL)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, failureURL)
		return
	}
	h.setAuthCookie(c, jwtToken)

	c.Redirect(http.StatusTemporaryRedirect, h.Cfg.Server.FrontendURL+"/auth/callback")
}
