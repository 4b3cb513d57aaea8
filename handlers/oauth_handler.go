package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	config "github.com/hsinyu-lin/classroom_booking/configs"
	"github.com/hsinyu-lin/classroom_booking/services"
)

const (
	oauthStateCookie = "oauth_state"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler runs the Google authorization-code flow. After the exchange
// it resolves the Google profile to a local account (creating one on demand)
// and hands the frontend a freshly minted token via redirect.
type OAuthHandler struct {
	auth        *services.AuthService
	oauth       *oauth2.Config
	frontendURL string
}

func NewOAuthHandler(auth *services.AuthService) *OAuthHandler {
	backendURL := config.ConfigOr("BACKEND_URL", "http://localhost:3001")
	return &OAuthHandler{
		auth: auth,
		oauth: &oauth2.Config{
			ClientID:     config.Config("GOOGLE_CLIENT_ID"),
			ClientSecret: config.Config("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  backendURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		frontendURL: config.ConfigOr("FRONTEND_URL", "http://localhost:3000"),
	}
}

func (h *OAuthHandler) GoogleLogin(c *fiber.Ctx) error {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		log.Printf("[ERROR] oauth state: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器內部錯誤"})
	}
	state := hex.EncodeToString(stateBytes)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
	})
	return c.Redirect(h.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *OAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return h.redirectLoginError(c, "state_mismatch")
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return h.redirectLoginError(c, "access_denied")
	}

	token, err := h.oauth.Exchange(c.Context(), code)
	if err != nil {
		log.Printf("[ERROR] google code exchange: %v", err)
		return h.redirectLoginError(c, "exchange_failed")
	}

	profile, err := h.fetchProfile(c, token)
	if err != nil {
		log.Printf("[ERROR] google userinfo: %v", err)
		return h.redirectLoginError(c, "profile_failed")
	}

	_, jwtToken, err := h.auth.ResolveFederatedIdentity(c.Context(), profile.Email, profile.Name)
	if err != nil {
		log.Printf("[ERROR] resolve federated identity: %v", err)
		return h.redirectLoginError(c, "account_failed")
	}

	callbackURL := fmt.Sprintf("%s/auth/callback?token=%s", h.frontendURL, url.QueryEscape(jwtToken))
	return c.Redirect(callbackURL, fiber.StatusTemporaryRedirect)
}

type googleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *OAuthHandler) fetchProfile(c *fiber.Ctx, token *oauth2.Token) (*googleProfile, error) {
	resp, err := h.oauth.Client(c.Context(), token).Get(userinfoEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("no email in google profile")
	}
	return &profile, nil
}

func (h *OAuthHandler) redirectLoginError(c *fiber.Ctx, marker string) error {
	return c.Redirect(fmt.Sprintf("%s/login?error=%s", h.frontendURL, marker), fiber.StatusTemporaryRedirect)
}
