package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/middleware"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/config"
)

const (
	oauthStateCookie = "oauth_state"
	oauthOrgCookie   = "oauth_org"
	oauthCookieTTL   = 600 // seconds; the Google round trip is short-lived
)

// GoogleOAuthHandler drives the Google sign-in round trip for customer
// self-service accounts.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	auth               *AuthHandler
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuthHandler,
		userService:        services.User,
		auth:               NewAuthHandler(services.User, services.TokenService, cfg),
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services, cfg)
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.GET("/login", h.LoginGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
	}
}

// LoginGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects to Google's consent screen. The org query parameter names the organization (by slug) the customer account joins on first login.
// @Tags oauth
// @Param org query string true "Organization slug"
// @Success 307 "Redirect to Google"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	orgSlug := c.Query("org")
	if orgSlug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "org query parameter is required"})
		return
	}

	state, err := h.googleOAuthService.GenerateStateString(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to start Google sign-in")
		return
	}

	// State and target organization survive the round trip in short-lived cookies.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthCookieTTL, "/auth/google", "", h.cfg.IsProduction, true)
	c.SetCookie(oauthOrgCookie, orgSlug, oauthCookieTTL, "/auth/google", "", h.cfg.IsProduction, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// CallbackGoogle godoc
// @Summary Google sign-in callback
// @Description Verifies the OAuth state and authorization code, provisions a customer account on first login, and returns application tokens.
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	orgSlug, err := c.Cookie(oauthOrgCookie)
	if err != nil || orgSlug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing organization context; restart sign-in"})
		return
	}
	// One-shot cookies.
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.cfg.IsProduction, true)
	c.SetCookie(oauthOrgCookie, "", -1, "/auth/google", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	oauthToken, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	info, err := h.googleOAuthService.VerifyIDToken(ctx, oauthToken)
	if err != nil {
		respondWithError(c, err, "Google ID token validation failed")
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(ctx, *info, orgSlug)
	if err != nil {
		respondWithError(c, err, "Failed to process Google sign-in")
		return
	}
	logger.Info("Google sign-in processed",
		slog.String("user_id", user.UserID),
		slog.String("email", user.Email),
	)

	h.auth.issueTokens(c, user)
}
