package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/request"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/oauth"
	"github.com/rs/zerolog/log"
)

const oauthStateCookie = "oauth_state"

// GoogleRedirector builds the Google consent URL
type GoogleRedirector interface {
	AuthURL(state string) string
}

// OAuthRedirects are the frontend pages the Google callback lands on
type OAuthRedirects struct {
	SuccessURL string
	ErrorURL   string
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	google      GoogleRedirector
	redirects   OAuthRedirects
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, google GoogleRedirector, redirects OAuthRedirects) *AuthHandler {
	return &AuthHandler{authService: authService, google: google, redirects: redirects}
}

func tokenBody(output *service.LoginOutput) gin.H {
	return gin.H{
		"user": gin.H{
			"id":          output.User.ID,
			"first_name":  output.User.FirstName,
			"last_name":   output.User.LastName,
			"email":       output.User.Email,
			"roles":       output.User.RoleNames(),
			"permissions": output.User.GetPermissions(),
		},
		"branches":      output.Branches,
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    output.ExpiresIn,
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokenBody(output))
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Description Refresh access token using refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", tokenBody(output))
}

// Logout handles user logout
// @Summary Logout
// @Description Logout user (client should discard tokens)
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// JWT is stateless; clear the remembered branch and let the client drop its tokens
	c.SetCookie(BranchCookieName, "", -1, "/", "", false, true)
	response.OK(c, "Logged out successfully", nil)
}

// GoogleRedirect starts the Google sign-in flow
// @Summary Google sign-in
// @Tags auth
// @Success 307
// @Failure 503 {object} response.APIResponse
// @Router /auth/google [get]
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	if !h.authService.GoogleEnabled() || h.google == nil {
		response.ErrorWithCode(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to generate oauth state")
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback completes the Google sign-in flow and hands tokens to the
// frontend in the URL fragment. Only existing, active accounts may sign in.
// @Summary Google callback
// @Tags auth
// @Success 302
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	if expected == "" || c.Query("state") != expected {
		h.oauthFailure(c, "invalid oauth state")
		return
	}
	if msg := c.Query("error"); msg != "" {
		h.oauthFailure(c, msg)
		return
	}

	output, err := h.authService.GoogleLogin(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.oauthFailure(c, apperror.GetAppError(err).Message)
		return
	}

	if h.redirects.SuccessURL == "" {
		response.OK(c, "Login successful", tokenBody(output))
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", output.AccessToken)
	fragment.Set("refresh_token", output.RefreshToken)
	fragment.Set("expires_in", strconv.FormatInt(output.ExpiresIn, 10))
	c.Redirect(http.StatusFound, h.redirects.SuccessURL+"#"+fragment.Encode())
}

func (h *AuthHandler) oauthFailure(c *gin.Context, reason string) {
	log.Ctx(c.Request.Context()).Warn().Str("reason", reason).Msg("google sign-in failed")
	if h.redirects.ErrorURL == "" {
		response.Unauthorized(c, reason)
		return
	}
	c.Redirect(http.StatusFound, h.redirects.ErrorURL+"?error="+url.QueryEscape(reason))
}

// GetProfile handles fetching current user profile
// @Summary Get Profile
// @Description Get current user's profile and branches
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, branches, err := h.authService.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"user":        user,
		"permissions": user.GetPermissions(),
		"branches":    branches,
	})
}

// ChangePassword handles password change
// @Summary Change Password
// @Description Change current user's password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ChangePasswordRequest true "Password change data"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /profile/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          GetUserID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed successfully", nil)
}
