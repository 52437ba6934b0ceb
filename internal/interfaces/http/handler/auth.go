package handler

import (
	identityapp "github.com/filterdesk/backend/internal/application/identity"
	"github.com/filterdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in, registration and the session cookie
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookie      middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login handles POST /api/v1/auth/login. The session token only travels in
// the HttpOnly cookie, never in the body.
//
// @ID           login
// @Summary      Sign in
// @Description  Checks the credentials and sets the HttpOnly session cookie
// @Tags         auth
// @Produce      json
// @Param        request body identityapp.LoginInput true "Credentials"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Token, result.ExpiresAt)
	h.Success(c, result)
}

// Register handles POST /api/v1/auth/register. The account waits for an
// administrator's approval, so no session is issued.
//
// @ID           register
// @Summary      Request an account
// @Description  Creates a representative account that waits for an administrator's approval
// @Tags         auth
// @Produce      json
// @Param        request body identityapp.RegisterInput true "Registration"
// @Success      201 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Logout handles POST /api/v1/auth/logout
//
// @ID           logout
// @Summary      Sign out
// @Description  Revokes the session and clears the cookie
// @Tags         auth
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if principal := middleware.GetPrincipal(c); principal != nil {
		if err := h.authService.Logout(c.Request.Context(), principal.Claims); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.cookie.Clear(c)
	h.NoContent(c)
}

// Me handles GET /api/v1/auth/me
//
// @ID           getCurrentUser
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword handles PUT /api/v1/auth/password. Every other session of
// the user is revoked and the caller gets a fresh cookie.
//
// @ID           changePassword
// @Summary      Change password
// @Description  Revokes the other sessions of the user and issues a new cookie
// @Tags         auth
// @Produce      json
// @Param        request body identityapp.ChangePasswordInput true "Current and new password"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input identityapp.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.ChangePassword(c.Request.Context(), actor.UserID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Token, result.ExpiresAt)
	h.Success(c, result)
}
