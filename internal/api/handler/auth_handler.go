package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/api/metrics"
	"github.com/Ghosted34/natours-nest/internal/api/middleware"
	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Username  string `json:"username" validate:"omitempty,min=3"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

type loginRequest struct {
	// Identifier is an email or username for end-users, an email for staff.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	// Kind selects the account store: "user" (default) or "staff".
	Kind string `json:"kind" validate:"omitempty,oneof=user staff"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new end-user account and returns it with a token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, result)
}

// Login authenticates an account and returns it with a token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	kind := domain.RoleUser
	kindLabel := "user"
	if req.Kind == "staff" {
		// Staff accounts share one credential store; the service resolves
		// the exact role from the stored record.
		kind = domain.RoleAdmin
		kindLabel = "staff"
	}

	result, err := h.authService.SignIn(c.Request().Context(), ports.SignInInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		Kind:       kind,
	})
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("denied", kindLabel).Inc()
		return err
	}

	metrics.SignInsTotal.WithLabelValues("ok", kindLabel).Inc()
	return c.JSON(http.StatusOK, result)
}

// Verify consumes a verification token and marks the account verified.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  ports.AuthResult
// @Failure      403    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	verificationToken := c.QueryParam("token")
	if verificationToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	result, err := h.authService.VerifyEmail(c.Request().Context(), verificationToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ResendVerification regenerates the verification token and re-sends the
// verification email.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/resend-verify [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification email sent"})
}

// Logout revokes the presented access token, plus the refresh token when the
// body carries one.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Param        body  body  logoutRequest  false  "Optional refresh token to revoke alongside"
// @Success      204
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	accessToken := middleware.BearerToken(c)
	if accessToken == "" {
		return echo.NewHTTPError(http.StatusForbidden, "missing access token")
	}

	var req logoutRequest
	// Body is optional; a bind failure just means no refresh token supplied.
	_ = c.Bind(&req)

	if err := h.authService.Logout(c.Request().Context(), accessToken, req.RefreshToken); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.WithLabelValues("token").Inc()
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every token issued to the calling account so far.
//
// @Summary      Logout everywhere
// @Tags         auth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.authService.LogoutAll(c.Request().Context(), principal.ID); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.WithLabelValues("account").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Refresh mints a new access token from a valid, unrevoked refresh token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("denied").Inc()
		return err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, map[string]string{"access_token": accessToken})
}

// ForgotPassword generates a reset token and emails the reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password reset email sent"})
}

// ResetPassword consumes a reset token and sets the new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password has been reset"})
}

// ChangePassword updates the calling account's password and revokes every
// existing session.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/change-password [patch]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.WithLabelValues("account").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed, all sessions revoked"})
}
