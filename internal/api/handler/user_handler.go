package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsnotify/notification-system/internal/core/ports"
)

// UserHandler covers the email-verification endpoints hit from email links.
type UserHandler struct {
	authService ports.AuthService
	frontendURL string
}

func NewUserHandler(authService ports.AuthService, frontendURL string) *UserHandler {
	return &UserHandler{authService: authService, frontendURL: frontendURL}
}

// VerifyEmail consumes the action token from the verification link and
// redirects the now-verified user to the login page with a fresh session
// token, so the click logs them straight in.
//
// @Summary      Verify email address
// @Tags         users
// @Param        token  path  string  true  "Action token from the verification email"
// @Success      302
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/users/verify-email/{token} [get]
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	sessionToken, err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/login?token="+sessionToken)
}

// ResendVerification re-sends the verification email for an unverified account.
//
// @Summary      Resend the verification email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resendVerificationRequest  true  "Account email"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/resend-verification [post]
func (h *UserHandler) ResendVerification(c echo.Context) error {
	var req resendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "User verification email was successfully sent. Please check your email.",
	})
}
