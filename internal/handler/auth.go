package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/auth"
	"github.com/iliyamo/access-control/internal/middleware"
	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// Per-request budget for store calls.
const storeTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

type registerReq struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Patronymic     string `json:"patronymic"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type profileReq struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Patronymic string `json:"patronymic"`
}

type userPart struct {
	ID         uint64     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Patronymic string     `json:"patronymic,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}
type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    userPart  `json:"user"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Patronymic: u.Patronymic,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// Register creates a new account. Open endpoint: no authentication.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}
	if req.PasswordRepeat != "" && req.PasswordRepeat != req.Password {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Svc.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName, req.Patronymic)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered successfully",
		"user":    toUserPart(u),
	})
}

// Login verifies credentials and returns a fresh session token.
// Open endpoint: no authentication. The error body is identical for
// unknown email, inactive account and wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	tok, u, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:   tok.Token,
		Expires: tok.ExpiresAt,
		User:    toUserPart(u),
	})
}

// Logout revokes the presented token. It succeeds even when the
// token was never issued or is already revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	p := middleware.Principal(c)

	raw := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	raw = strings.TrimPrefix(raw, "Bearer ")

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Svc.Logout(ctx, raw, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}

// Profile returns the authenticated user's account record.
func (h *AuthHandler) Profile(c echo.Context) error {
	p := middleware.Principal(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Svc.Profile(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// UpdateProfile rewrites the authenticated user's name fields.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p := middleware.Principal(c)

	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Svc.UpdateProfile(ctx, p, req.FirstName, req.LastName, req.Patronymic)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// DeleteAccount soft-deletes the authenticated account and revokes
// all of its sessions.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	p := middleware.Principal(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Svc.DeactivateAccount(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted successfully"})
}
