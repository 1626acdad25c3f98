package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/config"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
	"github.com/f4ithlin/ECE464CooperBooker/internal/repository"
	"github.com/f4ithlin/ECE464CooperBooker/internal/utils"
)

// userAccounts and sessionTokens are the slices of the repository
// layer the auth flow needs; *repository.UserRepo and
// *repository.TokenRepo satisfy them.
type userAccounts interface {
	Create(ctx context.Context, userName, password, accessType, email string, cost int) (uint64, error)
	GetByUsername(ctx context.Context, userName string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

type sessionTokens interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler owns registration, login and the refresh-token flow.
// Credentials are verified against bcrypt hashes; plaintext passwords
// never touch the database.
type AuthHandler struct {
	Users  userAccounts
	Tokens sessionTokens
	Cfg    config.Config
}

func NewAuthHandler(users userAccounts, tokens sessionTokens, cfg config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type registerRequest struct {
	UserName   string `json:"user_name"`
	Password   string `json:"password"`
	AccessType string `json:"access_type"`
	Email      string `json:"email"`
}

type loginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type userPayload struct {
	UserName   string `json:"user_name"`
	AccessType string `json:"access_type"`
	Email      string `json:"email"`
}

type tokenPairResponse struct {
	Message      string      `json:"message"`
	User         userPayload `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    int64       `json:"expires_at"`
}

// Register creates a user account. Duplicate usernames or emails map
// to 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.UserName == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_name, password and email are required"})
	}
	if req.AccessType == "" {
		req.AccessType = "student"
	}
	if !model.ValidAccessType(req.AccessType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown access_type"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	id, err := h.Users.Create(c.Request().Context(), req.UserName, req.Password, req.AccessType, req.Email, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created", "uid": id})
}

// Login verifies credentials and issues an access/refresh token pair.
// Wrong username and wrong password produce the same 401 so the
// endpoint does not leak which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	u, err := h.Users.GetByUsername(c.Request().Context(), req.UserName)
	if err != nil {
		if errors.Is(err, booking.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.AccessType, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if err := h.Tokens.StoreRefresh(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, tokenPairResponse{
		Message:      "Login successful",
		User:         userPayload{UserName: u.UserName, AccessType: u.AccessType, Email: u.Email},
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp.Unix(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token: the presented token is revoked and
// a new pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(c.Request().Context(), hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	if err := h.Tokens.RevokeByHash(c.Request().Context(), hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.AccessType, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenPairResponse{
		Message:      "Token refreshed",
		User:         userPayload{UserName: u.UserName, AccessType: u.AccessType, Email: u.Email},
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp.Unix(),
	})
}

// Logout revokes the presented refresh token. Idempotent: revoking an
// already-revoked token still returns 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	if err := h.Tokens.RevokeByHash(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// userIDFromContext reads the subject claim JWTAuth stored. JWT
// numeric claims decode as float64.
func userIDFromContext(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v >= 0 {
			return uint64(v), true
		}
	case uint64:
		return v, true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// LogoutAll revokes every active refresh token of the authenticated
// user, ending all of their sessions at once. Requires JWTAuth.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	uid, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}
	if err := h.Tokens.RevokeAllForUser(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all sessions revoked"})
}
