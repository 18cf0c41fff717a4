// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/user"
	"github.com/your-org/cafe-backend/internal/interfaces/http/middleware"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
	"github.com/your-org/cafe-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// AuthHandler issues tokens to the bot on behalf of Telegram users
type AuthHandler struct {
	userService *user.Service
	jwtManager  *auth.JWTManager
	log         *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userService: user.NewService(db),
		jwtManager:  auth.NewJWTManager(cfg),
		log:         log,
	}
}

// TokenRequest names the user the bot acts for
type TokenRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// RegisterRequest is a Telegram user seen by the bot for the first time
type RegisterRequest struct {
	ID       int64   `json:"id" binding:"required"`
	Username *string `json:"username"`
}

// TokenResponse is returned by the token endpoints
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *user.User `json:"user"`
}

// IssueToken handles POST /auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.userService.GetUser(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp, err := h.tokenFor(u)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Token issued successfully", resp)
}

// Register handles POST /auth/register. Registering a known user returns
// that user with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	status := http.StatusCreated
	message := "User registered successfully"

	u, err := h.userService.GetUser(ctx, req.ID)
	if errors.Is(err, apperror.ErrNotFound) {
		u, err = h.userService.CreateUser(ctx, &user.CreateUserRequest{ID: req.ID, Username: req.Username})
	} else if err == nil {
		status = http.StatusOK
		message = "User already registered"
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp, err := h.tokenFor(u)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, status, message, resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	u, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "User retrieved successfully", u)
}

func (h *AuthHandler) tokenFor(u *user.User) (*TokenResponse, error) {
	token, expiresAt, err := h.jwtManager.GenerateAccessToken(u.ID, u.RoleName())
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}
