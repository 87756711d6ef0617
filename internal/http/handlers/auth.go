package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferrante/taskhub/internal/auth"
	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/domain/user"
	"github.com/ferrante/taskhub/internal/http/middlewares"
	"github.com/ferrante/taskhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	UpdatePassword(ctx context.Context, id, newHash string) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

func publicUser(u user.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"email": u.Email,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	u, err := h.userWriter.Create(cctx, req.Email, hash)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "USER_EXISTS", "User with this email already exists")
			return
		}

		RespondInternal(ctx)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    publicUser(u),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	// unknown email and wrong password must be indistinguishable
	if err != nil {
		respondInvalidCredentials(ctx)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		respondInvalidCredentials(ctx)
		return
	}

	token, err := h.jwt.Generate(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    publicUser(foundUser),
	})
}

func (h *AuthHandler) Profile(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	// PasswordHash never serializes, the User type hides it
	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	var req ChangePasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	err := security.CheckPassword(u.PasswordHash, req.CurrentPassword)

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, "INVALID_CREDENTIALS", "Current password is incorrect")
		return
	}

	hash, err := security.HashPassword(req.NewPassword)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err = h.userWriter.UpdatePassword(cctx, u.ID, hash)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	// tokens issued before this call stay valid until they expire
	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Logout only acknowledges. Tokens are stateless bearer credentials, the
// client discards its copy and the token dies at its expiry.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func respondInvalidCredentials(ctx *gin.Context) {
	RespondError(ctx, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid email or password")
}
