package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	GoogleSignIn(ctx context.Context, rawIDToken string) (*domain.User, string, error)
}

type resetUsecaser interface {
	Request(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
	Reset(ctx context.Context, email, code, newPassword string) (string, error)
}

type AuthHandler struct {
	auth   authUsecaser
	reset  resetUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, reset resetUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		reset:  reset,
		logger: logger.With("component", "auth_handler"),
	}
}

type userResponse struct {
	ID               string   `json:"id"`
	UserName         string   `json:"userName"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	PurchasedCourses []string `json:"purchasedCourses"`
}

func newUserResponse(u *domain.User) userResponse {
	courses := u.PurchasedCourses
	if courses == nil {
		courses = []string{}
	}
	return userResponse{
		ID:               u.ID,
		UserName:         u.UserName,
		Email:            u.Email,
		Role:             string(u.Role),
		PurchasedCourses: courses,
	}
}

type signUpRequest struct {
	UserName string `json:"userName" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.SignUp(c.Request.Context(), usecase.SignUpInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "sign up", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": newUserResponse(user)})
}

type signInRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "sign in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": newUserResponse(user)})
}

type googleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// POST /auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req googleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "google sign in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": newUserResponse(user)})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reset.Request(c.Request.Context(), req.Email); err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "forgot password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code sent to email"})
}

type verifyResetRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required"`
}

// POST /auth/verify-reset
// The storefront calls this before showing the new-password form.
func (h *AuthHandler) VerifyReset(c *gin.Context) {
	var req verifyResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reset.Verify(c.Request.Context(), req.Email, req.Code); err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "verify reset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code is valid"})
}

type resetPasswordRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Code     string `json:"code"     binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// PATCH /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.reset.Reset(c.Request.Context(), req.Email, req.Code, req.Password)
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "reset password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
