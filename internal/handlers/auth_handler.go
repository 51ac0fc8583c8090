package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laily-api/internal/apperr"
	"laily-api/internal/middleware"
	"laily-api/internal/models"
	"laily-api/internal/responses"
	"laily-api/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "login successful", gin.H{
		"token": res.Token,
		"user":  res.User,
	})
}

// POST /api/auth/kakao y /api/auth/naver
func (h *AuthHandler) ProviderLogin(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		responses.Error(c, h.auth.ProviderLogin(provider))
	}
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		responses.Error(c, apperr.Unauthenticated("no token provided"))
		return
	}
	responses.JSON(c, http.StatusOK, "user retrieved successfully", gin.H{"user": user})
}
