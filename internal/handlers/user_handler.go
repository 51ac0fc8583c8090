package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laily-api/internal/models"
	"laily-api/internal/responses"
	"laily-api/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	user, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, "user created successfully", gin.H{"user": user})
}

// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "users retrieved successfully", gin.H{
		"count": len(users),
		"users": users,
	})
}

// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "user retrieved successfully", gin.H{"user": user})
}

// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "user updated successfully", gin.H{"user": user})
}

// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	deleted, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "user deleted successfully", gin.H{"user": deleted})
}
