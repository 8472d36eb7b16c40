package stub

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_client/internal/domain"
)

func (h *handlers) ListUsers(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": h.store.ListUsers()})
}

func (h *handlers) GetUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, found := h.store.GetUser(id)
	if !found {
		Error(c, http.StatusNotFound, fmt.Sprintf("user with ID %d not found", id))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) CreateUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email_address" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.IsValidRole(role) {
		Error(c, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := h.store.CreateAccount(req.Name, req.Email, req.Password, role, 0)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handlers) UpdateUserAdmin(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.store.UpdateUser(id, updates)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) DeleteUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(id); err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
