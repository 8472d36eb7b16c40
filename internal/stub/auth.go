package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/domain"
)

type handlers struct {
	store *Store
	log   *logrus.Logger
}

type loginRequest struct {
	Email    string `json:"email_address" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	User struct {
		Name                 string `json:"name"`
		Email                string `json:"email_address" binding:"required"`
		Password             string `json:"password" binding:"required"`
		PasswordConfirmation string `json:"password_confirmation"`
		OrgID                int    `json:"org_id"`
		Role                 string `json:"role"`
	} `json:"user" binding:"required"`
}

func (h *handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.log.Warnf("Stub: login failed for %s: %v", req.Email, err)
		Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	h.log.Infof("Stub: user %s logged in", user.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.User.PasswordConfirmation != "" && req.User.Password != req.User.PasswordConfirmation {
		Error(c, http.StatusBadRequest, "password confirmation does not match")
		return
	}

	role := domain.Role(req.User.Role)
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.IsValidRole(role) {
		Error(c, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := h.store.CreateAccount(req.User.Name, req.User.Email, req.User.Password, role, req.User.OrgID)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}

	token := h.store.IssueToken(user.ID)
	h.log.Infof("Stub: user %s signed up", user.Email)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *handlers) Logout(c *gin.Context) {
	h.store.RevokeToken(c.GetString("rawToken"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *handlers) UpdateMe(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	// Role changes are admin-only; strip them from self-service updates.
	delete(updates, "role")

	user, err := h.store.UpdateUser(currentUser(c).ID, updates)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.store.ChangePassword(currentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
