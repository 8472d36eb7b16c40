package stub

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_client/internal/domain"
)

func (h *handlers) ListOrders(c *gin.Context) {
	user := currentUser(c)
	// Admins see every order, customers only their own.
	c.JSON(http.StatusOK, gin.H{"orders": h.store.ListOrders(user.ID, user.IsAdmin())})
}

func (h *handlers) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, found := h.store.GetOrder(id)
	if !found {
		Error(c, http.StatusNotFound, fmt.Sprintf("order with ID %d not found", id))
		return
	}
	user := currentUser(c)
	if !user.IsAdmin() && order.UserID != user.ID {
		Error(c, http.StatusForbidden, "order belongs to another user")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) PlaceOrder(c *gin.Context) {
	order, err := h.store.PlaceOrder(currentUser(c).ID)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	h.log.Infof("Stub: order %d placed by user %d (total %s)", order.ID, order.UserID, order.Total)
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) UpdateOrderStatus(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Status domain.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !domain.IsValidStatus(req.Status) {
		Error(c, http.StatusBadRequest, fmt.Sprintf("invalid target order status: %s", req.Status))
		return
	}

	order, err := h.store.UpdateOrderStatus(id, req.Status)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) Dashboard(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	c.JSON(http.StatusOK, h.store.Dashboard())
}
