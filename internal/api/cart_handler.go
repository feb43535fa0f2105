package api

import (
	"store-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// cartOwner reads the store_id and tg_user_id query parameters
func cartOwner(c *gin.Context) (storeID, tgUserID int64, ok bool) {
	if storeID, ok = queryID(c, "store_id"); !ok {
		return 0, 0, false
	}
	if tgUserID, ok = queryID(c, "tg_user_id"); !ok {
		return 0, 0, false
	}
	return storeID, tgUserID, true
}

func (h *Handler) getCart(c *gin.Context) {
	storeID, tgUserID, ok := cartOwner(c)
	if !ok {
		return
	}
	schema, _ := principal(c)
	cart, err := h.svc.Carts.GetCart(c.Request.Context(), schema, storeID, tgUserID)
	respondData(c, cart, err)
}

func (h *Handler) clearCart(c *gin.Context) {
	storeID, tgUserID, ok := cartOwner(c)
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.ClearCart(c.Request.Context(), schema, storeID, tgUserID)
	respondResult(c, res, err)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var in models.CartItemInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.AddItem(c.Request.Context(), schema, in)
	respondResult(c, res, err)
}

func (h *Handler) decrementCartItem(c *gin.Context) {
	var in models.CartItemInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.DecrementItem(c.Request.Context(), schema, in)
	respondResult(c, res, err)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	var in models.CartItemInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.RemoveItem(c.Request.Context(), schema, in)
	respondResult(c, res, err)
}

func (h *Handler) checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.Checkout(c.Request.Context(), schema, req)
	respondResult(c, res, err)
}

func (h *Handler) listOrders(c *gin.Context) {
	storeID, ok := queryID(c, "store_id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	orders, err := h.svc.Carts.ListOrders(c.Request.Context(), schema, storeID)
	respondData(c, orders, err)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	order, err := h.svc.Carts.GetOrder(c.Request.Context(), schema, id)
	respondData(c, order, err)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Carts.UpdateOrderStatus(c.Request.Context(), schema, id, req.Status)
	respondResult(c, res, err)
}
