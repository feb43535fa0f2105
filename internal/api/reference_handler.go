package api

import (
	"store-admin/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listOrderTypes(c *gin.Context) {
	types, err := h.svc.Reference.ListOrderTypes(c.Request.Context())
	respondData(c, types, err)
}

func (h *Handler) createOrderType(c *gin.Context) {
	var in models.OrderType
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Reference.CreateOrderType(c.Request.Context(), in)
	respondResult(c, res, err)
}

func (h *Handler) listDaysOfWeek(c *gin.Context) {
	days, err := h.svc.Reference.ListDaysOfWeek(c.Request.Context())
	respondData(c, days, err)
}

func (h *Handler) listTypesDelivery(c *gin.Context) {
	types, err := h.svc.Reference.ListTypesDelivery(c.Request.Context())
	respondData(c, types, err)
}
