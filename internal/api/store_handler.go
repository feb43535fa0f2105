package api

import (
	"store-admin/internal/models"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

func (h *Handler) listStores(c *gin.Context) {
	schema, _ := principal(c)
	stores, err := h.svc.Stores.ListStores(c.Request.Context(), schema)
	respondData(c, stores, err)
}

// createStore provisions a store. A repeated Idempotency-Key returns the first store.
func (h *Handler) createStore(c *gin.Context) {
	var req models.StoreCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Stores.CreateStore(c.Request.Context(), schema, userID, req, c.GetHeader(idempotencyHeader))
	respondResult(c, res, err)
}

func (h *Handler) getStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, userID := principal(c)
	details, err := h.svc.Stores.GetStore(c.Request.Context(), schema, userID, id)
	respondData(c, details, err)
}

func (h *Handler) deleteStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.DeleteStore(c.Request.Context(), schema, id)
	respondResult(c, res, err)
}

func (h *Handler) toggleStoreDeleted(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Stores.ToggleStoreDeleted(c.Request.Context(), schema, userID, id)
	respondResult(c, res, err)
}

func (h *Handler) toggleStoreActivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.ToggleStoreActivity(c.Request.Context(), schema, id)
	respondResult(c, res, err)
}

func (h *Handler) updateStoreInfo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.StoreInfoInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateStoreInfo(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) setStoreFormat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.SetStoreFormat(c.Request.Context(), schema, id, c.Param("field"))
	respondResult(c, res, err)
}

func (h *Handler) getLegalInfo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	legal, err := h.svc.Stores.GetLegalInfo(c.Request.Context(), schema, id)
	respondData(c, legal, err)
}

func (h *Handler) updateLegalInfo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.LegalInfoInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateLegalInfo(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) getServiceText(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	text, err := h.svc.Stores.GetServiceText(c.Request.Context(), schema, id)
	respondData(c, text, err)
}

func (h *Handler) updateServiceText(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.ServiceTextInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateServiceText(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) getPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	payment, err := h.svc.Stores.GetPayment(c.Request.Context(), schema, id)
	respondData(c, payment, err)
}

func (h *Handler) updatePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.StorePaymentInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdatePayment(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) togglePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.TogglePayment(c.Request.Context(), schema, id, c.Param("field"))
	respondResult(c, res, err)
}

func (h *Handler) createOrderTypeAssociation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var a models.StoreOrderType
	if !bindJSON(c, &a) {
		return
	}
	a.StoreID = id
	schema, _ := principal(c)
	res, err := h.svc.Stores.CreateOrderTypeAssociation(c.Request.Context(), schema, a)
	respondResult(c, res, err)
}

func (h *Handler) toggleOrderType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	typeID, ok := pathID(c, "typeId")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.ToggleOrderType(c.Request.Context(), schema, id, typeID)
	respondResult(c, res, err)
}

func (h *Handler) toggleWorkingDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.ToggleWorkingDay(c.Request.Context(), schema, id, dayID)
	respondResult(c, res, err)
}

func (h *Handler) updateWorkingDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	var in models.WorkingDayInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateWorkingDay(c.Request.Context(), schema, id, dayID, in)
	respondResult(c, res, err)
}

// getDeliveryInfo returns the store's delivery pricing, or null when none is selected
func (h *Handler) getDeliveryInfo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	info, err := h.svc.Stores.GetDeliveryInfo(c.Request.Context(), schema, id)
	respondData(c, gin.H{"delivery_info": info}, err)
}

func (h *Handler) createDeliveryFix(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.DeliveryFix
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.CreateDeliveryFix(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) updateDeliveryFix(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.DeliveryFix
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateDeliveryFix(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) createDeliveryDistrict(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.DeliveryDistrictInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.CreateDeliveryDistrict(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) updateDeliveryDistrict(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	districtID, ok := pathID(c, "districtId")
	if !ok {
		return
	}
	var in models.DeliveryDistrictInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateDeliveryDistrict(c.Request.Context(), schema, id, districtID, in)
	respondResult(c, res, err)
}

func (h *Handler) deleteDeliveryDistrict(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	districtID, ok := pathID(c, "districtId")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.DeleteDeliveryDistrict(c.Request.Context(), schema, id, districtID)
	respondResult(c, res, err)
}

func (h *Handler) createDeliveryDistance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.DeliveryDistanceInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.CreateDeliveryDistance(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) updateDeliveryDistance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.DeliveryDistanceInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Stores.UpdateDeliveryDistance(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}
