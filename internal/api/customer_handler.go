package api

import (
	"store-admin/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listCustomers(c *gin.Context) {
	storeID, ok := queryID(c, "store_id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	customers, err := h.svc.Customers.ListCustomers(c.Request.Context(), schema, storeID)
	respondData(c, customers, err)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	customer, err := h.svc.Customers.GetCustomer(c.Request.Context(), schema, id)
	respondData(c, customer, err)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var in models.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Customers.CreateCustomer(c.Request.Context(), schema, in)
	respondResult(c, res, err)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Customers.UpdateCustomer(c.Request.Context(), schema, id, in)
	respondResult(c, res, err)
}

func (h *Handler) listMails(c *gin.Context) {
	storeID, ok := queryID(c, "store_id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	mails, err := h.svc.Mails.ListMails(c.Request.Context(), schema, storeID)
	respondData(c, mails, err)
}

func (h *Handler) createMail(c *gin.Context) {
	var in models.MailInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Mails.CreateMail(c.Request.Context(), schema, userID, in)
	respondResult(c, res, err)
}

func (h *Handler) updateMail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.MailInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Mails.UpdateMail(c.Request.Context(), schema, userID, id, in)
	respondResult(c, res, err)
}

func (h *Handler) toggleMailDeleted(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Mails.ToggleMailDeleted(c.Request.Context(), schema, userID, id)
	respondResult(c, res, err)
}

func (h *Handler) deleteMail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Mails.DeleteMail(c.Request.Context(), schema, id)
	respondResult(c, res, err)
}
