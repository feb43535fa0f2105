package api

import (
	"store-admin/internal/models"

	"github.com/gin-gonic/gin"
)

const deletedFlag = "deleted_flag"

func (h *Handler) listCategories(c *gin.Context) {
	storeID, ok := queryID(c, "store_id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	categories, err := h.svc.Catalog.ListCategories(c.Request.Context(), schema, storeID)
	respondData(c, categories, err)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	category, err := h.svc.Catalog.GetCategory(c.Request.Context(), schema, id)
	respondData(c, category, err)
}

func (h *Handler) createCategory(c *gin.Context) {
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Catalog.CreateCategory(c.Request.Context(), schema, userID, in)
	respondResult(c, res, err)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Catalog.UpdateCategory(c.Request.Context(), schema, userID, id, in)
	respondResult(c, res, err)
}

// toggleCategory flips deleted_flag or one of the category flags
func (h *Handler) toggleCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, userID := principal(c)
	ctx := c.Request.Context()

	if field := c.Param("field"); field != deletedFlag {
		res, err := h.svc.Catalog.ToggleCategoryField(ctx, schema, userID, id, field)
		respondResult(c, res, err)
		return
	}
	res, err := h.svc.Catalog.ToggleCategoryDeleted(ctx, schema, userID, id)
	respondResult(c, res, err)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Catalog.DeleteCategory(c.Request.Context(), schema, id)
	respondResult(c, res, err)
}

func (h *Handler) listProductsByCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	products, err := h.svc.Catalog.ListProductsByCategory(c.Request.Context(), schema, id)
	respondData(c, products, err)
}

func (h *Handler) listProducts(c *gin.Context) {
	storeID, ok := queryID(c, "store_id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	products, err := h.svc.Catalog.ListProducts(c.Request.Context(), schema, storeID)
	respondData(c, products, err)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), schema, id)
	respondData(c, product, err)
}

func (h *Handler) createProduct(c *gin.Context) {
	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Catalog.CreateProduct(c.Request.Context(), schema, userID, in)
	respondResult(c, res, err)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	schema, userID := principal(c)
	res, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), schema, userID, id, in)
	respondResult(c, res, err)
}

// toggleProduct flips deleted_flag or one of the product flags
func (h *Handler) toggleProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, userID := principal(c)
	ctx := c.Request.Context()

	if field := c.Param("field"); field != deletedFlag {
		res, err := h.svc.Catalog.ToggleProductField(ctx, schema, userID, id, field)
		respondResult(c, res, err)
		return
	}
	res, err := h.svc.Catalog.ToggleProductDeleted(ctx, schema, userID, id)
	respondResult(c, res, err)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schema, _ := principal(c)
	res, err := h.svc.Catalog.DeleteProduct(c.Request.Context(), schema, id)
	respondResult(c, res, err)
}
