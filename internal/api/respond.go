package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"store-admin/internal/service"
	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Unclassified errors are logged and
// hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tenant.ErrNoTenant),
		errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		util.LoggerFromContext(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondResult writes a write-operation result, 201 for creations
func respondResult(c *gin.Context, res *service.Result, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if res.Status == service.StatusCreated {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// respondData writes a read result
func respondData(c *gin.Context, data interface{}, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	return parseID(c, name, c.Param(name))
}

// queryID parses a required positive integer query parameter
func queryID(c *gin.Context, name string) (int64, bool) {
	return parseID(c, name, c.Query(name))
}

func parseID(c *gin.Context, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}
