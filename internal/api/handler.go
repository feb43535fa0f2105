package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"store-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the services the HTTP layer calls
type Services struct {
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Stores    *service.StoreService
	Customers *service.CustomerService
	Mails     *service.MailService
	Carts     *service.CartService
	Reference *service.ReferenceService
	Bots      *service.BotService
}

// Handler contains HTTP handlers
type Handler struct {
	svc         Services
	db          Pinger
	webhookPath string
}

// NewHandler creates a new HTTP handler. Bot updates are accepted on webhookPath/:token.
func NewHandler(svc Services, db Pinger, webhookPath string) *Handler {
	webhookPath = "/" + strings.Trim(webhookPath, "/")
	return &Handler{
		svc:         svc,
		db:          db,
		webhookPath: webhookPath,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST(h.webhookPath+"/:token", h.botWebhook)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", h.login)

	authed := v1.Group("")
	authed.Use(authMiddleware(h.svc.Auth))
	{
		authed.GET("/categories", h.listCategories)
		authed.POST("/categories", h.createCategory)
		authed.GET("/categories/:id", h.getCategory)
		authed.PUT("/categories/:id", h.updateCategory)
		authed.PATCH("/categories/:id/toggle/:field", h.toggleCategory)
		authed.DELETE("/categories/:id", h.deleteCategory)
		authed.GET("/categories/:id/products", h.listProductsByCategory)

		authed.GET("/products", h.listProducts)
		authed.POST("/products", h.createProduct)
		authed.GET("/products/:id", h.getProduct)
		authed.PUT("/products/:id", h.updateProduct)
		authed.PATCH("/products/:id/toggle/:field", h.toggleProduct)
		authed.DELETE("/products/:id", h.deleteProduct)

		stores := authed.Group("/stores")
		stores.GET("", h.listStores)
		stores.POST("", h.createStore)
		stores.GET("/:id", h.getStore)
		stores.DELETE("/:id", h.deleteStore)
		stores.PATCH("/:id/toggle/deleted_flag", h.toggleStoreDeleted)
		stores.PATCH("/:id/activity", h.toggleStoreActivity)
		stores.PUT("/:id/info", h.updateStoreInfo)
		stores.PATCH("/:id/format/:field", h.setStoreFormat)
		stores.GET("/:id/legal", h.getLegalInfo)
		stores.PUT("/:id/legal", h.updateLegalInfo)
		stores.GET("/:id/service-text", h.getServiceText)
		stores.PUT("/:id/service-text", h.updateServiceText)
		stores.GET("/:id/payment", h.getPayment)
		stores.PUT("/:id/payment", h.updatePayment)
		stores.PATCH("/:id/payment/toggle/:field", h.togglePayment)
		stores.POST("/:id/order-types", h.createOrderTypeAssociation)
		stores.PATCH("/:id/order-types/:typeId/toggle", h.toggleOrderType)
		stores.PATCH("/:id/working-days/:dayId/toggle", h.toggleWorkingDay)
		stores.PUT("/:id/working-days/:dayId", h.updateWorkingDay)
		stores.GET("/:id/delivery", h.getDeliveryInfo)
		stores.POST("/:id/delivery/fix", h.createDeliveryFix)
		stores.PUT("/:id/delivery/fix", h.updateDeliveryFix)
		stores.POST("/:id/delivery/districts", h.createDeliveryDistrict)
		stores.PUT("/:id/delivery/districts/:districtId", h.updateDeliveryDistrict)
		stores.DELETE("/:id/delivery/districts/:districtId", h.deleteDeliveryDistrict)
		stores.POST("/:id/delivery/distance", h.createDeliveryDistance)
		stores.PUT("/:id/delivery/distance", h.updateDeliveryDistance)

		authed.GET("/customers", h.listCustomers)
		authed.POST("/customers", h.createCustomer)
		authed.GET("/customers/:id", h.getCustomer)
		authed.PUT("/customers/:id", h.updateCustomer)

		authed.GET("/mails", h.listMails)
		authed.POST("/mails", h.createMail)
		authed.PUT("/mails/:id", h.updateMail)
		authed.PATCH("/mails/:id/toggle/deleted_flag", h.toggleMailDeleted)
		authed.DELETE("/mails/:id", h.deleteMail)

		authed.GET("/carts", h.getCart)
		authed.DELETE("/carts", h.clearCart)
		authed.POST("/carts/items", h.addCartItem)
		authed.POST("/carts/items/decrement", h.decrementCartItem)
		authed.POST("/carts/items/remove", h.removeCartItem)
		authed.POST("/carts/checkout", h.checkout)

		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
		authed.PATCH("/orders/:id/status", h.updateOrderStatus)

		authed.GET("/reference/order-types", h.listOrderTypes)
		authed.POST("/reference/order-types", h.createOrderType)
		authed.GET("/reference/days-of-week", h.listDaysOfWeek)
		authed.GET("/reference/types-delivery", h.listTypesDelivery)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready only while the database answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// login exchanges email and password for an access token
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
	})
}
