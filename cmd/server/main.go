package main

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"wiremill/internal/api"
	"wiremill/internal/config"
	"wiremill/internal/kvstore"
	"wiremill/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedDefaultAdmin(context.Background(), repo, cfg); err != nil {
			logrus.WithError(err).Warn("failed to seed default admin")
		}
	}

	kv, err := kvstore.NewStore(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise key-value store")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, kv)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 启动时清理过期的表单草稿
	httpHandler.Drafts().ClearExpired(context.Background())

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.GET("/status", httpHandler.AuthStatus)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/logout", httpHandler.AuthMiddleware(), httpHandler.Logout)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())

	protected.GET("/customers", httpHandler.ListCustomers)
	protected.POST("/customers", httpHandler.CreateCustomer)
	protected.GET("/customers/:id", httpHandler.GetCustomer)
	protected.PATCH("/customers/:id", httpHandler.UpdateCustomer)
	protected.DELETE("/customers/:id", httpHandler.DeleteCustomer)

	protected.GET("/products", httpHandler.ListProducts)
	protected.POST("/products", httpHandler.CreateProduct)
	protected.GET("/products/:id", httpHandler.GetProduct)
	protected.PATCH("/products/:id", httpHandler.UpdateProduct)
	protected.DELETE("/products/:id", httpHandler.DeleteProduct)

	protected.GET("/stores", httpHandler.ListStores)
	protected.POST("/stores", httpHandler.CreateStore)
	protected.GET("/stores/:id", httpHandler.GetStore)
	protected.PATCH("/stores/:id", httpHandler.UpdateStore)
	protected.DELETE("/stores/:id", httpHandler.DeleteStore)

	protected.GET("/inventories", httpHandler.ListInventories)
	protected.PUT("/inventories", httpHandler.UpsertInventory)
	protected.DELETE("/inventories/:id", httpHandler.DeleteInventory)

	protected.GET("/packaged-inventories", httpHandler.ListPackagedInventories)
	protected.POST("/packaged-inventories", httpHandler.CreatePackagedInventory)
	protected.PATCH("/packaged-inventories/:id", httpHandler.UpdatePackagedInventory)
	protected.DELETE("/packaged-inventories/:id", httpHandler.DeletePackagedInventory)

	protected.GET("/orders", httpHandler.ListOrders)
	protected.POST("/orders", httpHandler.CreateOrder)
	protected.GET("/orders/:id", httpHandler.GetOrder)
	protected.PATCH("/orders/:id", httpHandler.UpdateOrder)
	protected.DELETE("/orders/:id", httpHandler.DeleteOrder)

	protected.GET("/sales", httpHandler.ListSales)
	protected.POST("/sales", httpHandler.CreateSale)
	protected.PATCH("/sales/:id", httpHandler.UpdateSale)
	protected.DELETE("/sales/:id", httpHandler.DeleteSale)

	protected.GET("/packings", httpHandler.ListPackings)
	protected.POST("/packings", httpHandler.CreatePacking)
	protected.PATCH("/packings/:id", httpHandler.UpdatePacking)
	protected.DELETE("/packings/:id", httpHandler.DeletePacking)

	protected.GET("/drafts/:form_id", httpHandler.GetDraft)
	protected.PUT("/drafts/:form_id", httpHandler.SaveDraft)
	protected.DELETE("/drafts/:form_id", httpHandler.ClearDraft)

	userAdmin := protected.Group("/users")
	userAdmin.Use(httpHandler.RequireAdmin())
	userAdmin.GET("", httpHandler.ListUsers)
	userAdmin.POST("", httpHandler.CreateUser)
	userAdmin.PATCH(":id", httpHandler.UpdateUser)
	userAdmin.DELETE(":id", httpHandler.DeleteUser)

	adminGroup := protected.Group("")
	adminGroup.Use(httpHandler.RequireAdmin())
	adminGroup.GET("/activity-logs", httpHandler.ListActivityLogs)
	adminGroup.DELETE("/drafts", httpHandler.ClearAllDrafts)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  900 * time.Second,
		WriteTimeout: 900 * time.Second,
		IdleTimeout:  1200 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
