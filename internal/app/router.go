package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"bookhub/internal/assistant"
	"bookhub/internal/auth"
	"bookhub/internal/catalog"
	"bookhub/internal/grpcserver"
	"bookhub/internal/history"
	"bookhub/internal/middleware"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Router builds the HTTP API.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.CORS())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/", a.banner)
	router.GET("/health", a.health)
	router.GET("/ready", a.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalog.NewHandler(a.Books, a.Catalog).RegisterRoutes(router.Group("/books"))

	authHandler := auth.NewHandler(a.Users, a.Tokens)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// chat history holds user messages; staff only
	staff := router.Group("/chat")
	staff.Use(authHandler.Middleware())
	history.NewHandler(a.History).RegisterRoutes(staff)

	var chatMW []gin.HandlerFunc
	if a.Limiter != nil {
		chatMW = append(chatMW, a.Limiter.Middleware())
	}
	ah := assistant.NewHandler(a.Assistant, a.Hub, a.Catalog)
	ah.RegisterRoutes(&router.RouterGroup, chatMW...)

	admin := router.Group("")
	admin.Use(authHandler.Middleware(), auth.RequireAdmin())
	ah.RegisterAdminRoutes(admin)

	return router
}

func (a *App) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bookstore AI Assistant API",
		"version": Version,
	})
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"total_books": a.Catalog.Snapshot().Len(),
		"services": gin.H{
			"book_service":          "active",
			"nlp_pipeline":          "active",
			"recommendation_engine": "active",
		},
	})
}

func (a *App) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not_ready",
			"db_error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ready",
		"db":             "ok",
		"ws_connections": a.Hub.Len(),
	})
}

// GRPCServer returns the gRPC server with the assistant service registered.
func (a *App) GRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	return grpcserver.New(grpcserver.NewServer(a.Assistant, a.Engine), opts...)
}
