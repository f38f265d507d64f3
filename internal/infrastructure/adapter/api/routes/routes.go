package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	userHandler *handler.UserHandler,
	transferHandler *handler.TransferHandler,
) {
	// User routes
	userRoutes := router.Group("/users")
	{
		// POST /users
		userRoutes.POST("", userHandler.CreateUser)

		// GET /users/:userId/balance
		userRoutes.GET("/:userId/balance", userHandler.GetBalance)
	}

	// Transfer routes
	transferRoutes := router.Group("/transfers")
	{
		// POST /transfers
		transferRoutes.POST("", transferHandler.Submit)

		// GET /transfers?userId=&page=&size=
		transferRoutes.GET("", transferHandler.History)

		// GET /transfers/:transferId
		transferRoutes.GET("/:transferId", transferHandler.Get)

		// POST /transfers/:transferId/cancel
		transferRoutes.POST("/:transferId/cancel", transferHandler.Cancel)
	}

	// Operational endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Order matters: the panic recovery must wrap everything else
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
}
