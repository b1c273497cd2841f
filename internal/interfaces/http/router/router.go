package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/infrastructure/logger"
	"github.com/pharmadash/backend/internal/infrastructure/persistence"
	"github.com/pharmadash/backend/internal/interfaces/http/handler"
	"github.com/pharmadash/backend/internal/interfaces/http/middleware"
)

// Dependencies holds everything the router needs to build handlers
type Dependencies struct {
	Logger    *zap.Logger
	Database  *persistence.Database
	Scheduler handler.SyncControl
	Analytics handler.AnalyticsProvider
	Expenses  finance.ExpenseRepository
	Rates     finance.ExchangeRateRepository
}

// New builds the gin engine with all routes and middleware
func New(environment string, deps Dependencies) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
	)

	systemHandler := handler.NewSystemHandler(deps.Database)
	syncHandler := handler.NewSyncHandler(deps.Scheduler, deps.Logger)
	analyticsHandler := handler.NewAnalyticsHandler(deps.Analytics, deps.Logger)
	expenseHandler := handler.NewExpenseHandler(deps.Expenses, deps.Logger)
	ratesHandler := handler.NewRatesHandler(deps.Rates, deps.Logger)

	r.GET("/healthz", systemHandler.Health)

	api := r.Group("/api")
	{
		sync := api.Group("/sync")
		{
			sync.POST("/trigger", syncHandler.Trigger)
			sync.GET("/status", syncHandler.Status)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/products", analyticsHandler.Products)
			analytics.GET("/replenishment", analyticsHandler.Replenishment)
		}

		expenses := api.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		api.GET("/rates/current", ratesHandler.Current)
	}

	return r
}
