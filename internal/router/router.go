// Package router assembles the gin engine: middleware, services, handlers and routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "cashbook/internal/docs" // register swagger docs
	"cashbook/internal/handlers"
	"cashbook/internal/metrics"
	"cashbook/internal/middleware"
	"cashbook/internal/period"
	"cashbook/internal/services"
	"cashbook/internal/validator"
)

// Options configures the engine built by New.
type Options struct {
	DB       *gorm.DB
	Defaults services.Defaults

	// Today returns the calendar date used for default windows.
	// Nil means the current date in Location.
	Today    handlers.Clock
	Location *time.Location

	// Collector receives request and engine metrics. Nil disables them.
	Collector metrics.Collector
	// Gatherer backs GET /metrics. Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
}

// New builds the full application engine.
func New(opts Options) *gin.Engine {
	collector := opts.Collector
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	today := opts.Today
	if today == nil {
		loc := opts.Location
		today = func() time.Time { return period.Today(loc) }
	}

	validator.Register()

	// Services
	db := opts.DB
	bookService := services.NewBookService(db, opts.Defaults)
	categoryService := services.NewCategoryService(db, bookService, opts.Defaults)
	bankAccountService := services.NewBankAccountService(db)
	bankAccountBalanceService := services.NewBankAccountBalanceService(db, bankAccountService)
	transactionService := services.NewTransactionService(db, bookService)
	summaryService := services.NewSummaryService(db, collector)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db, collector)

	// Handlers
	bookHandler := handlers.NewBookHandler(bookService, summaryService, auditService, today)
	categoryHandler := handlers.NewCategoryHandler(categoryService, summaryService, auditService, today)
	bankAccountHandler := handlers.NewBankAccountHandler(bankAccountService, auditService)
	bankAccountBalanceHandler := handlers.NewBankAccountBalanceHandler(bankAccountBalanceService, auditService, today)
	transactionHandler := handlers.NewTransactionHandler(transactionService, bookService, summaryService, auditService, today)
	reportHandler := handlers.NewReportHandler(reportService, bookService, today)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Metrics(collector))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.UserIDHeader+", "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 group; every route acts on behalf of the caller in X-User-ID
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	books := v1.Group("/books")
	books.POST("", bookHandler.CreateBook)
	books.GET("", bookHandler.GetUserBooks)
	books.GET("/:id", bookHandler.GetBookByID)
	books.PUT("/:id", bookHandler.UpdateBook)
	books.DELETE("/:id", bookHandler.DeactivateBook)
	books.GET("/:id/balance", bookHandler.GetBalance)
	books.GET("/:id/summary", bookHandler.GetSummary)
	books.GET("/:id/transactions", transactionHandler.ListTransactions)
	books.GET("/:id/transactions/search", transactionHandler.SearchTransactions)
	books.POST("/:id/transactions", transactionHandler.CreateTransaction)
	books.GET("/:id/categories", categoryHandler.GetBookCategories)
	books.POST("/:id/categories", categoryHandler.CreateCategory)
	books.GET("/:id/reports/months", reportHandler.GetMonthlyReport)
	books.GET("/:id/reports/weeks", reportHandler.GetWeeklyReport)
	books.GET("/:id/reports/categories", reportHandler.GetCategoryReport)

	transactions := v1.Group("/transactions")
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := v1.Group("/categories")
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.GET("/:id/transactions", categoryHandler.GetCategoryTransactions)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	bankAccounts := v1.Group("/bank_accounts")
	bankAccounts.POST("", bankAccountHandler.CreateBankAccount)
	bankAccounts.GET("", bankAccountHandler.GetUserBankAccounts)
	bankAccounts.GET("/:id", bankAccountHandler.GetBankAccountByID)
	bankAccounts.PUT("/:id", bankAccountHandler.UpdateBankAccount)
	bankAccounts.DELETE("/:id", bankAccountHandler.DeleteBankAccount)
	bankAccounts.GET("/:id/balances", bankAccountBalanceHandler.GetBalances)
	bankAccounts.POST("/:id/balances", bankAccountBalanceHandler.CreateBalance)
	bankAccounts.GET("/:id/balances/:balance_id", bankAccountBalanceHandler.GetBalanceByID)
	bankAccounts.PUT("/:id/balances/:balance_id", bankAccountBalanceHandler.UpdateBalance)
	bankAccounts.DELETE("/:id/balances/:balance_id", bankAccountBalanceHandler.DeleteBalance)

	return router
}
