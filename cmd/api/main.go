package main

import (
	"fmt"
	"net/http"
	"os"

	"tallybook/internal/config"
	"tallybook/internal/database"
	"tallybook/internal/handlers"
	"tallybook/internal/logger"
	"tallybook/internal/middleware"
	"tallybook/internal/services"
	"tallybook/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tallybook/internal/docs" // Import swagger docs
)

// @title           Tallybook API
// @version         1.0
// @description     Tallybook is a personal and family bookkeeping service with self-continuing budgets: periods settle automatically and rollovers carry balances forward.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	bookService := services.NewBookService(db)
	categoryService := services.NewCategoryService(db)
	familyService := services.NewFamilyService(db)
	auditService := services.NewAuditService(db)
	spendService := services.NewSpendService()
	ledger := services.NewBudgetLedger(db, spendService)
	continuationService := services.NewContinuationService(db, ledger, spendService)
	transactionService := services.NewTransactionService(db, familyService, continuationService)
	sweepService := services.NewSweepService(ledger, continuationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	bookHandler := handlers.NewBookHandler(bookService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(continuationService, familyService, auditService)
	sweepHandler := handlers.NewSweepHandler(sweepService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Internal sweep endpoint, token guarded
	v1.POST("/internal/sweep", middleware.SweepAuthMiddleware(appConfig.SweepToken), sweepHandler.Run)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Family routes
	families := protected.Group("/families")
	families.POST("", familyHandler.CreateFamily)
	families.POST("/:id/members", familyHandler.AddMember)
	families.GET("/:id/members", familyHandler.ListMembers)

	// Book routes
	books := protected.Group("/books")
	books.POST("", bookHandler.CreateBook)
	books.GET("", bookHandler.ListBooks)
	books.GET("/:id", bookHandler.GetBook)
	books.PATCH("/:id", bookHandler.UpdateBook)
	books.DELETE("/:id", bookHandler.DeleteBook)

	// Category routes
	books.POST("/:id/categories", categoryHandler.CreateCategory)
	books.GET("/:id/categories", categoryHandler.ListCategories)
	books.DELETE("/:id/categories/:categoryID", categoryHandler.DeleteCategory)

	// Transaction routes
	books.POST("/:id/transactions", transactionHandler.CreateTransaction)
	books.GET("/:id/transactions", transactionHandler.ListTransactions)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	books.POST("/:id/budgets", budgetHandler.CreateBudget)
	books.POST("/:id/budgets/current", budgetHandler.EnsureCurrent)
	books.GET("/:id/budgets/periods", budgetHandler.ListPeriods)
	books.GET("/:id/budgets/history", budgetHandler.GetHistory)
	protected.POST("/budgets/history/:id/corrections", budgetHandler.CorrectHistory)

	log.Infof("Starting Tallybook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
