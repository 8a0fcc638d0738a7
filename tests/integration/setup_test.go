package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tallybook/internal/handlers"
	"tallybook/internal/logger"
	"tallybook/internal/middleware"
	"tallybook/internal/models"
	"tallybook/internal/services"
	"tallybook/internal/validator"
)

const testSweepToken = "integration-sweep-token"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Family{},
		&models.FamilyMember{},
		&models.Book{},
		&models.Category{},
		&models.Transaction{},
		&models.BudgetPeriod{},
		&models.BudgetHistory{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
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

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	bookHandler := handlers.NewBookHandler(bookService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(continuationService, familyService, auditService)
	sweepHandler := handlers.NewSweepHandler(sweepService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.POST("/internal/sweep", middleware.SweepAuthMiddleware(testSweepToken), sweepHandler.Run)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	families := protected.Group("/families")
	families.POST("", familyHandler.CreateFamily)
	families.POST("/:id/members", familyHandler.AddMember)
	families.GET("/:id/members", familyHandler.ListMembers)

	books := protected.Group("/books")
	books.POST("", bookHandler.CreateBook)
	books.GET("", bookHandler.ListBooks)
	books.GET("/:id", bookHandler.GetBook)
	books.PATCH("/:id", bookHandler.UpdateBook)
	books.DELETE("/:id", bookHandler.DeleteBook)

	books.POST("/:id/categories", categoryHandler.CreateCategory)
	books.GET("/:id/categories", categoryHandler.ListCategories)
	books.DELETE("/:id/categories/:categoryID", categoryHandler.DeleteCategory)

	books.POST("/:id/transactions", transactionHandler.CreateTransaction)
	books.GET("/:id/transactions", transactionHandler.ListTransactions)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	books.POST("/:id/budgets", budgetHandler.CreateBudget)
	books.POST("/:id/budgets/current", budgetHandler.EnsureCurrent)
	books.GET("/:id/budgets/periods", budgetHandler.ListPeriods)
	books.GET("/:id/budgets/history", budgetHandler.GetHistory)
	protected.POST("/budgets/history/:id/corrections", budgetHandler.CorrectHistory)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// sweepRequest triggers the internal sweep endpoint with the given token.
func (app *testApp) sweepRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/internal/sweep", nil)
	req.Header.Set("X-Sweep-Token", token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createBook creates a book through the API and returns its ID.
func (app *testApp) createBook(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/books", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create book failed: %d %s", rec.Code, rec.Body.String())
	}
	book := parseJSON(t, rec)["book"].(map[string]interface{})
	return book["id"].(string)
}

// createCategory creates an expense category through the API and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, bookID, name string) string {
	t.Helper()
	rec := app.request("POST", fmt.Sprintf("/api/v1/books/%s/categories", bookID),
		fmt.Sprintf(`{"name":%q,"type":"expense"}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(string)
}
