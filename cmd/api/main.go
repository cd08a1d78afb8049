package main

import (
	"log"
	"os"

	_ "bookkeeper/api/swagger" // swagger docs
	"bookkeeper/internal/database"
	"bookkeeper/internal/handler"
	"bookkeeper/internal/middleware"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/service"
	"bookkeeper/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Bookkeeper API
// @version         1.0
// @description     Cross-border bookkeeping and payroll tax API for UK/NL contractors.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.SeedJurisdictions(db); err != nil {
		log.Fatalf("Seeding jurisdictions failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	jurisdictionRepo := repository.NewJurisdictionRepository(db)
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	ledgerRepo := repository.NewLedgerEntryRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	reportRepo := repository.NewReportRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	complianceRepo := repository.NewComplianceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	jurisdictionService := service.NewJurisdictionService(jurisdictionRepo)
	taxRuleService := service.NewTaxRuleService(taxRuleRepo, auditRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, auditRepo, txManager, wsHub)
	payrollService := service.NewPayrollService(payrollRepo, jurisdictionRepo, auditRepo, txManager, taxRuleService, wsHub)
	reportService := service.NewReportService(reportRepo, jurisdictionRepo, auditRepo, ledgerService)
	documentService := service.NewDocumentService(documentRepo, auditRepo)
	chatService := service.NewChatService(chatRepo)
	complianceService := service.NewComplianceService(complianceRepo, taxRuleRepo, auditRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	jurisdictionHandler := handler.NewJurisdictionHandler(jurisdictionService)
	taxRuleHandler := handler.NewTaxRuleHandler(taxRuleService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	reportHandler := handler.NewReportHandler(reportService)
	documentHandler := handler.NewDocumentHandler(documentService)
	chatHandler := handler.NewChatHandler(chatService)
	complianceHandler := handler.NewComplianceHandler(complianceService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	jurisdictionHandler.RegisterRoutes(router.Group(""))
	taxRuleHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))
	payrollHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	chatHandler.RegisterRoutes(router.Group(""))
	complianceHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
