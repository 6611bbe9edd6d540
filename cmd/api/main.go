package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "joyeria/api/swagger" // swagger docs
	"joyeria/internal/database"
	"joyeria/internal/handler"
	"joyeria/internal/middleware"
	"joyeria/internal/payment"
	"joyeria/internal/repository"
	"joyeria/internal/scheduler"
	"joyeria/internal/service"
	"joyeria/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Jewelry Pricing API
// @version         1.0
// @description     Cost-plus pricing engine for a jewelry retailer: global parameters, per-group cost records, price projection and installment checkout.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("No configs/.env file found or error loading it")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
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
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	log.Info().Msg("Connected to PostgreSQL successfully.")

	// Debounce window for cost record writes
	debounceWindow := scheduler.DefaultWindow
	if raw := os.Getenv("PRICE_SAVE_DEBOUNCE_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			debounceWindow = time.Duration(ms) * time.Millisecond
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txMgr := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	paramsRepo := repository.NewParamsRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	productRepo := repository.NewProductRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	paramsService := service.NewParamsService(paramsRepo, auditRepo, wsHub)
	groupService := service.NewGroupService(groupRepo, auditRepo, debounceWindow, log.Logger)
	pricingService := service.NewPricingService(paramsService, groupRepo)
	catalogService := service.NewCatalogService(productRepo, groupRepo, auditRepo, pricingService, txMgr, wsHub)
	checkoutService := service.NewCheckoutService(paramsService, payment.NewSandbox(log.Logger))
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	paramsHandler := handler.NewParamsHandler(paramsService)
	groupHandler := handler.NewGroupHandler(groupService)
	pricingHandler := handler.NewPricingHandler(pricingService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	paramsHandler.RegisterRoutes(api)
	groupHandler.RegisterRoutes(api)
	pricingHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	checkoutHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	// Unflushed cost record edits must land before the process exits.
	groupService.FlushPending()
}
