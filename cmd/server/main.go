package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/database"
	"marketplace-backend/internal/handler"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize database connection
	db := database.Connect(cfg)

	// 3. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	productRepo := repository.NewProductRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 4. Initialize services
	tokenService := service.NewTokenService(cfg.JWT)
	mailerService := service.NewMailerService(cfg.Mail, cfg.Server.ClientURL, tokenService)
	emailWorker := service.NewEmailWorker(mailerService)
	authService := service.NewAuthService(userRepo, tokenRepo, auditRepo, tokenService, emailWorker)
	userService := service.NewUserService(userRepo, productRepo, tokenRepo, auditRepo)
	productService := service.NewProductService(productRepo)

	// 5. Start email worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailWorker.Start(ctx)

	// 6. Setup Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// 7. Setup Gin router
	r := gin.Default()

	// Apply CORS middleware
	r.Use(middleware.CORS(cfg))

	// 8. Register handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	adminHandler := handler.NewAdminHandler(authService, userService)

	authenticate := middleware.Authenticate(tokenService, userRepo)
	requireAdmin := middleware.RequireAdmin(userRepo)

	// 9. Define routes
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "healthy", gin.H{
			"service": "marketplace-backend",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/refresh-token", authHandler.RefreshToken)
		auth.POST("/email/verify", authHandler.VerifyEmail)
		auth.POST("/email/resend", authHandler.ResendVerificationEmail)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// User routes
	users := r.Group("/users")
	{
		users.GET("", authenticate, requireAdmin, userHandler.GetUsers)
		users.GET("/me", authenticate, userHandler.GetAuthUser)
		users.PUT("/me", authenticate, userHandler.UpdateProfile)
		users.DELETE("/me", authenticate, userHandler.DeleteAccount)
		users.GET("/:id", userHandler.GetUserProfile)
	}

	// Product routes
	products := r.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", authenticate, productHandler.CreateProduct)
		products.PUT("/:id", authenticate, productHandler.UpdateProduct)
		products.DELETE("/:id", authenticate, productHandler.DeleteProduct)
	}

	// Admin routes
	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)
		admin.POST("/ban-user/:id", authenticate, requireAdmin, adminHandler.BanUser)
	}

	// 10. Setup graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel email worker context
	cancel()
	log.Println("Server exited")
}
