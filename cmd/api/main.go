package main

import (
	"log"
	"os"
	"time"

	"github.com/campushub/roombook-backend/internal/database"
	"github.com/campushub/roombook-backend/internal/handlers"
	"github.com/campushub/roombook-backend/internal/middleware"
	"github.com/campushub/roombook-backend/internal/models"
	"github.com/campushub/roombook-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis (optional - events and caching degrade to no-ops)
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.GET("/:username", middleware.RequireRoles(models.RoleAdmin), handlers.GetUserDetails(db))
				users.PATCH("/privilege", middleware.RequireRoles(models.RoleAdmin), handlers.ChangeUserPrivilege(db))
			}

			// Room routes
			rooms := protected.Group("/rooms")
			{
				rooms.GET("", handlers.GetRooms(db))
				rooms.GET("/:number", handlers.GetRoom(db))
				rooms.GET("/:number/conflicts", middleware.RequireRoles(models.RoleModerator, models.RoleAdmin), handlers.GetRoomConflicts(db))
				rooms.POST("", middleware.RequireRoles(models.RoleAdmin), handlers.CreateRoom(db))
				rooms.PUT("", middleware.RequireRoles(models.RoleAdmin), handlers.UpdateRoom(db))
				rooms.DELETE("/:number", middleware.RequireRoles(models.RoleAdmin), handlers.DeleteRoom(db))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, hub))
				bookings.GET("", handlers.GetBookings(db))
				bookings.PATCH("/conflict", middleware.RequireRoles(models.RoleModerator, models.RoleAdmin), handlers.ResolveConflict(db, hub))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PATCH("/:id/status", middleware.RequireRoles(models.RoleModerator, models.RoleAdmin), handlers.ChangeBookingStatus(db, hub))
				bookings.DELETE("/:id", handlers.DeleteBooking(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
