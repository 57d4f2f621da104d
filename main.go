package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/votline/votline_backend/config"
	"github.com/votline/votline_backend/controllers"
	"github.com/votline/votline_backend/middleware"
	"github.com/votline/votline_backend/repositories"
	"github.com/votline/votline_backend/routes"
	"github.com/votline/votline_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, only throttles OTP guessing)
	rdb := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Votline backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	verificationRepo := repositories.NewVerificationRepository(client)
	voteRepo := repositories.NewVoteRepository(client)

	// SMS gateway is best effort; without credentials the codes go to the
	// logs. Assign through the interface only when configured, so the
	// controller sees a true nil.
	var sender controllers.OTPSender
	if smsService := utils.NewSMSService(
		os.Getenv("TWILIO_ACCOUNT_SID"),
		os.Getenv("TWILIO_AUTH_TOKEN"),
		os.Getenv("TWILIO_FROM"),
	); smsService != nil {
		sender = smsService
	} else {
		log.Println("Warning: Twilio credentials not set; OTP codes will be logged")
	}

	// Guessing throttle only exists when Redis is up
	var throttle controllers.VerifyThrottle
	if rdb != nil {
		throttle = &utils.VerifyAttemptLimiter{Redis: rdb}
	}

	// Initialize controllers
	voteController := controllers.NewVoteController(verificationRepo, voteRepo, sender, throttle)

	// Register voting routes
	routes.RegisterVoteRoutes(e, voteController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
