package api

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/namnguyen191/Natours-API/config"
	"github.com/namnguyen191/Natours-API/infra/queue"
	"github.com/namnguyen191/Natours-API/internal/api/rest/handlers"
	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	stripeclient "github.com/namnguyen191/Natours-API/internal/clients/stripe"
	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper"
	"github.com/namnguyen191/Natours-API/internal/repository"
	"github.com/namnguyen191/Natours-API/internal/services"
	"github.com/namnguyen191/Natours-API/pkg/cloudinary"
)

// maxRequestBody bounds every request body. Image uploads carry a cover plus
// three gallery files at up to 5MB each, so the cap sits above that.
const maxRequestBody = 25 * 1024 * 1024

// API throttling, per client IP.
const (
	apiRateLimit  = 100
	apiRateWindow = time.Hour
)

func StartServer(cfg config.Config) {
	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: maxRequestBody,
	})

	// ---------- Hardening ----------
	app.Use(middleware.SecurityHeaders())
	app.Use("/api", middleware.APIRateLimiter(apiRateLimit, apiRateWindow))

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	if err := migrate(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	uploader := cloudinary.NewUploader(cld)
	checkout := stripeclient.New(cfg.StripeSecretKey)

	authHelper := helper.SetupAuth(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.BcryptCost)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, authHelper, kafkaProducer, cfg.BaseURL)
	tourSvc := services.NewTourService(tourRepo)
	reviewSvc := services.NewReviewService(reviewRepo, tourRepo)
	bookingSvc := services.NewBookingService(bookingRepo, tourRepo, checkout)

	// ---------- Handlers ----------
	authHandler := handlers.NewAuthHandler(userSvc, cfg.JWTCookieExpiresDays)
	userHandler := handlers.NewUserHandler(userSvc, uploader)
	tourHandler := handlers.NewTourHandler(tourSvc, uploader)
	reviewHandler := handlers.NewReviewHandler(reviewSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, cfg.BaseURL)
	viewHandler := handlers.NewViewHandler(tourSvc, bookingSvc)

	// ---------- Middleware ----------
	protect := middleware.Protect(authHelper, userRepo)
	isLoggedIn := middleware.IsLoggedIn(authHelper, userRepo)
	adminOnly := middleware.RestrictTo(domain.RoleAdmin)
	tourManagers := middleware.RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide)
	guides := middleware.RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide, domain.RoleGuide)

	// ---------- Views ----------
	app.Get("/", isLoggedIn, viewHandler.Overview)
	app.Get("/tour/:slug", isLoggedIn, viewHandler.Tour)
	app.Get("/login", isLoggedIn, viewHandler.Login)
	app.Get("/signup", isLoggedIn, viewHandler.Signup)
	app.Get("/me", protect, viewHandler.Account)
	app.Get("/my-tours", protect, viewHandler.MyTours)

	// ---------- Users ----------
	users := app.Group("/api/v1/users")
	users.Post("/signup", authHandler.Signup)
	users.Post("/login", authHandler.Login)
	users.Get("/logout", authHandler.Logout)
	users.Post("/forgotPassword", authHandler.ForgotPassword)
	users.Patch("/resetPassword/:token", authHandler.ResetPassword)

	users.Use(protect)
	users.Patch("/updateMyPassword", authHandler.UpdatePassword)
	users.Get("/me", userHandler.Me)
	users.Patch("/updateMe", userHandler.UpdateMe)
	users.Delete("/deleteMe", userHandler.DeleteMe)

	users.Use(adminOnly)
	users.Get("/", userHandler.GetAllUsers)
	users.Get("/:userID", userHandler.GetUser)
	users.Patch("/:userID", userHandler.UpdateUser)
	users.Delete("/:userID", userHandler.DeleteUser)

	// ---------- Tours ----------
	tours := app.Group("/api/v1/tours")
	tours.Get("/top-5-cheap", tourHandler.AliasTopTours)
	tours.Get("/tour-stats", tourHandler.GetTourStats)
	tours.Get("/monthly-plan/:year", protect, guides, tourHandler.GetMonthlyPlan)
	tours.Get("/tours-within/:distance/center/:latlng/unit/:unit", tourHandler.GetToursWithin)
	tours.Get("/distances/:latlng/unit/:unit", tourHandler.GetDistances)
	tours.Get("/", tourHandler.GetAllTours)
	tours.Post("/", protect, tourManagers, tourHandler.CreateTour)
	tours.Get("/:tourID", tourHandler.GetTour)
	tours.Patch("/:tourID", protect, tourManagers, tourHandler.UpdateTour)
	tours.Patch("/:tourID/images", protect, tourManagers, tourHandler.UploadTourImages)
	tours.Delete("/:tourID", protect, tourManagers, tourHandler.DeleteTour)

	// Nested reviews on a tour.
	tours.Get("/:tourID/reviews", reviewHandler.GetAllReviews)
	tours.Post("/:tourID/reviews", protect, middleware.RestrictTo(domain.RoleUser), reviewHandler.CreateReview)

	// ---------- Reviews ----------
	reviews := app.Group("/api/v1/reviews", protect)
	reviews.Get("/", reviewHandler.GetAllReviews)
	reviews.Post("/", middleware.RestrictTo(domain.RoleUser), reviewHandler.CreateReview)
	reviews.Get("/:reviewID", reviewHandler.GetReview)
	reviews.Patch("/:reviewID", middleware.RestrictTo(domain.RoleUser, domain.RoleAdmin), reviewHandler.UpdateReview)
	reviews.Delete("/:reviewID", middleware.RestrictTo(domain.RoleUser, domain.RoleAdmin), reviewHandler.DeleteReview)

	// ---------- Bookings ----------
	bookings := app.Group("/api/v1/bookings", protect)
	bookings.Get("/checkout-session/:tourID", bookingHandler.GetCheckoutSession)

	bookings.Use(tourManagers)
	bookings.Get("/", bookingHandler.GetAllBookings)
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/:bookingID", bookingHandler.GetBooking)
	bookings.Patch("/:bookingID", bookingHandler.UpdateBooking)
	bookings.Delete("/:bookingID", bookingHandler.DeleteBooking)

	// ---------- Health ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	go func() {
		log.Println("listening on", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := kafkaProducer.Close(); err != nil {
		log.Printf("producer close error: %v", err)
	}
}

// migrate runs AutoMigrate under a postgres advisory lock so concurrent
// replicas serialize. Session-scoped advisory locks must be taken and
// released on the same connection, so the whole sequence is pinned to one
// dedicated connection and the lock is released as soon as migration ends,
// not at shutdown.
func migrate(db *gorm.DB) error {
	const migrateLockID int64 = 20260831

	return db.Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
			return err
		}
		defer func() {
			_ = tx.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
		}()

		return tx.AutoMigrate(
			&domain.User{},
			&domain.Tour{},
			&domain.TourImage{},
			&domain.TourStartDate{},
			&domain.TourLocation{},
			&domain.Review{},
			&domain.Booking{},
		)
	})
}
