package main

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/config"
	"github.com/codealchemist/recruiter-dashboard/internal/domain/fiber/handler"
	"github.com/codealchemist/recruiter-dashboard/internal/middleware"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
	"github.com/codealchemist/recruiter-dashboard/internal/usecase"
	"github.com/codealchemist/recruiter-dashboard/internal/util"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	sessionConfig := config.LoadSessionConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		// multipart uploads carry up to two 5 MB files plus form fields
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    code,
				Message: message,
			})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(appConfig),
		AllowCredentials: appConfig.BaseURL != "",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	identity, err := service.NewIdentityService(sessionConfig)
	if err != nil {
		log.Fatal(err)
	}

	challengeRepo := repository.NewChallengeRepository(db)
	userRepo := repository.NewUserRepository(db)

	challengeUC := usecase.NewChallengeUsecase(challengeRepo, service.NewChallengeService())
	sessionUC := usecase.NewSessionUsecase(identity, userRepo, sessionConfig.ExpiresIn)
	userUC := usecase.NewUserUsecase(userRepo, service.NewMailService())

	api := app.Group("/api")
	handler.NewSessionHandler(sessionUC, appConfig.IsProduction()).RegisterRoutes(api)

	auth := []fiber.Handler{
		middleware.RequireSession(sessionUC),
		middleware.RequireActiveUser(sessionUC),
	}
	handler.NewChallengeHandler(challengeUC).RegisterRoutes(api, auth...)
	handler.NewUserHandler(userUC).RegisterRoutes(api, auth...)

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

// corsOrigins allows any origin until APP_URL is set. Credentialed requests
// need an explicit origin, so the session cookie only crosses origins then.
func corsOrigins(appConfig *config.AppConfig) string {
	if appConfig.BaseURL == "" {
		return "*"
	}
	return appConfig.BaseURL
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case "sqlite":
		dialector = sqlite.Open(dbConfig.Path)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbConfig.Host,
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Name,
			dbConfig.Port,
			dbConfig.SSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		log.Fatalf("Unsupported DB_DRIVER %q", dbConfig.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	switch {
	case dbConfig.Driver == "sqlite":
		sqlDB.SetMaxOpenConns(1)
	case !appConfig.IsProduction():
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	default:
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.Challenge{}, &model.User{}); err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
