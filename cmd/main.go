package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tangimds/EMS/config"
	"github.com/tangimds/EMS/db"
	authhandler "github.com/tangimds/EMS/internal/auth/handler"
	authrepo "github.com/tangimds/EMS/internal/auth/repository/postgres"
	authservice "github.com/tangimds/EMS/internal/auth/service"
	experimenthandler "github.com/tangimds/EMS/internal/experiment/handler"
	experimentrepo "github.com/tangimds/EMS/internal/experiment/repository/postgres"
	experimentservice "github.com/tangimds/EMS/internal/experiment/service"
	filehandler "github.com/tangimds/EMS/internal/file/handler"
	fileservice "github.com/tangimds/EMS/internal/file/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer dbPool.Close()

	s3Client, err := fileservice.NewS3Client(ctx, cfg)
	if err != nil {
		log.Fatalf("s3 client: %v", err)
	}

	userRepo := authrepo.NewPostgresRepository(dbPool)
	tokenService := authservice.NewTokenService(cfg.Secret, cfg.TokenExpiryHours)
	userService := authservice.NewUserService(userRepo, tokenService)
	authHandler := authhandler.NewAuthHandler(userService, cfg)

	experimentRepo := experimentrepo.NewPostgresRepository(dbPool)
	experimentService := experimentservice.NewExperimentService(experimentRepo)
	experimentHandler := experimenthandler.NewExperimentHandler(experimentService)

	fileService := fileservice.NewFileService(s3Client, cfg)
	fileHandler := filehandler.NewFileHandler(fileService)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // base64 file uploads arrive in the JSON body
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AppURL,
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Server is running!"})
	})

	authhandler.RegisterRoutes(app, authHandler)
	experimenthandler.RegisterRoutes(app, experimentHandler, authHandler.RequireAuth)
	filehandler.RegisterRoutes(app, fileHandler, authHandler.RequireAuth)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
