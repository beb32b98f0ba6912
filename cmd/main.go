package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"calendareventservice/pkg/auth"
	"calendareventservice/pkg/calendarsync"
	"calendareventservice/pkg/config"
	"calendareventservice/pkg/database"
	"calendareventservice/pkg/events"
	"calendareventservice/pkg/handlers"
	"calendareventservice/pkg/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	oauthConfig := &oauth2.Config{
		RedirectURL:  cfg.GoogleRedirectURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes: []string{
			calendar.CalendarScope,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	users := repository.NewUserStore(db)
	eventStore := repository.NewEventStore(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authService := auth.NewService(users, oauthConfig, tokens, slogger)
	syncClient := calendarsync.NewClient(users, eventStore, oauthConfig, slogger)
	eventService := events.NewService(eventStore, syncClient, slogger)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(recover.New())

	handlers.Register(app,
		handlers.NewAuthHandler(authService, cfg.ClientRedirectURL),
		handlers.NewEventHandler(eventService),
		tokens,
	)

	log.Fatal(app.Listen(":" + cfg.HTTPPort))
}
