package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcobranza "github.com/ncastellano/cobranza-api/internal/application/cobranza"
	"github.com/ncastellano/cobranza-api/internal/infrastructure/academia"
	"github.com/ncastellano/cobranza-api/internal/infrastructure/memstore"
	infrapdf "github.com/ncastellano/cobranza-api/internal/infrastructure/pdf"
	httpRouter "github.com/ncastellano/cobranza-api/internal/interfaces/http"
	"github.com/ncastellano/cobranza-api/pkg/config"
	"github.com/ncastellano/cobranza-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("academia", cfg.Academia.BaseURL).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	academiaClient := academia.NewClient(cfg.Academia.BaseURL, cfg.Academia.Timeout(), log)
	sesionStore := memstore.NewSesionStore(cfg.Sesion.TTL(), log)
	reciboGenerator := infrapdf.NewMarotoReciboGenerator(infrapdf.AcademiaInfo{
		Nombre:    cfg.Academia.Nombre,
		Direccion: cfg.Academia.Direccion,
		Telefono:  cfg.Academia.Telefono,
		Email:     cfg.Academia.Email,
	})

	cobranzaUC := appcobranza.NewCobranzaUseCase(academiaClient, sesionStore, reciboGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cobranza API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CobranzaUC: cobranzaUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
