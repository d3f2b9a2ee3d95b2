package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vitruchem.com/app/internal/adminsession"
	"vitruchem.com/app/internal/catalog"
	"vitruchem.com/app/internal/checkout"
	"vitruchem.com/app/internal/config"
	apphttp "vitruchem.com/app/internal/http"
	"vitruchem.com/app/internal/orders"
	"vitruchem.com/app/internal/payments"
	"vitruchem.com/app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	images, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("image_storage_ready", slog.String("driver", images.Driver))

	provider := payments.NewStripe(cfg.StripeSecretKey)

	deps := apphttp.Deps{
		Cfg:      cfg,
		Store:    catalog.NewStore(cfg.CatalogPath, cfg.BackupDir, logger),
		Checkout: checkout.NewService(provider, cfg.Currency),
		Orders:   orders.NewService(provider),
		Sessions: adminsession.New(
			[]byte(cfg.SessionSecret),
			cfg.AdminToken,
			cfg.AdminTokenHash,
			cfg.SessionTTL,
			cfg.CookieSecure,
		),
		Images: images.Storage,
	}

	gin.SetMode(gin.ReleaseMode)
	r := apphttp.NewRouter(logger, deps)

	logger.Info("listening", slog.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
