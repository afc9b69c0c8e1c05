package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/config"
	"beautyconsult-backend/controllers"
	"beautyconsult-backend/intake"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/routes"
	"beautyconsult-backend/services"
	"beautyconsult-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	cfg, err := config.Load(".")
	config.SetupLogger(cfg != nil && cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(cfg.DBURL, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}

	users := repositories.NewGormUserRepository(db)
	notificationRepo := repositories.NewGormNotificationRepository(db)
	history := repositories.NewGormHistoryRepository(db)
	visuals := repositories.NewGormVisualRepository(db)

	if cfg.ArchiveBackend == config.BackendFirestore {
		client, err := repositories.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("firestore unavailable")
		}
		defer client.Close()
		history = repositories.NewFirestoreHistoryRepository(client)
		visuals = repositories.NewFirestoreVisualRepository(client)
	}
	log.Info().Str("backend", cfg.ArchiveBackend).Msg("archive backend selected")

	var objects storage.ObjectStore
	var disk *storage.DiskStore
	if cfg.ObjectStorageEnabled() {
		objects, err = storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("object storage unavailable")
		}
	} else {
		disk = storage.NewDiskStore(filepath.Join(cfg.SnapshotDir, "objects"), cfg.PublicURL+"/files")
		objects = disk
		log.Warn().Str("dir", disk.Dir()).Msg("S3 not configured, storing objects on disk")
	}

	var sender services.MessageSender
	if cfg.TwilioEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	} else {
		log.Warn().Msg("Twilio not configured, admin notifications disabled")
	}
	notifications := services.NewNotificationService(users, notificationRepo, sender, services.SenderNumbers{
		SMS:      cfg.TwilioPhoneNumber,
		WhatsApp: cfg.TwilioWhatsAppNumber,
	})
	archive := services.NewArchiveService(history, notifications, loc)
	visualService := services.NewVisualService(visuals, objects, cfg.ImageMaxWidth, loc)

	backup := services.NewBackupService(history, objects, loc)
	if err := backup.Start(cfg.BackupCron); err != nil {
		log.Fatal().Err(err).Msg("backup scheduler")
	}
	defer backup.Stop()

	forms := intake.NewRegistry(catalog.Default())
	auth := controllers.NewAuthController(users, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin account")
	}

	r := routes.SetupRouter(cfg.AllowedOrigins(), cfg.JWTSecret, routes.Controllers{
		Auth:          auth,
		Catalog:       controllers.NewCatalogController(catalog.Default()),
		Intake:        controllers.NewIntakeController(forms, storage.NewFileSnapshotStore(cfg.SnapshotDir), loc),
		History:       controllers.NewHistoryController(archive, forms, loc, cfg.PDFFontPath),
		Notifications: controllers.NewNotificationController(notifications),
		Visuals:       controllers.NewVisualController(visualService, loc),
	})
	if disk != nil {
		r.Static("/files", disk.Dir())
	}
	printRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	archive.Wait()
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("route")
	}
}
