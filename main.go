package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"helsingbuss/libs/mailer"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	maxUploadBytes           = 10 * 1024 * 1024
	devCORSOriginLocalhost   = "http://localhost:5173"
	devCORSOriginLoopback    = "http://127.0.0.1:5173"
	trustedProxyLoopbackIPv4 = "127.0.0.1"
	trustedProxyLoopbackIPv6 = "::1"
)

type Config struct {
	Addr                   string
	Env                    string
	DatabaseURL            string
	DataRoot               string
	PublicBaseURL          string
	AppSigningSecret       string
	TripsBackend           string
	TripsRESTBaseURL       string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	OfferReplyToAddress    string
	ResendAPIKey           string
	MailerFromAddresses    map[string]string
}

type App struct {
	cfg *Config
	db  *sql.DB
	log *slog.Logger

	mailer *mailer.Mailer

	trips          TripGateway
	editorSessions *editorSessionManager
	autosaveDelay  time.Duration
	content        *siteContentStore

	// test hooks for handlers
	adminAuthenticate func(ctx context.Context, email, password string) (*AdminUser, error)

	tripsSearchPublished    func(ctx context.Context, filters TripSearchFilters, limit, offset int) ([]TripDraft, int, error)
	tripsGetPublishedBySlug func(ctx context.Context, slug string) (*TripDraft, error)

	adminListTrips     func(ctx context.Context) ([]TripDraft, error)
	adminGetTrip       func(ctx context.Context, id string) (*TripDraft, error)
	adminListTripSlugs func(ctx context.Context) (map[string]struct{}, error)
	adminCreateTrip    func(ctx context.Context, trip *TripDraft) error
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func main() {
	if err := loadDotEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		panic(err)
	}

	var mailProvider mailer.Provider
	if cfg.ResendAPIKey != "" {
		mailProvider = mailer.NewResendProvider(cfg.ResendAPIKey)
		logger.Info("mailer initialized", "provider", "resend")
	} else {
		mailProvider = mailer.NewLogProvider(logger)
		logger.Info("mailer initialized", "provider", "log")
	}
	mailClient := mailer.New(mailProvider, cfg.MailerFromAddresses[mailProvider.Name()])

	app := &App{
		cfg:            cfg,
		db:             db,
		log:            logger,
		mailer:         mailClient,
		editorSessions: newEditorSessionManager(),
		autosaveDelay:  autosaveQuiescence,
		content:        newSiteContentStore(),
	}

	switch cfg.TripsBackend {
	case "rest":
		app.trips = &restTripGateway{
			BaseURL: cfg.TripsRESTBaseURL,
			Client:  &http.Client{Timeout: 15 * time.Second},
		}
		logger.Info("trip gateway initialized", "backend", "rest", "base_url", cfg.TripsRESTBaseURL)
	default:
		app.trips = &storeTripGateway{app: app}
		logger.Info("trip gateway initialized", "backend", "postgres")
	}

	// Initialize store functions
	app.adminAuthenticate = app.authenticateAdminCredentials
	app.tripsSearchPublished = app.storeSearchPublishedTrips
	app.tripsGetPublishedBySlug = app.storeGetPublishedTripBySlug
	app.adminListTrips = app.storeAdminListTrips
	app.adminGetTrip = app.storeGetTrip
	app.adminListTripSlugs = app.storeListTripSlugs
	app.adminCreateTrip = app.storeCreateTrip

	logger.Info(
		"runtime configuration",
		"env",
		cfg.Env,
		"addr",
		cfg.Addr,
		"trips_backend",
		cfg.TripsBackend,
	)

	if err := app.runMigrations(ctx); err != nil {
		panic(err)
	}

	if err := app.bootstrapAdmin(ctx); err != nil {
		panic(err)
	}

	if err := app.content.Load(ctx, app.db); err != nil {
		app.log.Error("failed to load site content cache", "err", err)
	}

	if err := os.MkdirAll(filepath.Join(cfg.DataRoot, "trips"), 0o755); err != nil {
		panic(err)
	}

	r := gin.New()
	if err := r.SetTrustedProxies([]string{trustedProxyLoopbackIPv4, trustedProxyLoopbackIPv6}); err != nil {
		panic(err)
	}
	r.Use(gin.Recovery())
	r.Use(app.loggingMiddleware())
	r.Use(app.corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/trips", app.publicTripListHandler)
		api.GET("/trips/:slug", app.publicTripDetailHandler)
		api.GET("/trips/media/:filename", app.tripMediaServeHandler)
		api.GET("/content", app.publicContentHandler)

		auth := api.Group("/admin/auth")
		{
			auth.POST("/login", app.adminLoginHandler)
			auth.POST("/logout", app.adminLogoutHandler)
			auth.GET("/session", app.adminSessionHandler)
		}

		admin := api.Group("/admin")
		admin.Use(app.requireAdminSession())
		{
			admin.GET("/trips", app.adminListTripsHandler)
			admin.POST("/trips", app.adminCreateTripHandler)
			admin.GET("/trips/:id", app.adminGetTripHandler)
			admin.PUT("/trips/:id", app.adminSaveTripHandler)
			admin.DELETE("/trips/:id", app.adminDeleteTripHandler)
			admin.POST("/trips/:id/delete", app.adminDeleteTripHandler)
			admin.POST("/trips/media", app.adminTripMediaUploadHandler)

			admin.POST("/trips/:id/editor", app.adminOpenEditorHandler)
			admin.GET("/editor/:sessionID", app.adminEditorStateHandler)
			admin.POST("/editor/:sessionID/patch", app.adminEditorPatchHandler)
			admin.POST("/editor/:sessionID/autosave", app.adminEditorAutosaveHandler)
			admin.POST("/editor/:sessionID/save", app.adminEditorSaveHandler)
			admin.DELETE("/editor/:sessionID", app.adminCloseEditorHandler)

			admin.GET("/offers", app.adminListOffersHandler)
			admin.POST("/offers", app.adminCreateOfferHandler)
			admin.GET("/offers/:id", app.adminGetOfferHandler)
			admin.PUT("/offers/:id", app.adminUpdateOfferHandler)
			admin.GET("/offers/:id/pdf", app.adminOfferPDFHandler)
			admin.POST("/offers/:id/status", app.adminOfferStatusHandler)
			admin.POST("/offers/:id/send", app.adminSendOfferHandler)
			admin.POST("/offers/:id/book", app.adminBookOfferHandler)

			admin.GET("/bookings", app.adminListBookingsHandler)
			admin.POST("/bookings", app.adminCreateBookingHandler)
			admin.GET("/bookings/:id", app.adminGetBookingHandler)
			admin.POST("/bookings/:id/assign", app.adminAssignBookingHandler)
			admin.POST("/bookings/:id/status", app.adminBookingStatusHandler)

			admin.GET("/operators", app.adminListBusOperatorsHandler)
			admin.POST("/operators", app.adminCreateBusOperatorHandler)
			admin.PUT("/operators/:id", app.adminUpdateBusOperatorHandler)
			admin.POST("/operators/:id/toggle", app.adminToggleBusOperatorHandler)

			admin.GET("/vehicles", app.adminListVehiclesHandler)
			admin.POST("/vehicles", app.adminCreateVehicleHandler)
			admin.PUT("/vehicles/:id", app.adminUpdateVehicleHandler)

			admin.POST("/price-calculations", app.adminCalculatePriceHandler)
			admin.GET("/price-calculations", app.adminListPriceCalculationsHandler)

			admin.GET("/content", app.adminListContentHandler)
			admin.POST("/content", app.adminUpsertContentHandler)

			admin.GET("/admins", app.requireRole(adminRoleAdmin), app.adminListAdminsHandler)
			admin.POST("/admins", app.requireRole(adminRoleAdmin), app.adminCreateAdminHandler)
			admin.POST("/admins/:id/toggle", app.requireRole(adminRoleAdmin), app.adminToggleAdminHandler)
		}
	}

	app.log.Info("starting gin API", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		panic(err)
	}
}

func loadConfig() (*Config, error) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		host := valueFromEnvKeys("PGHOST", "POSTGRES_HOST")
		if host == "" {
			host = "127.0.0.1"
		}
		port := valueFromEnvKeys("PGPORT", "POSTGRES_PORT")
		if port == "" {
			port = "5432"
		}
		dbname := valueFromEnvKeys("PGDATABASE", "POSTGRES_DB")
		user := valueFromEnvKeys("PGUSER", "POSTGRES_USER")
		password := valueFromEnvKeys("PGPASSWORD", "POSTGRES_PASSWORD")
		sslmode := valueFromEnvKeys("PGSSLMODE", "POSTGRES_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		if dbname != "" && user != "" {
			databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, dbname, sslmode)
		}
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or PG*/POSTGRES_* variables must be configured")
	}

	secret := strings.TrimSpace(os.Getenv("APP_SIGNING_SECRET"))
	if len(secret) < 16 {
		return nil, fmt.Errorf("APP_SIGNING_SECRET must be at least 16 characters")
	}

	publicBase := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL"))
	if publicBase == "" {
		publicBase = "https://helsingbuss.se"
	}
	publicBase = strings.TrimRight(publicBase, "/")

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	cfg := &Config{
		Addr:                   valueOrDefault("GIN_ADDR", ":8080"),
		Env:                    env,
		DatabaseURL:            databaseURL,
		DataRoot:               valueOrDefault("DATA_ROOT", "/var/lib/helsingbuss"),
		PublicBaseURL:          publicBase,
		AppSigningSecret:       secret,
		TripsBackend:           valueOrDefault("TRIPS_BACKEND", "postgres"),
		TripsRESTBaseURL:       strings.TrimRight(strings.TrimSpace(os.Getenv("TRIPS_REST_BASE_URL")), "/"),
		BootstrapAdminEmail:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
		BootstrapAdminPassword: strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")),
		OfferReplyToAddress:    valueOrDefault("OFFER_REPLY_TO", "info@helsingbuss.se"),
		ResendAPIKey:           strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		MailerFromAddresses: map[string]string{
			"resend": valueOrDefault("MAILER_FROM_ADDRESS_RESEND", "noreply@mail.helsingbuss.se"),
			"log":    valueOrDefault("MAILER_FROM_ADDRESS_LOG", "noreply@helsingbuss.local"),
		},
	}

	if cfg.TripsBackend != "postgres" && cfg.TripsBackend != "rest" {
		return nil, fmt.Errorf("TRIPS_BACKEND must be 'postgres' or 'rest'")
	}
	if cfg.TripsBackend == "rest" && cfg.TripsRESTBaseURL == "" {
		return nil, fmt.Errorf("TRIPS_REST_BASE_URL must be set when TRIPS_BACKEND is 'rest'")
	}

	return cfg, nil
}

func loadDotEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), "\"")
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func valueFromEnvKeys(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}

func (a *App) runMigrations(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return err
	}

	if _, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		var exists bool
		if err := a.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, file).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}

		content, err := migrationFiles.ReadFile(filepath.Join("migrations", file))
		if err != nil {
			return err
		}

		tx, err := a.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, file); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		a.log.Info("applied migration", "file", file)
	}

	return nil
}

func (a *App) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}

func (a *App) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		originAllowed := a.isAllowedCORSOrigin(origin)
		if originAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) isAllowedCORSOrigin(origin string) bool {
	if origin == "" || a.cfg == nil {
		return false
	}
	if a.cfg.PublicBaseURL != "" && origin == a.cfg.PublicBaseURL {
		return true
	}
	if !strings.EqualFold(a.cfg.Env, "development") {
		return false
	}
	return origin == devCORSOriginLocalhost || origin == devCORSOriginLoopback
}

func writeAPIError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Code, "message": apiErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
}
