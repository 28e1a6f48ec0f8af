package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"go-scripts-app/internal/config"
	"go-scripts-app/internal/data"
	"go-scripts-app/internal/handler"
	"go-scripts-app/internal/logger"
	"go-scripts-app/internal/middleware"
	"go-scripts-app/internal/service"
	"go-scripts-app/internal/view"
	"go-scripts-app/web"
)

// legacyDBPath is where older deployments kept the database file, next to
// the binary. A file found there is moved into the managed location once.
const legacyDBPath = "scripts.db"

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	if cfg.Session.SecretKey == config.DefaultSessionSecret {
		log.Warn("Session secret is the development default; set SCRIPTS_SESSION_SECRET_KEY in production")
	}

	// --- Database Initialization and Migration ---
	moved, err := data.MoveLegacyDatabase(legacyDBPath, cfg.DB.Path)
	if err != nil {
		// One-time compatibility shim; a failure here must not block startup.
		log.Warn(fmt.Sprintf("Could not move legacy database: %v", err))
	} else if moved {
		log.Info(fmt.Sprintf("Moved legacy database %s to %s", legacyDBPath, cfg.DB.Path))
	}

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.Path); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db.DB)
	sessionManager.Lifetime = time.Duration(cfg.Session.LifetimeHours) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	scriptRepository := data.NewScriptRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	scriptService := service.NewScriptService(scriptRepository, categoryRepository)

	if err := scriptService.SeedDefaultCategories(context.Background()); err != nil {
		log.Fatal(err, "Failed to seed default categories")
	}

	siteHandler := handler.NewSiteHandler(scriptService, viewService, log)
	adminHandler := handler.NewAdminHandler(scriptService, viewService, sessionManager, cfg.Admin, log)
	seoHandler := handler.NewSeoHandler(scriptService, "http://"+cfg.Server.Addr())

	requireAdmin := middleware.RequireAdmin(sessionManager)
	locals := middleware.Locals(scriptService, log)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(siteHandler, adminHandler, seoHandler, requireAdmin, locals, errorMiddleware, sessionManager)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}
	go func() {
		log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Could not start HTTP server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
