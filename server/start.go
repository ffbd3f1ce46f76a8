package server

import (
	"net/http"
	"os"
	"time"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"diary-service/auth"
	cachepackage "diary-service/cache"
	"diary-service/config"
	"diary-service/database"
	"diary-service/generator"
	"diary-service/handlers"
	"diary-service/store"
)

// checkAuth is the httpserver hook. Identity here is cookie-session based
// and resolved inside the handlers, so every route registers as public and
// the hook always passes.
func checkAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	return true, httpserver.RequestAuth{}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Diary Service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache()
	defer cache.Close()

	sessions := auth.NewSessionStore(24 * time.Hour)
	users := store.NewUserStore(dbConn)
	articles := store.NewArticleStore(dbConn)
	builder := generator.New(articles, cfg.TemplatesDir, cfg.OutputDir)

	authHandler := handlers.NewAuthHandler(users, sessions)
	articleHandler := handlers.NewArticleHandler(articles, sessions, cache, builder)
	pageHandler := handlers.NewPageHandler(sessions, cfg.OutputDir)

	// Create HTTP server
	server := httpserver.New(cfg.Port, checkAuth)

	// Register routes
	server.Register(httpserver.Route{
		Name:     "Index",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, httpserver.HandlerFunc(pageHandler.Home))

	server.Register(httpserver.Route{
		Name:     "Home",
		Method:   "GET",
		Path:     "/home",
		AuthType: "none",
	}, httpserver.HandlerFunc(pageHandler.Home))

	server.Register(httpserver.Route{
		Name:     "ArticleIndex",
		Method:   "GET",
		Path:     "/articles",
		AuthType: "none",
	}, httpserver.HandlerFunc(pageHandler.ArticleIndex))

	server.Register(httpserver.Route{
		Name:     "ArticlePage",
		Method:   "GET",
		Path:     "/articles/{file}",
		AuthType: "none",
	}, httpserver.HandlerFunc(pageHandler.Article))

	server.Register(httpserver.Route{
		Name:     "LoginPage",
		Method:   "GET",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.LoginPage))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "RegisterPage",
		Method:   "GET",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.RegisterPage))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Register))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/logout",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "Dashboard",
		Method:   "GET",
		Path:     "/admin",
		AuthType: "none",
	}, httpserver.HandlerFunc(articleHandler.Dashboard))

	server.Register(httpserver.Route{
		Name:     "EditPage",
		Method:   "GET",
		Path:     "/edit",
		AuthType: "none",
	}, httpserver.HandlerFunc(articleHandler.EditPage))

	server.Register(httpserver.Route{
		Name:     "Publish",
		Method:   "POST",
		Path:     "/publish",
		AuthType: "none",
	}, httpserver.HandlerFunc(articleHandler.Publish))

	server.Register(httpserver.Route{
		Name:     "Update",
		Method:   "POST",
		Path:     "/update",
		AuthType: "none",
	}, httpserver.HandlerFunc(articleHandler.Update))

	server.Register(httpserver.Route{
		Name:     "Delete",
		Method:   "GET",
		Path:     "/delete",
		AuthType: "none",
	}, httpserver.HandlerFunc(articleHandler.Delete))

	logger.Info("Diary Service started", zap.String("port", cfg.Port))
	logger.Info("Admin dashboard: GET /admin")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
