package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"taskmaster-api/auth"
	"taskmaster-api/config"
	"taskmaster-api/db"
	"taskmaster-api/handlers"
	"taskmaster-api/logger"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logrus.Fatalf("Error loading .env file: %v", err)
		}
	}

	cfg := config.Load()
	log := logger.Init("taskmaster-api", cfg.LogLevel)

	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters")
	}

	dbConn := initDB(cfg, log)
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	handler := initHandlers(cfg, dbConn, log)
	server := initServer(cfg, handler)
	startServer(server, cfg.ServerPort, log)
}

func initDB(cfg *config.Config, log *logrus.Logger) *sql.DB {
	dbConn, err := db.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.InitSchema(dbConn); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	return dbConn
}

func initRedis(cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Redis connection successful")
	return rdb
}

func initHandlers(cfg *config.Config, dbConn *sql.DB, log *logrus.Logger) http.Handler {
	handler := &handlers.Handler{
		UserRepo: db.NewUserRepository(dbConn),
		TaskRepo: db.NewTaskRepository(dbConn),
		Auth: auth.New(auth.Config{
			Secret:      []byte(cfg.JWTSecret),
			RegisterTTL: cfg.RegisterTokenTTL,
			LoginTTL:    cfg.LoginTokenTTL,
		}),
		Log: log,
	}
	// redis is optional; wrapping a nil client would make Cache non-nil
	if rdb := initRedis(cfg, log); rdb != nil {
		handler.Cache = handlers.NewRedisCache(rdb)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", handler.Register)
	mux.HandleFunc("/api/auth/login", handler.Login)
	mux.HandleFunc("/api/auth/profile", handler.AuthMiddleware(handler.Profile))
	mux.HandleFunc("/api/tasks", handler.AuthMiddleware(handler.HandleTasks))
	mux.HandleFunc("/api/tasks/", handler.AuthMiddleware(handler.HandleTaskByID))

	return handlers.RequestIDMiddleware(handlers.LoggingMiddleware(log, mux))
}

func initServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: handler,
	}
}

func startServer(server *http.Server, port string, log *logrus.Logger) {
	log.Infof("Starting server on :%s", port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
