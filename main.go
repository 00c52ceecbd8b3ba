package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"orderease/config"
	"orderease/handlers"
	"orderease/logger"
	"orderease/middleware"
	"orderease/notify"
	"orderease/routes"
	"orderease/service"
	"orderease/store"
)

func main() {
	path, _ := config.FindConfig()
	cfg, err := config.Load(path)
	if err != nil {
		logger.New("orderease", "info").Error("config_load", "failed to load configuration", err)
		os.Exit(1)
	}
	log := logger.New("orderease", cfg.Log.Level)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Error("store_open", "failed to open storage", err, "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer st.Close()

	sink, closeSink, err := openSink(cfg.Notify, log)
	if err != nil {
		log.Error("notify_open", "failed to open notification sink", err, "driver", cfg.Notify.Driver)
		os.Exit(1)
	}
	defer closeSink()

	svc := service.New(service.WithStore(st), service.WithSink(sink), service.WithLogger(log))
	if err := svc.Load(ctx); err != nil {
		log.Warn("state_load", "no usable saved state, starting with sample data", "error", err.Error())
		svc.PopulateSampleData()
	}

	tokens := &middleware.RoleTokens{Secret: []byte(cfg.Auth.Secret), TTL: cfg.Auth.TokenTTL}
	h := handlers.New(svc, tokens)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "OrderEase Restaurant Order Management API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to OrderEase",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"guest", "server", "admin"},
		})
	})

	routes.SetupRoutes(r, h)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		log.Info("server_start", "listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_start", "server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("server_shutdown", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown", "graceful shutdown failed", err)
	}
	if err := svc.Save(shutdownCtx); err != nil {
		log.Error("state_save", "failed to save state on shutdown", err)
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.StorageSQLite:
		db, err := config.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db)
	case config.StoragePostgres:
		pool, err := config.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(ctx, pool)
	default:
		return store.NewFileStore(cfg.Path), nil
	}
}

func openSink(cfg config.NotifyConfig, log *logger.Logger) (notify.Sink, func(), error) {
	if cfg.Driver == config.NotifyAMQP {
		s, err := notify.DialAMQP(cfg.URL, cfg.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn("notify_close", "failed to close AMQP connection", "error", err.Error())
			}
		}, nil
	}
	return &notify.LogSink{Log: log}, func() {}, nil
}
