package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"laily-api/internal/auth"
	"laily-api/internal/config"
	"laily-api/internal/database"
	"laily-api/internal/logger"
	"laily-api/internal/middleware"
	"laily-api/internal/repository"
	"laily-api/internal/routes"
	"laily-api/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("❌ could not build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UsesDefaultSecret() {
		zlog.Warn("JWT_SECRET is not set, using the development secret")
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zlog.Error("disconnect mongo", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	zlog.Info("connected to mongo", zap.String("database", cfg.MongoDB))

	userRepo := repository.NewUserRepository(db.Collection(database.UsersCollection))
	productRepo := repository.NewProductRepository(db.Collection(database.ProductsCollection))
	settingsRepo := repository.NewSettingsRepository(db.Collection(database.SettingsCollection))

	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn)
	promoBar := service.NewPromoBarService(settingsRepo, cfg.PromoMessage, zlog.Named("promobar"))
	if _, err := promoBar.EnsureSeeded(ctx); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestLogger(zlog.Named("http")),
		middleware.Recovery(zlog),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)
	routes.RegisterRoutes(router, routes.Services{
		Auth:     service.NewAuthService(userRepo, hasher, tokens, zlog.Named("auth")),
		Users:    service.NewUserService(userRepo, hasher, zlog.Named("users")),
		Products: service.NewProductService(productRepo, zlog.Named("products")),
		PromoBar: promoBar,
		DB:       client,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
		ReadTimeout:       cfg.RequestTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("🚀 server running", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
