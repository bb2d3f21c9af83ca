package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/config"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/cache"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/memory"
	mongodoc "github.com/sngm3741/cafe-finder/api/internal/infrastructure/mongo"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/notify"
	adminhttp "github.com/sngm3741/cafe-finder/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/cafe-finder/api/internal/interfaces/http/public"
	"github.com/sngm3741/cafe-finder/api/internal/platform/metrics"
)

const popularCachePrefix = "cafe-finder"

// Services is the application layer the HTTP routes are bound to.
type Services struct {
	Directory application.DirectoryService
	Search    application.SearchService
	Reviews   application.ReviewService
	Claims    application.ClaimService
	Busy      application.BusyService
	Stats     application.StatsService
}

// RouterConfig carries everything NewRouter needs. Ping and Metrics are optional.
type RouterConfig struct {
	Logger         *zap.Logger
	Services       Services
	JWTConfigs     []config.JWTConfig
	JWTAudience    string
	AllowedOrigins []string
	RatePerMinute  int
	RateBurst      int
	Ping           func(ctx context.Context) error
	Metrics        http.Handler
}

// Server is the composition root: it owns the storage clients and serves the
// public and admin routes.
type Server struct {
	logger  *zap.Logger
	client  *mongo.Client
	redis   *redis.Client
	addr    string
	handler http.Handler
}

// New wires repositories, services and handlers over the given Mongo client.
// Redis is used for the popular-cafes cache when configured and reachable;
// otherwise an in-process cache takes its place.
func New(ctx context.Context, cfg config.Config, client *mongo.Client) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	db := client.Database(cfg.MongoDatabase)
	collections := mongodoc.Collections{
		Cafes:               cfg.CafeCollection,
		Reviews:             cfg.ReviewCollection,
		Votes:               cfg.VoteCollection,
		Claims:              cfg.ClaimCollection,
		Busy:                cfg.BusyCollection,
		FailedNotifications: cfg.FailedNotificationCollection,
	}
	if err := mongodoc.EnsureIndexes(ctx, db, collections); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	srv := &Server{logger: logger, client: client, addr: cfg.Addr}

	var popular application.PopularCache = memory.NewPopularCache(cfg.PopularCacheTTL)
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, using in-process popular cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			srv.redis = redisClient
			popular = cache.NewPopularCache(redisClient, cfg.PopularCacheTTL, popularCachePrefix)
		}
	}

	var notifier application.Notifier
	if cfg.MessengerEndpoint != "" {
		notifier = notify.NewMessenger(notify.Config{
			Endpoint:     cfg.MessengerEndpoint,
			Destination:  cfg.MessengerDestination,
			AdminBaseURL: cfg.AdminBaseURL,
			Timeout:      cfg.MessengerTimeout,
			Failures:     mongodoc.NewFailedNotificationRepository(db, collections.FailedNotifications),
			Logger:       logger.Named("notify"),
		})
	}

	cafes := mongodoc.NewCafeRepository(db, collections.Cafes)
	reviews := mongodoc.NewReviewRepository(db, collections.Reviews)
	claims := mongodoc.NewClaimRepository(db, collections.Claims)
	ratings := application.NewRatingRecalculator(reviews, cafes, popular, appMetrics, logger)
	services := Services{
		Directory: application.NewDirectoryService(cafes, popular, logger),
		Search:    application.NewSearchService(cafes, popular, appMetrics, logger),
		Reviews:   application.NewReviewService(reviews, mongodoc.NewVoteRepository(db, collections.Votes), cafes, ratings, appMetrics, notifier, logger),
		Claims:    application.NewClaimService(claims, cafes, appMetrics, notifier, logger),
		Busy:      application.NewBusyService(mongodoc.NewBusyRepository(db, collections.Busy), cafes),
		Stats:     application.NewStatsService(reviews, claims),
	}

	srv.handler = NewRouter(RouterConfig{
		Logger:         logger,
		Services:       services,
		JWTConfigs:     cfg.JWTConfigs,
		JWTAudience:    cfg.JWTAudience,
		AllowedOrigins: cfg.AllowedOrigins,
		RatePerMinute:  cfg.RateLimitPerMinute,
		RateBurst:      cfg.RateLimitBurst,
		Ping:           srv.ping,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	return srv, nil
}

// Handler exposes the assembled router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until the listener fails or SIGINT/SIGTERM arrives, then
// shuts down gracefully and releases the storage clients.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(httpServer, errChan)
}

// NewRouter assembles middleware, health and metrics endpoints, and the
// public and admin route sets.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	auth := &authenticator{
		logger:   logger,
		configs:  append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		audience: cfg.JWTAudience,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(cfg.AllowedOrigins))
	if cfg.RatePerMinute > 0 {
		router.Use(newIPRateLimiter(perMinute(cfg.RatePerMinute), cfg.RateBurst, logger).middleware)
	}

	router.Get("/healthz", healthHandler(logger, cfg.Ping))
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	publichttp.NewHandler(publichttp.Config{
		Logger:    logger,
		Directory: cfg.Services.Directory,
		Search:    cfg.Services.Search,
		Reviews:   cfg.Services.Reviews,
		Claims:    cfg.Services.Claims,
		Busy:      cfg.Services.Busy,
	}).Register(router, auth.middleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:    logger,
		Directory: cfg.Services.Directory,
		Reviews:   cfg.Services.Reviews,
		Claims:    cfg.Services.Claims,
		Stats:     cfg.Services.Stats,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.middleware)
		adminHandler.Register(r)
	})
	return router
}

func perMinute(n int) rate.Limit {
	return rate.Every(time.Minute / time.Duration(n))
}

// withCORS returns middleware adding CORS headers for the allowed origins.
// "*" allows any origin.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports storage reachability. A nil ping always reports ok.
func healthHandler(logger *zap.Logger, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if ping != nil {
			if err := ping(ctx); err != nil {
				commonhttp.WriteJSON(logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		commonhttp.WriteJSON(logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// shutdown disconnects the storage clients with a bounded timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Warn("mongo disconnect failed", zap.Error(err))
	}
}

func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("http server shutdown failed", zap.Error(err))
		}
	}

	s.shutdown(context.Background())
	return runErr
}
