package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"boutique-pos/internal/config"
	"boutique-pos/internal/database"
	custommiddleware "boutique-pos/internal/middleware"
	"boutique-pos/internal/store"
	"boutique-pos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires the HTTP adapter over st. gatherer backs /metrics.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, st store.Store, gatherer prometheus.Gatherer) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := st.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Login throttling needs Redis; without it the route is unthrottled
	var redisClient *redis.Client
	var loginLimiter func(http.Handler) http.Handler
	if cfg.Redis.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.Server.LoginRateLimit,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	} else {
		logger.Warn("REDIS_HOST not set, login rate limiting disabled")
	}

	authMiddleware := custommiddleware.AuthMiddleware(st, logger)

	transport.NewAuthHandler(st, logger).RegisterRoutes(router, authMiddleware, loginLimiter)
	transport.NewInventoryHandler(st, logger).RegisterRoutes(router, authMiddleware)
	transport.NewSaleHandler(st, logger).RegisterRoutes(router, authMiddleware)
	transport.NewTrialHandler(st, logger).RegisterRoutes(router, authMiddleware)
	transport.NewReportHandler(st, cfg.Store.Location, logger).RegisterRoutes(router, authMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
