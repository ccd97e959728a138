package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"voicetracker-backend/internal/analytics"
	"voicetracker-backend/internal/auth"
	"voicetracker-backend/internal/config"
	"voicetracker-backend/internal/db"
	"voicetracker-backend/internal/ledger"
	"voicetracker-backend/internal/logger"
	"voicetracker-backend/internal/metrics"
	"voicetracker-backend/internal/reminders"
)

func main() {
	cfg := config.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.JSON = cfg.LogJSON
	log := logger.NewLogger(logCfg)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("connected to database", "driver", cfg.DBDriver)

	if err := db.Migrate(ctx, database, cfg.DBDriver); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obs, err := metrics.NewPrometheusObserver("voicetracker", reg)
	if err != nil {
		return err
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		log.Warn("JWT_SECRET is empty; using an insecure development secret")
		secret = []byte("dev-secret")
	}
	authMW := auth.New(secret)
	rem := reminders.New(database, cfg.CalendarBaseURL, obs)
	led := ledger.New(database, obs)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// ----- AUTH -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("GET /auth/me", authMW.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("POST /auth/logout", authMW.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("DELETE /auth/account", authMW.Wrap(auth.DeleteAccountHandler(database)))

	// ----- REMINDERS -----
	mux.HandleFunc("POST /reminders/voice", authMW.Wrap(rem.Voice))
	mux.HandleFunc("POST /reminders", authMW.Wrap(rem.Create))
	mux.HandleFunc("GET /reminders", authMW.Wrap(rem.List))
	mux.HandleFunc("DELETE /reminders/{id}", authMW.Wrap(rem.Delete))

	// ----- LEDGER -----
	mux.HandleFunc("POST /transactions/voice", authMW.Wrap(led.Voice))
	mux.HandleFunc("POST /transactions", authMW.Wrap(led.Create))
	mux.HandleFunc("GET /transactions", authMW.Wrap(led.List))
	mux.HandleFunc("DELETE /transactions", authMW.Wrap(led.Clear))
	mux.HandleFunc("DELETE /transactions/{id}", authMW.Wrap(led.Delete))
	mux.HandleFunc("GET /transactions/export", authMW.Wrap(led.Export))
	mux.HandleFunc("GET /transactions/stats", authMW.Wrap(led.Stats))

	// ----- ANALYTICS -----
	mux.HandleFunc("GET /analytics/summary", authMW.Wrap(analytics.SummaryHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           withLogger(log, c.Handler(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("API server is running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// withLogger puts a request-scoped logger in every request context.
func withLogger(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := log.With("method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), l)))
	})
}
