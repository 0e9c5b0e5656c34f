package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"fuelswitch/internal/auth"
	"fuelswitch/internal/decomposition/application"
	decompositionrepo "fuelswitch/internal/decomposition/infrastructure/postgres"
	"fuelswitch/internal/decomposition/interfaces"
	"fuelswitch/internal/grouping"
	"fuelswitch/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()

	groupingCfg, err := grouping.LoadConfig(cfg.GroupingConfigPath)
	if err != nil {
		logger.Fatalf("grouping config error: %v", err)
	}
	if cfg.ElectricityFuel != "" {
		groupingCfg.ElectricityFuel = cfg.ElectricityFuel
	}
	if cfg.Epsilon > 0 {
		groupingCfg.Epsilon = cfg.Epsilon
	}
	grouper, err := grouping.NewGrouper(groupingCfg)
	if err != nil {
		logger.Fatalf("grouper error: %v", err)
	}

	runner, err := application.NewRunner(grouper, groupingCfg,
		application.WithWorkers(cfg.Workers),
		application.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("runner error: %v", err)
	}

	runRepo := decompositionrepo.NewRunRepository(db)
	runsHandler, err := interfaces.NewRunsHandler(runner, runRepo, logger)
	if err != nil {
		logger.Fatalf("runs handler error: %v", err)
	}
	exportHandler, err := interfaces.NewExportHandler(runRepo)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/decomposition/runs", runsHandler)
	mux.Handle("/api/v1/decomposition/runs/", runsHandler)
	mux.Handle("/api/v1/exports/fuel-switching.csv", exportHandler)
	mux.Handle("/api/v1/exports/fuel-switching.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/fuel-switching.pdf", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL        string
	HTTPAddr           string
	GroupingConfigPath string
	ElectricityFuel    string
	Epsilon            float64
	Workers            int
	JWTSecret          string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		GroupingConfigPath: getenvDefault("GROUPING_CONFIG", ""),
		ElectricityFuel:    getenvDefault("ELECTRICITY_FUEL", ""),
		Epsilon:            getenvFloatDefault("EPSILON", 0),
		Workers:            getenvIntDefault("WORKERS", 0),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
