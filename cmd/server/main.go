package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecohub/ecohub/internal/api"
	dbstore "github.com/ecohub/ecohub/internal/db"
	"github.com/ecohub/ecohub/internal/middleware"
	"github.com/ecohub/ecohub/internal/utils"
)

func main() {
	seed := flag.Bool("seed", false, "seed the catalog with the curated brand/product set and exit")
	flag.Parse()

	log := utils.NewLogger("ecohub-api")

	addr := utils.SafeEnv("ECOHUB_ADDR", ":8080")
	sqlitePath := utils.SafeEnv("ECOHUB_SQLITE_PATH", "data/ecohub.db")
	commit := os.Getenv("ECOHUB_COMMIT")
	buildTime := os.Getenv("ECOHUB_BUILD_TIME")

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		log.WithError(err).Fatal("create sqlite dir")
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(sqlitePath))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.WithError(err).Fatal("open sqlite")
	}
	defer sqliteDB.Close()

	if err := dbstore.RunMigrations(sqliteDB, os.Getenv("ECOHUB_MIGRATIONS_DIR")); err != nil {
		log.WithError(err).Fatal("run migrations")
	}
	store, err := dbstore.NewStore(sqliteDB, log)
	if err != nil {
		log.WithError(err).Fatal("init sqlite store")
	}

	if *seed {
		if err := SeedCatalog(store); err != nil {
			log.WithError(err).Fatal("seed catalog")
		}
		log.Info("Seed complete: categories, brands, and products added.")
		return
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     "ok",
			"name":       "EcoHub API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Serve the built frontend when a static dir is configured (fullstack image).
	if staticDir := os.Getenv("ECOHUB_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	metrics := middleware.NewHTTPMetrics()
	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.WithAuth(
					metrics.Observe(
						middleware.RequestLogger(log)(mux))))))

	log.WithField("addr", addr).Info("EcoHub server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
