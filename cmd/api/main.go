package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/opticode/internal/application"
	appanalysis "github.com/bryanwahyu/opticode/internal/application/analysis"
	appreport "github.com/bryanwahyu/opticode/internal/application/report"
	"github.com/bryanwahyu/opticode/internal/config"
	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/infra/ai"
	mysqlp "github.com/bryanwahyu/opticode/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/opticode/internal/infra/db/postgres"
	"github.com/bryanwahyu/opticode/internal/infra/httpserver"
	"github.com/bryanwahyu/opticode/internal/infra/pdf"
	minioStore "github.com/bryanwahyu/opticode/internal/infra/storage"
	"github.com/bryanwahyu/opticode/internal/middleware"
	"github.com/bryanwahyu/opticode/internal/telemetry"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := application.SystemClock{}
	checkers := map[string]middleware.HealthChecker{}

	// a missing credential only fails /api/analyze
	generator, genErr := ai.New(cfg)
	if genErr != nil {
		if !errors.Is(genErr, analysis.ErrConfiguration) {
			log.Fatalf("ai provider error: %v", genErr)
		}
		telemetry.Warn("ai.not_configured", map[string]any{"provider": cfg.AI.Provider, "err": genErr})
	}

	analysisSvc := &appanalysis.Service{
		Generator: generator,
		ConfigErr: genErr,
		Scorer:    appanalysis.RandomScorer{},
		Clock:     clock,
		Model:     cfg.AI.Model,
	}

	db, recorder, err := openRecorder(ctx, cfg)
	if err != nil {
		log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	if db != nil {
		defer db.Close()
		analysisSvc.Recorder = recorder
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	reportSvc := &appreport.Service{
		Composer: &appreport.Composer{Measurer: pdf.NewMeasurer(), Clock: clock},
		Renderer: pdf.NewRenderer(),
	}
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		reportSvc.Archive = store
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSecond)
	defer limiter.Close()

	handler := httpserver.NewRouter(analysisSvc, reportSvc, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Server.APIKeys,
		RateLimiter:    limiter,
		HealthCheckers: checkers,
		ReportTitle:    cfg.Report.Title,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// analysis waits on the provider
		WriteTimeout: time.Duration(cfg.AI.TimeoutSeconds)*time.Second + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("server listening on %s (provider=%s model=%s)", addr, cfg.AI.Provider, cfg.AI.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}

// openRecorder connects the optional audit database and applies its schema.
func openRecorder(ctx context.Context, cfg *config.Config) (*sql.DB, analysis.Recorder, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := mysqlp.NewAnalysisRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return db, repo, nil
	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := postgresp.NewAnalysisRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return db, repo, nil
	default:
		return nil, nil, nil
	}
}
