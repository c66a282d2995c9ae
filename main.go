package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"retail-insights/pkg/api"
	"retail-insights/pkg/calculator"
	"retail-insights/pkg/config"
	"retail-insights/pkg/database"
	"retail-insights/pkg/dataset"
	"retail-insights/pkg/segment"
	"retail-insights/pkg/snapshot"
)

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// tableLoader choisit la source de la table nettoyée.
func tableLoader(cfg *config.Config, logger *logrus.Logger) snapshot.Loader {
	return func(ctx context.Context) (*dataset.Table, error) {
		switch cfg.DataSource {
		case config.SourceExcel:
			return dataset.ReadExcel(cfg.DataPath)
		case config.SourceMySQL:
			db, dsnUsed, err := database.Open(cfg.DSN)
			if err != nil {
				return nil, fmt.Errorf("open db: %w", err)
			}
			defer db.Close()
			logger.WithField("dsn", redact(dsnUsed)).Debug("connected")
			return database.LoadTable(ctx, db, cfg.Table, logger)
		case config.SourcePostgres:
			return database.LoadTablePostgres(ctx, cfg.DSN, cfg.Table, logger)
		}
		return dataset.ReadCSV(cfg.DataPath, cfg.CSVLatin1)
	}
}

// redact masque le mot de passe d'un DSN driver MySQL (user:pass@tcp(...)).
func redact(dsn string) string {
	at := strings.Index(dsn, "@")
	colon := strings.Index(dsn, ":")
	if at < 0 || colon < 0 || colon > at {
		return dsn
	}
	return dsn[:colon+1] + "***" + dsn[at:]
}

func main() {
	mode := flag.String("mode", "serve", "serve (API HTTP) ou report (prévisions batch)")
	envFile := flag.String("env", "", "fichier .env (défaut: .env du répertoire courant)")
	products := flag.String("products", "", "report: codes ou descriptions séparés par des virgules (défaut: top produits)")
	model := flag.String("model", "short", "report: short|long (alias sarimax|xgboost)")
	verbose := flag.Bool("v", false, "Mode verbeux")
	flag.Parse()

	var cfg *config.Config
	if *envFile != "" {
		cfg = config.Load(*envFile)
	} else {
		cfg = config.Load()
	}
	logger := newLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}
	profile, err := cfg.Profile()
	if err != nil {
		logger.Fatalf("segment profile: %v", err)
	}
	cls, err := segment.NewClassifier(profile)
	if err != nil {
		logger.Fatalf("segment profile: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := snapshot.NewStore(tableLoader(cfg, logger), cls, cfg.RefreshPerMinute, logger)
	if _, err := store.Load(ctx); err != nil {
		logger.Fatalf("load: %v", err)
	}

	switch *mode {
	case "report":
		runReport(ctx, store.Current(), cfg, *products, *model, *verbose, logger)
	case "serve":
		serve(ctx, store, cfg, logger)
	default:
		logger.Fatalf("Usage: retail-insights -mode serve|report [-products ...] [-model short|long]")
	}
}

func runReport(ctx context.Context, snap *snapshot.Snapshot, cfg *config.Config, products, model string, verbose bool, logger *logrus.Logger) {
	var list []string
	for _, p := range strings.Split(products, ",") {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	lines, err := calculator.RunForecastReport(ctx, snap, calculator.ReportConfig{
		Products: list,
		Model:    model,
		Steps:    cfg.ForecastSteps,
		Window:   cfg.WindowDays,
		Verbose:  verbose,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("report: %v", err)
	}

	// Sortie : produit ; description ; total ; prévisions | erreur
	for _, l := range lines {
		if l.Error != "" {
			fmt.Printf("%s ; error=%s\n", l.Product, l.Error)
			continue
		}
		fmt.Printf("%s ; %s ; total=%.2f ; forecast=%v\n", l.Product, l.Description, l.Total, l.Forecast)
	}
}

func serve(ctx context.Context, store *snapshot.Store, cfg *config.Config, logger *logrus.Logger) {
	handler := api.NewHandler(store, api.Settings{
		ForecastSteps: cfg.ForecastSteps,
		TopN:          cfg.TopN,
		WindowDays:    cfg.WindowDays,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	logger.Infof("listening on %s (profile=%s)", srv.Addr, store.Current().Classifier.Profile().Name)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}
