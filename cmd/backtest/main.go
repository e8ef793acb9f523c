package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TheodoreKrypton/pytrade/pkg/config"
	"github.com/TheodoreKrypton/pytrade/pkg/engine"
	"github.com/TheodoreKrypton/pytrade/pkg/journal"
	"github.com/TheodoreKrypton/pytrade/pkg/series"
	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	runID := uuid.Must(uuid.NewV7())
	logger = logger.With(zap.String("run_id", runID.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configPath := DefaultConfigPath
	if v := os.Getenv(ConfigPathEnv); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("error loading config", zap.Error(err))
	}

	provider, err := loadSeries(ctx, cfg)
	if err != nil {
		logger.Fatal("error loading price series", zap.Error(err))
	}
	logger.Info("price series loaded",
		zap.String("source", cfg.DataSource),
		zap.Int("total_rows", provider.TotalRows()))

	options := []engine.Option{
		engine.WithPoint(fixed.FromFloat64(cfg.Point)),
		engine.WithNearestStopDistance(cfg.NearestSLDistance),
		engine.WithLeverage(fixed.FromFloat64(cfg.Leverage)),
	}
	if cfg.CloseAtEnd {
		options = append(options, engine.WithCloseAtEnd())
	}
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal, runID, logger)
		if err != nil {
			logger.Fatal("error opening journal", zap.Error(err))
		}
		defer func() {
			_ = j.Close()
		}()
		options = append(options, engine.WithRecorder(j))
	}

	strategy := newSmaCross(logger, FastPeriod, SlowPeriod, fixed.FromFloat64(LotSize))
	e := engine.New(logger, provider, strategy, fixed.FromFloat64(cfg.InitialBalance), options...)

	if err := e.Run(); err != nil {
		logger.Fatal("error during simulation", zap.Error(err))
	}

	e.Report().Print(logger)
	logger.Info("done")
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func loadSeries(ctx context.Context, cfg *config.Config) (series.Provider, error) {
	switch filepath.Ext(cfg.DataSource) {
	case ".csv":
		return series.LoadCSV(cfg.DataSource, cfg.CSV)
	case ".duckdb", ".db":
		reader := series.NewDuckDBReader(cfg.DataSource)
		if err := reader.Connect(); err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadAll(ctx, cfg.DuckDB.Table)
	case ".bin":
		reader := series.NewBinaryReader(cfg.DataSource)
		if err := reader.Open(); err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadAll()
	default:
		return nil, fmt.Errorf("unsupported data source format: %q", cfg.DataSource)
	}
}
