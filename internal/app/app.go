package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"tidal-pump/internal/config"
	"tidal-pump/internal/logging"
	"tidal-pump/internal/notify"
	"tidal-pump/internal/pipeline"
	"tidal-pump/internal/pump"
	"tidal-pump/internal/storage"
	"tidal-pump/internal/tide"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logging.Component(logger, "app"), Out: os.Stdout}
}

func (a *App) newProvider(simulated tide.SimulatedOptions) tide.Provider {
	if a.Config.Tide.Mode == config.ModeRecorded {
		recorded := tide.NewRecorded(tide.RecordedOptions{
			Path:         a.Config.Tide.CSVPath,
			FeetToMeters: a.Config.Tide.FeetToMeters,
		}, a.Logger)
		if month := a.Config.Tide.AverageMonth; month > 0 {
			return tide.NewAverageDay(recorded, time.Month(month), a.Logger)
		}
		return recorded
	}
	return tide.NewSimulated(simulated, a.Logger)
}

func (a *App) newNotifier() notify.Notifier {
	if a.Config.Notify.Telegram.Enabled {
		cfg := a.Config.Notify.Telegram
		return notify.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return nil
}

func (a *App) pipelineOptions() (pipeline.Options, error) {
	mech, err := a.Config.PumpMechanism()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Mode:      a.Config.Tide.Mode,
		Component: a.Config.Mechanism.Component,
		Mechanism: mech,
		Aggregate: pump.AggregateOptions{WindowHours: a.Config.Report.WindowHours},
	}, nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if a.Config.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
	}

	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// RunOptions configure a single pipeline execution.
type RunOptions struct {
	CSVPath         string
	PNGPath         string
	PowerPNGPath    string
	VelocityPNGPath string
	NoPersist       bool
	MaxPoints       int
}

// ExportOptions hold parameters for re-rendering a stored run.
type ExportOptions struct {
	RunID           int64
	CSVPath         string
	PNGPath         string
	PowerPNGPath    string
	VelocityPNGPath string
	MaxPoints       int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
	RunID int64 // when set, print the full summary of this run instead
}

// SweepOptions configure a simulated amplitude sweep.
type SweepOptions struct {
	From float64
	To   float64
	Step float64
}
