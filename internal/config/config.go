package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"tidal-pump/internal/logging"
	"tidal-pump/internal/pump"
	"tidal-pump/internal/tide"
)

// Tide source modes.
const (
	ModeRecorded  = "recorded"
	ModeSimulated = "simulated"
)

// Governing components of the mechanism.
const (
	ComponentPiston = "piston"
	ComponentValve  = "valve"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Tide      TideConfig      `mapstructure:"tide"`
	Mechanism MechanismConfig `mapstructure:"mechanism"`
	Derive    DeriveConfig    `mapstructure:"derive"`
	Report    ReportConfig    `mapstructure:"report"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// TideConfig selects and parameterises the tide series.
type TideConfig struct {
	Mode         string        `mapstructure:"mode"`
	CSVPath      string        `mapstructure:"csv_path"`
	FeetToMeters float64       `mapstructure:"feet_to_meters"`
	Amplitude    float64       `mapstructure:"amplitude_m"`
	Baseline     float64       `mapstructure:"baseline_m"`
	Period       time.Duration `mapstructure:"period"`
	Duration     time.Duration `mapstructure:"duration"`
	Samples      int           `mapstructure:"samples"`
	Start        time.Time     `mapstructure:"start"`
	AverageMonth int           `mapstructure:"average_month"`
}

// MechanismConfig carries the physical constants of the pump.
type MechanismConfig struct {
	Density        float64      `mapstructure:"density"`
	Gravity        float64      `mapstructure:"gravity"`
	FlowModel      string       `mapstructure:"flow_model"`
	Component      string       `mapstructure:"component"`
	PistonDiameter float64      `mapstructure:"piston_diameter_m"`
	ValveDiameter  float64      `mapstructure:"valve_diameter_m"`
	Force          float64      `mapstructure:"force_n"`
	Piston         PistonConfig `mapstructure:"piston"`
	GPMPerM3S      float64      `mapstructure:"gpm_per_m3s"`
}

// PistonConfig derives the actuating force when force_n is unset.
type PistonConfig struct {
	Volume              float64 `mapstructure:"volume_m3"`
	ConcreteDensity     float64 `mapstructure:"concrete_density"`
	SteelDensity        float64 `mapstructure:"steel_density"`
	ConcreteFraction    float64 `mapstructure:"concrete_fraction"`
	GasketForce         float64 `mapstructure:"gasket_force_n"`
	FrictionCoefficient float64 `mapstructure:"friction_coefficient"`
}

// DeriveConfig tunes slope estimation.
type DeriveConfig struct {
	Spacing string `mapstructure:"spacing"`
}

// ReportConfig tunes aggregation.
type ReportConfig struct {
	WindowHours float64 `mapstructure:"window_hours"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// NotifyConfig routes run summaries.
type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram summary channel.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TIDEPUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tidepump")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("tide.mode", ModeSimulated)
	v.SetDefault("tide.feet_to_meters", tide.FeetToMeters)
	v.SetDefault("tide.amplitude_m", 3.0)
	v.SetDefault("tide.baseline_m", 3.0)
	v.SetDefault("tide.period", "12h")
	v.SetDefault("tide.duration", "24h")
	v.SetDefault("tide.samples", 1000)
	v.SetDefault("tide.average_month", 0)

	v.SetDefault("mechanism.density", pump.WaterDensity)
	v.SetDefault("mechanism.gravity", pump.StandardGravity)
	v.SetDefault("mechanism.flow_model", string(pump.FlowDisplacement))
	v.SetDefault("mechanism.component", ComponentPiston)
	v.SetDefault("mechanism.piston_diameter_m", 1.0)
	v.SetDefault("mechanism.valve_diameter_m", 0.058)
	v.SetDefault("mechanism.force_n", 0.0)
	v.SetDefault("mechanism.piston.volume_m3", 2.41)
	v.SetDefault("mechanism.piston.concrete_density", 2400.0)
	v.SetDefault("mechanism.piston.steel_density", 7850.0)
	v.SetDefault("mechanism.piston.concrete_fraction", 0.9)
	v.SetDefault("mechanism.piston.gasket_force_n", 20.0)
	v.SetDefault("mechanism.piston.friction_coefficient", 1.0)
	v.SetDefault("mechanism.gpm_per_m3s", pump.GPMPerCubicMeterPerSecond)

	v.SetDefault("derive.spacing", string(pump.SpacingSeconds))

	v.SetDefault("report.window_hours", 24.0)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("notify.telegram.enabled", false)
	v.SetDefault("notify.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("notify.telegram.timeout", "10s")

	v.SetDefault("export.max_data_points", 5000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch c.Tide.Mode {
	case ModeRecorded:
		if c.Tide.CSVPath == "" {
			return fmt.Errorf("tide.csv_path is required in recorded mode")
		}
		if c.Tide.FeetToMeters <= 0 {
			return fmt.Errorf("tide.feet_to_meters must be greater than zero")
		}
	case ModeSimulated:
		if c.Tide.Samples < pump.MinSamples {
			return fmt.Errorf("tide.samples must be at least %d", pump.MinSamples)
		}
		if c.Tide.Duration <= 0 {
			return fmt.Errorf("tide.duration must be greater than zero")
		}
		if c.Tide.Period <= 0 {
			return fmt.Errorf("tide.period must be greater than zero")
		}
	default:
		return fmt.Errorf("tide.mode must be %q or %q, got %q", ModeRecorded, ModeSimulated, c.Tide.Mode)
	}

	if c.Tide.AverageMonth < 0 || c.Tide.AverageMonth > 12 {
		return fmt.Errorf("tide.average_month must be between 1 and 12, or 0 to disable")
	}
	if c.Tide.AverageMonth > 0 && c.Tide.Mode != ModeRecorded {
		return fmt.Errorf("tide.average_month requires recorded mode")
	}

	if c.Mechanism.Component != ComponentPiston && c.Mechanism.Component != ComponentValve {
		return fmt.Errorf("mechanism.component must be %q or %q, got %q", ComponentPiston, ComponentValve, c.Mechanism.Component)
	}
	if c.Report.WindowHours < 0 {
		return fmt.Errorf("report.window_hours cannot be negative")
	}
	if c.Export.MaxDataPoints <= 1 {
		return fmt.Errorf("export.max_data_points must be greater than one")
	}
	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" {
			return fmt.Errorf("notify.telegram.bot_token is required when telegram is enabled")
		}
		if c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled")
		}
	}

	if _, err := c.PumpMechanism(); err != nil {
		return fmt.Errorf("mechanism: %w", err)
	}
	return nil
}

// PumpMechanism converts the mechanism section into the immutable constants
// handed to the derivation stages.
func (c *Config) PumpMechanism() (pump.Mechanism, error) {
	model, err := pump.ParseFlowModel(c.Mechanism.FlowModel)
	if err != nil {
		return pump.Mechanism{}, err
	}
	spacing, err := pump.ParseSpacing(c.Derive.Spacing)
	if err != nil {
		return pump.Mechanism{}, err
	}

	diameter := c.Mechanism.PistonDiameter
	if c.Mechanism.Component == ComponentValve {
		diameter = c.Mechanism.ValveDiameter
	}

	mech := pump.Mechanism{
		Density:   c.Mechanism.Density,
		Gravity:   c.Mechanism.Gravity,
		Diameter:  diameter,
		Force:     c.ActuatingForce(),
		FlowModel: model,
		Spacing:   spacing,
		GPMPerM3S: c.Mechanism.GPMPerM3S,
	}
	if err := mech.Validate(); err != nil {
		return pump.Mechanism{}, err
	}
	return mech, nil
}

// ActuatingForce returns force_n when set, otherwise the piston weight minus
// gasket friction.
func (c *Config) ActuatingForce() float64 {
	if c.Mechanism.Force > 0 {
		return c.Mechanism.Force
	}
	p := c.Mechanism.Piston
	load := pump.PistonLoad{
		Volume:              p.Volume,
		ConcreteDensity:     p.ConcreteDensity,
		SteelDensity:        p.SteelDensity,
		ConcreteFraction:    p.ConcreteFraction,
		GasketForce:         p.GasketForce,
		FrictionCoefficient: p.FrictionCoefficient,
	}
	return load.ActuatingForce(c.Mechanism.Gravity)
}

// SimulatedOptions maps the tide section onto the sinusoid generator.
func (c *Config) SimulatedOptions() tide.SimulatedOptions {
	return tide.SimulatedOptions{
		Start:     c.Tide.Start,
		Duration:  c.Tide.Duration,
		Period:    c.Tide.Period,
		Amplitude: c.Tide.Amplitude,
		Baseline:  c.Tide.Baseline,
		Samples:   c.Tide.Samples,
	}
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
