// Package config loads tripgraph's configuration from an optional YAML file
// and TRIPGRAPH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Benny93/tripgraph/internal/routing"
)

// EnvPrefix prefixes every environment override, e.g.
// TRIPGRAPH_ROUTING_WALK_SPEED.
const EnvPrefix = "TRIPGRAPH"

// DefaultName is the file name searched for in the working directory when
// no explicit path is given.
const DefaultName = "tripgraph"

// Config is the root configuration.
type Config struct {
	Logger  LoggerConfig     `mapstructure:"logger" json:"logger"`
	Routing routing.Defaults `mapstructure:"routing" json:"routing"`
}

// ColorConfig names the terminal colour of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug"`
	Info   string `mapstructure:"info" json:"info"`
	Warn   string `mapstructure:"warn" json:"warn"`
	Error  string `mapstructure:"error" json:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal"`
}

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
	Format      string      `mapstructure:"format" json:"format" validate:"oneof=console json"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" validate:"gte=0"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" validate:"gte=0"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" validate:"gte=0"`
	Compress    bool        `mapstructure:"compress" json:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors"`
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers the default of every key on v. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tripgraph")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	d := routing.StandardDefaults()
	v.SetDefault("routing.walk_speed", d.WalkSpeed)
	v.SetDefault("routing.bike_speed", d.BikeSpeed)
	v.SetDefault("routing.car_speed", d.CarSpeed)
	v.SetDefault("routing.walk_reluctance", d.WalkReluctance)
	v.SetDefault("routing.max_walk_distance", d.MaxWalkDistance)
	v.SetDefault("routing.num_itineraries", d.NumItineraries)
	v.SetDefault("routing.min_transfer_time", d.MinTransferTime)
	v.SetDefault("routing.max_transfers", d.MaxTransfers)
	v.SetDefault("routing.transfer_penalty", d.TransferPenalty)
	v.SetDefault("routing.board_cost", d.BoardCost)
	v.SetDefault("routing.unpreferred_route_penalty", d.UnpreferredRoutePenalty)
	v.SetDefault("routing.other_than_preferred_routes_penalty", d.OtherThanPreferredRoutesPenalty)
	v.SetDefault("routing.elevator_board_cost", d.ElevatorBoardCost)
	v.SetDefault("routing.elevator_board_time", d.ElevatorBoardTime)
	v.SetDefault("routing.elevator_hop_cost", d.ElevatorHopCost)
	v.SetDefault("routing.elevator_hop_time", d.ElevatorHopTime)
	v.SetDefault("routing.modes", d.Modes)
	v.SetDefault("routing.optimize", string(d.Optimize))
}

// NewViper returns a viper instance with defaults, environment overrides
// and, when present, the configuration file read in. An empty path
// searches the working directory for tripgraph.yaml and tolerates its
// absence; an explicit path must exist.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := configValidate.Struct(cfg.Logger); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}
	return &cfg, nil
}

// LoadFile is NewViper followed by Load.
func LoadFile(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return Load(v)
}
