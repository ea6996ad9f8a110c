// Package config holds the service configuration of the induction planner.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. INDUCTION_PLANNER_SERVER_ADDRESS.
const EnvPrefix = "INDUCTION_PLANNER"

// Fleet source kinds
const (
	SourceSynthetic = "synthetic"
	SourceFile      = "file"
	SourceConfigMap = "configmap"
)

// Scorer strategies
const (
	ScorerRule          = "rule"
	ScorerProbabilistic = "probabilistic"
)

// Config is the full service configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Fleet        FleetConfig        `mapstructure:"fleet"`
	Scorer       ScorerConfig       `mapstructure:"scorer"`
	Optimization OptimizationConfig `mapstructure:"optimization"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// FleetConfig selects where the initial fleet comes from.
type FleetConfig struct {
	// Source is one of synthetic, file or configmap.
	Source string `mapstructure:"source"`
	// Size is the number of generated trainsets for the synthetic source.
	Size int `mapstructure:"size"`
	// Seed seeds the synthetic generator; 0 means time-based.
	Seed int64 `mapstructure:"seed"`
	// Path is the csv, yaml or json file for the file source.
	Path      string          `mapstructure:"path"`
	ConfigMap ConfigMapConfig `mapstructure:"configMap"`
}

// ConfigMapConfig locates the ConfigMap holding the fleet.
type ConfigMapConfig struct {
	Namespace string `mapstructure:"namespace"`
	Name      string `mapstructure:"name"`
	// Key is optional; the first csv/yaml/json key is used when empty.
	Key string `mapstructure:"key"`
}

// ScorerConfig selects and configures the scoring strategy.
type ScorerConfig struct {
	Strategy string `mapstructure:"strategy"`
	// NoiseAmplitude bounds the uniform tie-break perturbation of the rule scorer.
	NoiseAmplitude float64 `mapstructure:"noiseAmplitude"`
	// ModelPath is the classifier model used by the probabilistic strategy.
	ModelPath string `mapstructure:"modelPath"`
	// WeightsPath optionally overrides the rule scorer weights.
	WeightsPath string `mapstructure:"weightsPath"`
}

// OptimizationConfig holds defaults applied to optimization requests.
type OptimizationConfig struct {
	DefaultTargets Targets `mapstructure:"defaultTargets"`
}

// Targets are bucket capacities.
type Targets struct {
	Ready       int `mapstructure:"ready"`
	Standby     int `mapstructure:"standby"`
	Maintenance int `mapstructure:"maintenance"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
	Verbosity   int  `mapstructure:"verbosity"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("fleet.source", SourceSynthetic)
	v.SetDefault("fleet.size", 25)
	v.SetDefault("fleet.seed", int64(0))
	v.SetDefault("fleet.path", "")
	v.SetDefault("fleet.configMap.namespace", "default")
	v.SetDefault("fleet.configMap.name", "")
	v.SetDefault("fleet.configMap.key", "")
	v.SetDefault("scorer.strategy", ScorerRule)
	v.SetDefault("scorer.noiseAmplitude", 0.2)
	v.SetDefault("scorer.modelPath", "")
	v.SetDefault("scorer.weightsPath", "")
	v.SetDefault("optimization.defaultTargets.ready", 15)
	v.SetDefault("optimization.defaultTargets.standby", 5)
	v.SetDefault("optimization.defaultTargets.maintenance", 5)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.verbosity", 0)
}

// flagBindings maps command line flags to configuration keys.
var flagBindings = []struct {
	flag string
	key  string
}{
	{"address", "server.address"},
	{"shutdown-timeout", "server.shutdownTimeout"},
	{"fleet-source", "fleet.source"},
	{"fleet-size", "fleet.size"},
	{"fleet-seed", "fleet.seed"},
	{"fleet-path", "fleet.path"},
	{"fleet-configmap-namespace", "fleet.configMap.namespace"},
	{"fleet-configmap-name", "fleet.configMap.name"},
	{"fleet-configmap-key", "fleet.configMap.key"},
	{"scorer", "scorer.strategy"},
	{"noise-amplitude", "scorer.noiseAmplitude"},
	{"model-path", "scorer.modelPath"},
	{"weights-path", "scorer.weightsPath"},
	{"default-ready", "optimization.defaultTargets.ready"},
	{"default-standby", "optimization.defaultTargets.standby"},
	{"default-maintenance", "optimization.defaultTargets.maintenance"},
	{"dev-logging", "logging.development"},
	{"v", "logging.verbosity"},
}

// AddFlags defines the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("address", ":8000", "HTTP listen address")
	fs.Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	fs.String("fleet-source", SourceSynthetic, "Fleet source: synthetic, file or configmap")
	fs.Int("fleet-size", 25, "Number of trainsets generated by the synthetic source")
	fs.Int64("fleet-seed", 0, "Seed of the synthetic source (0 = time based)")
	fs.String("fleet-path", "", "Fleet file (csv, yaml or json) for the file source")
	fs.String("fleet-configmap-namespace", "default", "Namespace of the fleet ConfigMap")
	fs.String("fleet-configmap-name", "", "Name of the fleet ConfigMap")
	fs.String("fleet-configmap-key", "", "Data key of the fleet ConfigMap")
	fs.String("scorer", ScorerRule, "Scoring strategy: rule or probabilistic")
	fs.Float64("noise-amplitude", 0.2, "Amplitude of the uniform tie-break noise")
	fs.String("model-path", "", "Classifier model file for the probabilistic scorer")
	fs.String("weights-path", "", "Rule scorer weights file")
	fs.Int("default-ready", 15, "Default Ready target")
	fs.Int("default-standby", 5, "Default Standby target")
	fs.Int("default-maintenance", 5, "Default Maintenance target")
	fs.Bool("dev-logging", false, "Enable development logging")
	fs.Int("v", 0, "Log verbosity")
}

// BindFlags binds the flags defined by AddFlags to their keys on v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, b := range flagBindings {
		f := fs.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", b.flag, err)
		}
	}
	return nil
}

// Load reads the optional config file and environment into a validated Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	switch c.Fleet.Source {
	case SourceSynthetic:
		if c.Fleet.Size <= 0 {
			errs = append(errs, fmt.Errorf("fleet.size must be > 0, got %d", c.Fleet.Size))
		}
	case SourceFile:
		if c.Fleet.Path == "" {
			errs = append(errs, errors.New("fleet.path is required for the file source"))
		}
	case SourceConfigMap:
		if c.Fleet.ConfigMap.Name == "" {
			errs = append(errs, errors.New("fleet.configMap.name is required for the configmap source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported fleet.source %q", c.Fleet.Source))
	}
	switch c.Scorer.Strategy {
	case ScorerRule:
	case ScorerProbabilistic:
		if c.Scorer.ModelPath == "" {
			errs = append(errs, errors.New("scorer.modelPath is required for the probabilistic scorer"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported scorer.strategy %q", c.Scorer.Strategy))
	}
	if c.Scorer.NoiseAmplitude < 0 {
		errs = append(errs, fmt.Errorf("scorer.noiseAmplitude must be >= 0, got %.2f", c.Scorer.NoiseAmplitude))
	}
	t := c.Optimization.DefaultTargets
	if t.Ready < 0 || t.Standby < 0 || t.Maintenance < 0 {
		errs = append(errs, fmt.Errorf("optimization.defaultTargets must be non-negative, got %+v", t))
	}
	return errors.Join(errs...)
}
