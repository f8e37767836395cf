package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Inputs  InputsConfig  `yaml:"inputs" mapstructure:"inputs"`
	Cluster ClusterConfig `yaml:"cluster" mapstructure:"cluster"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Geo     GeoConfig     `yaml:"geo" mapstructure:"geo"`
	Aliases AliasConfig   `yaml:"aliases" mapstructure:"aliases"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// IndicatorInput describes one indicator source file. Year 0 selects the
// latest year common to all configured sources.
type IndicatorInput struct {
	Path        string `yaml:"path" mapstructure:"path"`
	Year        int    `yaml:"year" mapstructure:"year"`
	ValueColumn string `yaml:"value_column" mapstructure:"value_column"`
}

// InputsConfig names the indicator datasets. Fertility is optional: an
// empty path skips the indicator entirely, a missing file is counted,
// not fatal.
type InputsConfig struct {
	CO2       IndicatorInput `yaml:"co2" mapstructure:"co2"`
	Poverty   IndicatorInput `yaml:"poverty" mapstructure:"poverty"`
	Revenue   IndicatorInput `yaml:"revenue" mapstructure:"revenue"`
	Fertility IndicatorInput `yaml:"fertility" mapstructure:"fertility"`
}

// ClusterConfig configures k-means. Seed is fixed by default so repeated
// runs over identical inputs produce byte-identical exports.
type ClusterConfig struct {
	K             int   `yaml:"k" mapstructure:"k"`
	Seed          int64 `yaml:"seed" mapstructure:"seed"`
	MaxIterations int   `yaml:"max_iterations" mapstructure:"max_iterations"`
}

// OutputConfig configures artifact placement.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// GeoConfig configures the optional world-boundaries shapefile used to
// decide which countries the choropleth can place.
type GeoConfig struct {
	BoundariesPath string `yaml:"boundaries_path" mapstructure:"boundaries_path"`
	NameField      string `yaml:"name_field" mapstructure:"name_field"`
}

// AliasConfig points at an optional YAML file of extra country aliases.
type AliasConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the run registry database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("inputs.co2.path", "co2_emissions.csv")
	v.SetDefault("inputs.co2.value_column", "co2_per_capita")
	v.SetDefault("inputs.poverty.path", "poverty.csv")
	v.SetDefault("inputs.poverty.value_column", "extreme_poverty_share")
	v.SetDefault("inputs.revenue.path", "revenue_gap.csv")
	v.SetDefault("inputs.revenue.value_column", "revenue_gap_pct")
	v.SetDefault("inputs.fertility.value_column", "fertility_rate")
	v.SetDefault("cluster.k", 4)
	v.SetDefault("cluster.seed", 42)
	v.SetDefault("cluster.max_iterations", 100)
	v.SetDefault("output.dir", "output")
	v.SetDefault("geo.name_field", "NAME")
	v.SetDefault("store.path", "cfi_runs.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
