package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MigrationsConfig MigrationsConfig
type MigrationsConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type CorsConfig struct {
	Origin []string `yaml:"origin" mapstructure:"origin"`
}

type PublicRestConfig struct {
	Listen string     `yaml:"listen" mapstructure:"listen"`
	Cors   CorsConfig `yaml:"cors"   mapstructure:"cors"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// Config Application config definition
type Config struct {
	GinMode        string           `yaml:"gin-mode"        mapstructure:"gin-mode"`
	DSN            string           `yaml:"dsn"             mapstructure:"dsn"`
	Migrations     MigrationsConfig `yaml:"migrations"      mapstructure:"migrations"`
	PublicRest     PublicRestConfig `yaml:"public-rest"     mapstructure:"public-rest"`
	Metrics        MetricsConfig    `yaml:"metrics"         mapstructure:"metrics"`
	TrustedNetwork string           `yaml:"trusted-network" mapstructure:"trusted-network"`
}

// LoadConfig reads config.yaml from path, with STRAWPOLL_* env overrides.
func LoadConfig(path string) Config {
	cfg := Config{}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("STRAWPOLL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	return cfg
}

// ValidateConfig ValidateConfig
func ValidateConfig(config Config) {
	if config.DSN == "" {
		logrus.Fatal("DSN not provided")
	}

	if config.PublicRest.Listen == "" {
		logrus.Fatal("public-rest.listen not provided")
	}
}
