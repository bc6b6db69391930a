package config

import (
	"github.com/spf13/viper"

	aws_handler "ledger/src/utils/aws"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServiceConfig struct {
	Port string `mapstructure:"port"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	Database   int    `mapstructure:"database"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
}

type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	IntegrityCron string `mapstructure:"integrityCron"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	// DBPasswordSecret names a Secrets Manager entry that overrides
	// databases.sql.password when set.
	DBPasswordSecret string `mapstructure:"dbPasswordSecret"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	viper.AddConfigPath(path)
	viper.SetConfigName("appsettings")
	viper.SetConfigType("yaml")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if err := resolveSecrets(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveSecrets(cfg *Config) error {
	if cfg.AWS.DBPasswordSecret == "" {
		return nil
	}
	handler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
	if err != nil {
		return err
	}
	password, err := handler.SecretManager.GetSecretValue(cfg.AWS.DBPasswordSecret)
	if err != nil {
		return err
	}
	cfg.Databases.SQL.Password = password
	return nil
}
