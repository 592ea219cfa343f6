// Package config loads terminal configuration from the environment, with a
// .env file for local development.
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config carries everything the cashier terminal needs to connect.
type Config struct {
	APIBaseURL      string
	NATSURL         string
	OutletCode      string
	Timezone        string
	HistoryPageSize int
	LogLevel        string
	Username        string
	Password        string
}

// Load reads the .env file when present, then the environment. Every key
// has a default so a bare environment still yields a usable config.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("no .env file, using environment: %v", err)
	}

	viper.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("OUTLET_CODE", "")
	viper.SetDefault("TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("HISTORY_PAGE_SIZE", 50)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CASHIER_USERNAME", "")
	viper.SetDefault("CASHIER_PASSWORD", "")

	return &Config{
		APIBaseURL:      viper.GetString("API_BASE_URL"),
		NATSURL:         viper.GetString("NATS_URL"),
		OutletCode:      viper.GetString("OUTLET_CODE"),
		Timezone:        viper.GetString("TIMEZONE"),
		HistoryPageSize: viper.GetInt("HISTORY_PAGE_SIZE"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		Username:        viper.GetString("CASHIER_USERNAME"),
		Password:        viper.GetString("CASHIER_PASSWORD"),
	}
}
