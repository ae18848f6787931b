package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// DefaultPollInterval is how often the checkout screen asks the backend
	// whether the displayed QR code has been paid.
	DefaultPollInterval = 7 * time.Second

	// DefaultResetDelay is how long the "payment successful" screen stays up
	// before the kiosk returns to browsing for the next customer.
	DefaultResetDelay = 15 * time.Second
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	Seed           int           `mapstructure:"seed"`
	MerchantWallet string        `mapstructure:"merchant_wallet"`
	ShopSlug       string        `mapstructure:"shop_slug"`
	PortalOrigin   string        `mapstructure:"portal_origin"`
	BackendURL     string        `mapstructure:"backend_url"`
	Currency       string        `mapstructure:"currency"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ResetDelay     time.Duration `mapstructure:"reset_delay"`
	// Simulation fields
	Sessions    int `mapstructure:"sessions"`
	CatalogSize int `mapstructure:"catalog_size"`
	// Telemetry and persistence fields
	KafkaEnabled    bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	OutputFormat    string             `mapstructure:"output_format"`
	OutputPath      string             `mapstructure:"output_path"`
	OutputFolder    string             `mapstructure:"output_folder"`
	PostgresDSN     string             `mapstructure:"postgres_dsn"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("currency", "USD")
	viper.SetDefault("portal_origin", "https://pay.example.com")
	viper.SetDefault("poll_interval", DefaultPollInterval)
	viper.SetDefault("reset_delay", DefaultResetDelay)
	viper.SetDefault("sessions", 25)
	viper.SetDefault("catalog_size", 40)
	viper.SetDefault("output_folder", "kiosk_events")

	if err := viper.ReadInConfig(); err != nil {
		// The kiosk runs fine on flags and defaults alone
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
