package cmd

import (
	"fmt"
	"os"

	"github.com/paykiosk/paykiosk/internal/models"
	"github.com/paykiosk/paykiosk/internal/simulator"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "paykiosk",
	Short: "Self-service ordering kiosk engine with QR wallet checkout",
	Long: `paykiosk runs the merchant kiosk ordering engine: catalog browsing with
modifier selection, cart pricing with automatic discounts and coupon codes, and a
QR-code checkout flow that polls the payment portal until the order is paid.
Without a live backend it simulates seeded customer sessions end to end.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		sim := simulator.NewSimulator(cfg)
		if err := sim.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.paykiosk.yaml)")

	rootCmd.Flags().Int("seed", 42, "Random seed for simulated sessions")
	rootCmd.Flags().String("merchant-wallet", "", "Merchant wallet address used for order auth and the portal link")
	rootCmd.Flags().String("shop-slug", "", "Shop slug sent with order submissions")
	rootCmd.Flags().String("portal-origin", "https://pay.example.com", "Origin for the payment portal deep link")
	rootCmd.Flags().String("backend-url", "", "Base URL of the merchant backend (empty runs the in-memory stub)")
	rootCmd.Flags().String("currency", "USD", "Currency code for payment checks")
	rootCmd.Flags().Duration("poll-interval", models.DefaultPollInterval, "Payment status polling interval")
	rootCmd.Flags().Duration("reset-delay", models.DefaultResetDelay, "Delay before the kiosk auto-resets after payment")
	rootCmd.Flags().Int("sessions", 25, "Number of simulated kiosk sessions")
	rootCmd.Flags().Int("catalog-size", 40, "Number of generated catalog items per simulated shop")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka telemetry output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("output-format", "", "Telemetry archive format: json, parquet")
	rootCmd.Flags().String("output-path", "", "Telemetry archive base path")
	rootCmd.Flags().String("postgres-dsn", "", "Postgres DSN for the order journal (empty disables journaling)")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".paykiosk")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
