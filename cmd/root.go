package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chrisdamba/foodreview/internal/logging"
	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/chrisdamba/foodreview/internal/repositories"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
)

// flag names that differ from their config key
var flagKeys = map[string]string{
	"out":    "input_file",
	"count":  "order_count",
	"format": "output_format",
	"bucket": "cloud_storage.bucket_name",
}

var rootCmd = &cobra.Command{
	Use:   "foodreview",
	Short: "Builds yearly reviews of food delivery order histories",
	Long: `foodreview reads a user's order history from a food delivery platform export and
produces a yearly review: spend, extreme orders, favourite dishes, restaurants, cities
and the busiest ordering hours.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd.Flags())

		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return logging.Init(cfg.Verbose, cfg.LogsFolder)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.foodreview.yaml)")

	rootCmd.PersistentFlags().String("provider", "swiggy", "Provider key the orders are stored under")
	rootCmd.PersistentFlags().String("source", "file", "Order store: file, postgres or s3")
	rootCmd.PersistentFlags().String("input-file", "orders.json", "JSON order export used by the file source")
	rootCmd.PersistentFlags().String("bucket", "", "S3 bucket for the s3 source and parquet output")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("logs-folder", "", "Also write logs to a rotating file in this folder")
}

func initConfig() {
	// a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".foodreview")
	}
}

// bindFlags binds the running command's flags, persistent ones included, to
// their config keys. Only flags set on the command line override the config.
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if alias, ok := flagKeys[key]; ok {
			// an unset alias must not shadow the flag it stands in for
			if !f.Changed && flags.Lookup(strings.ReplaceAll(alias, "_", "-")) != nil {
				return
			}
			key = alias
		}
		cobra.CheckErr(viper.BindPFlag(key, f))
	})
}

// fetchOrders loads the configured provider's orders. ok is false when the
// store holds nothing for the provider.
func fetchOrders(ctx context.Context) ([]models.Order, bool, error) {
	provider, closeFn, err := repositories.NewOrderProvider(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	defer closeFn()

	orders, ok, err := provider.Fetch(ctx, cfg.Provider)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s orders: %w", cfg.Provider, err)
	}
	return orders, ok, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
