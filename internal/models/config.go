package models

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type MenuDish struct {
	Name string `mapstructure:"name"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
	Prefix     string `mapstructure:"prefix"`
}

type Config struct {
	// input
	Provider  string `mapstructure:"provider"` // storage bucket name, e.g. "swiggy" or "zomato"
	Source    string `mapstructure:"source"`   // "file", "postgres" or "s3"
	InputFile string `mapstructure:"input_file"`
	Year      int    `mapstructure:"year"` // 0 selects the most recent year
	AllYears  bool   `mapstructure:"all_years"`

	// output
	OutputFormat     string `mapstructure:"output_format"` // "console", "json", "csv", "parquet", "kafka"
	OutputPath       string `mapstructure:"output_path"`
	OutputFolder     string `mapstructure:"output_folder"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix string `mapstructure:"kafka_topic_prefix"`

	Database     DatabaseConfig     `mapstructure:"database"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`

	// generator
	Seed       int64      `mapstructure:"seed"`
	OrderCount int        `mapstructure:"order_count"`
	StartDate  time.Time  `mapstructure:"start_date"`
	EndDate    time.Time  `mapstructure:"end_date"`
	CityNames  []string   `mapstructure:"city_names"`
	MenuDishes []MenuDish `mapstructure:"menu_dishes"`
	MinOrder   float64    `mapstructure:"min_order_total"`
	MaxOrder   float64    `mapstructure:"max_order_total"`

	Verbose    bool   `mapstructure:"verbose"`
	LogsFolder string `mapstructure:"logs_folder"`
}

func setDefaults(v *viper.Viper) {
	now := time.Now()
	v.SetDefault("provider", "swiggy")
	v.SetDefault("source", "file")
	v.SetDefault("input_file", "orders.json")
	v.SetDefault("output_format", "console")
	v.SetDefault("output_path", ".")
	v.SetDefault("output_folder", "reviews")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("cloud_storage.provider", "s3")
	v.SetDefault("cloud_storage.region", "us-east-1")
	v.SetDefault("cloud_storage.bucket_name", "")
	v.SetDefault("cloud_storage.prefix", "")
	v.SetDefault("seed", 42)
	v.SetDefault("order_count", 500)
	v.SetDefault("start_date", now.AddDate(-2, 0, 0).Format(time.RFC3339))
	v.SetDefault("end_date", now.Format(time.RFC3339))
	v.SetDefault("min_order_total", 80.0)
	v.SetDefault("max_order_total", 1500.0)
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetEnvPrefix("foodreview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv() // Read in environment variables that match
	_ = v.BindEnv("database.url", "FOODREVIEW_DATABASE_URL", "DATABASE_URL")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default config file is fine, an explicit one is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// LoadMenuDishData appends dish names from a CSV catalogue whose second column is the name.
func (cfg *Config) LoadMenuDishData(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read dish header: %w", err)
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimSpace(fields[1])
		if name == "" {
			continue
		}
		cfg.MenuDishes = append(cfg.MenuDishes, MenuDish{Name: name})
	}

	return nil
}
