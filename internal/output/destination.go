package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrisdamba/foodreview/internal/models"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	out *os.File
}

func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{out: os.Stdout}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	// Create a formatted string that includes the topic
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))

	_, err := c.out.Write([]byte(output))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	// Try to sync, but don't return an error if it fails
	_ = c.out.Sync()

	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// NewDestination picks the report destination from cfg.OutputFormat.
func NewDestination(ctx context.Context, cfg *models.Config) (Destination, error) {
	switch cfg.OutputFormat {
	case "", "console":
		return NewConsoleOutput(), nil
	case "json":
		return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "csv":
		return NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "parquet":
		p, err := NewParquetOutput(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "kafka":
		k, err := NewKafkaOutput(cfg)
		if err != nil {
			return nil, err
		}
		return k, nil
	case "postgres":
		p, err := NewPostgresOutput(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

// partitionYear reads the year a row belongs to.
func partitionYear(msg []byte) (map[string]interface{}, int, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return nil, 0, err
	}

	year, ok := event["year"].(float64)
	if !ok {
		return nil, 0, fmt.Errorf("invalid year")
	}
	return event, int(year), nil
}

func partitionPath(year int) string {
	return fmt.Sprintf("year=%04d", year)
}
