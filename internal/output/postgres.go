package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/chrisdamba/foodreview/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewSchema = `
	CREATE TABLE IF NOT EXISTS fact_year_summary (
		provider                   TEXT NOT NULL,
		year                       INT NOT NULL,
		total_orders               INT NOT NULL,
		total_cost_spent           DOUBLE PRECISION NOT NULL,
		average_order_cost         TEXT NOT NULL,
		most_expensive_cost        DOUBLE PRECISION NOT NULL,
		most_expensive_restaurant  TEXT NOT NULL,
		least_expensive_cost       DOUBLE PRECISION NOT NULL,
		least_expensive_restaurant TEXT NOT NULL,
		total_restaurants          INT NOT NULL,
		all_cities                 TEXT NOT NULL,
		skipped_orders             INT NOT NULL DEFAULT 0,
		generated_at               BIGINT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS fact_ranking_entry (
		provider  TEXT NOT NULL,
		year      INT NOT NULL,
		dimension TEXT NOT NULL,
		rank      INT NOT NULL,
		name      TEXT NOT NULL,
		hour      INT,
		count     INT NOT NULL
	);
`

type PostgresOutput struct {
	pool *pgxpool.Pool
	ctx  context.Context
}

func NewPostgresOutput(ctx context.Context, config models.DatabaseConfig) (*PostgresOutput, error) {
	pool, err := postgres.Connect(ctx, config)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, reviewSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create review tables: %w", err)
	}

	return &PostgresOutput{pool: pool, ctx: ctx}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	event, err := decodeColumns(msg)
	if err != nil {
		return err
	}

	table, err := topicToTable(topic)
	if err != nil {
		return err
	}

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		cols,
		placeholders,
	)

	if _, err := p.pool.Exec(p.ctx, query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}

func topicToTable(topic string) (string, error) {
	tableMap := map[string]string{
		SummaryTopic: "fact_year_summary",
		RankingTopic: "fact_ranking_entry",
	}

	if table, ok := tableMap[topic]; ok {
		return table, nil
	}
	return "", fmt.Errorf("no table for topic %s", topic)
}

// decodeColumns keeps integral JSON numbers as int64 so they bind to INT columns.
func decodeColumns(msg []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var event map[string]interface{}
	if err := dec.Decode(&event); err != nil {
		return nil, err
	}
	for key, value := range event {
		n, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			event[key] = i
		} else if f, err := n.Float64(); err == nil {
			event[key] = f
		} else {
			return nil, fmt.Errorf("invalid number in column %s: %w", key, err)
		}
	}
	return event, nil
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	// get sorted keys to ensure consistent order
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))
	for i, key := range keys {
		columns = append(columns, snakeCaseKey(key))
		values = append(values, event[key])
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	return strings.Join(columns, ", "), values, strings.Join(placeholders, ", ")
}

func snakeCaseKey(key string) string {
	var result strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
