// Package output holds the database telemetry sink. Kiosk events land in
// per-topic fact tables keyed off the event's flat json shape, so adding a
// field to an event only needs a matching column.
package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

type PostgresOutput struct {
	db *sql.DB
}

func NewPostgresOutput(dsn string) (*PostgresOutput, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &PostgresOutput{db: db}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		cols,
		placeholders,
	)

	_, err := p.db.Exec(query, vals...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (p *PostgresOutput) Close() error {
	return p.db.Close()
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		"kiosk_order_submitted":   "fact_kiosk_order",
		"kiosk_checkout_failed":   "fact_checkout_failure",
		"kiosk_payment_confirmed": "fact_kiosk_payment",
		"kiosk_session_reset":     "fact_kiosk_session",
	}

	if table, ok := tableMap[topic]; ok {
		return table
	}
	return "fact_" + topic
}

// buildInsertComponents flattens an event map into a deterministic column
// list, value slice and placeholder string. Keys are sorted so the same event
// shape always produces the same statement text.
func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var columns []string
	var values []interface{}
	var placeholders []string

	for _, key := range keys {
		columns = append(columns, key)
		values = append(values, event[key])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(placeholders)+1))
	}

	return strings.Join(columns, ", "),
		values,
		strings.Join(placeholders, ", ")
}
