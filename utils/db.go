package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *sql.DB

// Outcome is the audit row written for every analysis. It never carries the
// transcript, the rendered prompt or the model's text.
type Outcome struct {
	RequestID       string    `json:"request_id"`
	Source          string    `json:"source"`
	Outcome         string    `json:"outcome"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	Status          int       `json:"status"`
	LatencyMS       int64     `json:"latency_ms"`
	Model           string    `json:"model,omitempty"`
	TranscriptBytes int       `json:"transcript_bytes"`
	CreatedAt       time.Time `json:"created_at"`
}

// InitDB initializes the PostgreSQL database connection
func InitDB(logger *zap.Logger) error {
	host := MustGetEnv("POSTGRES_HOST")
	port := GetEnvOrDefault("POSTGRES_PORT", "5432")
	user := MustGetEnv("POSTGRES_USER")
	password := MustGetEnv("POSTGRES_PASSWORD")
	dbname := MustGetEnv("POSTGRES_DB")
	sslmode := GetEnvOrDefault("POSTGRES_SSLMODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")

	return nil
}

// CreateSchema creates the necessary database tables if they don't exist
func CreateSchema(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}

	ctx := context.Background()

	_, err := DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS analysis_outcomes (
            id SERIAL PRIMARY KEY,
            request_id TEXT NOT NULL UNIQUE,
            source TEXT NOT NULL,
            outcome TEXT NOT NULL,
            error_kind TEXT,
            status INT NOT NULL,
            latency_ms BIGINT NOT NULL,
            model TEXT,
            transcript_bytes INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create analysis_outcomes table: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_outcomes_created_at ON analysis_outcomes(created_at);
        CREATE INDEX IF NOT EXISTS idx_outcomes_outcome ON analysis_outcomes(outcome);
    `)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info("Database schema created successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB(logger *zap.Logger) error {
	if DB != nil {
		logger.Info("Closing database connection")
		return DB.Close()
	}
	return nil
}

// OutcomeStore writes audit rows through the shared connection
type OutcomeStore struct{}

// RecordOutcome inserts o; a repeated request id is ignored
func (OutcomeStore) RecordOutcome(ctx context.Context, o Outcome) error {
	if DB == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}
	_, err := DB.ExecContext(ctx, `
        INSERT INTO analysis_outcomes (request_id, source, outcome, error_kind, status, latency_ms, model, transcript_bytes)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8)
        ON CONFLICT (request_id) DO NOTHING
    `, o.RequestID, o.Source, o.Outcome, o.ErrorKind, o.Status, o.LatencyMS, o.Model, o.TranscriptBytes)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns the newest rows first, optionally filtered by outcome
func ListOutcomes(ctx context.Context, outcome string, limit int) ([]Outcome, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is nil; call InitDB first")
	}
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	query := `SELECT request_id, source, outcome, COALESCE(error_kind, ''), status, latency_ms, COALESCE(model, ''), transcript_bytes, created_at
        FROM analysis_outcomes`
	args := []interface{}{}
	if outcome != "" {
		query += ` WHERE outcome = $1`
		args = append(args, outcome)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	out := make([]Outcome, 0)
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.RequestID, &o.Source, &o.Outcome, &o.ErrorKind, &o.Status, &o.LatencyMS, &o.Model, &o.TranscriptBytes, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
