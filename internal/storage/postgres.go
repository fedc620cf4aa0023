package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/teampulse/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the config as a lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(ctx context.Context, config DatabaseConfig) (*PostgresStorage, error) {
	return openPostgres(ctx, config.DSN())
}

func openPostgres(ctx context.Context, dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema(ctx context.Context) error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_name, text, type, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.User, msg.Text, msg.Type, msg.Time); err != nil {
		return fmt.Errorf("error inserting message: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	query := `
		SELECT id, user_name, text, type, created_at
		FROM chat_messages
		ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.User, &msg.Text, &msg.Type, &msg.Time); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		msg.Time = msg.Time.UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func (s *PostgresStorage) SetCommitment(ctx context.Context, user string, c models.Commitment) error {
	query := `
		INSERT INTO commitments (user_name, message, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_name) DO UPDATE
		SET message = EXCLUDED.message, created_at = EXCLUDED.created_at`

	if _, err := s.db.ExecContext(ctx, query, user, c.Message, c.Time); err != nil {
		return fmt.Errorf("error upserting commitment: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Commitments(ctx context.Context) (map[string]models.Commitment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_name, message, created_at FROM commitments`)
	if err != nil {
		return nil, fmt.Errorf("error querying commitments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.Commitment)
	for rows.Next() {
		var (
			user string
			c    models.Commitment
		)
		if err := rows.Scan(&user, &c.Message, &c.Time); err != nil {
			return nil, fmt.Errorf("error scanning commitment: %w", err)
		}
		c.Time = c.Time.UTC()
		out[user] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commitments: %w", err)
	}

	return out, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
