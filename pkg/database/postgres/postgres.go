package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgres opens a pooled connection through the pgx stdlib driver and pings it.
func NewPostgres(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func pgCode(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

// UniqueViolation reports whether err is a unique constraint failure and,
// if so, the name of the violated constraint.
func UniqueViolation(err error) (string, bool) {
	if pgErr, ok := pgCode(err, uniqueViolation); ok {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ForeignKeyViolation reports whether err is a foreign key failure, such as
// a RESTRICT delete of a referenced row, and the constraint name.
func ForeignKeyViolation(err error) (string, bool) {
	if pgErr, ok := pgCode(err, foreignKeyViolation); ok {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// InvalidInput reports whether postgres rejected a literal, typically an id
// that is not a UUID. Such an id cannot name any row.
func InvalidInput(err error) bool {
	_, ok := pgCode(err, invalidTextRepresentation)
	return ok
}

// MalformedID returns the first id that is not a UUID, or "" when all parse.
func MalformedID(ids ...string) string {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return id
		}
	}
	return ""
}
