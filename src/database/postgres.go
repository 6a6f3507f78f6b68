package database

import (
	"context"
	"fmt"

	"github.com/ryanuo/aug-calc/src/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SecretReader resolves a secret id to its value.
type SecretReader interface {
	GetSecretValue(ctx context.Context, secretID string) (string, error)
}

// ResolvePassword returns the configured password, or the value of
// passwordSecretId when one is set.
func ResolvePassword(ctx context.Context, cfg config.SQLConfig, secrets SecretReader) (string, error) {
	if cfg.PasswordSecretID == "" {
		return cfg.Password, nil
	}
	if secrets == nil {
		return "", fmt.Errorf("databases.sql.passwordSecretId is set but no secret reader is available")
	}
	return secrets.GetSecretValue(ctx, cfg.PasswordSecretID)
}

// PostgresDSN builds a DSN unless connection_string is set.
func PostgresDSN(cfg config.SQLConfig, password string) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host,
		cfg.Username,
		password,
		cfg.Database,
		cfg.Port)
}

func SetupDB(ctx context.Context, cfg *config.Config, secrets SecretReader) (*pgxpool.Pool, error) {
	password, err := ResolvePassword(ctx, cfg.Databases.SQL, secrets)
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg.Databases.SQL, password))
	if err != nil {
		return nil, err
	}
	if cfg.Databases.SQL.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Databases.SQL.MaxConns
	}
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}
