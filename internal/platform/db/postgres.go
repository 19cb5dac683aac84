package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed schema.sql
var schemaSQL string

// Postgres wraps DB connectivity.
type Postgres struct {
	DB *gorm.DB
}

func Connect(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// ApplySchema creates the governance tables if they are missing. Every
// statement is idempotent, so it is safe on every deploy.
func (p *Postgres) ApplySchema(ctx context.Context) error {
	if p == nil || p.DB == nil {
		return errors.New("postgres is not connected")
	}
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, statement := range SchemaStatements() {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("apply governance schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// SchemaStatements splits the embedded DDL into single statements.
func SchemaStatements() []string {
	parts := strings.Split(schemaSQL, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if hasSQL(part) {
			statements = append(statements, strings.TrimSpace(part))
		}
	}
	return statements
}

func hasSQL(chunk string) bool {
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
