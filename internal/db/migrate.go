package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations that match the connection's dialect.
func Migrate(ctx context.Context, dbConn *sqlx.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case DriverMySQL:
		dialect = goose.DialectMySQL
	case DriverPostgres:
		dialect = goose.DialectPostgres
	default:
		return fmt.Errorf("unsupported db driver %q", driver)
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, dbConn.DB, "migrations/"+driver); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
