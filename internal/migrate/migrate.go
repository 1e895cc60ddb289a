package migrate

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs the order ledger migrations up using the embedded migration files.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return errors.Wrap(err, "init iofs")
	}

	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return errors.Wrap(err, "open sql db")
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping sql db")
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "printshop_schema_migrations"})
	if err != nil {
		return errors.Wrap(err, "init db driver")
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "pgx", dbDriver)
	if err != nil {
		return errors.Wrap(err, "init migrate")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(err, "migrate up (every version needs both .up.sql and .down.sql)")
		}
		return errors.Wrap(err, "migrate up")
	}
	return nil
}
