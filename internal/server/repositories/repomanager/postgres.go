// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/server/migrations"
	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/repositories/items"
	"github.com/mkravets/vaultapi/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Cards returns the card store bound to the provided DBTX.
func (m *PostgresRepositoryManager) Cards(db dbx.DBTX) items.Repository[models.Card] {
	return items.NewPostgresRepository(db, models.CardSpec)
}

// Credentials returns the credential store bound to the provided DBTX.
func (m *PostgresRepositoryManager) Credentials(db dbx.DBTX) items.Repository[models.Credential] {
	return items.NewPostgresRepository(db, models.CredentialSpec)
}

// Notes returns the note store bound to the provided DBTX.
func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) items.Repository[models.Note] {
	return items.NewPostgresRepository(db, models.NoteSpec)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
