package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/repositories/items"
	"github.com/mkravets/vaultapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cards(db dbx.DBTX) items.Repository[models.Card]
	Credentials(db dbx.DBTX) items.Repository[models.Credential]
	Notes(db dbx.DBTX) items.Repository[models.Note]
}
