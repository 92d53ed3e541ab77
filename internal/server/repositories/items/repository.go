package items

import (
	"context"

	"github.com/mkravets/vaultapi/internal/server/models"
)

// Repository is the ownership-scoped store contract shared by all vault item
// types. Ownership checks themselves live in the service layer; the store
// only exposes the primitives they are built from.
type Repository[T models.VaultItem] interface {
	TitleExists(ctx context.Context, ownerID int64, title string) (bool, error)
	Create(ctx context.Context, item *T) error
	FindAllByOwner(ctx context.Context, ownerID int64) ([]*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Delete(ctx context.Context, id string) error
	DeleteAllByOwner(ctx context.Context, ownerID int64) error
}
