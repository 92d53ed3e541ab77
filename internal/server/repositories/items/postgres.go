// Package items provides a single PostgreSQL-backed repository generic over
// the vault item types. Column mapping comes from the models.Descriptor for
// each type, so cards, credentials and notes share one implementation
// instead of three near-identical copies.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mkravets/vaultapi/internal/common"
	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/server/models"
)

// PostgresRepository implements Repository[T] over a dbx.DBTX
// (*sql.DB or *sql.Tx). Queries are rendered once at construction.
type PostgresRepository[T models.VaultItem] struct {
	db   dbx.DBTX
	spec models.Descriptor[T]

	insertQuery      string
	selectByOwner    string
	selectByID       string
	titleExistsQuery string
}

// NewPostgresRepository constructs a repository for the item type described
// by spec, bound to the given DBTX.
func NewPostgresRepository[T models.VaultItem](db dbx.DBTX, spec models.Descriptor[T]) *PostgresRepository[T] {
	cols := strings.Join(spec.Columns, ", ")

	return &PostgresRepository[T]{
		db:   db,
		spec: spec,
		insertQuery: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			spec.Table, cols, placeholders(len(spec.Columns))),
		selectByOwner: fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at, id`,
			cols, spec.Table),
		selectByID: fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
			cols, spec.Table),
		titleExistsQuery: fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND title = $2)`,
			spec.Table),
	}
}

func placeholders(n int) string {
	b := &strings.Builder{}
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "$%d", i)
	}
	return b.String()
}

// TitleExists reports whether the owner already has an item with this title.
func (r *PostgresRepository[T]) TitleExists(ctx context.Context, ownerID int64, title string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, r.titleExistsQuery, ownerID, title).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Create persists an item. Sensitive fields must already be ciphertext;
// encryption happens in the service layer, not here.
func (r *PostgresRepository[T]) Create(ctx context.Context, item *T) error {
	if _, err := r.db.ExecContext(ctx, r.insertQuery, r.spec.Args(item)...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindAllByOwner returns every item belonging to ownerID, oldest first.
func (r *PostgresRepository[T]) FindAllByOwner(ctx context.Context, ownerID int64) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx, r.selectByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*T
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(r.spec.Dest(item)...); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// FindByID looks an item up by id alone; ownership is checked by the caller.
func (r *PostgresRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	item := new(T)
	err := r.db.QueryRowContext(ctx, r.selectByID, id).Scan(r.spec.Dest(item)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Delete removes an item by id. Missing rows yield ErrorNotFound.
func (r *PostgresRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.spec.Table)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteAllByOwner removes every item belonging to ownerID. Zero rows is not
// an error; the account-erasure cascade calls this for owners without items.
func (r *PostgresRepository[T]) DeleteAllByOwner(ctx context.Context, ownerID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.spec.Table)

	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
