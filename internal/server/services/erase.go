package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkravets/vaultapi/internal/common"
	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/server/auth"
	"github.com/mkravets/vaultapi/internal/server/repositories/repomanager"
)

// EraseService permanently removes an account and everything it owns.
type EraseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewEraseService constructs an EraseService.
func NewEraseService(db *sql.DB, m repomanager.RepositoryManager) *EraseService {
	return &EraseService{db: db, repomanager: m}
}

// Erase re-verifies the caller's password and then deletes all cards,
// credentials, notes and finally the user row in one transaction: either
// every row goes or none do. The user id comes from the validated token,
// never from the request body. A wrong password yields ErrorUnauthorized
// and deletes nothing.
func (s *EraseService) Erase(ctx context.Context, userID int64, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.EncryptedPassword, password) {
		return "", common.ErrorUnauthorized
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Cards(tx).DeleteAllByOwner(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Credentials(tx).DeleteAllByOwner(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Notes(tx).DeleteAllByOwner(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		return "", fmt.Errorf("error erasing user data: %w", err)
	}

	return "User data successfully deleted.", nil
}
