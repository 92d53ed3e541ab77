// Package services contains server-side business logic. This file implements
// the generic vault service: encrypt-on-write, ownership-scoped access, and
// the decrypt-on-read pipeline shared by cards, credentials and notes.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkravets/vaultapi/internal/common"
	"github.com/mkravets/vaultapi/internal/cryptox"
	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/repositories/items"
	"github.com/mkravets/vaultapi/internal/server/repositories/repomanager"
)

// decryptWorkers bounds concurrent KDF runs while decrypting a list; scrypt
// is deliberately expensive, so unbounded fan-out would thrash memory.
const decryptWorkers = 8

// Codec converts between a persisted record type T and its plaintext view V.
// Seal encrypts the sensitive inputs; Open decrypts a stored record.
type Codec[T models.VaultItem, V any] struct {
	Kind      string // lower-case name used in messages and errors
	KindTitle string // capitalized name for acknowledgment messages
	Title     func(in V) string
	Seal      func(c *cryptox.Cipher, ownerID int64, id string, in V) (*T, error)
	Open      func(c *cryptox.Cipher, rec *T) (V, error)
}

// DecryptFailure is the descriptor substituted for a list entry whose
// envelope could not be decrypted.
type DecryptFailure struct {
	Message string `json:"message"`
}

// ListEntry is either a decrypted view or a failure descriptor, never both.
type ListEntry[V any] struct {
	View    *V
	Failure *DecryptFailure
}

// MarshalJSON renders the view directly, or the failure descriptor when the
// record could not be decrypted.
func (e ListEntry[V]) MarshalJSON() ([]byte, error) {
	if e.Failure != nil {
		return json.Marshal(e.Failure)
	}
	return json.Marshal(e.View)
}

// VaultService implements the ownership-scoped operations for one vault item
// type. All three resource types are instances of this one implementation.
type VaultService[T models.VaultItem, V any] struct {
	db     *sql.DB
	repo   func(db dbx.DBTX) items.Repository[T]
	cipher *cryptox.Cipher
	codec  Codec[T, V]
}

// NewCardService constructs the vault service for cards.
func NewCardService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *VaultService[models.Card, CardView] {
	return &VaultService[models.Card, CardView]{db: db, repo: m.Cards, cipher: cipher, codec: cardCodec}
}

// NewCredentialService constructs the vault service for credentials.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *VaultService[models.Credential, CredentialView] {
	return &VaultService[models.Credential, CredentialView]{db: db, repo: m.Credentials, cipher: cipher, codec: credentialCodec}
}

// NewNoteService constructs the vault service for notes.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *VaultService[models.Note, NoteView] {
	return &VaultService[models.Note, NoteView]{db: db, repo: m.Notes, cipher: cipher, codec: noteCodec}
}

// Kind returns the lower-case resource name ("card").
func (s *VaultService[T, V]) Kind() string { return s.codec.Kind }

// Create checks title uniqueness for the owner, encrypts the sensitive
// fields, persists the record, and returns an acknowledgment message.
// The check-then-insert sequence is not serialized against concurrent
// creates; a racing duplicate is an accepted limitation.
func (s *VaultService[T, V]) Create(ctx context.Context, ownerID int64, in V) (string, error) {
	repo := s.repo(s.db)
	title := s.codec.Title(in)

	taken, err := repo.TitleExists(ctx, ownerID, title)
	if err != nil {
		return "", fmt.Errorf("error checking %s title: %w", s.codec.Kind, err)
	}
	if taken {
		return "", common.ErrorAlreadyExists
	}

	rec, err := s.codec.Seal(s.cipher, ownerID, uuid.NewString(), in)
	if err != nil {
		return "", fmt.Errorf("error encrypting %s: %w", s.codec.Kind, err)
	}

	if err := repo.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("error creating %s: %w", s.codec.Kind, err)
	}

	return fmt.Sprintf("%s '%s' successfully registered.", s.codec.KindTitle, title), nil
}

// List returns the owner's items as plaintext views, decrypting concurrently
// and reassembling in storage order. A record whose envelope fails to
// decrypt is replaced by a failure descriptor; the rest of the list is
// returned normally.
func (s *VaultService[T, V]) List(ctx context.Context, ownerID int64) ([]ListEntry[V], error) {
	recs, err := s.repo(s.db).FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing %ss: %w", s.codec.Kind, err)
	}

	entries := make([]ListEntry[V], len(recs))

	g := errgroup.Group{}
	g.SetLimit(decryptWorkers)
	for i, rec := range recs {
		g.Go(func() error {
			view, err := s.codec.Open(s.cipher, rec)
			if err != nil {
				entries[i] = ListEntry[V]{Failure: &DecryptFailure{
					Message: fmt.Sprintf("Failed to decrypt %s with title: %s", s.codec.Kind, (*rec).ItemTitle()),
				}}
				return nil
			}
			entries[i] = ListEntry[V]{View: &view}
			return nil
		})
	}
	// workers never return errors: failures are isolated per record
	_ = g.Wait()

	return entries, nil
}

// Get returns a single item as a plaintext view. Unlike List, a decryption
// failure here fails the whole request.
func (s *VaultService[T, V]) Get(ctx context.Context, id string, ownerID int64) (V, error) {
	var zero V

	rec, err := s.getOwned(ctx, s.repo(s.db), id, ownerID)
	if err != nil {
		return zero, err
	}

	view, err := s.codec.Open(s.cipher, rec)
	if err != nil {
		return zero, err
	}
	return view, nil
}

// Delete removes an owned item and returns an acknowledgment message.
// The ownership check and the delete run in one transaction.
func (s *VaultService[T, V]) Delete(ctx context.Context, id string, ownerID int64) (string, error) {
	var title string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		rec, err := s.getOwned(ctx, repo, id, ownerID)
		if err != nil {
			return err
		}
		title = (*rec).ItemTitle()

		return repo.Delete(ctx, id)
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s '%s' successfully removed.", s.codec.KindTitle, title), nil
}

// getOwned looks the record up by id, then verifies ownership: a missing row
// is ErrorNotFound, a row owned by someone else is ErrorForbidden. The
// requester never sees any field of a foreign record.
func (s *VaultService[T, V]) getOwned(ctx context.Context, repo items.Repository[T], id string, ownerID int64) (*T, error) {
	rec, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if (*rec).OwnerID() != ownerID {
		return nil, common.ErrorForbidden
	}

	return rec, nil
}

var cardCodec = Codec[models.Card, CardView]{
	Kind:      "card",
	KindTitle: "Card",
	Title:     func(in CardView) string { return in.Title },
	Seal: func(c *cryptox.Cipher, ownerID int64, id string, in CardView) (*models.Card, error) {
		number, err := c.Encrypt(in.CardNumber)
		if err != nil {
			return nil, err
		}
		cvc, err := c.Encrypt(in.CVC)
		if err != nil {
			return nil, err
		}
		password, err := c.Encrypt(in.Password)
		if err != nil {
			return nil, err
		}
		return &models.Card{
			ID:                id,
			UserID:            ownerID,
			Title:             in.Title,
			CardHolder:        in.CardHolder,
			ExpiryMonth:       in.ExpiryMonth,
			ExpiryYear:        in.ExpiryYear,
			IsVirtual:         in.IsVirtual,
			CardType:          in.CardType,
			EncryptedNumber:   number,
			EncryptedCVC:      cvc,
			EncryptedPassword: password,
		}, nil
	},
	Open: func(c *cryptox.Cipher, rec *models.Card) (CardView, error) {
		number, err := c.Decrypt(rec.EncryptedNumber)
		if err != nil {
			return CardView{}, err
		}
		cvc, err := c.Decrypt(rec.EncryptedCVC)
		if err != nil {
			return CardView{}, err
		}
		password, err := c.Decrypt(rec.EncryptedPassword)
		if err != nil {
			return CardView{}, err
		}
		return CardView{
			ID:          rec.ID,
			Title:       rec.Title,
			CardHolder:  rec.CardHolder,
			ExpiryMonth: rec.ExpiryMonth,
			ExpiryYear:  rec.ExpiryYear,
			IsVirtual:   rec.IsVirtual,
			CardType:    rec.CardType,
			CardNumber:  number,
			CVC:         cvc,
			Password:    password,
		}, nil
	},
}

var credentialCodec = Codec[models.Credential, CredentialView]{
	Kind:      "credential",
	KindTitle: "Credential",
	Title:     func(in CredentialView) string { return in.Title },
	Seal: func(c *cryptox.Cipher, ownerID int64, id string, in CredentialView) (*models.Credential, error) {
		password, err := c.Encrypt(in.Password)
		if err != nil {
			return nil, err
		}
		return &models.Credential{
			ID:                id,
			UserID:            ownerID,
			Title:             in.Title,
			URL:               in.URL,
			Username:          in.Username,
			EncryptedPassword: password,
		}, nil
	},
	Open: func(c *cryptox.Cipher, rec *models.Credential) (CredentialView, error) {
		password, err := c.Decrypt(rec.EncryptedPassword)
		if err != nil {
			return CredentialView{}, err
		}
		return CredentialView{
			ID:       rec.ID,
			Title:    rec.Title,
			URL:      rec.URL,
			Username: rec.Username,
			Password: password,
		}, nil
	},
}

var noteCodec = Codec[models.Note, NoteView]{
	Kind:      "note",
	KindTitle: "Note",
	Title:     func(in NoteView) string { return in.Title },
	Seal: func(c *cryptox.Cipher, ownerID int64, id string, in NoteView) (*models.Note, error) {
		text, err := c.Encrypt(in.Text)
		if err != nil {
			return nil, err
		}
		return &models.Note{
			ID:            id,
			UserID:        ownerID,
			Title:         in.Title,
			EncryptedText: text,
		}, nil
	},
	Open: func(c *cryptox.Cipher, rec *models.Note) (NoteView, error) {
		text, err := c.Decrypt(rec.EncryptedText)
		if err != nil {
			return NoteView{}, err
		}
		return NoteView{
			ID:    rec.ID,
			Title: rec.Title,
			Text:  text,
		}, nil
	},
}
