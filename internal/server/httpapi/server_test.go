package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mkravets/vaultapi/internal/common"
	"github.com/mkravets/vaultapi/internal/cryptox"
	"github.com/mkravets/vaultapi/internal/dbx"
	"github.com/mkravets/vaultapi/internal/logging"
	"github.com/mkravets/vaultapi/internal/server/auth"
	"github.com/mkravets/vaultapi/internal/server/config"
	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/repositories/items"
	"github.com/mkravets/vaultapi/internal/server/repositories/repomanager"
	usersrepo "github.com/mkravets/vaultapi/internal/server/repositories/users"
	"github.com/mkravets/vaultapi/internal/server/services"
)

// In-memory repositories backing the handler tests. The services under test
// are real; only the storage layer is faked.

type memUsersRepo struct {
	nextID  int64
	byEmail map[string]*models.User
	byID    map[int64]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{nextID: 1, byEmail: map[string]*models.User{}, byID: map[int64]*models.User{}}
}

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = r.nextID
	r.nextID++
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return u, nil
}

func (r *memUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUsersRepo) Delete(ctx context.Context, id int64) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

type memItemsRepo[T models.VaultItem] struct {
	records []*T
}

func (r *memItemsRepo[T]) TitleExists(ctx context.Context, ownerID int64, title string) (bool, error) {
	for _, rec := range r.records {
		if (*rec).OwnerID() == ownerID && (*rec).ItemTitle() == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *memItemsRepo[T]) Create(ctx context.Context, item *T) error {
	r.records = append(r.records, item)
	return nil
}

func (r *memItemsRepo[T]) FindAllByOwner(ctx context.Context, ownerID int64) ([]*T, error) {
	var out []*T
	for _, rec := range r.records {
		if (*rec).OwnerID() == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memItemsRepo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	for _, rec := range r.records {
		if (*rec).ItemID() == id {
			return rec, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memItemsRepo[T]) Delete(ctx context.Context, id string) error {
	for i, rec := range r.records {
		if (*rec).ItemID() == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memItemsRepo[T]) DeleteAllByOwner(ctx context.Context, ownerID int64) error {
	var kept []*T
	for _, rec := range r.records {
		if (*rec).OwnerID() != ownerID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

type memRepoManager struct {
	users *memUsersRepo
	cards *memItemsRepo[models.Card]
	creds *memItemsRepo[models.Credential]
	notes *memItemsRepo[models.Note]
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users: newMemUsersRepo(),
		cards: &memItemsRepo[models.Card]{},
		creds: &memItemsRepo[models.Credential]{},
		notes: &memItemsRepo[models.Note]{},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *memRepoManager) Cards(db dbx.DBTX) items.Repository[models.Card] {
	return m.cards
}
func (m *memRepoManager) Credentials(db dbx.DBTX) items.Repository[models.Credential] {
	return m.creds
}
func (m *memRepoManager) Notes(db dbx.DBTX) items.Repository[models.Note] {
	return m.notes
}

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

const testSecretKey = "test-jwt-secret"

type testEnv struct {
	server *Server
	rm     *memRepoManager
	mock   sqlmock.Sqlmock
	cipher *cryptox.Cipher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rm := newMemRepoManager()
	cipher := cryptox.New("test-encryption-secret")
	cfg := &config.Config{SecretKey: testSecretKey, TokenValidityDuration: time.Hour}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := NewServer(
		":0",
		logger,
		services.NewUserService(db, rm, cfg),
		services.NewCardService(db, rm, cipher),
		services.NewCredentialService(db, rm, cipher),
		services.NewNoteService(db, rm, cipher),
		services.NewEraseService(db, rm),
		testSecretKey,
	)

	return &testEnv{server: srv, rm: rm, mock: mock, cipher: cipher}
}

// signUpUser seeds an account directly and returns a valid access token.
func (e *testEnv) signUpUser(t *testing.T, email, password string) (int64, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	u, err := e.rm.users.Create(context.Background(), &models.User{Email: email, EncryptedPassword: hash})
	if err != nil {
		t.Fatalf("seed user error: %v", err)
	}

	token, err := auth.GenerateToken(models.Identity{ID: u.ID, Email: u.Email}, []byte(testSecretKey), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return u.ID, token
}
