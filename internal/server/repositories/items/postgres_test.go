package items

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkravets/vaultapi/internal/common"
	"github.com/mkravets/vaultapi/internal/server/models"
)

func newNoteRepoWithMock(t *testing.T) (*PostgresRepository[models.Note], sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db, models.NoteSpec), mock, db
}

func TestTitleExists_True(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+title\s*=\s*\$2\)\s*$`

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(q).
		WithArgs(int64(1), "Shopping list").
		WillReturnRows(rows)

	exists, err := repo.TitleExists(context.Background(), 1, "Shopping list")
	if err != nil {
		t.Fatalf("TitleExists error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists")
	}
}

func TestTitleExists_DBError(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+title\s*=\s*\$2\)\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(1), "Shopping list").
		WillReturnError(errors.New("db err"))

	_, err := repo.TitleExists(context.Background(), 1, "Shopping list")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestItemCreate_Success(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*title,\s*encrypted_text\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

	mock.ExpectExec(q).
		WithArgs("n-1", int64(1), "Shopping list", "aa:bb:cc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	note := &models.Note{ID: "n-1", UserID: 1, Title: "Shopping list", EncryptedText: "aa:bb:cc"}
	if err := repo.Create(context.Background(), note); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestItemCreate_DBError(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*`

	mock.ExpectExec(q).
		WillReturnError(errors.New("db down"))

	note := &models.Note{ID: "n-1", UserID: 1, Title: "Shopping list", EncryptedText: "aa:bb:cc"}
	err := repo.Create(context.Background(), note)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindAllByOwner_ReturnsRowsInOrder(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*encrypted_text\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "encrypted_text"}).
		AddRow("n-1", int64(1), "First", "aa:bb:11").
		AddRow("n-2", int64(1), "Second", "aa:bb:22")
	mock.ExpectQuery(q).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.FindAllByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindAllByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "n-1" || got[1].ID != "n-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFindAllByOwner_Empty(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*encrypted_text\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+`

	mock.ExpectQuery(q).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "encrypted_text"}))

	got, err := repo.FindAllByOwner(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindAllByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestFindByID_ReturnsRow(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*encrypted_text\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "encrypted_text"}).
		AddRow("n-1", int64(1), "First", "aa:bb:11")
	mock.ExpectQuery(q).
		WithArgs("n-1").
		WillReturnRows(rows)

	got, err := repo.FindByID(context.Background(), "n-1")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.ID != "n-1" || got.UserID != 1 {
		t.Fatalf("unexpected note: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*encrypted_text\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestItemDelete_Success(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "n-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestItemDelete_NoRows(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteAllByOwner_ZeroRowsIsNotError(t *testing.T) {
	repo, mock, db := newNoteRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteAllByOwner(context.Background(), 5); err != nil {
		t.Fatalf("DeleteAllByOwner error: %v", err)
	}
}

func TestCardSpec_ColumnPlumbing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db, models.CardSpec)

	q := `(?s)^INSERT\s+INTO\s+cards\s*\(id,\s*user_id,\s*title,\s*card_holder,\s*expiry_month,\s*expiry_year,\s*is_virtual,\s*card_type,\s*encrypted_number,\s*encrypted_cvc,\s*encrypted_password\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8,\s*\$9,\s*\$10,\s*\$11\)\s*$`

	mock.ExpectExec(q).
		WithArgs("c-1", int64(1), "Main card", "ALICE DOE", "09", "2030", false, "DEBIT", "s:i:n", "s:i:c", "s:i:p").
		WillReturnResult(sqlmock.NewResult(0, 1))

	card := &models.Card{
		ID:                "c-1",
		UserID:            1,
		Title:             "Main card",
		CardHolder:        "ALICE DOE",
		ExpiryMonth:       "09",
		ExpiryYear:        "2030",
		IsVirtual:         false,
		CardType:          "DEBIT",
		EncryptedNumber:   "s:i:n",
		EncryptedCVC:      "s:i:c",
		EncryptedPassword: "s:i:p",
	}
	if err := repo.Create(context.Background(), card); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}
