package chapters

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chapterID = "5b0f3f4e-9b7a-4f4e-8d2a-1f6c2d3e4a5b"

var chapterCols = []string{"id", "title", "content", "language", "order", "images", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestList_OrdersByOrder(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(chapterCols).
		AddRow("c2", "Intro", "text", "english", 1, []byte(`[]`), now, now).
		AddRow("c1", "Herbs", "", "urdu", 2, []byte(`["http://img/1.png","http://img/2.png"]`), now, now)

	mock.ExpectQuery(`SELECT .* FROM chapters ORDER BY "order" ASC`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.Equal(t, models.LanguageUrdu, got[1].Language)
	assert.Equal(t, []string{"http://img/1.png", "http://img/2.png"}, got[1].Images)
	assert.Equal(t, []string{}, got[0].Images)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .* FROM chapters`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Regexp(t, `failed to select chapters: .*db down`, err.Error())
}

func TestList_BadImagesJSON(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()
	rows := sqlmock.NewRows(chapterCols).AddRow("c1", "t", "c", "english", 1, []byte(`{`), now, now)
	mock.ExpectQuery(`SELECT .* FROM chapters`).WillReturnRows(rows)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode images")
}

func TestList_RowsErr(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()
	rows := sqlmock.NewRows(chapterCols).
		AddRow("c1", "t", "c", "english", 1, []byte(`[]`), now, now).
		AddRow("c2", "t", "c", "english", 2, []byte(`[]`), now, now).
		RowError(1, errors.New("row-err"))
	mock.ExpectQuery(`SELECT .* FROM chapters`).WillReturnRows(rows)

	_, err := repo.List(context.Background())
	require.EqualError(t, err, "row-err")
}

func TestInsert_ReturnsStoredRow(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO chapters (id, title, content, language, "order", images)`)).
		WithArgs(sqlmock.AnyArg(), "Patience", "Be patient", "english", 3, `["http://img/a.png"]`).
		WillReturnRows(sqlmock.NewRows(chapterCols).
			AddRow(chapterID, "Patience", "Be patient", "english", 3, []byte(`["http://img/a.png"]`), now, now))

	got, err := repo.Insert(context.Background(), models.ChapterInput{
		Title: "Patience", Content: "Be patient", Language: models.LanguageEnglish, Order: 3,
		Images: []string{"http://img/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, chapterID, got.ID)
	assert.Equal(t, 3, got.Order)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_NilImagesStoredAsEmptyArray(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO chapters`).
		WithArgs(sqlmock.AnyArg(), "t", "c", "urdu", 1, `[]`).
		WillReturnRows(sqlmock.NewRows(chapterCols).AddRow(chapterID, "t", "c", "urdu", 1, []byte(`[]`), now, now))

	_, err := repo.Insert(context.Background(), models.ChapterInput{Title: "t", Content: "c", Language: models.LanguageUrdu, Order: 1})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO chapters`).WillReturnError(errors.New("boom"))

	_, err := repo.Insert(context.Background(), models.ChapterInput{Title: "t", Content: "c", Language: models.LanguageUrdu, Order: 1})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*boom`, err.Error())
}

func TestUpdate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE chapters\s+SET .* updated_at = now\(\)\s+WHERE id = \$1`).
		WithArgs(chapterID, "New", "c", "english", 4, `[]`).
		WillReturnRows(sqlmock.NewRows(chapterCols).AddRow(chapterID, "New", "c", "english", 4, []byte(`[]`), now, now))

	got, err := repo.Update(context.Background(), chapterID, models.ChapterInput{Title: "New", Content: "c", Language: models.LanguageEnglish, Order: 4})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`UPDATE chapters`).WillReturnRows(sqlmock.NewRows(chapterCols))

	_, err := repo.Update(context.Background(), chapterID, models.ChapterInput{Title: "t", Content: "c", Language: models.LanguageEnglish, Order: 1})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	_, err := repo.Update(context.Background(), "not-a-uuid", models.ChapterInput{})
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ReturnsImages(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM chapters WHERE id = $1 RETURNING images`)).
		WithArgs(chapterID).
		WillReturnRows(sqlmock.NewRows([]string{"images"}).AddRow([]byte(`["http://img/x.png"]`)))

	images, err := repo.Delete(context.Background(), chapterID)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://img/x.png"}, images)
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`DELETE FROM chapters`).WithArgs(chapterID).WillReturnRows(sqlmock.NewRows([]string{"images"}))

	images, err := repo.Delete(context.Background(), chapterID)
	require.NoError(t, err)
	assert.Empty(t, images)

	images, err = repo.Delete(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Empty(t, images)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`DELETE FROM chapters`).WillReturnError(errors.New("locked"))

	_, err := repo.Delete(context.Background(), chapterID)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*locked`, err.Error())
}
