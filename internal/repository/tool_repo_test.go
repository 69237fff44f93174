package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aihub/toolhub-go/internal/models"
)

func newMockRepo(t *testing.T) (*GormToolRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormToolRepository(db), mock
}

func toolRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"slug", "name", "description", "input_types", "embedding", "sort_order", "enabled"}).
		AddRow("ip-lookup", "IP Lookup", "query ip info", `["ipv4","ipv6"]`, `[1,0]`, 1, true).
		AddRow("json-beautifier", "JSON Beautifier", "format json", `["json"]`, nil, 2, true)
}

func TestGormToolRepositoryListAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "tools" WHERE enabled = \$1 ORDER BY sort_order ASC, slug ASC`).
		WithArgs(true).
		WillReturnRows(toolRows())

	tools, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "ip-lookup", tools[0].Slug)
	assert.Equal(t, models.StringArray{"ipv4", "ipv6"}, tools[0].InputTypes)
	assert.True(t, tools[0].HasEmbedding())
	assert.False(t, tools[1].HasEmbedding())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormToolRepositoryGetBySlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "tools" WHERE slug = \$1`).
		WithArgs("ip-lookup", 1).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "enabled"}).
			AddRow("ip-lookup", "IP Lookup", true))

	tool, err := repo.GetBySlug(context.Background(), "ip-lookup")
	require.NoError(t, err)
	assert.Equal(t, "IP Lookup", tool.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormToolRepositoryGetBySlugNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "tools" WHERE slug = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}))

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormToolRepositorySearchByKeyword(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "tools" WHERE enabled = \$1 AND \(name ILIKE \$2 OR description ILIKE \$3\)`).
		WithArgs(true, "%json%", "%json%").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "enabled"}).
			AddRow("json-beautifier", "JSON Beautifier", true))

	tools, err := repo.SearchByKeyword(context.Background(), "json", 10)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "json-beautifier", tools[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormToolRepositoryUpdateEmbedding(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tools" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateEmbedding(context.Background(), "ip-lookup", []float32{0.1, 0.2}, "text-embedding-3-small")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormToolRepositoryUpdateEmbeddingRejectsEmpty(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.UpdateEmbedding(context.Background(), "ip-lookup", nil, "text-embedding-3-small")
	assert.Error(t, err)
}
