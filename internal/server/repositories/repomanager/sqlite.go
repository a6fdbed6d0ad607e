package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/migrations"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/cards"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/comments"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends repositories for the embedded single-file store.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
